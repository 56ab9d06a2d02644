package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// SignupsTotal counts successful signups.
	SignupsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "signups_total",
			Help: "Total number of successful signups",
		},
	)

	// LoginsTotal counts login attempts by result (success, failure).
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Total number of login attempts by result",
		},
		[]string{"result"},
	)

	// RecipesCreatedTotal counts recipes created through the API.
	RecipesCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "recipes_created_total",
			Help: "Total number of recipes created",
		},
	)

	// UsersTotal is the number of user rows in the store (refreshed periodically).
	UsersTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "users_total",
			Help: "Number of users in the store",
		},
	)

	// RecipesTotal is the number of recipe rows in the store (refreshed periodically).
	RecipesTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "recipes_total",
			Help: "Number of recipes in the store",
		},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestDuration, RequestTotal,
			SignupsTotal, LoginsTotal, RecipesCreatedTotal,
			UsersTotal, RecipesTotal,
		)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// IncSignups increments the signup counter (call after a user row is created).
func IncSignups() {
	SignupsTotal.Inc()
}

// IncLogins increments the login counter for the given result (success, failure).
func IncLogins(result string) {
	LoginsTotal.WithLabelValues(result).Inc()
}

// IncRecipesCreated increments the created-recipes counter.
func IncRecipesCreated() {
	RecipesCreatedTotal.Inc()
}

// SetUsersTotal sets the users gauge (called by the stats collector).
func SetUsersTotal(n int) {
	UsersTotal.Set(float64(n))
}

// SetRecipesTotal sets the recipes gauge (called by the stats collector).
func SetRecipesTotal(n int) {
	RecipesTotal.Set(float64(n))
}
