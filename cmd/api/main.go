package main

import (
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mpratt21/recipebox/internal/config"
	"github.com/mpratt21/recipebox/internal/db"
	"github.com/mpratt21/recipebox/internal/handlers"
	"github.com/mpratt21/recipebox/internal/middleware"
	"github.com/mpratt21/recipebox/internal/repo"
	"github.com/mpratt21/recipebox/internal/session"
	"github.com/mpratt21/recipebox/internal/stats"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg.LogFormat)

	if cfg.Env == "prod" && cfg.SessionSecret == "supersecretkey" {
		log.Fatal("SESSION_SECRET must be set when ENV=prod")
	}

	database, err := db.Connect(
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBUser,
		cfg.DBPass,
	)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	database.SetMaxOpenConns(cfg.DBMaxOpenConns)
	database.SetMaxIdleConns(cfg.DBMaxIdleConns)

	slog.Info("connected to database", "host", cfg.DBHost, "name", cfg.DBName)

	databaseURL := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName,
	)
	if err := db.Run(databaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	r := newRouter(database, cfg)

	// Background gauge refresh from the store
	stats.Run(repo.NewUserRepo(database), repo.NewRecipeRepo(database))

	addr := ":" + cfg.Port
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		slog.Info("starting server with TLS", "addr", addr)
		err = http.ListenAndServeTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile, r)
	} else {
		slog.Info("starting server", "addr", addr)
		err = http.ListenAndServe(addr, r)
	}
	if err != nil {
		log.Fatal(err)
	}
}

// newRouter builds the full handler chain. Split from main so tests can mount
// it on an httptest server with a mock DB.
func newRouter(database *sql.DB, cfg config.Config) chi.Router {
	userRepo := repo.NewUserRepo(database)
	recipeRepo := repo.NewRecipeRepo(database)

	sessions := session.NewManager(
		[]byte(cfg.SessionSecret),
		cfg.SessionCookie,
		time.Duration(cfg.SessionExpireHours)*time.Hour,
	)

	auth := &handlers.AuthHandler{UserRepo: userRepo, Sessions: sessions}
	recipes := &handlers.RecipeHandler{Repo: recipeRepo, UserRepo: userRepo}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	r.Handle("/metrics", promhttp.Handler())

	// Credential endpoints get a per-IP rate limit
	authLimiter := middleware.AuthRateLimiter()
	r.Group(func(r chi.Router) {
		r.Use(authLimiter.Middleware)
		r.Post("/signup", auth.Signup)
		r.Post("/login", auth.Login)
	})

	// CheckSession resolves the cookie itself so a stale session can map to 401
	r.Get("/check_session", auth.CheckSession)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(sessions))
		r.Delete("/logout", auth.Logout)
		r.Get("/recipes", recipes.ListRecipes)
		r.Post("/recipes", recipes.CreateRecipe)
	})

	return r
}

func setupLogger(format string) {
	if format == "json" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
		return
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))
}
