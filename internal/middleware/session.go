package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mpratt21/recipebox/internal/session"
)

type key string

const UserIDKey key = "user_id"

// GetUserID returns the authenticated user id placed in ctx by RequireSession.
func GetUserID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(UserIDKey).(int)
	return id, ok
}

// RequireSession resolves the session cookie and puts the user id in the request
// context. Requests without a valid session get 401 {"error": "Unauthorized"}.
func RequireSession(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := sessions.UserID(r)
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
