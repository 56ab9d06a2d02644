package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mpratt21/recipebox/internal/session"
)

func TestRequireSession_NoCookie(t *testing.T) {
	sessions := session.NewManager([]byte("test-secret"), "recipebox_session", time.Hour)

	called := false
	h := RequireSession(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest("GET", "/recipes", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if called {
		t.Error("handler ran without a session")
	}
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rr.Code)
	}
	var out map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["error"] != "Unauthorized" {
		t.Errorf("unexpected error: %q", out["error"])
	}
}

func TestRequireSession_ValidCookie(t *testing.T) {
	sessions := session.NewManager([]byte("test-secret"), "recipebox_session", time.Hour)

	var gotID int
	h := RequireSession(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetUserID(r.Context())
		if !ok {
			t.Error("user id missing from context")
		}
		gotID = id
	}))

	tok, err := sessions.Token(42)
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	req := httptest.NewRequest("GET", "/recipes", nil)
	req.AddCookie(&http.Cookie{Name: "recipebox_session", Value: tok})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rr.Code)
	}
	if gotID != 42 {
		t.Errorf("user id: got %d, want 42", gotID)
	}
}

func TestRequireSession_GarbageToken(t *testing.T) {
	sessions := session.NewManager([]byte("test-secret"), "recipebox_session", time.Hour)

	h := RequireSession(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler ran with a garbage token")
	}))

	req := httptest.NewRequest("GET", "/recipes", nil)
	req.AddCookie(&http.Cookie{Name: "recipebox_session", Value: "not-a-token"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rr.Code)
	}
}
