package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/lib/pq"
	"github.com/mpratt21/recipebox/internal/metrics"
	"github.com/mpratt21/recipebox/internal/repo"
	"github.com/mpratt21/recipebox/internal/session"
	"golang.org/x/crypto/bcrypt"
)

// pqUniqueViolation is the Postgres error code for unique constraint violations.
const pqUniqueViolation = "23505"

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	UserRepo *repo.UserRepo
	Sessions *session.Manager
}

// ==========================
// Signup (creates the user and establishes a session)
// ==========================
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string  `json:"username"`
		Password string  `json:"password"`
		Bio      *string `json:"bio"`
		ImageURL *string `json:"image_url"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid json", http.StatusBadRequest)
		return
	}

	if input.Username == "" {
		JSONError(w, "Username is required", http.StatusUnprocessableEntity)
		return
	}

	user, err := h.UserRepo.Create(r.Context(), input.Username, input.Password, input.Bio, input.ImageURL)
	if err != nil {
		if e, ok := err.(*pq.Error); ok && e.Code == pqUniqueViolation {
			JSONError(w, "Username already exists", http.StatusUnprocessableEntity)
			return
		}
		log.Printf("Signup: create user failed: %v", err)
		JSONError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if err := h.Sessions.Issue(w, user.ID); err != nil {
		log.Printf("Signup: issue session failed: %v", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	metrics.IncSignups()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

// ==========================
// Login (one generic failure message; never reveals which check failed)
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid json", http.StatusBadRequest)
		return
	}

	user, err := h.UserRepo.GetByUsername(r.Context(), input.Username)
	if err != nil {
		metrics.IncLogins("failure")
		JSONError(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		metrics.IncLogins("failure")
		JSONError(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	if err := h.Sessions.Issue(w, user.ID); err != nil {
		log.Printf("Login: issue session failed: %v", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	metrics.IncLogins("success")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// ==========================
// CheckSession (resolves the cookie itself: a session pointing at a
// deleted user must come back 401, not 500)
// ==========================
func (h *AuthHandler) CheckSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.Sessions.UserID(r)
	if !ok {
		JSONError(w, ErrMessageUnauthorized, http.StatusUnauthorized)
		return
	}

	user, err := h.UserRepo.GetByID(r.Context(), userID)
	if err != nil {
		JSONError(w, ErrMessageUnauthorized, http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// ==========================
// Logout (runs behind RequireSession; without a session it is never reached)
// ==========================
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}
