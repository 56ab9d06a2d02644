package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mpratt21/recipebox/internal/middleware"
	"github.com/mpratt21/recipebox/internal/repo"
)

// requestAsUser returns a request carrying userID in context, the way
// RequireSession would hand it to the handler.
func requestAsUser(method, path string, body []byte, userID int) *http.Request {
	var r *http.Request
	if body != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r.WithContext(context.WithValue(r.Context(), middleware.UserIDKey, userID))
}

func TestRecipeHandler_ListRecipes(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT r.id, r.title, r.instructions, r.minutes_to_complete`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "instructions", "minutes_to_complete",
			"id", "username", "bio", "image_url",
		}).
			AddRow(1, "Pasta", "Boil water, add pasta", nil, 1, "alice", nil, nil).
			AddRow(2, "Toast", "Toast the bread", 5, 1, "alice", nil, nil))

	h := &RecipeHandler{Repo: repo.NewRecipeRepo(db), UserRepo: repo.NewUserRepo(db)}

	req := requestAsUser("GET", "/recipes", nil, 1)
	rr := httptest.NewRecorder()
	h.ListRecipes(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("ListRecipes status: got %d, want 200", rr.Code)
	}
	var list []struct {
		ID                int    `json:"id"`
		Title             string `json:"title"`
		MinutesToComplete *int   `json:"minutes_to_complete"`
		User              struct {
			ID       int    `json:"id"`
			Username string `json:"username"`
		} `json:"user"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&list); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(list) != 2 || list[0].Title != "Pasta" || list[1].Title != "Toast" {
		t.Errorf("unexpected list: %+v", list)
	}
	if list[0].MinutesToComplete != nil {
		t.Errorf("minutes_to_complete: got %v, want null", *list[0].MinutesToComplete)
	}
	if list[1].MinutesToComplete == nil || *list[1].MinutesToComplete != 5 {
		t.Errorf("minutes_to_complete: got %v, want 5", list[1].MinutesToComplete)
	}
	if list[0].User.ID != 1 || list[0].User.Username != "alice" {
		t.Errorf("unexpected owner: %+v", list[0].User)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRecipeHandler_ListRecipes_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT r.id, r.title, r.instructions, r.minutes_to_complete`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "instructions", "minutes_to_complete",
			"id", "username", "bio", "image_url",
		}))

	h := &RecipeHandler{Repo: repo.NewRecipeRepo(db), UserRepo: repo.NewUserRepo(db)}

	req := requestAsUser("GET", "/recipes", nil, 7)
	rr := httptest.NewRecorder()
	h.ListRecipes(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("ListRecipes status: got %d, want 200", rr.Code)
	}
	if body := strings.TrimSpace(rr.Body.String()); body != "[]" {
		t.Errorf("empty list body: got %q, want []", body)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRecipeHandler_ListRecipes_NoSession(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := &RecipeHandler{Repo: repo.NewRecipeRepo(db), UserRepo: repo.NewUserRepo(db)}

	req := httptest.NewRequest("GET", "/recipes", nil)
	rr := httptest.NewRecorder()
	h.ListRecipes(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("ListRecipes status: got %d, want 401", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRecipeHandler_CreateRecipe(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO recipes \(title, instructions, minutes_to_complete, user_id\)`).
		WithArgs("Pasta", "Boil water, add pasta", nil, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "instructions", "minutes_to_complete"}).
			AddRow(10, "Pasta", "Boil water, add pasta", nil))

	mock.ExpectQuery(`SELECT id, username, bio, image_url`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "bio", "image_url"}).
			AddRow(1, "alice", nil, nil))

	h := &RecipeHandler{Repo: repo.NewRecipeRepo(db), UserRepo: repo.NewUserRepo(db)}

	body, _ := json.Marshal(map[string]string{
		"title":        "Pasta",
		"instructions": "Boil water, add pasta",
	})
	req := requestAsUser("POST", "/recipes", body, 1)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.CreateRecipe(rr, req)

	if rr.Code != http.StatusCreated {
		t.Errorf("CreateRecipe status: got %d, want 201", rr.Code)
	}
	var recipe struct {
		ID                int    `json:"id"`
		Title             string `json:"title"`
		MinutesToComplete *int   `json:"minutes_to_complete"`
		User              struct {
			ID       int    `json:"id"`
			Username string `json:"username"`
		} `json:"user"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&recipe); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if recipe.ID != 10 || recipe.Title != "Pasta" {
		t.Errorf("unexpected recipe: %+v", recipe)
	}
	if recipe.MinutesToComplete != nil {
		t.Errorf("minutes_to_complete: got %v, want null", *recipe.MinutesToComplete)
	}
	if recipe.User.ID != 1 || recipe.User.Username != "alice" {
		t.Errorf("unexpected owner: %+v", recipe.User)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRecipeHandler_CreateRecipe_MissingFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := &RecipeHandler{Repo: repo.NewRecipeRepo(db), UserRepo: repo.NewUserRepo(db)}

	for _, payload := range []map[string]string{
		{"instructions": "Boil water"},
		{"title": "Pasta"},
		{"title": "", "instructions": ""},
	} {
		body, _ := json.Marshal(payload)
		req := requestAsUser("POST", "/recipes", body, 1)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		h.CreateRecipe(rr, req)

		if rr.Code != http.StatusUnprocessableEntity {
			t.Errorf("CreateRecipe(%v) status: got %d, want 422", payload, rr.Code)
		}
		var out map[string]string
		if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if out["error"] != "Title and instructions are required" {
			t.Errorf("CreateRecipe(%v) error: got %q", payload, out["error"])
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRecipeHandler_CreateRecipe_NoSession(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := &RecipeHandler{Repo: repo.NewRecipeRepo(db), UserRepo: repo.NewUserRepo(db)}

	body, _ := json.Marshal(map[string]string{"title": "Pasta", "instructions": "Boil water"})
	req := httptest.NewRequest("POST", "/recipes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.CreateRecipe(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("CreateRecipe status: got %d, want 401", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRecipeHandler_CreateRecipe_StoreError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO recipes \(title, instructions, minutes_to_complete, user_id\)`).
		WithArgs("Pasta", "Boil water", nil, 1).
		WillReturnError(errors.New("value too long for type character varying"))

	h := &RecipeHandler{Repo: repo.NewRecipeRepo(db), UserRepo: repo.NewUserRepo(db)}

	body, _ := json.Marshal(map[string]string{"title": "Pasta", "instructions": "Boil water"})
	req := requestAsUser("POST", "/recipes", body, 1)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.CreateRecipe(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("CreateRecipe status: got %d, want 422", rr.Code)
	}
	var out map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(out["error"], "value too long") {
		t.Errorf("store error description missing: %q", out["error"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
