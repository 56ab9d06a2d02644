package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/mpratt21/recipebox/internal/metrics"
	"github.com/mpratt21/recipebox/internal/middleware"
	"github.com/mpratt21/recipebox/internal/models"
	"github.com/mpratt21/recipebox/internal/repo"
)

var validate = validator.New()

type RecipeHandler struct {
	Repo     *repo.RecipeRepo
	UserRepo *repo.UserRepo
}

//
// ==========================
// List Recipes (only the session user's own)
// ==========================
//

func (h *RecipeHandler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, ErrMessageUnauthorized, http.StatusUnauthorized)
		return
	}

	recipes, err := h.Repo.ListByUser(r.Context(), userID)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(recipes)
}

//
// ==========================
// Create Recipe (owner always the session user)
// ==========================
//

func (h *RecipeHandler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, ErrMessageUnauthorized, http.StatusUnauthorized)
		return
	}

	var input struct {
		Title             string `json:"title" validate:"required"`
		Instructions      string `json:"instructions" validate:"required"`
		MinutesToComplete *int   `json:"minutes_to_complete"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid json", http.StatusBadRequest)
		return
	}

	if err := validate.Struct(input); err != nil {
		JSONError(w, "Title and instructions are required", http.StatusUnprocessableEntity)
		return
	}

	recipe, err := h.Repo.Create(r.Context(), userID, input.Title, input.Instructions, input.MinutesToComplete)
	if err != nil {
		// Store-level failures (constraint violations and the like) surface
		// their description at 422.
		JSONError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	owner, err := h.UserRepo.GetByID(r.Context(), userID)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	recipe.User = *owner

	metrics.IncRecipesCreated()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(recipe)
}
