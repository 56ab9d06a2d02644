package repo

import (
	"context"
	"database/sql"

	"github.com/mpratt21/recipebox/internal/models"
)

// ==========================
// RecipeRepo
// ==========================
type RecipeRepo struct {
	DB *sql.DB
}

func NewRecipeRepo(db *sql.DB) *RecipeRepo {
	return &RecipeRepo{DB: db}
}

// ==========================
// Create Recipe (owner comes from the session, never the payload)
// ==========================
func (r *RecipeRepo) Create(ctx context.Context, userID int, title, instructions string, minutes *int) (*models.Recipe, error) {
	query := `
		INSERT INTO recipes (title, instructions, minutes_to_complete, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, instructions, minutes_to_complete
	`

	recipe := &models.Recipe{}

	err := r.DB.QueryRowContext(ctx, query, title, instructions, minutes, userID).
		Scan(&recipe.ID, &recipe.Title, &recipe.Instructions, &recipe.MinutesToComplete)

	if err != nil {
		return nil, err
	}

	return recipe, nil
}

// ==========================
// List By User (owner joined in so each row carries its user)
// ==========================
func (r *RecipeRepo) ListByUser(ctx context.Context, userID int) ([]models.Recipe, error) {
	query := `
		SELECT r.id, r.title, r.instructions, r.minutes_to_complete,
		       u.id, u.username, u.bio, u.image_url
		FROM recipes r
		JOIN users u ON u.id = r.user_id
		WHERE r.user_id = $1
		ORDER BY r.id
	`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []models.Recipe
	for rows.Next() {
		var rec models.Recipe
		if err := rows.Scan(
			&rec.ID, &rec.Title, &rec.Instructions, &rec.MinutesToComplete,
			&rec.User.ID, &rec.User.Username, &rec.User.Bio, &rec.User.ImageURL,
		); err != nil {
			return nil, err
		}
		recipes = append(recipes, rec)
	}

	return recipes, rows.Err()
}

// ==========================
// Count Recipes
// ==========================
func (r *RecipeRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes`).Scan(&n)
	return n, err
}
