package repo

import (
	"context"
	"database/sql"

	"github.com/mpratt21/recipebox/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// ==========================
// Create User (password stored as bcrypt hash)
// ==========================
func (r *UserRepo) Create(ctx context.Context, username, password string, bio, imageURL *string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO users (username, password_hash, bio, image_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, username, bio, image_url
	`

	user := &models.User{}

	err = r.DB.QueryRowContext(ctx, query, username, string(hash), bio, imageURL).
		Scan(&user.ID, &user.Username, &user.Bio, &user.ImageURL)

	if err != nil {
		return nil, err
	}

	return user, nil
}

// ==========================
// Get By ID
// ==========================
func (r *UserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `
		SELECT id, username, bio, image_url
		FROM users
		WHERE id = $1
	`

	user := &models.User{}

	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&user.ID, &user.Username, &user.Bio, &user.ImageURL)

	if err != nil {
		return nil, err
	}

	return user, nil
}

// ==========================
// Get By Username (includes password hash, for login)
// ==========================
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, username, password_hash, bio, image_url
		FROM users
		WHERE username = $1
	`

	user := &models.User{}

	err := r.DB.QueryRowContext(ctx, query, username).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Bio, &user.ImageURL)

	if err != nil {
		return nil, err
	}

	return user, nil
}

// ==========================
// Count Users
// ==========================
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
