package models

type User struct {
	ID           int     `json:"id"`
	Username     string  `json:"username"`
	PasswordHash string  `json:"-"`
	Bio          *string `json:"bio"`
	ImageURL     *string `json:"image_url"`
}
