package domain

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// User is owned by the account collaborator; the wallpaper service only
// checks that a session subject still exists.
type User struct {
	ID    string `json:"id" db:"id"`
	Email string `json:"email" db:"email"`
}
