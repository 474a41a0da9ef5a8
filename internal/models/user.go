package models

import "time"

// User is an account that owns tasks. PasswordHash is a bcrypt digest and
// never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
