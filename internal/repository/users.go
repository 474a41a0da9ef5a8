package repository

import (
	"context"
	"database/sql"

	"tasktrack/internal/models"
	"tasktrack/pkg/logger"
)

// UserRepo is the PostgreSQL-backed user store.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a UserRepo over the given pool.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Insert persists a new user row.
func (r *UserRepo) Insert(ctx context.Context, u *models.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)`,
		u.ID, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		logger.Error(ctx, "Repository user Insert failed", "error", err)
		return err
	}
	return nil
}

// FindByEmail returns the user with the given email, or sql.ErrNoRows.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE email = $1`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// EmailExists reports whether a user with the given email already exists.
func (r *UserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}
