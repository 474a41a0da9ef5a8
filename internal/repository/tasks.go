package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"tasktrack/internal/models"
	"tasktrack/pkg/logger"
)

const taskColumns = `id, task, description, priority, status, is_completed, due_date, user_id, created_at, updated_at`

// TaskPatch carries the fields an update may touch. Nil means "leave as is".
// Owner and id are not representable here on purpose.
type TaskPatch struct {
	Task        *string
	Description *string
	Priority    *string
	DueDate     *time.Time
	Status      *string
	IsCompleted *bool
}

// Empty reports whether the patch touches nothing.
func (p TaskPatch) Empty() bool {
	return p.Task == nil && p.Description == nil && p.Priority == nil &&
		p.DueDate == nil && p.Status == nil && p.IsCompleted == nil
}

// TaskRepo is the PostgreSQL-backed task store. Every statement it issues is
// constrained by user_id; there is no unscoped read or write path.
type TaskRepo struct {
	db *sql.DB
}

// NewTaskRepo creates a TaskRepo over the given pool.
func NewTaskRepo(db *sql.DB) *TaskRepo {
	return &TaskRepo{db: db}
}

// Insert persists a new task row.
func (r *TaskRepo) Insert(ctx context.Context, t *models.Task) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO todos (`+taskColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.Task, t.Description, t.Priority, t.Status, t.IsCompleted,
		t.DueDate, t.UserID, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		logger.Error(ctx, "Repository Insert failed", "error", err)
		return err
	}
	return nil
}

// ListByOwner returns the owner's tasks newest-first. A status filter other
// than "all" restricts the result; id breaks created_at ties.
func (r *TaskRepo) ListByOwner(ctx context.Context, userID, filter string) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM todos WHERE user_id = $1`
	args := []interface{}{userID}
	if filter != "" && filter != models.FilterAll {
		query += ` AND status = $2`
		args = append(args, filter)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error(ctx, "Repository ListByOwner failed", "error", err)
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var t models.Task
		if err := scanTask(rows, &t); err != nil {
			logger.Error(ctx, "Repository scan task failed", "error", err)
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Get returns a single task owned by userID, or sql.ErrNoRows.
func (r *TaskRepo) Get(ctx context.Context, userID, id string) (*models.Task, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM todos WHERE id = $1 AND user_id = $2`, id, userID)
	var t models.Task
	if err := scanTask(row, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Update applies a partial patch to the owner's task in one statement and
// returns the updated row. sql.ErrNoRows means no such task under this owner.
func (r *TaskRepo) Update(ctx context.Context, userID, id string, patch TaskPatch, now time.Time) (*models.Task, error) {
	sets := []string{}
	args := []interface{}{}
	add := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Task != nil {
		add("task", *patch.Task)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Priority != nil {
		add("priority", *patch.Priority)
	}
	if patch.DueDate != nil {
		add("due_date", *patch.DueDate)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.IsCompleted != nil {
		add("is_completed", *patch.IsCompleted)
	}
	add("updated_at", now)

	args = append(args, id, userID)
	query := fmt.Sprintf(
		`UPDATE todos SET %s WHERE id = $%d AND user_id = $%d RETURNING `+taskColumns,
		strings.Join(sets, ", "), len(args)-1, len(args))

	var t models.Task
	if err := scanTask(r.db.QueryRowContext(ctx, query, args...), &t); err != nil {
		if err != sql.ErrNoRows {
			logger.Error(ctx, "Repository Update failed", "error", err, "id", id)
		}
		return nil, err
	}
	return &t, nil
}

// Toggle flips is_completed atomically, deriving status from the new value,
// and returns the updated row. sql.ErrNoRows means no such task under this owner.
func (r *TaskRepo) Toggle(ctx context.Context, userID, id string, now time.Time) (*models.Task, error) {
	// CASE reads the pre-update is_completed, so "was pending" maps to completed.
	row := r.db.QueryRowContext(ctx,
		`UPDATE todos SET
			is_completed = NOT is_completed,
			status = CASE WHEN is_completed THEN 'pending' ELSE 'completed' END,
			updated_at = $1
		 WHERE id = $2 AND user_id = $3 RETURNING `+taskColumns,
		now, id, userID)
	var t models.Task
	if err := scanTask(row, &t); err != nil {
		if err != sql.ErrNoRows {
			logger.Error(ctx, "Repository Toggle failed", "error", err, "id", id)
		}
		return nil, err
	}
	return &t, nil
}

// Delete removes the owner's task. sql.ErrNoRows means no such task under
// this owner.
func (r *TaskRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM todos WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		logger.Error(ctx, "Repository Delete failed", "error", err, "id", id)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(s scanner, t *models.Task) error {
	return s.Scan(&t.ID, &t.Task, &t.Description, &t.Priority, &t.Status,
		&t.IsCompleted, &t.DueDate, &t.UserID, &t.CreatedAt, &t.UpdatedAt)
}
