package repository

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"tasktrack/internal/models"
)

// MemTaskRepo is an in-memory task store with the same contract as TaskRepo,
// including the sql.ErrNoRows signal for missing or foreign-owned rows. Used
// in tests and local development without Postgres.
type MemTaskRepo struct {
	mu    sync.RWMutex
	tasks map[string]*models.Task
	order map[string]int // insertion sequence, breaks created_at ties
	seq   int
}

// NewMemTaskRepo creates an empty in-memory task store.
func NewMemTaskRepo() *MemTaskRepo {
	return &MemTaskRepo{
		tasks: make(map[string]*models.Task),
		order: make(map[string]int),
	}
}

// Insert stores a copy of the task.
func (r *MemTaskRepo) Insert(ctx context.Context, t *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	r.seq++
	r.tasks[t.ID] = &cp
	r.order[t.ID] = r.seq
	return nil
}

// ListByOwner returns the owner's tasks newest-first.
func (r *MemTaskRepo) ListByOwner(ctx context.Context, userID, filter string) ([]models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Task{}
	for _, t := range r.tasks {
		if t.UserID != userID {
			continue
		}
		if filter != "" && filter != models.FilterAll && t.Status != filter {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return r.order[out[i].ID] > r.order[out[j].ID]
	})
	return out, nil
}

// Get returns a copy of the owner's task, or sql.ErrNoRows.
func (r *MemTaskRepo) Get(ctx context.Context, userID, id string) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return nil, sql.ErrNoRows
	}
	cp := *t
	return &cp, nil
}

// Update applies a partial patch to the owner's task.
func (r *MemTaskRepo) Update(ctx context.Context, userID, id string, patch TaskPatch, now time.Time) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return nil, sql.ErrNoRows
	}
	if patch.Task != nil {
		t.Task = *patch.Task
	}
	if patch.Description != nil {
		t.Description = patch.Description
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		t.DueDate = patch.DueDate
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.IsCompleted != nil {
		t.IsCompleted = *patch.IsCompleted
	}
	t.UpdatedAt = now
	cp := *t
	return &cp, nil
}

// Toggle flips is_completed and derives status.
func (r *MemTaskRepo) Toggle(ctx context.Context, userID, id string, now time.Time) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return nil, sql.ErrNoRows
	}
	t.IsCompleted = !t.IsCompleted
	if t.IsCompleted {
		t.Status = models.StatusCompleted
	} else {
		t.Status = models.StatusPending
	}
	t.UpdatedAt = now
	cp := *t
	return &cp, nil
}

// Delete removes the owner's task, or reports sql.ErrNoRows.
func (r *MemTaskRepo) Delete(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return sql.ErrNoRows
	}
	delete(r.tasks, id)
	delete(r.order, id)
	return nil
}

// Len reports how many rows are stored, across all owners.
func (r *MemTaskRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tasks)
}

// MemUserRepo is an in-memory user store with the same contract as UserRepo.
type MemUserRepo struct {
	mu    sync.RWMutex
	users map[string]*models.User // keyed by email
}

// NewMemUserRepo creates an empty in-memory user store.
func NewMemUserRepo() *MemUserRepo {
	return &MemUserRepo{users: make(map[string]*models.User)}
}

// Insert stores a copy of the user.
func (r *MemUserRepo) Insert(ctx context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.Email] = &cp
	return nil
}

// FindByEmail returns the user with the given email, or sql.ErrNoRows.
func (r *MemUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

// EmailExists reports whether a user with the given email exists.
func (r *MemUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.users[email]
	return ok, nil
}
