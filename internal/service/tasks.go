// Package service implements the task lifecycle: the valid states and field
// set of a task and the transitions a caller may apply. Every operation takes
// the resolved caller identity and constrains the store by it, so a task is
// only ever visible to its owner.
package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"tasktrack/internal/models"
	"tasktrack/internal/repository"
	"tasktrack/internal/taskerr"
)

// TaskStore is the persistence contract the lifecycle runs against. Stores
// report a missing or foreign-owned row as sql.ErrNoRows; the service folds
// that into taskerr.ErrNotFoundOrForbidden so existence never leaks.
type TaskStore interface {
	Insert(ctx context.Context, t *models.Task) error
	ListByOwner(ctx context.Context, userID, filter string) ([]models.Task, error)
	Update(ctx context.Context, userID, id string, patch repository.TaskPatch, now time.Time) (*models.Task, error)
	Toggle(ctx context.Context, userID, id string, now time.Time) (*models.Task, error)
	Delete(ctx context.Context, userID, id string) error
}

// Notifier is told about committed mutations. Implementations must not fail
// the operation; publishing is fire and forget.
type Notifier interface {
	TaskChanged(ctx context.Context, action, taskID, userID string)
}

// Tasks applies lifecycle transitions on behalf of an authenticated owner.
type Tasks struct {
	store    TaskStore
	notifier Notifier
	now      func() time.Time
}

// NewTasks creates the lifecycle service. notifier may be nil.
func NewTasks(store TaskStore, notifier Notifier) *Tasks {
	return &Tasks{store: store, notifier: notifier, now: time.Now}
}

// CreateInput carries the caller-supplied fields for a new task.
type CreateInput struct {
	Task        string
	Description string
	Priority    string
	DueDate     *time.Time
}

// Create makes a new pending task owned by owner.
func (s *Tasks) Create(ctx context.Context, owner string, in CreateInput) (*models.Task, error) {
	if owner == "" {
		return nil, taskerr.ErrUnauthorized
	}
	label := strings.TrimSpace(in.Task)
	if label == "" {
		return nil, taskerr.Validation("Task is required")
	}
	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidPriority(priority) {
		return nil, taskerr.Validation("Invalid priority")
	}

	now := s.now()
	t := &models.Task{
		ID:          uuid.New().String(),
		Task:        label,
		Description: trimmedOrNil(in.Description),
		Priority:    priority,
		Status:      models.StatusPending,
		IsCompleted: false,
		DueDate:     in.DueDate,
		UserID:      owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Insert(ctx, t); err != nil {
		return nil, taskerr.Store(err)
	}
	s.notify(ctx, models.ActionCreated, t.ID, owner)
	return t, nil
}

// List returns the owner's tasks newest-first, optionally restricted to one
// status. filter defaults to "all" when empty.
func (s *Tasks) List(ctx context.Context, owner, filter string) ([]models.Task, error) {
	if owner == "" {
		return nil, taskerr.ErrUnauthorized
	}
	if filter == "" {
		filter = models.FilterAll
	}
	if !models.ValidFilter(filter) {
		return nil, taskerr.Validation("Invalid filter")
	}
	tasks, err := s.store.ListByOwner(ctx, owner, filter)
	if err != nil {
		return nil, taskerr.Store(err)
	}
	return tasks, nil
}

// UpdateInput carries the updatable fields of a task. Nil means "leave
// unchanged". Owner and id are deliberately absent: they are immutable.
type UpdateInput struct {
	Task        *string
	Description *string
	Priority    *string
	DueDate     *time.Time
	Status      *string
	IsCompleted *bool
}

// UpdateFields applies a partial update to the owner's task. Status and
// is_completed are reconciled so the two can never disagree: an explicit
// status wins, otherwise a completion flag derives the status.
func (s *Tasks) UpdateFields(ctx context.Context, owner, id string, in UpdateInput) (*models.Task, error) {
	if owner == "" {
		return nil, taskerr.ErrUnauthorized
	}
	patch := repository.TaskPatch{
		Description: in.Description,
		DueDate:     in.DueDate,
	}
	if in.Task != nil {
		label := strings.TrimSpace(*in.Task)
		if label == "" {
			return nil, taskerr.Validation("Task is required")
		}
		patch.Task = &label
	}
	if in.Priority != nil {
		if !models.ValidPriority(*in.Priority) {
			return nil, taskerr.Validation("Invalid priority")
		}
		patch.Priority = in.Priority
	}
	switch {
	case in.Status != nil:
		if !models.ValidStatus(*in.Status) {
			return nil, taskerr.Validation("Invalid status")
		}
		completed := models.CompletedFor(*in.Status)
		patch.Status = in.Status
		patch.IsCompleted = &completed
	case in.IsCompleted != nil:
		status := models.StatusPending
		if *in.IsCompleted {
			status = models.StatusCompleted
		}
		patch.Status = &status
		patch.IsCompleted = in.IsCompleted
	}
	if patch.Empty() {
		return nil, taskerr.Validation("No updatable fields")
	}

	t, err := s.store.Update(ctx, owner, id, patch, s.now())
	if err != nil {
		return nil, storeOrMissing(err)
	}
	s.notify(ctx, models.ActionUpdated, id, owner)
	return t, nil
}

// SetStatus moves the owner's task to newStatus, deriving is_completed.
func (s *Tasks) SetStatus(ctx context.Context, owner, id, newStatus string) (*models.Task, error) {
	if owner == "" {
		return nil, taskerr.ErrUnauthorized
	}
	if !models.ValidStatus(newStatus) {
		return nil, taskerr.Validation("Invalid status")
	}
	return s.UpdateFields(ctx, owner, id, UpdateInput{Status: &newStatus})
}

// ToggleCompletion flips the owner's task between completed and pending.
func (s *Tasks) ToggleCompletion(ctx context.Context, owner, id string) (*models.Task, error) {
	if owner == "" {
		return nil, taskerr.ErrUnauthorized
	}
	t, err := s.store.Toggle(ctx, owner, id, s.now())
	if err != nil {
		return nil, storeOrMissing(err)
	}
	s.notify(ctx, models.ActionUpdated, id, owner)
	return t, nil
}

// Delete permanently removes the owner's task. There is no soft delete.
func (s *Tasks) Delete(ctx context.Context, owner, id string) error {
	if owner == "" {
		return taskerr.ErrUnauthorized
	}
	if err := s.store.Delete(ctx, owner, id); err != nil {
		return storeOrMissing(err)
	}
	s.notify(ctx, models.ActionDeleted, id, owner)
	return nil
}

func (s *Tasks) notify(ctx context.Context, action, taskID, userID string) {
	if s.notifier != nil {
		s.notifier.TaskChanged(ctx, action, taskID, userID)
	}
}

func storeOrMissing(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return taskerr.ErrNotFoundOrForbidden
	}
	return taskerr.Store(err)
}

func trimmedOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
