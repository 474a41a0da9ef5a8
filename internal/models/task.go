package models

import "time"

// Priority levels for a task.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task statuses. Completed is reachable from any status and reversible.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// List filters. FilterAll is a no-op; the rest match a single status.
const (
	FilterAll        = "all"
	FilterPending    = StatusPending
	FilterInProgress = StatusInProgress
	FilterCompleted  = StatusCompleted
)

// Task is a single to-do record owned by exactly one user.
// IsCompleted is persisted for the store's benefit but derived from Status
// on every write; Status is authoritative.
type Task struct {
	ID          string     `json:"id"`
	Task        string     `json:"task"`
	Description *string    `json:"description"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	IsCompleted bool       `json:"is_completed"`
	DueDate     *time.Time `json:"due_date"`
	UserID      string     `json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ValidPriority reports whether p is one of the known priority levels.
func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// ValidStatus reports whether s is one of the known task statuses.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted
}

// ValidFilter reports whether f is a known list filter.
func ValidFilter(f string) bool {
	return f == FilterAll || ValidStatus(f)
}

// CompletedFor derives the is_completed flag for a status.
func CompletedFor(status string) bool {
	return status == StatusCompleted
}
