package models

import "time"

// Task lifecycle event actions.
const (
	ActionCreated = "task.created"
	ActionUpdated = "task.updated"
	ActionDeleted = "task.deleted"
)

// TaskEvent is published to Kafka after a mutation has committed. Consumers
// use it to invalidate per-owner caches; it is never the source of truth.
type TaskEvent struct {
	Action     string    `json:"action"`
	TaskID     string    `json:"task_id"`
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
