package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktrack/internal/models"
)

func TestTaskPatchEmpty(t *testing.T) {
	assert.True(t, TaskPatch{}.Empty())

	label := "x"
	assert.False(t, TaskPatch{Task: &label}.Empty())

	done := true
	assert.False(t, TaskPatch{IsCompleted: &done}.Empty())
}

func TestMemListTieBreakByInsertionOrder(t *testing.T) {
	repo := NewMemTaskRepo()
	ctx := context.Background()
	same := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Insert(ctx, &models.Task{
			ID:        id,
			Task:      id,
			Status:    models.StatusPending,
			UserID:    "u1",
			CreatedAt: same,
			UpdatedAt: same,
		}))
	}

	got, err := repo.ListByOwner(ctx, "u1", models.FilterAll)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
	assert.Equal(t, "a", got[2].ID)
}

func TestMemStoreSignalsMissingRows(t *testing.T) {
	repo := NewMemTaskRepo()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Insert(ctx, &models.Task{
		ID: "t1", Task: "x", Status: models.StatusPending, UserID: "owner",
		CreatedAt: now, UpdatedAt: now,
	}))

	_, err := repo.Get(ctx, "intruder", "t1")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	_, err = repo.Toggle(ctx, "intruder", "t1", now)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	assert.ErrorIs(t, repo.Delete(ctx, "intruder", "t1"), sql.ErrNoRows)
	assert.Equal(t, 1, repo.Len())
}
