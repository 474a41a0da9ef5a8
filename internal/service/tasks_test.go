package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktrack/internal/models"
	"tasktrack/internal/repository"
	"tasktrack/internal/taskerr"
)

// fakeClock hands out strictly increasing timestamps so updated_at always
// moves forward between operations.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTestService(t *testing.T) (*Tasks, *repository.MemTaskRepo) {
	t.Helper()
	store := repository.NewMemTaskRepo()
	svc := NewTasks(store, nil)
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	svc.now = clock.Now
	return svc, store
}

func TestCreateDefaults(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, "u1", CreateInput{Task: "  Buy milk  "})
	require.NoError(t, err)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Buy milk", task.Task)
	assert.Nil(t, task.Description)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Equal(t, models.StatusPending, task.Status)
	assert.False(t, task.IsCompleted)
	assert.Equal(t, "u1", task.UserID)
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)
}

func TestCreateValidation(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreateInput
	}{
		{name: "empty task", in: CreateInput{Task: ""}},
		{name: "whitespace only task", in: CreateInput{Task: "   "}},
		{name: "bad priority", in: CreateInput{Task: "x", Priority: "urgent"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "u1", tt.in)
			assert.ErrorIs(t, err, taskerr.ErrValidation)
		})
	}
	// nothing persisted on validation failure
	assert.Equal(t, 0, store.Len())
}

func TestCreateRequiresIdentity(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create(context.Background(), "", CreateInput{Task: "x"})
	assert.ErrorIs(t, err, taskerr.ErrUnauthorized)
}

func TestListOrderingAndFilter(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, "u1", CreateInput{Task: "first"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, "u1", CreateInput{Task: "second"})
	require.NoError(t, err)
	third, err := svc.Create(ctx, "u1", CreateInput{Task: "third"})
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, "u1", second.ID, models.StatusCompleted)
	require.NoError(t, err)

	all, err := svc.List(ctx, "u1", models.FilterAll)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, third.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)
	assert.Equal(t, first.ID, all[2].ID)

	completed, err := svc.List(ctx, "u1", models.FilterCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, second.ID, completed[0].ID)

	pending, err := svc.List(ctx, "u1", models.FilterPending)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	_, err = svc.List(ctx, "u1", "done")
	assert.ErrorIs(t, err, taskerr.ErrValidation)
}

func TestListDefaultsToAll(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, "u1", CreateInput{Task: "a"})
	require.NoError(t, err)

	tasks, err := svc.List(ctx, "u1", "")
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestOwnershipIsolation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, "alice", CreateInput{Task: "private"})
	require.NoError(t, err)

	tasks, err := svc.List(ctx, "bob", models.FilterAll)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	label := "stolen"
	_, err = svc.UpdateFields(ctx, "bob", task.ID, UpdateInput{Task: &label})
	assert.ErrorIs(t, err, taskerr.ErrNotFoundOrForbidden)

	_, err = svc.SetStatus(ctx, "bob", task.ID, models.StatusCompleted)
	assert.ErrorIs(t, err, taskerr.ErrNotFoundOrForbidden)

	_, err = svc.ToggleCompletion(ctx, "bob", task.ID)
	assert.ErrorIs(t, err, taskerr.ErrNotFoundOrForbidden)

	err = svc.Delete(ctx, "bob", task.ID)
	assert.ErrorIs(t, err, taskerr.ErrNotFoundOrForbidden)

	// alice is unaffected
	got, err := svc.List(ctx, "alice", models.FilterAll)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "private", got[0].Task)
	assert.Equal(t, models.StatusPending, got[0].Status)
}

func TestUpdateFieldsRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	due := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	created, err := svc.Create(ctx, "u1", CreateInput{
		Task:        "write report",
		Description: "quarterly numbers",
		Priority:    models.PriorityHigh,
		DueDate:     &due,
	})
	require.NoError(t, err)

	// same values back in; only updated_at may move
	updated, err := svc.UpdateFields(ctx, "u1", created.ID, UpdateInput{
		Task:        &created.Task,
		Description: created.Description,
		Priority:    &created.Priority,
		DueDate:     created.DueDate,
	})
	require.NoError(t, err)

	assert.Equal(t, created.Task, updated.Task)
	assert.Equal(t, created.Description, updated.Description)
	assert.Equal(t, created.Priority, updated.Priority)
	assert.Equal(t, created.DueDate, updated.DueDate)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.CreatedAt))
}

func TestUpdateFieldsValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, "u1", CreateInput{Task: "x"})
	require.NoError(t, err)

	empty := "   "
	_, err = svc.UpdateFields(ctx, "u1", task.ID, UpdateInput{Task: &empty})
	assert.ErrorIs(t, err, taskerr.ErrValidation)

	bad := "urgent"
	_, err = svc.UpdateFields(ctx, "u1", task.ID, UpdateInput{Priority: &bad})
	assert.ErrorIs(t, err, taskerr.ErrValidation)

	badStatus := "done"
	_, err = svc.UpdateFields(ctx, "u1", task.ID, UpdateInput{Status: &badStatus})
	assert.ErrorIs(t, err, taskerr.ErrValidation)

	_, err = svc.UpdateFields(ctx, "u1", task.ID, UpdateInput{})
	assert.ErrorIs(t, err, taskerr.ErrValidation)
}

// The completion flag and status can never disagree, whichever one the
// caller sets.
func TestStatusCompletionConsistency(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, "u1", CreateInput{Task: "x"})
	require.NoError(t, err)

	tests := []struct {
		name          string
		in            UpdateInput
		wantStatus    string
		wantCompleted bool
	}{
		{
			name:          "completed flag true derives status",
			in:            UpdateInput{IsCompleted: boolPtr(true)},
			wantStatus:    models.StatusCompleted,
			wantCompleted: true,
		},
		{
			name:          "completed flag false resets to pending",
			in:            UpdateInput{IsCompleted: boolPtr(false)},
			wantStatus:    models.StatusPending,
			wantCompleted: false,
		},
		{
			name:          "status completed derives flag",
			in:            UpdateInput{Status: strPtr(models.StatusCompleted)},
			wantStatus:    models.StatusCompleted,
			wantCompleted: true,
		},
		{
			name:          "status in-progress clears flag",
			in:            UpdateInput{Status: strPtr(models.StatusInProgress)},
			wantStatus:    models.StatusInProgress,
			wantCompleted: false,
		},
		{
			name:          "explicit status wins over stale flag",
			in:            UpdateInput{Status: strPtr(models.StatusInProgress), IsCompleted: boolPtr(true)},
			wantStatus:    models.StatusInProgress,
			wantCompleted: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.UpdateFields(ctx, "u1", task.ID, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantCompleted, got.IsCompleted)
			assert.Equal(t, models.CompletedFor(got.Status), got.IsCompleted)
		})
	}
}

func TestLifecycleScenario(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, "u1", CreateInput{Task: "Buy milk"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, task.Status)
	assert.False(t, task.IsCompleted)

	toggled, err := svc.ToggleCompletion(ctx, "u1", task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, toggled.Status)
	assert.True(t, toggled.IsCompleted)

	moved, err := svc.SetStatus(ctx, "u1", task.ID, models.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, moved.Status)
	assert.False(t, moved.IsCompleted)

	require.NoError(t, svc.Delete(ctx, "u1", task.ID))

	remaining, err := svc.List(ctx, "u1", models.FilterAll)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	err = svc.Delete(ctx, "u1", task.ID)
	assert.ErrorIs(t, err, taskerr.ErrNotFoundOrForbidden)
}

func TestToggleIsReversible(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, "u1", CreateInput{Task: "x"})
	require.NoError(t, err)

	on, err := svc.ToggleCompletion(ctx, "u1", task.ID)
	require.NoError(t, err)
	assert.True(t, on.IsCompleted)
	assert.Equal(t, models.StatusCompleted, on.Status)

	off, err := svc.ToggleCompletion(ctx, "u1", task.ID)
	require.NoError(t, err)
	assert.False(t, off.IsCompleted)
	assert.Equal(t, models.StatusPending, off.Status)
}

// A notifier only hears about mutations that actually committed.
func TestNotifierOnCommittedMutationsOnly(t *testing.T) {
	store := repository.NewMemTaskRepo()
	n := &recordingNotifier{}
	svc := NewTasks(store, n)
	ctx := context.Background()

	task, err := svc.Create(ctx, "u1", CreateInput{Task: "x"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "u1", CreateInput{Task: "  "})
	assert.Error(t, err)
	err = svc.Delete(ctx, "u1", "no-such-id")
	assert.Error(t, err)
	require.NoError(t, svc.Delete(ctx, "u1", task.ID))

	assert.Equal(t, []string{models.ActionCreated, models.ActionDeleted}, n.actions)
}

type recordingNotifier struct {
	actions []string
}

func (n *recordingNotifier) TaskChanged(_ context.Context, action, _, _ string) {
	n.actions = append(n.actions, action)
}

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }
