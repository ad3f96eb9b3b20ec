package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pookietodo/core/internal/adapters/storage"
	"github.com/pookietodo/core/internal/domain/entities"
	"github.com/pookietodo/core/internal/infrastructure/logger"
	"github.com/pookietodo/core/internal/ports"
)

func newTaskService() *TaskService {
	return NewTaskService(storage.NewMemoryStore(), logger.NewNop())
}

func strPtr(s string) *string      { return &s }
func boolPtr(b bool) *bool         { return &b }
func tagsPtr(t []string) *[]string { return &t }

func TestTaskService_CreateAssignsMonotonicIDs(t *testing.T) {
	svc := newTaskService()
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		task, err := svc.Create(ctx, "1", ports.CreateTaskRequest{Description: "task"})
		require.NoError(t, err)
		assert.Equal(t, want, task.ID)
	}

	require.NoError(t, svc.Delete(ctx, "1", 2))

	// Deleted ids are never reused.
	task, err := svc.Create(ctx, "1", ports.CreateTaskRequest{Description: "task"})
	require.NoError(t, err)
	assert.Equal(t, 4, task.ID)

	tasks, err := svc.List(ctx, "1")
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, []int{1, 3, 4}, []int{tasks[0].ID, tasks[1].ID, tasks[2].ID})
}

func TestTaskService_CreateDefaults(t *testing.T) {
	svc := newTaskService()

	task, err := svc.Create(context.Background(), "1", ports.CreateTaskRequest{Description: "buy milk"})
	require.NoError(t, err)

	assert.Equal(t, "buy milk", task.Description)
	assert.False(t, task.Completed)
	assert.Equal(t, entities.DefaultPriority, task.Priority)
	assert.NotNil(t, task.Tags)
	assert.Empty(t, task.Tags)
	assert.Nil(t, task.DueDate)
	assert.False(t, task.CreatedAt.IsZero())
}

func TestTaskService_PartialUpdate(t *testing.T) {
	svc := newTaskService()
	ctx := context.Background()

	due := time.Now().UTC().Add(48 * time.Hour)
	created, err := svc.Create(ctx, "1", ports.CreateTaskRequest{
		Description: "write report",
		Priority:    "high",
		Tags:        []string{"work", "urgent"},
		DueDate:     &due,
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "1", created.ID, ports.UpdateTaskRequest{Completed: boolPtr(true)})
	require.NoError(t, err)

	// Only the provided field changes.
	assert.True(t, updated.Completed)
	assert.Equal(t, "write report", updated.Description)
	assert.Equal(t, "high", updated.Priority)
	assert.Equal(t, []string{"work", "urgent"}, updated.Tags)
	require.NotNil(t, updated.DueDate)
	assert.True(t, updated.DueDate.Equal(due))
}

func TestTaskService_UpdateMultipleFields(t *testing.T) {
	svc := newTaskService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "1", ports.CreateTaskRequest{Description: "draft"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "1", created.ID, ports.UpdateTaskRequest{
		Description: strPtr("final"),
		Priority:    strPtr("low"),
		Tags:        tagsPtr([]string{"docs"}),
	})
	require.NoError(t, err)

	assert.Equal(t, "final", updated.Description)
	assert.Equal(t, "low", updated.Priority)
	assert.Equal(t, []string{"docs"}, updated.Tags)
	assert.False(t, updated.Completed)
}

func TestTaskService_UpdateNotFound(t *testing.T) {
	svc := newTaskService()

	_, err := svc.Update(context.Background(), "1", 42, ports.UpdateTaskRequest{Completed: boolPtr(true)})
	assert.ErrorIs(t, err, entities.ErrTaskNotFound)
}

func TestTaskService_DeleteNotFound(t *testing.T) {
	svc := newTaskService()

	err := svc.Delete(context.Background(), "1", 42)
	assert.ErrorIs(t, err, entities.ErrTaskNotFound)
}

func TestTaskService_ListEmpty(t *testing.T) {
	svc := newTaskService()

	tasks, err := svc.List(context.Background(), "1")
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestTaskService_UsersAreIsolated(t *testing.T) {
	svc := newTaskService()
	ctx := context.Background()

	first, err := svc.Create(ctx, "1", ports.CreateTaskRequest{Description: "mine"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, "2", ports.CreateTaskRequest{Description: "yours"})
	require.NoError(t, err)

	// Task ids are per-user, not global.
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 1, second.ID)

	// One user's task id is invisible to another.
	_, err = svc.Update(ctx, "2", first.ID, ports.UpdateTaskRequest{Description: strPtr("stolen")})
	assert.ErrorIs(t, err, entities.ErrTaskNotFound)

	tasks, err := svc.List(ctx, "1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "mine", tasks[0].Description)
}

func TestTaskService_Stats(t *testing.T) {
	svc := newTaskService()
	ctx := context.Background()

	overdue := time.Now().UTC().Add(-24 * time.Hour)
	soon := time.Now().UTC().Add(48 * time.Hour)

	_, err := svc.Create(ctx, "1", ports.CreateTaskRequest{Description: "a", Priority: "high", Tags: []string{"work"}, DueDate: &overdue})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "1", ports.CreateTaskRequest{Description: "b", Tags: []string{"work", "home"}, DueDate: &soon})
	require.NoError(t, err)
	done, err := svc.Create(ctx, "1", ports.CreateTaskRequest{Description: "c"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, "1", done.ID, ports.UpdateTaskRequest{Completed: boolPtr(true)})
	require.NoError(t, err)

	stats, err := svc.Stats(ctx, "1")
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 2, stats.Pending)
	assert.InDelta(t, 33.33, stats.CompletionRate, 0.01)
	assert.Equal(t, 1, stats.ByPriority["high"])
	assert.Equal(t, 2, stats.ByPriority[entities.DefaultPriority])
	assert.Equal(t, 2, stats.ByTag["work"])
	assert.Equal(t, 1, stats.ByTag["home"])
	assert.Equal(t, 1, stats.Overdue)
	assert.Equal(t, 1, stats.DueSoon)
}
