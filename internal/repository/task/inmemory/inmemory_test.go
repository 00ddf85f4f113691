package inmemory_test

import (
	"context"
	"fmt"
	"sync"
	"taskBoard/internal/models/task"
	"taskBoard/internal/repository"
	"taskBoard/internal/repository/task/inmemory"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

// TestTaskStorage_New тестирует создание хранилища
func TestTaskStorage_New(t *testing.T) {
	storage := inmemory.NewTaskStorage()
	assert.NotNil(t, storage)

	tasks, err := storage.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

// TestTaskStorage_HealthCheck тестирует проверку здоровья
func TestTaskStorage_HealthCheck(t *testing.T) {
	storage := inmemory.NewTaskStorage()
	assert.NoError(t, storage.HealthCheck(context.Background()))
}

// TestTaskStorage_Create тестирует создание задачи
func TestTaskStorage_Create(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	taskToCreate := &task.Task{UserID: 7, Name: "Test Task", Status: task.StatusPending, Priority: "none"}

	err := storage.Create(ctx, taskToCreate)
	require.NoError(t, err)

	assert.Equal(t, int64(1), taskToCreate.ID)
	assert.False(t, taskToCreate.CreatedAt.IsZero())

	retrievedTask, err := storage.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Test Task", retrievedTask.Name)
	assert.Equal(t, int64(7), retrievedTask.UserID)
}

// TestTaskStorage_CreateMaxPlusOne тестирует выдачу id после удаления
func TestTaskStorage_CreateMaxPlusOne(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	for i := 0; i < 3; i++ {
		require.NoError(t, storage.Create(ctx, &task.Task{Name: fmt.Sprintf("t%d", i), Status: task.StatusPending}))
	}

	ok, err := storage.Delete(ctx, 2)
	require.NoError(t, err)
	require.True(t, ok)

	next := &task.Task{Name: "t3", Status: task.StatusPending}
	require.NoError(t, storage.Create(ctx, next))
	assert.Equal(t, int64(4), next.ID)

	ok, err = storage.Delete(ctx, 4)
	require.NoError(t, err)
	require.True(t, ok)

	reused := &task.Task{Name: "t4", Status: task.StatusPending}
	require.NoError(t, storage.Create(ctx, reused))
	assert.Equal(t, int64(4), reused.ID)
}

// TestTaskStorage_GetByID тестирует получение задачи по ID
func TestTaskStorage_GetByID(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	_, err := storage.GetByID(ctx, 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, storage.Create(ctx, &task.Task{Name: "A", Status: task.StatusPending, DueDate: ptr("2024-01-01")}))

	got, err := storage.GetByID(ctx, 1)
	require.NoError(t, err)

	// копия не должна менять хранилище
	*got.DueDate = "2030-01-01"
	got.Name = "changed"

	again, err := storage.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "A", again.Name)
	assert.Equal(t, "2024-01-01", *again.DueDate)
}

// TestTaskStorage_List тестирует порядок добавления
func TestTaskStorage_List(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	for _, name := range []string{"c", "a", "b"} {
		require.NoError(t, storage.Create(ctx, &task.Task{Name: name, Status: task.StatusPending}))
	}

	tasks, err := storage.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "c", tasks[0].Name)
	assert.Equal(t, "a", tasks[1].Name)
	assert.Equal(t, "b", tasks[2].Name)
}

// TestTaskStorage_Update тестирует обновление задачи
func TestTaskStorage_Update(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	original := &task.Task{UserID: 3, Name: "Original", Status: task.StatusPending}
	require.NoError(t, storage.Create(ctx, original))

	updated, err := storage.Update(ctx, original.ID,
		task.WithName("Updated"),
		task.WithStatus(task.StatusCompleted),
		task.WithCompletedDate(ptr("2024-01-10T12:00:00.000Z")),
		func(t *task.Task) { t.UserID = 99 },
	)
	require.NoError(t, err)
	assert.Equal(t, "Updated", updated.Name)
	assert.Equal(t, task.StatusCompleted, updated.Status)
	assert.Equal(t, int64(3), updated.UserID)
	assert.Equal(t, original.CreatedAt, updated.CreatedAt)

	_, err = storage.Update(ctx, 100, task.WithName("x"))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// TestTaskStorage_Delete тестирует удаление
func TestTaskStorage_Delete(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	require.NoError(t, storage.Create(ctx, &task.Task{Name: "A", Status: task.StatusPending}))

	ok, err := storage.Delete(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = storage.Delete(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	tasks, err := storage.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

// TestTaskStorage_Concurrent тестирует параллельное создание
func TestTaskStorage_Concurrent(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = storage.Create(ctx, &task.Task{Name: fmt.Sprintf("t%d", i), Status: task.StatusPending})
		}(i)
	}
	wg.Wait()

	tasks, err := storage.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 50)

	seen := make(map[int64]bool)
	for _, tk := range tasks {
		assert.False(t, seen[tk.ID])
		seen[tk.ID] = true
	}
}
