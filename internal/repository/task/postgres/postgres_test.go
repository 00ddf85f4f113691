package postgres_test

import (
	"context"
	"fmt"
	"taskBoard/internal/migrations"
	"taskBoard/internal/models/task"
	"taskBoard/internal/repository"
	"taskBoard/internal/repository/pgpool"
	"taskBoard/internal/repository/task/postgres"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresTestSuite для интеграционных тестов с PostgreSQL
type PostgresTestSuite struct {
	suite.Suite
	container testcontainers.Container
	pool      *pgxpool.Pool
	storage   *postgres.Storage
	ctx       context.Context
}

func ptr(s string) *string { return &s }

// SetupSuite запускает контейнер и применяет миграции
func (s *PostgresTestSuite) SetupSuite() {
	s.ctx = context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(30 * time.Second),
	}

	container, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(s.T(), err)
	s.container = container

	host, err := container.Host(s.ctx)
	require.NoError(s.T(), err)

	port, err := container.MappedPort(s.ctx, "5432")
	require.NoError(s.T(), err)

	connString := fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	// контейнер слушает порт раньше, чем принимает соединения
	require.Eventually(s.T(), func() bool {
		return migrations.Up(connString) == nil
	}, 30*time.Second, 500*time.Millisecond)

	s.pool, err = pgpool.New(s.ctx, connString, pgpool.DefaultOptions())
	require.NoError(s.T(), err)

	s.storage = postgres.New(s.pool)
}

// TearDownSuite очищает после всех тестов
func (s *PostgresTestSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		s.container.Terminate(s.ctx)
	}
}

// SetupTest очищает таблицу перед каждым тестом
func (s *PostgresTestSuite) SetupTest() {
	_, err := s.pool.Exec(s.ctx, "DELETE FROM tasks")
	if err != nil {
		s.T().Logf("Не удалось очистить таблицу: %v", err)
	}
}

// TestPostgresTestSuite запускает suite
func TestPostgresTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Пропускаем интеграционные тесты в коротком режиме")
	}
	suite.Run(t, new(PostgresTestSuite))
}

// TestStorage_HealthCheck тестирует ping
func (s *PostgresTestSuite) TestStorage_HealthCheck() {
	assert.NoError(s.T(), s.storage.HealthCheck(s.ctx))
}

// TestStorage_Create тестирует создание задачи
func (s *PostgresTestSuite) TestStorage_Create() {
	taskToCreate := &task.Task{
		UserID:   1,
		Name:     "Test Task",
		Status:   task.StatusPending,
		Priority: "High",
		DueDate:  ptr("2030-01-01T10:00"),
	}

	err := s.storage.Create(s.ctx, taskToCreate)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(1), taskToCreate.ID)
	assert.False(s.T(), taskToCreate.CreatedAt.IsZero())

	retrievedTask, err := s.storage.GetByID(s.ctx, taskToCreate.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Test Task", retrievedTask.Name)
	assert.Equal(s.T(), task.StatusPending, retrievedTask.Status)
	require.NotNil(s.T(), retrievedTask.DueDate)
	assert.Equal(s.T(), "2030-01-01T10:00", *retrievedTask.DueDate)
	assert.Nil(s.T(), retrievedTask.CompletedDate)
}

// TestStorage_CreateMaxPlusOne тестирует выдачу id после удаления
func (s *PostgresTestSuite) TestStorage_CreateMaxPlusOne() {
	for i := 1; i <= 3; i++ {
		require.NoError(s.T(), s.storage.Create(s.ctx, &task.Task{UserID: 1, Name: fmt.Sprintf("Task %d", i), Status: task.StatusPending, Priority: "none"}))
	}

	ok, err := s.storage.Delete(s.ctx, 1)
	require.NoError(s.T(), err)
	require.True(s.T(), ok)

	next := &task.Task{UserID: 1, Name: "Task 4", Status: task.StatusPending, Priority: "none"}
	require.NoError(s.T(), s.storage.Create(s.ctx, next))
	assert.Equal(s.T(), int64(4), next.ID)
}

// TestStorage_GetByID тестирует отсутствующую задачу
func (s *PostgresTestSuite) TestStorage_GetByID() {
	_, err := s.storage.GetByID(s.ctx, 404)
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)
}

// TestStorage_List тестирует порядок создания
func (s *PostgresTestSuite) TestStorage_List() {
	for _, name := range []string{"c", "a", "b"} {
		require.NoError(s.T(), s.storage.Create(s.ctx, &task.Task{UserID: 2, Name: name, Status: task.StatusPending, Priority: "none"}))
	}

	tasks, err := s.storage.List(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), tasks, 3)
	assert.Equal(s.T(), "c", tasks[0].Name)
	assert.Equal(s.T(), "a", tasks[1].Name)
	assert.Equal(s.T(), "b", tasks[2].Name)
}

// TestStorage_Update тестирует обновление задачи
func (s *PostgresTestSuite) TestStorage_Update() {
	taskToCreate := &task.Task{UserID: 5, Name: "Original", Status: task.StatusPending, Priority: "none", DueDate: ptr("2030-01-01")}
	require.NoError(s.T(), s.storage.Create(s.ctx, taskToCreate))

	stamp := "2024-01-10T12:00:00.000Z"
	updated, err := s.storage.Update(s.ctx, taskToCreate.ID,
		task.WithName("Updated"),
		task.WithStatus(task.StatusCompleted),
		task.WithCompletedDate(&stamp),
	)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Updated", updated.Name)

	retrievedTask, err := s.storage.GetByID(s.ctx, taskToCreate.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), task.StatusCompleted, retrievedTask.Status)
	assert.Equal(s.T(), stamp, *retrievedTask.CompletedDate)
	assert.Equal(s.T(), "2030-01-01", *retrievedTask.DueDate)
	assert.Equal(s.T(), int64(5), retrievedTask.UserID)

	_, err = s.storage.Update(s.ctx, 999, task.WithName("x"))
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)
}

// TestStorage_Delete тестирует удаление
func (s *PostgresTestSuite) TestStorage_Delete() {
	taskToCreate := &task.Task{UserID: 1, Name: "Task to delete", Status: task.StatusPending, Priority: "none"}
	require.NoError(s.T(), s.storage.Create(s.ctx, taskToCreate))

	ok, err := s.storage.Delete(s.ctx, taskToCreate.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), ok)

	ok, err = s.storage.Delete(s.ctx, taskToCreate.ID)
	require.NoError(s.T(), err)
	assert.False(s.T(), ok)
}
