package postgres

import (
	"context"
	"errors"
	"fmt"
	"taskBoard/internal/logger"
	"taskBoard/internal/models/task"
	repo "taskBoard/internal/repository"
	"taskBoard/internal/repository/pgpool"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const taskColumns = `id,
				user_id,
				name,
				status,
				priority,
				due_date,
				completed_date,
				created_at`

type Storage struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// New работает поверх общего пула; закрывает пул владелец приложения
func New(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool, now: time.Now}
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	return pgpool.Ping(ctx, s.pool)
}

func scanTask(row pgx.Row) (task.Task, error) {
	var t task.Task
	var status string
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Name,
		&status,
		&t.Priority,
		&t.DueDate,
		&t.CompletedDate,
		&t.CreatedAt,
	)
	t.Status = task.Status(status)
	return t, err
}

func slow(start time.Time) {
	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
}

// List возвращает все задачи в порядке создания
func (s *Storage) List(ctx context.Context) ([]task.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + `
				FROM tasks
				ORDER BY created_at, id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tasks := []task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования задачи", zap.Error(err))
			continue
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	slow(start)
	return tasks, nil
}

func (s *Storage) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + `
				FROM tasks
				WHERE id = $1`

	t, err := scanTask(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	slow(start)
	return &t, nil
}

// Create выдаёт id = max+1 под блокировкой таблицы
func (s *Storage) Create(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		logger.Error("Repository: Не удалось открыть транзакцию", err)
		return fmt.Errorf("начало транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `LOCK TABLE tasks IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		logger.Error("Repository: Не удалось заблокировать таблицу", err)
		return fmt.Errorf("блокировка таблицы: %w", err)
	}

	query := `INSERT INTO tasks
				(id, user_id, name, status, priority, due_date, completed_date, created_at)
				SELECT COALESCE(MAX(id), 0) + 1, $1, $2, $3, $4, $5, $6, $7 FROM tasks
				RETURNING id, created_at`

	err = tx.QueryRow(ctx, query,
		taskToCreate.UserID,
		taskToCreate.Name,
		string(taskToCreate.Status),
		taskToCreate.Priority,
		taskToCreate.DueDate,
		taskToCreate.CompletedDate,
		s.now().UTC(),
	).Scan(&taskToCreate.ID, &taskToCreate.CreatedAt)
	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		logger.Error("Repository: Не удалось зафиксировать транзакцию", err)
		return fmt.Errorf("фиксация транзакции: %w", err)
	}

	slow(start)
	return nil
}

// Update читает строку с блокировкой, применяет изменения и записывает изменяемые поля
func (s *Storage) Update(ctx context.Context, id int64, options ...task.TaskOption) (*task.Task, error) {
	start := time.Now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		logger.Error("Repository: Не удалось открыть транзакцию", err)
		return nil, fmt.Errorf("начало транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	selectQuery := `SELECT ` + taskColumns + `
				FROM tasks
				WHERE id = $1
				FOR UPDATE`

	existing, err := scanTask(tx.QueryRow(ctx, selectQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err)
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	updated := existing.Clone()
	updated.Apply(options...)
	updated.ID = existing.ID
	updated.UserID = existing.UserID
	updated.CreatedAt = existing.CreatedAt

	updateQuery := `UPDATE tasks
			SET name = $1,
				status = $2,
				priority = $3,
				due_date = $4,
				completed_date = $5
			WHERE id = $6`

	_, err = tx.Exec(ctx, updateQuery,
		updated.Name,
		string(updated.Status),
		updated.Priority,
		updated.DueDate,
		updated.CompletedDate,
		id,
	)
	if err != nil {
		logger.Error("Repository: Не удалось обновить задачу", err)
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		logger.Error("Repository: Не удалось зафиксировать транзакцию", err)
		return nil, fmt.Errorf("фиксация транзакции: %w", err)
	}

	slow(start)
	return &updated, nil
}

func (s *Storage) Delete(ctx context.Context, id int64) (bool, error) {
	start := time.Now()

	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: Удаление задачи", err, zap.Duration("ms", time.Since(start)))
		return false, fmt.Errorf("удаление задачи: %w", err)
	}

	slow(start)
	return tag.RowsAffected() > 0, nil
}
