// Package file хранит задачи в JSON-файле в формате прежнего сервиса
// (массив объектов с полями id, userId, name, status, priority, dueDate, completedDate, created_at).
package file

import (
	"context"
	"errors"
	"fmt"
	"taskBoard/internal/logger"
	"taskBoard/internal/models/task"
	repo "taskBoard/internal/repository"
	"taskBoard/internal/repository/jsonfile"
	"time"

	"go.uber.org/zap"
)

// record - строка файла. Даты остаются строками, чтобы одна битая запись
// не ломала чтение всего файла.
type record struct {
	ID            int64   `json:"id"`
	UserID        int64   `json:"userId"`
	Name          string  `json:"name"`
	Status        string  `json:"status"`
	Priority      string  `json:"priority"`
	DueDate       *string `json:"dueDate"`
	CompletedDate *string `json:"completedDate,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

func fromTask(t task.Task) record {
	r := record{
		ID:            t.ID,
		UserID:        t.UserID,
		Name:          t.Name,
		Status:        string(t.Status),
		Priority:      t.Priority,
		DueDate:       t.DueDate,
		CompletedDate: t.CompletedDate,
	}
	if !t.CreatedAt.IsZero() {
		r.CreatedAt = task.FormatTimestamp(t.CreatedAt)
	}
	return r
}

func (r record) toTask() task.Task {
	t := task.Task{
		ID:            r.ID,
		UserID:        r.UserID,
		Name:          r.Name,
		Status:        task.Status(r.Status),
		Priority:      r.Priority,
		DueDate:       r.DueDate,
		CompletedDate: r.CompletedDate,
	}
	if t.DueDate != nil && *t.DueDate == "" {
		t.DueDate = nil
	}
	if r.CreatedAt != "" {
		createdAt, err := task.ParseTimestamp(r.CreatedAt, time.UTC)
		if err != nil {
			logger.Warn("Repository: Не удалось разобрать created_at",
				zap.Int64("task_id", r.ID),
				zap.String("created_at", r.CreatedAt))
		} else {
			t.CreatedAt = createdAt
		}
	}
	return t.Clone()
}

type TaskStorage struct {
	collection *jsonfile.Collection[record]
	now        func() time.Time
}

func NewTaskStorage(path string) *TaskStorage {
	return &TaskStorage{
		collection: jsonfile.New[record](path),
		now:        time.Now,
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	if err := s.collection.Check(); err != nil {
		logger.Error("Repository: Файл задач недоступен", err)
		return fmt.Errorf("проверка файла задач: %w", err)
	}
	logger.Info("Repository: Соединение стабильно", zap.String("path", s.collection.Path()))
	return nil
}

func (s *TaskStorage) List(ctx context.Context) ([]task.Task, error) {
	start := time.Now()

	records, err := s.collection.Read()
	if err != nil {
		logger.Error("Repository: Не удалось прочитать задачи", err)
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	tasks := make([]task.Task, 0, len(records))
	for _, r := range records {
		tasks = append(tasks, r.toTask())
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return tasks, nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	records, err := s.collection.Read()
	if err != nil {
		logger.Error("Repository: Не удалось прочитать задачи", err)
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	for _, r := range records {
		if r.ID == id {
			t := r.toTask()
			return &t, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()

	err := s.collection.Modify(func(records []record) ([]record, error) {
		var maxID int64
		for _, r := range records {
			maxID = max(maxID, r.ID)
		}

		taskToCreate.ID = maxID + 1
		taskToCreate.CreatedAt = s.now().UTC()
		return append(records, fromTask(*taskToCreate)), nil
	})
	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *TaskStorage) Update(ctx context.Context, id int64, options ...task.TaskOption) (*task.Task, error) {
	start := time.Now()

	var updated task.Task
	err := s.collection.Modify(func(records []record) ([]record, error) {
		for i, r := range records {
			if r.ID != id {
				continue
			}

			existing := r.toTask()
			updated = existing.Clone()
			updated.Apply(options...)
			updated.ID = existing.ID
			updated.UserID = existing.UserID
			updated.CreatedAt = existing.CreatedAt

			next := fromTask(updated)
			if existing.CreatedAt.IsZero() {
				next.CreatedAt = r.CreatedAt
			}
			records[i] = next
			return records, nil
		}
		return nil, repo.ErrNotFound
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, err
		}
		logger.Error("Repository: Не удалось обновить задачу", err)
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return &updated, nil
}

// Delete не переписывает файл, если записи с таким id нет
func (s *TaskStorage) Delete(ctx context.Context, id int64) (bool, error) {
	err := s.collection.Modify(func(records []record) ([]record, error) {
		for i, r := range records {
			if r.ID == id {
				return append(records[:i], records[i+1:]...), nil
			}
		}
		return nil, repo.ErrNotFound
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return false, nil
		}
		logger.Error("Repository: Не удалось удалить задачу", err)
		return false, fmt.Errorf("удаление задачи: %w", err)
	}
	return true, nil
}
