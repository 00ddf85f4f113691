package inmemory

import (
	"context"
	"sync"
	"taskBoard/internal/logger"
	"taskBoard/internal/models/task"
	repo "taskBoard/internal/repository"
	"time"

	"go.uber.org/zap"
)

type TaskStorage struct {
	storage map[int64]*task.Task
	mtx     *sync.RWMutex
	ids     []int64
	now     func() time.Time
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[int64]*task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []int64{},
		now:     time.Now,
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	logger.Info("Repository: Соединение стабильно")
	return nil
}

// List возвращает копии всех задач в порядке добавления
func (s *TaskStorage) List(ctx context.Context) ([]task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]task.Task, 0, len(s.ids))
	for _, id := range s.ids {
		res = append(res, s.storage[id].Clone())
	}
	return res, nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	c := taskToGet.Clone()
	return &c, nil
}

// Create присваивает id = max+1 и время создания
func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	var maxID int64
	for _, id := range s.ids {
		maxID = max(maxID, id)
	}

	taskToCreate.ID = maxID + 1
	taskToCreate.CreatedAt = s.now()

	stored := taskToCreate.Clone()
	s.storage[stored.ID] = &stored
	s.ids = append(s.ids, stored.ID)

	logger.Info("Repository: Задача добавлена", zap.Int64("task_id", stored.ID))
	return nil
}

// Update применяет изменения к сохранённой задаче; id и владелец не меняются
func (s *TaskStorage) Update(ctx context.Context, id int64, options ...task.TaskOption) (*task.Task, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}

	updated := existing.Clone()
	updated.Apply(options...)
	updated.ID = existing.ID
	updated.UserID = existing.UserID
	updated.CreatedAt = existing.CreatedAt

	s.storage[id] = &updated

	res := updated.Clone()
	return &res, nil
}

func (s *TaskStorage) Delete(ctx context.Context, id int64) (bool, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return false, nil
	}

	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return true, nil
}
