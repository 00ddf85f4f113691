package service

import (
	"context"
	"errors"
	"fmt"
	"taskBoard/internal/lifecycle"
	"taskBoard/internal/logger"
	"taskBoard/internal/models/task"
	"taskBoard/internal/query"
	rep "taskBoard/internal/repository"
	"time"

	"go.uber.org/zap"
)

const resourceTask = "задача"

// здесь происходит проверка ошибок бизнес-логики: владелец, правила записи, текущее время

type TaskService struct {
	repo TaskRepository
	now  func() time.Time
	loc  *time.Location
}

type TaskServiceOption func(*TaskService)

func WithClock(now func() time.Time) TaskServiceOption {
	return func(s *TaskService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation задаёт зону, в которой считаются календарные дни
func WithLocation(loc *time.Location) TaskServiceOption {
	return func(s *TaskService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func NewTaskService(repo TaskRepository, options ...TaskServiceOption) *TaskService {
	s := &TaskService{
		repo: repo,
		now:  time.Now,
		loc:  time.Local,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// TaskList - домашняя страница пользователя
type TaskList struct {
	Tasks   []task.Task
	Buckets map[int64]query.Bucket
	Today   string
	Filters query.Params
}

func (s *TaskService) clock() time.Time {
	return s.now().In(s.loc)
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка репозитория: %w", err)
	}
	return nil
}

func (s *TaskService) ListTasks(ctx context.Context, userID int64, params query.Params) (*TaskList, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	own := make([]task.Task, 0, len(all))
	for _, t := range all {
		if t.UserID == userID {
			own = append(own, t)
		}
	}

	now := s.clock()
	params = params.WithDefaults()
	tasks := query.Run(own, params, now, s.loc)

	buckets := make(map[int64]query.Bucket, len(tasks))
	for _, t := range tasks {
		buckets[t.ID] = query.Classify(t.DueDate, now, s.loc)
	}

	logger.Info("Service: Список задач построен",
		zap.Int64("user_id", userID),
		zap.Int("total", len(own)),
		zap.Int("shown", len(tasks)))

	return &TaskList{
		Tasks:   tasks,
		Buckets: buckets,
		Today:   query.Today(now, s.loc),
		Filters: params,
	}, nil
}

func (s *TaskService) CreateTask(ctx context.Context, userID int64, input lifecycle.Input) (*task.Task, error) {
	normalized, err := lifecycle.Validate(input, s.clock())
	if err != nil {
		logger.Info("Service: Задача не прошла проверку", zap.Error(err))
		return nil, fromValidation(err)
	}

	newTask := &task.Task{UserID: userID}
	normalized.Apply(newTask)

	if err := s.repo.Create(ctx, newTask); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}
	return newTask, nil
}

// GetTask возвращает задачу только владельцу; для остальных она не существует
func (s *TaskService) GetTask(ctx context.Context, userID, id int64) (*task.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.Int64("target_id", id))
			return nil, NewNotFound(resourceTask, id)
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	if t.UserID != userID {
		logger.Warn("Service: Попытка доступа к чужой задаче",
			zap.Int64("target_id", id),
			zap.Int64("user_id", userID))
		return nil, NewNotFound(resourceTask, id)
	}
	return t, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, userID, id int64, input lifecycle.Input) (*task.Task, error) {
	if _, err := s.GetTask(ctx, userID, id); err != nil {
		return nil, err
	}

	normalized, err := lifecycle.Validate(input, s.clock())
	if err != nil {
		logger.Info("Service: Задача не прошла проверку", zap.Int64("target_id", id), zap.Error(err))
		return nil, fromValidation(err)
	}

	return s.update(ctx, id, normalized.Options()...)
}

// SetCompleted - переключатель выполнения, только Completed и Pending
func (s *TaskService) SetCompleted(ctx context.Context, userID, id int64, completed bool) (*task.Task, error) {
	if _, err := s.GetTask(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.update(ctx, id, lifecycle.Toggle(completed, s.clock())...)
}

func (s *TaskService) CancelTask(ctx context.Context, userID, id int64) (*task.Task, error) {
	if _, err := s.GetTask(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.update(ctx, id, lifecycle.Cancel()...)
}

func (s *TaskService) DeleteTask(ctx context.Context, userID, id int64) error {
	if _, err := s.GetTask(ctx, userID, id); err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("удаление задачи: %w", err)
	}
	if !deleted {
		return NewNotFound(resourceTask, id)
	}
	return nil
}

func (s *TaskService) update(ctx context.Context, id int64, options ...task.TaskOption) (*task.Task, error) {
	updated, err := s.repo.Update(ctx, id, options...)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil, NewNotFound(resourceTask, id)
		}
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}
	return updated, nil
}
