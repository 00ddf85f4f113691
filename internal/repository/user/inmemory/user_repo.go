package inmemory

import (
	"context"
	"sync"
	"taskBoard/internal/logger"
	"taskBoard/internal/models/user"
	repo "taskBoard/internal/repository"

	"go.uber.org/zap"
)

type UserStorage struct {
	mtx   sync.RWMutex
	users []user.User
}

func NewUserStorage() *UserStorage {
	return &UserStorage{users: []user.User{}}
}

func (s *UserStorage) HealthCheck(ctx context.Context) error {
	return nil
}

// FindByEmail ищет точное совпадение адреса
func (s *UserStorage) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (s *UserStorage) Create(ctx context.Context, userToCreate *user.User) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	var maxID int64
	for _, u := range s.users {
		if u.Email == userToCreate.Email {
			return repo.ErrAlreadyExists
		}
		maxID = max(maxID, u.ID)
	}

	userToCreate.ID = maxID + 1
	s.users = append(s.users, *userToCreate)

	logger.Info("Repository: Пользователь добавлен", zap.Int64("user_id", userToCreate.ID))
	return nil
}
