package file

import (
	"context"
	"errors"
	"fmt"
	"taskBoard/internal/logger"
	"taskBoard/internal/models/user"
	repo "taskBoard/internal/repository"
	"taskBoard/internal/repository/jsonfile"

	"go.uber.org/zap"
)

type UserStorage struct {
	collection *jsonfile.Collection[user.User]
}

func NewUserStorage(path string) *UserStorage {
	return &UserStorage{collection: jsonfile.New[user.User](path)}
}

func (s *UserStorage) HealthCheck(ctx context.Context) error {
	if err := s.collection.Check(); err != nil {
		logger.Error("Repository: Файл пользователей недоступен", err)
		return fmt.Errorf("проверка файла пользователей: %w", err)
	}
	return nil
}

func (s *UserStorage) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	users, err := s.collection.Read()
	if err != nil {
		logger.Error("Repository: Не удалось прочитать пользователей", err)
		return nil, fmt.Errorf("поиск пользователя: %w", err)
	}

	for _, u := range users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (s *UserStorage) Create(ctx context.Context, userToCreate *user.User) error {
	err := s.collection.Modify(func(users []user.User) ([]user.User, error) {
		var maxID int64
		for _, u := range users {
			if u.Email == userToCreate.Email {
				return nil, repo.ErrAlreadyExists
			}
			maxID = max(maxID, u.ID)
		}

		userToCreate.ID = maxID + 1
		return append(users, *userToCreate), nil
	})
	if err != nil {
		if errors.Is(err, repo.ErrAlreadyExists) {
			return err
		}
		logger.Error("Repository: Не удалось добавить пользователя", err)
		return fmt.Errorf("добавление пользователя: %w", err)
	}

	logger.Info("Repository: Пользователь добавлен", zap.Int64("user_id", userToCreate.ID))
	return nil
}
