package service

import (
	"context"
	"taskBoard/internal/auth"
	"taskBoard/internal/models/task"
	"taskBoard/internal/models/user"
	"time"
)

// TaskRepository всегда отдаёт полный снимок; фильтрация по владельцу и запросу идёт в сервисе
type TaskRepository interface {
	HealthCheck(context.Context) error
	List(context.Context) ([]task.Task, error)
	GetByID(context.Context, int64) (*task.Task, error)
	Create(context.Context, *task.Task) error
	Update(context.Context, int64, ...task.TaskOption) (*task.Task, error)
	Delete(context.Context, int64) (bool, error)
}

type UserRepository interface {
	HealthCheck(context.Context) error
	FindByEmail(context.Context, string) (*user.User, error)
	Create(context.Context, *user.User) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

type TokenManager interface {
	Issue(userID int64, name, email string) (string, auth.Session, error)
	Parse(token string) (auth.Session, error)
}

type RevocationStore interface {
	HealthCheck(context.Context) error
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
