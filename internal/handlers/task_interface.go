package handlers

import (
	"context"
	"taskBoard/internal/auth"
	"taskBoard/internal/lifecycle"
	"taskBoard/internal/models/task"
	"taskBoard/internal/models/user"
	"taskBoard/internal/query"
	"taskBoard/internal/service"
)

type TaskService interface {
	HealthCheck(context.Context) error
	ListTasks(ctx context.Context, userID int64, params query.Params) (*service.TaskList, error)
	CreateTask(ctx context.Context, userID int64, input lifecycle.Input) (*task.Task, error)
	GetTask(ctx context.Context, userID, id int64) (*task.Task, error)
	UpdateTask(ctx context.Context, userID, id int64, input lifecycle.Input) (*task.Task, error)
	SetCompleted(ctx context.Context, userID, id int64, completed bool) (*task.Task, error)
	CancelTask(ctx context.Context, userID, id int64) (*task.Task, error)
	DeleteTask(ctx context.Context, userID, id int64) error
}

type UserService interface {
	HealthCheck(context.Context) error
	Register(ctx context.Context, name, email, password string) (*user.User, error)
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
	Authenticate(ctx context.Context, token string) (auth.Session, error)
	Logout(ctx context.Context, session auth.Session) error
}
