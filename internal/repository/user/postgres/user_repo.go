package postgres

import (
	"context"
	"errors"
	"fmt"
	"taskBoard/internal/logger"
	"taskBoard/internal/models/user"
	repo "taskBoard/internal/repository"
	"taskBoard/internal/repository/pgpool"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// код ошибки PostgreSQL unique_violation
const uniqueViolation = "23505"

type Storage struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	return pgpool.Ping(ctx, s.pool)
}

func (s *Storage) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT id, name, email, password
				FROM users
				WHERE email = $1`

	u := &user.User{}
	err := s.pool.QueryRow(ctx, query, email).Scan(&u.ID, &u.Name, &u.Email, &u.Password)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось найти пользователя", err)
		return nil, fmt.Errorf("поиск пользователя: %w", err)
	}
	return u, nil
}

func (s *Storage) Create(ctx context.Context, userToCreate *user.User) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("начало транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `LOCK TABLE users IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return fmt.Errorf("блокировка таблицы: %w", err)
	}

	query := `INSERT INTO users (id, name, email, password)
				SELECT COALESCE(MAX(id), 0) + 1, $1, $2, $3 FROM users
				RETURNING id`

	err = tx.QueryRow(ctx, query, userToCreate.Name, userToCreate.Email, userToCreate.Password).Scan(&userToCreate.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repo.ErrAlreadyExists
		}
		logger.Error("Repository: Не удалось добавить пользователя", err)
		return fmt.Errorf("добавление пользователя: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("фиксация транзакции: %w", err)
	}

	logger.Info("Repository: Пользователь добавлен", zap.Int64("user_id", userToCreate.ID))
	return nil
}
