package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"taskBoard/internal/auth"
	"taskBoard/internal/logger"
	"taskBoard/internal/models/user"
	rep "taskBoard/internal/repository"

	"go.uber.org/zap"
)

type UserService struct {
	repo     UserRepository
	hasher   PasswordHasher
	tokens   TokenManager
	sessions RevocationStore
}

func NewUserService(repo UserRepository, hasher PasswordHasher, tokens TokenManager, sessions RevocationStore) *UserService {
	return &UserService{
		repo:     repo,
		hasher:   hasher,
		tokens:   tokens,
		sessions: sessions,
	}
}

type LoginResult struct {
	Token   string
	Session auth.Session
	User    user.Public
}

func (s *UserService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка пользователей: %w", err)
	}
	if err := s.sessions.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка сессий: %w", err)
	}
	return nil
}

func (s *UserService) Register(ctx context.Context, name, email, password string) (*user.User, error) {
	name = strings.TrimSpace(name)
	email = user.NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, NewBusinessError(CodeValidation, "Заполните все поля",
			ToDetail("kind", "MissingFields"))
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, emailTaken()
	} else if !errors.Is(err, rep.ErrNotFound) {
		return nil, fmt.Errorf("поиск пользователя: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("регистрация: %w", err)
	}

	newUser := &user.User{Name: name, Email: email, Password: hash}
	if err := s.repo.Create(ctx, newUser); err != nil {
		if errors.Is(err, rep.ErrAlreadyExists) {
			return nil, emailTaken()
		}
		return nil, fmt.Errorf("регистрация: %w", err)
	}

	logger.Info("Service: Пользователь зарегистрирован", zap.Int64("user_id", newUser.ID))
	return newUser, nil
}

// Login не различает неизвестный адрес и неверный пароль
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	found, err := s.repo.FindByEmail(ctx, user.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil, invalidCredentials()
		}
		return nil, fmt.Errorf("вход: %w", err)
	}

	if !s.hasher.Verify(password, found.Password) {
		logger.Info("Service: Неверный пароль", zap.Int64("user_id", found.ID))
		return nil, invalidCredentials()
	}

	token, session, err := s.tokens.Issue(found.ID, found.Name, found.Email)
	if err != nil {
		return nil, fmt.Errorf("выпуск сессии: %w", err)
	}

	return &LoginResult{Token: token, Session: session, User: found.Public()}, nil
}

// Authenticate проверяет токен и что сессия не отозвана
func (s *UserService) Authenticate(ctx context.Context, token string) (auth.Session, error) {
	if token == "" {
		return auth.Session{}, unauthorized(nil)
	}

	session, err := s.tokens.Parse(token)
	if err != nil {
		return auth.Session{}, unauthorized(err)
	}

	revoked, err := s.sessions.IsRevoked(ctx, session.TokenID)
	if err != nil {
		return auth.Session{}, fmt.Errorf("проверка сессии: %w", err)
	}
	if revoked {
		return auth.Session{}, unauthorized(nil)
	}
	return session, nil
}

// Logout отзывает сессию до конца срока токена
func (s *UserService) Logout(ctx context.Context, session auth.Session) error {
	if err := s.sessions.Revoke(ctx, session.TokenID, session.ExpiresAt); err != nil {
		return fmt.Errorf("выход: %w", err)
	}
	logger.Info("Service: Сессия завершена", zap.Int64("user_id", session.UserID))
	return nil
}

func emailTaken() *BusinessError {
	return NewBusinessError(CodeEmailTaken, "Этот адрес уже зарегистрирован")
}

func invalidCredentials() *BusinessError {
	return NewBusinessError(CodeInvalidCredentials, "Неверный адрес или пароль")
}

func unauthorized(err error) *BusinessError {
	busErr := NewBusinessError(CodeUnauthorized, "Войдите в систему")
	busErr.Err = err
	return busErr
}
