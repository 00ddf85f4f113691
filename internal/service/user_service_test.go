package service_test

import (
	"context"
	"errors"
	"taskBoard/internal/auth"
	"taskBoard/internal/models/user"
	"taskBoard/internal/repository/user/inmemory"
	"taskBoard/internal/service"
	"taskBoard/internal/session"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository - мок хранилища пользователей
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

var _ service.UserRepository = (*MockUserRepository)(nil)

func newUserService(repo service.UserRepository) (*service.UserService, *session.MemoryStore) {
	now := func() time.Time { return fixedNow }
	tokens := auth.NewTokenManager(auth.TokenConfig{
		Secret: "test-secret",
		TTL:    time.Hour,
		Issuer: "taskboard",
	}, now)
	sessions := session.NewMemoryStore(now)
	return service.NewUserService(repo, auth.NewPasswordHasher(4), tokens, sessions), sessions
}

// TestUserService_Register тестирует регистрацию
func TestUserService_Register(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService(inmemory.NewUserStorage())

	created, err := svc.Register(ctx, "  Аня ", " anya@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "Аня", created.Name)
	assert.Equal(t, "anya@example.com", created.Email)
	assert.NotEqual(t, "secret", created.Password)

	_, err = svc.Register(ctx, "Другая", "anya@example.com", "x")
	assert.Equal(t, service.CodeEmailTaken, businessCode(t, err))

	// адреса сравниваются точно
	other, err := svc.Register(ctx, "Другая", "Anya@example.com", "x")
	require.NoError(t, err)
	assert.Equal(t, int64(2), other.ID)
}

// TestUserService_Register_Validation тестирует пустые поля
func TestUserService_Register_Validation(t *testing.T) {
	tests := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{name: "error - no name", userName: " ", email: "a@b.c", password: "p"},
		{name: "error - no email", userName: "A", email: "", password: "p"},
		{name: "error - no password", userName: "A", email: "a@b.c", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			svc, _ := newUserService(mockRepo)

			_, err := svc.Register(context.Background(), tt.userName, tt.email, tt.password)
			busErr, ok := service.AsBusinessError(err)
			require.True(t, ok)
			assert.Equal(t, service.CodeValidation, busErr.Code)
			assert.Equal(t, "MissingFields", busErr.Details["kind"])
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

// TestUserService_Register_RepositoryError тестирует сбой хранилища
func TestUserService_Register_RepositoryError(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByEmail", mock.Anything, "a@b.c").Return(nil, errors.New("нет доступа"))
	svc, _ := newUserService(mockRepo)

	_, err := svc.Register(context.Background(), "A", "a@b.c", "p")
	require.Error(t, err)
	_, isBusiness := service.AsBusinessError(err)
	assert.False(t, isBusiness)
	mockRepo.AssertExpectations(t)
}

// TestUserService_Login тестирует вход
func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService(inmemory.NewUserStorage())

	_, err := svc.Register(ctx, "Аня", "anya@example.com", "secret")
	require.NoError(t, err)

	tests := []struct {
		name         string
		email        string
		password     string
		expectedCode string
	}{
		{name: "success - valid credentials", email: "anya@example.com", password: "secret"},
		{name: "success - email trimmed", email: " anya@example.com ", password: "secret"},
		{name: "error - wrong password", email: "anya@example.com", password: "wrong", expectedCode: service.CodeInvalidCredentials},
		{name: "error - unknown email", email: "nobody@example.com", password: "secret", expectedCode: service.CodeInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Login(ctx, tt.email, tt.password)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, businessCode(t, err))
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, res.Token)
			assert.Equal(t, int64(1), res.User.ID)
			assert.Equal(t, "Аня", res.Session.Name)
			assert.Equal(t, fixedNow.Add(time.Hour), res.Session.ExpiresAt)
		})
	}
}

// TestUserService_AuthenticateLogout тестирует проверку токена и отзыв сессии
func TestUserService_AuthenticateLogout(t *testing.T) {
	ctx := context.Background()
	svc, sessions := newUserService(inmemory.NewUserStorage())

	_, err := svc.Register(ctx, "Аня", "anya@example.com", "secret")
	require.NoError(t, err)
	res, err := svc.Login(ctx, "anya@example.com", "secret")
	require.NoError(t, err)

	current, err := svc.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.Session.TokenID, current.TokenID)
	assert.Equal(t, int64(1), current.UserID)

	require.NoError(t, svc.Logout(ctx, current))
	assert.Equal(t, 1, sessions.Len())

	_, err = svc.Authenticate(ctx, res.Token)
	assert.Equal(t, service.CodeUnauthorized, businessCode(t, err))

	// второй вход выдаёт новую сессию
	again, err := svc.Login(ctx, "anya@example.com", "secret")
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, again.Token)
	assert.NoError(t, err)
}

// TestUserService_Authenticate_BadTokens тестирует неверные токены
func TestUserService_Authenticate_BadTokens(t *testing.T) {
	svc, _ := newUserService(inmemory.NewUserStorage())

	foreign := auth.NewTokenManager(auth.TokenConfig{Secret: "other", Issuer: "taskboard"},
		func() time.Time { return fixedNow })
	forged, _, err := foreign.Issue(1, "Аня", "anya@example.com")
	require.NoError(t, err)

	for name, token := range map[string]string{
		"error - empty":   "",
		"error - garbage": "not.a.token",
		"error - forged":  forged,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Authenticate(context.Background(), token)
			assert.Equal(t, service.CodeUnauthorized, businessCode(t, err))
		})
	}
}

// TestUserService_HealthCheck тестирует проверку хранилищ
func TestUserService_HealthCheck(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("HealthCheck", mock.Anything).Return(errors.New("down"))
	svc, _ := newUserService(mockRepo)

	assert.Error(t, svc.HealthCheck(context.Background()))
	mockRepo.AssertExpectations(t)
}
