package inmemory_test

import (
	"context"
	"taskBoard/internal/models/user"
	"taskBoard/internal/repository"
	"taskBoard/internal/repository/user/inmemory"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUserStorage тестирует регистрацию и поиск пользователей
func TestUserStorage(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewUserStorage()
	require.NoError(t, storage.HealthCheck(ctx))

	first := &user.User{Name: "Анна", Email: "anna@example.com", Password: "hash"}
	require.NoError(t, storage.Create(ctx, first))
	assert.Equal(t, int64(1), first.ID)

	second := &user.User{Name: "Борис", Email: "boris@example.com", Password: "hash"}
	require.NoError(t, storage.Create(ctx, second))
	assert.Equal(t, int64(2), second.ID)

	err := storage.Create(ctx, &user.User{Name: "Дубль", Email: "anna@example.com"})
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)

	found, err := storage.FindByEmail(ctx, "boris@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Борис", found.Name)

	// адрес сравнивается с учётом регистра
	_, err = storage.FindByEmail(ctx, "Boris@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
