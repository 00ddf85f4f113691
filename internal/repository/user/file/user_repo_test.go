package file_test

import (
	"context"
	"os"
	"path/filepath"
	"taskBoard/internal/models/user"
	"taskBoard/internal/repository"
	"taskBoard/internal/repository/user/file"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUserStorage тестирует файл пользователей прежнего формата
func TestUserStorage(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
  {"id": 5, "name": "Анна", "email": "anna@example.com", "password": "$2b$10$hash"}
]`), 0o644))

	storage := file.NewUserStorage(path)
	require.NoError(t, storage.HealthCheck(ctx))

	found, err := storage.FindByEmail(ctx, "anna@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(5), found.ID)
	assert.Equal(t, "$2b$10$hash", found.Password)

	created := &user.User{Name: "Борис", Email: "boris@example.com", Password: "hash"}
	require.NoError(t, storage.Create(ctx, created))
	assert.Equal(t, int64(6), created.ID)

	err = storage.Create(ctx, &user.User{Name: "Дубль", Email: "anna@example.com"})
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)

	_, err = storage.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	reopened := file.NewUserStorage(path)
	found, err = reopened.FindByEmail(ctx, "boris@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Борис", found.Name)
}
