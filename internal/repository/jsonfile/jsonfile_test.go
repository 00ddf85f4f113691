package jsonfile_test

import (
	"errors"
	"os"
	"path/filepath"
	"taskBoard/internal/repository/jsonfile"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// TestCollection_Read тестирует чтение отсутствующего и пустого файла
func TestCollection_Read(t *testing.T) {
	dir := t.TempDir()

	missing := jsonfile.New[record](filepath.Join(dir, "missing.json"))
	items, err := missing.Read()
	require.NoError(t, err)
	assert.Empty(t, items)

	emptyPath := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(emptyPath, []byte("  \n"), 0o644))
	items, err = jsonfile.New[record](emptyPath).Read()
	require.NoError(t, err)
	assert.Empty(t, items)

	brokenPath := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(brokenPath, []byte("{"), 0o644))
	_, err = jsonfile.New[record](brokenPath).Read()
	assert.Error(t, err)
}

// TestCollection_Modify тестирует запись и откат при ошибке
func TestCollection_Modify(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "records.json")
	c := jsonfile.New[record](path)

	err := c.Modify(func(items []record) ([]record, error) {
		return append(items, record{ID: 1, Name: "a"}, record{ID: 2, Name: "b"}), nil
	})
	require.NoError(t, err)

	err = c.Modify(func(items []record) ([]record, error) {
		return nil, errors.New("отказ")
	})
	require.Error(t, err)

	items, err := c.Read()
	require.NoError(t, err)
	assert.Equal(t, []record{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}, items)

	assert.NoError(t, c.Check())
}
