// Package jsonfile хранит коллекцию записей одним JSON-массивом в файле.
// Каждая операция читает и перезаписывает файл целиком.
package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

type Collection[T any] struct {
	path string
	mtx  sync.Mutex
}

func New[T any](path string) *Collection[T] {
	return &Collection[T]{path: path}
}

func (c *Collection[T]) Path() string {
	return c.path
}

// Check проверяет, что каталог файла существует и доступен
func (c *Collection[T]) Check() error {
	dir := filepath.Dir(c.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("каталог хранилища %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s не является каталогом", dir)
	}
	return nil
}

// Read возвращает все записи; отсутствующий или пустой файл - пустая коллекция
func (c *Collection[T]) Read() ([]T, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.read()
}

// Modify читает коллекцию, передаёт её в fn и сохраняет результат под одной блокировкой.
// Если fn вернул ошибку, файл не перезаписывается.
func (c *Collection[T]) Modify(fn func(items []T) ([]T, error)) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	items, err := c.read()
	if err != nil {
		return err
	}

	items, err = fn(items)
	if err != nil {
		return err
	}
	return c.write(items)
}

func (c *Collection[T]) read() ([]T, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("чтение %s: %w", c.path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("разбор %s: %w", c.path, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// write пишет во временный файл рядом и переименовывает его
func (c *Collection[T]) write(items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "    ")
	if err != nil {
		return fmt.Errorf("кодирование %s: %w", c.path, err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("создание каталога: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("временный файл: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("запись %s: %w", c.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("запись %s: %w", c.path, err)
	}

	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("замена %s: %w", c.path, err)
	}
	return nil
}
