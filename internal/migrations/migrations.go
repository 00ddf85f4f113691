// Package migrations применяет встроенную схему PostgreSQL через golang-migrate.
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"strings"
	"taskBoard/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed sql/*.sql
var files embed.FS

// Up применяет все новые миграции; отсутствие изменений ошибкой не считается
func Up(databaseURL string) error {
	return run(databaseURL, "up", func(m *migrate.Migrate) error { return m.Up() })
}

// Down откатывает одну последнюю миграцию
func Down(databaseURL string) error {
	return run(databaseURL, "down", func(m *migrate.Migrate) error { return m.Steps(-1) })
}

func run(databaseURL, direction string, step func(*migrate.Migrate) error) error {
	src, err := iofs.New(files, "sql")
	if err != nil {
		return fmt.Errorf("чтение миграций: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, DriverURL(databaseURL))
	if err != nil {
		return fmt.Errorf("подключение мигратора: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			logger.Warn("Migrations: Ошибка закрытия мигратора", zap.NamedError("source", srcErr), zap.NamedError("database", dbErr))
		}
	}()

	if err := step(m); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("Migrations: Схема актуальна", zap.String("direction", direction))
			return nil
		}
		return fmt.Errorf("миграция %s: %w", direction, err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("версия схемы: %w", err)
	}
	logger.Info("Migrations: Миграция выполнена",
		zap.String("direction", direction),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty))
	return nil
}

// DriverURL переводит адрес postgres:// в схему драйвера pgx5://
func DriverURL(databaseURL string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(databaseURL, prefix) {
			return "pgx5://" + strings.TrimPrefix(databaseURL, prefix)
		}
	}
	return databaseURL
}
