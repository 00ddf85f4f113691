package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"taskBoard/internal/app"
	"taskBoard/internal/config"
	"taskBoard/internal/logger"
	"taskBoard/internal/migrations"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "taskboard",
		Short:         "taskBoard - личный список задач",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "путь к config.yml")

	rootCmd.AddCommand(serveCmd(&configPath))
	rootCmd.AddCommand(migrateCmd(&configPath))

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP сервер",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application := app.New(cfg)
			if _, err := application.Init(ctx); err != nil {
				application.Close()
				return err
			}
			return application.Run(ctx)
		},
	}
}

func migrateCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Управление схемой PostgreSQL",
	}

	run := func(step func(string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return errors.New("database.url не задан")
			}
			if err := logger.Init(cfg.Logging.Development, cfg.Logging.Level); err != nil {
				return fmt.Errorf("инициализация логгера: %w", err)
			}
			defer logger.Sync()

			return step(cfg.Database.URL)
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Применить все миграции",
		Args:  cobra.NoArgs,
		RunE:  run(migrations.Up),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Откатить последнюю миграцию",
		Args:  cobra.NoArgs,
		RunE:  run(migrations.Down),
	})
	return cmd
}
