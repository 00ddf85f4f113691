package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"taskBoard/internal/auth"
	"taskBoard/internal/config"
	"taskBoard/internal/handlers"
	"taskBoard/internal/logger"
	"taskBoard/internal/migrations"
	"taskBoard/internal/repository/pgpool"
	taskfile "taskBoard/internal/repository/task/file"
	taskmem "taskBoard/internal/repository/task/inmemory"
	taskpg "taskBoard/internal/repository/task/postgres"
	userfile "taskBoard/internal/repository/user/file"
	usermem "taskBoard/internal/repository/user/inmemory"
	userpg "taskBoard/internal/repository/user/postgres"
	"taskBoard/internal/service"
	"taskBoard/internal/session"
	"taskBoard/internal/worker"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config    *config.Config
	server    *http.Server
	tasks     service.TaskRepository
	users     service.UserRepository
	sessions  service.RevocationStore
	worker    *worker.SessionWorker
	shutdowns []func() // выполняются в обратном порядке
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) (*App, error) {
	if err := logger.Init(a.config.Logging.Development, a.config.Logging.Level); err != nil {
		return nil, fmt.Errorf("инициализация логгера: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	loc, err := a.config.Location()
	if err != nil {
		return nil, err
	}

	if err := a.initRepositories(ctx); err != nil {
		return nil, fmt.Errorf("инициализация хранилища: %w", err)
	}
	a.initSessions()

	tokens := auth.NewTokenManager(auth.TokenConfig{
		Secret: a.config.Auth.JWTSecret,
		TTL:    a.config.Auth.TokenTTL,
		Issuer: a.config.Auth.Issuer,
	}, time.Now)

	taskService := service.NewTaskService(a.tasks, service.WithLocation(loc))
	userService := service.NewUserService(a.users, auth.NewPasswordHasher(a.config.Auth.BcryptCost), tokens, a.sessions)

	router := handlers.NewRouter(
		handlers.NewTaskHandler(taskService),
		handlers.NewAuthHandler(userService, a.config.Server.SecureCookie),
		handlers.RouterConfig{
			RateLimitRPM:  a.config.RateLimit.RequestsPerMinute,
			RateLimitIdle: a.config.RateLimit.IdleTimeout,
			CORSOrigins:   a.config.Server.CORSOrigins,
			Tracing:       a.config.Server.Tracing,
		},
	)

	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
	}

	logger.Info("Приложение инициализировано",
		zap.String("repository", a.config.Repository.Type),
		zap.String("session_store", a.config.Session.Store),
		zap.String("timezone", loc.String()))
	return a, nil
}

func (a *App) initRepositories(ctx context.Context) error {
	switch a.config.Repository.Type {
	case config.RepositoryFile:
		dir := a.config.Repository.DataDir
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("создание каталога данных: %w", err)
		}
		a.tasks = taskfile.NewTaskStorage(filepath.Join(dir, "tasks.json"))
		a.users = userfile.NewUserStorage(filepath.Join(dir, "users.json"))

	case config.RepositoryPostgres:
		if a.config.Database.MigrateOnStart {
			if err := migrations.Up(a.config.Database.URL); err != nil {
				return err
			}
		}
		pool, err := pgpool.New(ctx, a.config.Database.URL, pgpool.Options{
			MaxConns:        a.config.Database.MaxConnections,
			MinConns:        a.config.Database.MinConnections,
			MaxConnIdleTime: a.config.Database.IdleTimeout,
		})
		if err != nil {
			return err
		}
		a.shutdowns = append(a.shutdowns, func() {
			logger.Info("Закрытие пула соединений...")
			pool.Close()
		})
		a.tasks = taskpg.New(pool)
		a.users = userpg.New(pool)

	default:
		a.tasks = taskmem.NewTaskStorage()
		a.users = usermem.NewUserStorage()
	}
	return nil
}

func (a *App) initSessions() {
	if a.config.Session.Store == config.SessionRedis {
		redisCfg := session.DefaultRedisConfig()
		redisCfg.Addr = a.config.Redis.Addr
		redisCfg.Password = a.config.Redis.Password
		redisCfg.DB = a.config.Redis.DB
		if a.config.Redis.PoolSize > 0 {
			redisCfg.PoolSize = a.config.Redis.PoolSize
		}
		if a.config.Redis.KeyPrefix != "" {
			redisCfg.KeyPrefix = a.config.Redis.KeyPrefix
		}

		store := session.NewRedisStore(redisCfg, time.Now)
		a.shutdowns = append(a.shutdowns, func() {
			logger.Info("Закрытие соединения с Redis...")
			if err := store.Close(); err != nil {
				logger.Warn("Ошибка закрытия Redis", zap.Error(err))
			}
		})
		a.sessions = store
		return
	}

	store := session.NewMemoryStore(time.Now)
	interval := a.config.Session.SweepInterval
	a.worker = worker.NewSessionWorker(store, &interval)
	a.sessions = store
}

// Handler нужен для тестов без сетевого порта
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run обслуживает запросы до отмены ctx, затем корректно останавливает сервер
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP: Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("сервер: %w", err)
		}
		return nil
	})

	if a.worker != nil {
		g.Go(func() error {
			return a.worker.Start(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("HTTP: Остановка сервера...")

		timeout := a.config.Server.ShutdownTimeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("остановка сервера: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// Close освобождает ресурсы; безопасно вызывать повторно
func (a *App) Close() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}
