package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "config.yml"

const envPrefix = "TASKBOARD_"

const (
	RepositoryInMemory = "inmemory"
	RepositoryFile     = "file"
	RepositoryPostgres = "postgres"
)

const (
	SessionMemory = "memory"
	SessionRedis  = "redis"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	App        AppConfig        `yaml:"app"`
	Database   DatabaseConfig   `yaml:"database"`
	Logging    LoggingConfig    `yaml:"logging"`
	Repository RepositoryConfig `yaml:"repository"`
	Auth       AuthConfig       `yaml:"auth"`
	Session    SessionConfig    `yaml:"session"`
	Redis      RedisConfig      `yaml:"redis"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	Host            string        `yaml:"host"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	SecureCookie    bool          `yaml:"secure_cookie"`
	Tracing         bool          `yaml:"tracing"`
}

// AppConfig.Timezone - зона, в которой считаются «сегодня» и сроки без смещения
type AppConfig struct {
	Timezone string `yaml:"timezone"`
}

type DatabaseConfig struct {
	URL            string        `yaml:"url"`
	MaxConnections int32         `yaml:"max_connections"`
	MinConnections int32         `yaml:"min_connections"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	MigrateOnStart bool          `yaml:"migrate_on_start"`
}

type LoggingConfig struct {
	Development bool   `yaml:"development"`
	Level       string `yaml:"level"`
}

type RepositoryConfig struct {
	Type    string `yaml:"type"` // "inmemory", "file" или "postgres"
	DataDir string `yaml:"data_dir"`
}

type AuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret"`
	TokenTTL   time.Duration `yaml:"token_ttl"`
	Issuer     string        `yaml:"issuer"`
	BcryptCost int           `yaml:"bcrypt_cost"`
}

type SessionConfig struct {
	Store         string        `yaml:"store"` // "memory" или "redis"
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	PoolSize  int    `yaml:"pool_size"`
	KeyPrefix string `yaml:"key_prefix"`
}

type RateLimitConfig struct {
	RequestsPerMinute int           `yaml:"requests_per_minute"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		App: AppConfig{Timezone: "Local"},
		Database: DatabaseConfig{
			MaxConnections: 10,
			MinConnections: 2,
			IdleTimeout:    5 * time.Minute,
		},
		Logging:    LoggingConfig{Level: "info"},
		Repository: RepositoryConfig{Type: RepositoryInMemory, DataDir: "data"},
		Auth: AuthConfig{
			TokenTTL:   24 * time.Hour,
			Issuer:     "taskboard",
			BcryptCost: 10,
		},
		Session: SessionConfig{
			Store:         SessionMemory,
			SweepInterval: 5 * time.Minute,
		},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			PoolSize:  10,
			KeyPrefix: "taskboard:revoked:",
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 100,
			IdleTimeout:       10 * time.Minute,
		},
	}
}

// Load читает файл поверх значений по умолчанию, затем применяет переменные TASKBOARD_*
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("не могу открыть %s: %w", path, err)
	}
	defer file.Close()

	cfg := Default()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("ошибка парсинга %s: %w", path, err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"SERVER_HOST":      &c.Server.Host,
		"SERVER_PORT":      &c.Server.Port,
		"APP_TIMEZONE":     &c.App.Timezone,
		"DATABASE_URL":     &c.Database.URL,
		"LOGGING_LEVEL":    &c.Logging.Level,
		"REPOSITORY_TYPE":  &c.Repository.Type,
		"REPOSITORY_DIR":   &c.Repository.DataDir,
		"AUTH_JWT_SECRET":  &c.Auth.JWTSecret,
		"SESSION_STORE":    &c.Session.Store,
		"REDIS_ADDR":       &c.Redis.Addr,
		"REDIS_PASSWORD":   &c.Redis.Password,
		"REDIS_KEY_PREFIX": &c.Redis.KeyPrefix,
	}
	for name, dst := range strs {
		if value, ok := lookup(envPrefix + name); ok {
			*dst = value
		}
	}

	bools := map[string]*bool{
		"LOGGING_DEVELOPMENT":       &c.Logging.Development,
		"DATABASE_MIGRATE_ON_START": &c.Database.MigrateOnStart,
		"SERVER_SECURE_COOKIE":      &c.Server.SecureCookie,
		"SERVER_TRACING":            &c.Server.Tracing,
	}
	for name, dst := range bools {
		value, ok := lookup(envPrefix + name)
		if !ok {
			continue
		}
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("переменная %s%s: %w", envPrefix, name, err)
		}
		*dst = parsed
	}

	ints := map[string]*int{
		"RATE_LIMIT_RPM": &c.RateLimit.RequestsPerMinute,
		"REDIS_DB":       &c.Redis.DB,
	}
	for name, dst := range ints {
		value, ok := lookup(envPrefix + name)
		if !ok {
			continue
		}
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("переменная %s%s: %w", envPrefix, name, err)
		}
		*dst = parsed
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error

	c.Repository.Type = strings.ToLower(strings.TrimSpace(c.Repository.Type))
	c.Session.Store = strings.ToLower(strings.TrimSpace(c.Session.Store))

	switch c.Repository.Type {
	case RepositoryInMemory, RepositoryFile:
	case RepositoryPostgres:
		if c.Database.URL == "" {
			errs = append(errs, errors.New("database.url обязателен для repository.type=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("неизвестный repository.type %q", c.Repository.Type))
	}

	switch c.Session.Store {
	case SessionMemory, SessionRedis:
	default:
		errs = append(errs, fmt.Errorf("неизвестный session.store %q", c.Session.Store))
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret не задан"))
	}

	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("неверная конфигурация: %w", errors.Join(errs...))
	}
	return nil
}

func (c *Config) Location() (*time.Location, error) {
	if c.App.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("app.timezone %q: %w", c.App.Timezone, err)
	}
	return loc, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
