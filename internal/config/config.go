package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
)

const (
	CompletionProviderGemini = "gemini"
	CompletionProviderOllama = "ollama"
	CompletionProviderNone   = "none"
)

var (
	ErrInvalidEnv                = errors.New("invalid env, use: local, dev, prod")
	ErrInvalidStoreDriver        = errors.New("invalid store driver, use: postgres, sqlite")
	ErrInvalidCompletionProvider = errors.New("invalid completion provider, use: gemini, ollama, none")
	ErrMissingPostgresHost       = errors.New("postgres host and database are required")
	ErrMissingSQLitePath         = errors.New("sqlite path is required")
	ErrInvalidListLimit          = errors.New("chat list limit must be positive")
)

type Config struct {
	Env        string           `yaml:"env" env:"ENV" env-required:"true"`
	HTTP       HTTPConfig       `yaml:"http"`
	Store      StoreConfig      `yaml:"store"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	SQLite     SQLiteConfig     `yaml:"sqlite"`
	Completion CompletionConfig `yaml:"completion"`
	Chat       ChatConfig       `yaml:"chat"`
}

type HTTPConfig struct {
	Host              string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port              string        `yaml:"port" env:"HTTP_PORT" env-default:"8000"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s"`
	AllowedOrigins    []string      `yaml:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS" env-default:"http://localhost:3000" env-separator:","`
}

type StoreConfig struct {
	Driver      string `yaml:"driver" env:"STORE_DRIVER" env-default:"postgres"`
	AutoMigrate bool   `yaml:"auto_migrate" env:"STORE_AUTO_MIGRATE" env-default:"true"`
}

type PostgresConfig struct {
	Host           string        `yaml:"host" env:"POSTGRES_HOST"`
	Port           int           `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	Username       string        `yaml:"username" env:"POSTGRES_USERNAME"`
	Password       string        `yaml:"password" env:"POSTGRES_PASSWORD"`
	Database       string        `yaml:"database" env:"POSTGRES_DATABASE"`
	SSLMode        string        `yaml:"ssl_mode" env:"POSTGRES_SSL_MODE" env-default:"disable"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `yaml:"ping_timeout" env:"POSTGRES_PING_TIMEOUT" env-default:"10s"`
	MaxConns       int32         `yaml:"max_conns" env:"POSTGRES_MAX_CONNS" env-default:"10"`
}

type SQLiteConfig struct {
	Path string `yaml:"path" env:"SQLITE_PATH" env-default:"data/tasks.db"`
}

type CompletionConfig struct {
	Provider string        `yaml:"provider" env:"COMPLETION_PROVIDER" env-default:"gemini"`
	Model    string        `yaml:"model" env:"COMPLETION_MODEL" env-default:"gemini-1.5-flash"`
	APIKey   string        `yaml:"api_key" env:"GOOGLE_API_KEY"`
	BaseURL  string        `yaml:"base_url" env:"COMPLETION_BASE_URL"`
	Timeout  time.Duration `yaml:"timeout" env:"COMPLETION_TIMEOUT" env-default:"15s"`
}

type ChatConfig struct {
	ListLimit int `yaml:"list_limit" env:"CHAT_LIST_LIMIT" env-default:"100"`
}

// Validate rejects values cleanenv cannot check through tags alone.
func (c *Config) Validate() error {
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidEnv, c.Env)
	}

	switch c.Store.Driver {
	case StoreDriverPostgres:
		if c.Postgres.Host == "" || c.Postgres.Database == "" {
			return ErrMissingPostgresHost
		}
	case StoreDriverSQLite:
		if c.SQLite.Path == "" {
			return ErrMissingSQLitePath
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStoreDriver, c.Store.Driver)
	}

	switch c.Completion.Provider {
	case CompletionProviderGemini, CompletionProviderOllama, CompletionProviderNone:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidCompletionProvider, c.Completion.Provider)
	}

	if c.Chat.ListLimit <= 0 {
		return ErrInvalidListLimit
	}
	return nil
}
