package app

import (
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/adanyl0v/go-todo-agent/internal/config"
)

const configPathEnv = "CONFIG_PATH"

// MustReadConfig reads the YAML file at path, falling back to CONFIG_PATH.
// Without either it reads the environment only.
func MustReadConfig(path string) *config.Config {
	if path == "" {
		path = os.Getenv(configPathEnv)
	}

	cfg, err := config.NewReader(path).Read()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("path", path).
			Msg("failed to read config")
		panic(err)
	}
	globalLogger.Info().
		Str("env", cfg.Env).
		Str("store_driver", cfg.Store.Driver).
		Str("completion_provider", cfg.Completion.Provider).
		Msg("read config")
	return cfg
}
