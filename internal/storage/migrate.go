package storage

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

const MigrationsDir = "migrations"

// goose keeps its base FS and dialect in package state.
var migrateMu sync.Mutex

// Migrate applies every pending migration found in fsys under MigrationsDir.
func Migrate(ctx context.Context, db *sql.DB, fsys fs.FS, dialect string, logger zerolog.Logger) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(fsys)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(gooseLogger{logger: logger})

	err := goose.SetDialect(dialect)
	if err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	err = goose.UpContext(ctx, db, MigrationsDir)
	if err != nil {
		return fmt.Errorf("run goose migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("get schema version: %w", err)
	}
	logger.Info().
		Str("dialect", dialect).
		Int64("version", version).
		Msg("migrated schema")
	return nil
}

type gooseLogger struct {
	logger zerolog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.logger.Debug().Msgf(strings.TrimSuffix(format, "\n"), v...)
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error().Msgf(strings.TrimSuffix(format, "\n"), v...)
}
