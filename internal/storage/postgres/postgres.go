// Package postgres implements the task store on top of a pgx connection pool.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-agent/internal/config"
	"github.com/adanyl0v/go-todo-agent/internal/models"
	"github.com/adanyl0v/go-todo-agent/internal/query"
	"github.com/adanyl0v/go-todo-agent/internal/storage"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// titleCheckConstraint is the name Postgres gives the inline title check.
const titleCheckConstraint = "tasks_title_check"

type Store struct {
	pool    *pgxpool.Pool
	logger  zerolog.Logger
	builder query.Builder
}

// ConnURL renders the connection string for cfg.
func ConnURL(cfg config.PostgresConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.Username, cfg.Password),
		Host:     cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Path:     "/" + cfg.Database,
		RawQuery: "sslmode=" + url.QueryEscape(cfg.SSLMode),
	}
	return u.String()
}

// Open connects the pool and pings the server within cfg.PingTimeout.
func Open(ctx context.Context, cfg config.PostgresConfig, logger zerolog.Logger) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(ConnURL(cfg))
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()

	err = pool.Ping(pingCtx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Msg("connected to postgres")

	return &Store{
		pool:    pool,
		logger:  logger,
		builder: query.NewBuilder(query.Postgres, nil),
	}, nil
}

// Migrate runs the embedded goose migrations through a database/sql
// handle sharing the pool.
func (s *Store) Migrate(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(s.pool)
	defer db.Close()

	return storage.Migrate(ctx, db, migrationsFS, "postgres", s.logger)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() error {
	s.pool.Close()
	s.logger.Info().Msg("disconnected from postgres")
	return nil
}

func (s *Store) InTx(ctx context.Context, fn func(tx storage.Tx) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(pgTx pgx.Tx) error {
		return fn(&tx{tx: pgTx, builder: s.builder})
	})
}

type tx struct {
	tx      pgx.Tx
	builder query.Builder
}

func (t *tx) Create(ctx context.Context, task *models.Task) error {
	const insertTaskQuery = `
INSERT INTO tasks (title,
                   title_key,
                   description,
                   description_key,
                   status,
                   priority,
                   due_date,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id
`
	err := t.tx.QueryRow(
		ctx,
		insertTaskQuery,
		task.Title,
		storage.FoldKey(task.Title),
		task.Description,
		storage.FoldOptionalKey(task.Description),
		string(task.Status),
		string(task.Priority),
		task.DueDate,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID)
	if err != nil {
		return fmt.Errorf("insert task: %w", mapError(err))
	}
	return nil
}

func (t *tx) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	const selectTaskByIDQuery = `SELECT ` + query.TaskColumns + ` FROM tasks WHERE id = $1`
	task, err := scanTask(t.tx.QueryRow(ctx, selectTaskByIDQuery, id))
	if err != nil {
		return nil, fmt.Errorf("select task by id: %w", err)
	}
	return task, nil
}

func (t *tx) GetByTitle(ctx context.Context, title string) (*models.Task, error) {
	const selectTaskByTitleQuery = `SELECT ` + query.TaskColumns + ` FROM tasks
WHERE title_key = $1 ` + query.OrderNewestFirst + ` LIMIT 1`
	task, err := scanTask(t.tx.QueryRow(ctx, selectTaskByTitleQuery, storage.FoldKey(title)))
	if err != nil {
		return nil, fmt.Errorf("select task by title: %w", err)
	}
	return task, nil
}

func (t *tx) List(ctx context.Context, offset, limit int) ([]*models.Task, error) {
	q, args := t.builder.List(offset, limit)
	return t.queryTasks(ctx, q, args)
}

func (t *tx) Filter(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error) {
	q, args := t.builder.Filter(filter)
	return t.queryTasks(ctx, q, args)
}

func (t *tx) Update(ctx context.Context, task *models.Task) error {
	const updateTaskQuery = `
UPDATE tasks
SET title = $1,
    title_key = $2,
    description = $3,
    description_key = $4,
    status = $5,
    priority = $6,
    due_date = $7,
    updated_at = $8
WHERE id = $9
`
	tag, err := t.tx.Exec(
		ctx,
		updateTaskQuery,
		task.Title,
		storage.FoldKey(task.Title),
		task.Description,
		storage.FoldOptionalKey(task.Description),
		string(task.Status),
		string(task.Priority),
		task.DueDate,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrTaskNotFound
	}
	return nil
}

func (t *tx) Delete(ctx context.Context, id int64) error {
	const deleteTaskQuery = `DELETE FROM tasks WHERE id = $1`
	tag, err := t.tx.Exec(ctx, deleteTaskQuery, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrTaskNotFound
	}
	return nil
}

func (t *tx) queryTasks(ctx context.Context, q string, args []any) ([]*models.Task, error) {
	rows, err := t.tx.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate over rows: %w", err)
	}
	return tasks, nil
}

func scanTask(row pgx.Row) (*models.Task, error) {
	var (
		task     models.Task
		status   string
		priority string
	)
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&status,
		&priority,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrTaskNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	task.Status = models.Status(status)
	task.Priority = models.Priority(priority)
	return &task, nil
}

// mapError turns constraint violations on user input into validation
// errors. Everything else is returned unchanged.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.StringDataRightTruncationDataException:
		return models.NewValidationError("title", models.ErrTitleTooLong)
	case pgerrcode.CheckViolation:
		if pgErr.ConstraintName == titleCheckConstraint {
			return models.NewValidationError("title", models.ErrEmptyTitle)
		}
		return err
	default:
		return err
	}
}
