// Package sqlite implements the task store on top of an embedded SQLite
// database file.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/adanyl0v/go-todo-agent/internal/models"
	"github.com/adanyl0v/go-todo-agent/internal/query"
	"github.com/adanyl0v/go-todo-agent/internal/storage"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// timeLayout is fixed width and always UTC so that text comparison orders
// timestamps chronologically.
const timeLayout = "2006-01-02 15:04:05.000000000"

type Store struct {
	db      *sql.DB
	path    string
	logger  zerolog.Logger
	builder query.Builder
}

// Open opens or creates the database file and applies pragmas. Call
// Migrate to create the schema.
func Open(ctx context.Context, path string, logger zerolog.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection serializes writers and keeps the pragmas in effect.
	db.SetMaxOpenConns(1)

	err = db.PingContext(ctx)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	err = applyPragmas(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info().
		Str("path", path).
		Msg("opened sqlite db")
	return &Store{
		db:      db,
		path:    path,
		logger:  logger,
		builder: query.NewBuilder(query.SQLite, encodeTimeArg),
	}, nil
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, pragma := range pragmas {
		_, err := db.ExecContext(ctx, pragma)
		if err != nil {
			return fmt.Errorf("setting pragma %q: %w", pragma, err)
		}
	}
	return nil
}

func (s *Store) Migrate(ctx context.Context) error {
	return storage.Migrate(ctx, s.db, migrationsFS, "sqlite3", s.logger)
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) InTx(ctx context.Context, fn func(tx storage.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()

	err = fn(&tx{tx: sqlTx, builder: s.builder})
	if err != nil {
		return err
	}

	err = sqlTx.Commit()
	if err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type tx struct {
	tx      *sql.Tx
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
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`
	res, err := t.tx.ExecContext(
		ctx,
		insertTaskQuery,
		task.Title,
		storage.FoldKey(task.Title),
		task.Description,
		storage.FoldOptionalKey(task.Description),
		string(task.Status),
		string(task.Priority),
		encodeOptionalTime(task.DueDate),
		encodeTime(task.CreatedAt),
		encodeTime(task.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read task id: %w", err)
	}
	task.ID = id
	return nil
}

func (t *tx) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	const selectTaskByIDQuery = `SELECT ` + query.TaskColumns + ` FROM tasks WHERE id = ?`
	task, err := scanTask(t.tx.QueryRowContext(ctx, selectTaskByIDQuery, id))
	if err != nil {
		return nil, fmt.Errorf("select task by id: %w", err)
	}
	return task, nil
}

func (t *tx) GetByTitle(ctx context.Context, title string) (*models.Task, error) {
	const selectTaskByTitleQuery = `SELECT ` + query.TaskColumns + ` FROM tasks
WHERE title_key = ? ` + query.OrderNewestFirst + ` LIMIT 1`
	task, err := scanTask(t.tx.QueryRowContext(ctx, selectTaskByTitleQuery, storage.FoldKey(title)))
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
SET title = ?,
    title_key = ?,
    description = ?,
    description_key = ?,
    status = ?,
    priority = ?,
    due_date = ?,
    updated_at = ?
WHERE id = ?
`
	res, err := t.tx.ExecContext(
		ctx,
		updateTaskQuery,
		task.Title,
		storage.FoldKey(task.Title),
		task.Description,
		storage.FoldOptionalKey(task.Description),
		string(task.Status),
		string(task.Priority),
		encodeOptionalTime(task.DueDate),
		encodeTime(task.UpdatedAt),
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return requireAffected(res)
}

func (t *tx) Delete(ctx context.Context, id int64) error {
	const deleteTaskQuery = `DELETE FROM tasks WHERE id = ?`
	res, err := t.tx.ExecContext(ctx, deleteTaskQuery, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return requireAffected(res)
}

func (t *tx) queryTasks(ctx context.Context, q string, args []any) ([]*models.Task, error) {
	rows, err := t.tx.QueryContext(ctx, q, args...)
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

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrTaskNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*models.Task, error) {
	var (
		task        models.Task
		description sql.NullString
		status      string
		priority    string
		dueDate     sql.NullString
		createdAt   string
		updatedAt   string
	)
	err := row.Scan(
		&task.ID,
		&task.Title,
		&description,
		&status,
		&priority,
		&dueDate,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrTaskNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}

	task.Status = models.Status(status)
	task.Priority = models.Priority(priority)
	if description.Valid {
		task.Description = &description.String
	}
	if dueDate.Valid {
		due, err := decodeTime(dueDate.String)
		if err != nil {
			return nil, err
		}
		task.DueDate = &due
	}
	task.CreatedAt, err = decodeTime(createdAt)
	if err != nil {
		return nil, err
	}
	task.UpdatedAt, err = decodeTime(updatedAt)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func encodeTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func encodeTimeArg(t time.Time) any {
	return encodeTime(t)
}

func encodeOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := encodeTime(*t)
	return &s
}

func decodeTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(timeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("decode time %q: %w", s, err)
	}
	return t, nil
}
