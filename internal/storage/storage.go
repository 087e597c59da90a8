// Package storage defines the task store contract shared by the Postgres and
// SQLite implementations.
package storage

import (
	"context"
	"errors"

	"github.com/adanyl0v/go-todo-agent/internal/models"
)

var ErrTaskNotFound = errors.New("task not found")

// Tx exposes the task operations available inside one transaction.
type Tx interface {
	// Create inserts the task and sets its ID.
	Create(ctx context.Context, task *models.Task) error

	// GetByID returns ErrTaskNotFound if no task has the given ID.
	GetByID(ctx context.Context, id int64) (*models.Task, error)

	// GetByTitle matches the title exactly after case folding. When several
	// tasks share a title the most recently created one is returned.
	GetByTitle(ctx context.Context, title string) (*models.Task, error)

	// List returns tasks ordered by creation time, newest first.
	List(ctx context.Context, offset, limit int) ([]*models.Task, error)

	// Filter returns every task matching all criteria of the filter,
	// newest first.
	Filter(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error)

	// Update overwrites every mutable column of the task with the given ID.
	Update(ctx context.Context, task *models.Task) error

	Delete(ctx context.Context, id int64) error
}

// Store hands out transactions. InTx commits when fn returns nil and rolls
// back otherwise, so a failed operation never leaves partial state behind.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
	Ping(ctx context.Context) error
	Close() error
}
