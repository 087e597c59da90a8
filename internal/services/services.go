package services

import (
	"context"
	"time"

	"github.com/adanyl0v/go-todo-agent/internal/models"
	"github.com/adanyl0v/go-todo-agent/internal/storage"
)

var ErrTaskNotFound = storage.ErrTaskNotFound

type TaskService interface {
	// CreateTask validates the params, applies the pending/medium defaults
	// and stores the task with created_at equal to updated_at.
	//
	// It returns a *models.ValidationError for an empty or too long title.
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	// GetTask returns ErrTaskNotFound if no task has the given ID.
	GetTask(ctx context.Context, id int64) (*models.Task, error)

	// GetTasks lists tasks newest first. A non-positive limit falls back
	// to the default page size.
	GetTasks(ctx context.Context, offset, limit int) ([]*models.Task, error)

	// FilterTasks returns every task matching all criteria of the filter.
	FilterTasks(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error)

	// UpdateTask applies the patch and refreshes updated_at.
	//
	// It returns ErrTaskNotFound if no task has the given ID or a
	// *models.ValidationError if the patched task is invalid.
	UpdateTask(ctx context.Context, id int64, patch models.TaskPatch) (*models.Task, error)

	// UpdateTaskByTitle is UpdateTask for the task whose title matches
	// case-insensitively. The newest task wins if titles collide.
	UpdateTaskByTitle(ctx context.Context, title string, patch models.TaskPatch) (*models.Task, error)

	// UpdateTaskByReference is UpdateTask when reference is all digits and
	// names an existing task, and UpdateTaskByTitle otherwise. Both lookups
	// and the write share one transaction.
	UpdateTaskByReference(ctx context.Context, reference string, patch models.TaskPatch) (*models.Task, error)

	// ToggleTaskStatus flips completed to pending and any other status
	// to completed. Toggling twice restores pending and completed tasks;
	// an in_progress task ends up pending.
	ToggleTaskStatus(ctx context.Context, id int64) (*models.Task, error)

	// DeleteTask deletes the task and returns its last state, or
	// ErrTaskNotFound if no task has the given ID.
	DeleteTask(ctx context.Context, id int64) (*models.Task, error)

	// DeleteTaskByTitle deletes the task whose title matches
	// case-insensitively and returns its last state.
	DeleteTaskByTitle(ctx context.Context, title string) (*models.Task, error)

	// DeleteTaskByReference resolves reference like UpdateTaskByReference
	// and deletes the task in the same transaction.
	DeleteTaskByReference(ctx context.Context, reference string) (*models.Task, error)
}

type CreateTaskParams struct {
	Title       string
	Description *string
	Status      *models.Status
	Priority    *models.Priority
	DueDate     *time.Time
}
