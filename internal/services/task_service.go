package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-agent/internal/models"
	"github.com/adanyl0v/go-todo-agent/internal/storage"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	store  storage.Store
	now    func() time.Time
}

type Option func(s *taskServiceImpl)

// WithClock replaces time.Now as the source of created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *taskServiceImpl) {
		s.now = now
	}
}

func NewTaskService(
	logger zerolog.Logger,
	store storage.Store,
	opts ...Option,
) TaskService {
	s := &taskServiceImpl{
		logger: logger.With().Str("component", "task_service").Logger(),
		store:  store,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// timestamp returns the current time at the precision every store keeps.
func (s *taskServiceImpl) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	title, err := models.NormalizeTitle(params.Title)
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	task := &models.Task{
		Title:       title,
		Description: params.Description,
		Status:      models.StatusPending,
		Priority:    models.PriorityMedium,
		DueDate:     params.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if params.Status != nil {
		task.Status = *params.Status
	}
	if params.Priority != nil {
		task.Priority = *params.Priority
	}

	err = task.Validate()
	if err != nil {
		return nil, err
	}

	err = s.store.InTx(ctx, func(tx storage.Tx) error {
		return tx.Create(ctx, task)
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("title", task.Title).
			Msg("failed to create task")
		return nil, err
	}
	s.logger.Debug().
		Int64("task_id", task.ID).
		Str("priority", string(task.Priority)).
		Msg("inserted task")

	s.logger.Info().
		Int64("task_id", task.ID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	var task *models.Task
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		task, err = tx.GetByID(ctx, id)
		return err
	})
	if err != nil {
		s.logFailure(err).
			Int64("task_id", id).
			Msg("failed to get task")
		return nil, err
	}
	return task, nil
}

func (s *taskServiceImpl) GetTasks(ctx context.Context, offset, limit int) ([]*models.Task, error) {
	var tasks []*models.Task
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		tasks, err = tx.List(ctx, offset, limit)
		return err
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Int("offset", offset).
			Int("limit", limit).
			Msg("failed to list tasks")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Msg("listed tasks")
	return tasks, nil
}

func (s *taskServiceImpl) FilterTasks(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error) {
	var tasks []*models.Task
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		tasks, err = tx.Filter(ctx, filter)
		return err
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to filter tasks")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Bool("empty_filter", filter.IsEmpty()).
		Msg("filtered tasks")
	return tasks, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, id int64, patch models.TaskPatch) (*models.Task, error) {
	patch, err := normalizePatch(patch)
	if err != nil {
		return nil, err
	}

	var task *models.Task
	err = s.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		task, err = tx.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return s.applyPatch(ctx, tx, task, patch)
	})
	if err != nil {
		s.logFailure(err).
			Int64("task_id", id).
			Msg("failed to update task")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) UpdateTaskByTitle(ctx context.Context, title string, patch models.TaskPatch) (*models.Task, error) {
	patch, err := normalizePatch(patch)
	if err != nil {
		return nil, err
	}

	var task *models.Task
	err = s.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		task, err = tx.GetByTitle(ctx, title)
		if err != nil {
			return err
		}
		return s.applyPatch(ctx, tx, task, patch)
	})
	if err != nil {
		s.logFailure(err).
			Str("title", title).
			Msg("failed to update task by title")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Str("title", task.Title).
		Msg("updated task by title")
	return task, nil
}

func (s *taskServiceImpl) UpdateTaskByReference(ctx context.Context, reference string, patch models.TaskPatch) (*models.Task, error) {
	patch, err := normalizePatch(patch)
	if err != nil {
		return nil, err
	}

	var task *models.Task
	err = s.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		task, err = getByReference(ctx, tx, reference)
		if err != nil {
			return err
		}
		return s.applyPatch(ctx, tx, task, patch)
	})
	if err != nil {
		s.logFailure(err).
			Str("reference", reference).
			Msg("failed to update task by reference")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Str("reference", reference).
		Msg("updated task by reference")
	return task, nil
}

func (s *taskServiceImpl) ToggleTaskStatus(ctx context.Context, id int64) (*models.Task, error) {
	var task *models.Task
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		task, err = tx.GetByID(ctx, id)
		if err != nil {
			return err
		}

		status := models.StatusCompleted
		if task.Status == models.StatusCompleted {
			status = models.StatusPending
		}
		return s.applyPatch(ctx, tx, task, models.TaskPatch{Status: &status})
	})
	if err != nil {
		s.logFailure(err).
			Int64("task_id", id).
			Msg("failed to toggle task status")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Str("status", string(task.Status)).
		Msg("toggled task status")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, id int64) (*models.Task, error) {
	var task *models.Task
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		task, err = tx.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return tx.Delete(ctx, id)
	})
	if err != nil {
		s.logFailure(err).
			Int64("task_id", id).
			Msg("failed to delete task")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", id).
		Msg("deleted task")
	return task, nil
}

func (s *taskServiceImpl) DeleteTaskByTitle(ctx context.Context, title string) (*models.Task, error) {
	var task *models.Task
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		task, err = tx.GetByTitle(ctx, title)
		if err != nil {
			return err
		}
		return tx.Delete(ctx, task.ID)
	})
	if err != nil {
		s.logFailure(err).
			Str("title", title).
			Msg("failed to delete task by title")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Str("title", task.Title).
		Msg("deleted task by title")
	return task, nil
}

func (s *taskServiceImpl) DeleteTaskByReference(ctx context.Context, reference string) (*models.Task, error) {
	var task *models.Task
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		task, err = getByReference(ctx, tx, reference)
		if err != nil {
			return err
		}
		return tx.Delete(ctx, task.ID)
	})
	if err != nil {
		s.logFailure(err).
			Str("reference", reference).
			Msg("failed to delete task by reference")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Str("reference", reference).
		Msg("deleted task by reference")
	return task, nil
}

// getByReference looks a digits-only reference up by id first and falls
// back to the title when no task has that id.
func getByReference(ctx context.Context, tx storage.Tx, reference string) (*models.Task, error) {
	if id, ok := referenceID(reference); ok {
		task, err := tx.GetByID(ctx, id)
		if !errors.Is(err, storage.ErrTaskNotFound) {
			return task, err
		}
	}
	return tx.GetByTitle(ctx, reference)
}

// referenceID accepts references made only of digits.
func referenceID(reference string) (int64, bool) {
	for _, r := range reference {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(reference, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// applyPatch mutates task in place and writes it back. updated_at never
// moves before created_at, even if the clock does.
func (s *taskServiceImpl) applyPatch(ctx context.Context, tx storage.Tx, task *models.Task, patch models.TaskPatch) error {
	patch.Apply(task)

	task.UpdatedAt = s.timestamp()
	if task.UpdatedAt.Before(task.CreatedAt) {
		task.UpdatedAt = task.CreatedAt
	}

	err := task.Validate()
	if err != nil {
		return err
	}
	return tx.Update(ctx, task)
}

// logFailure logs a missing task at warn level.
func (s *taskServiceImpl) logFailure(err error) *zerolog.Event {
	if errors.Is(err, ErrTaskNotFound) {
		return s.logger.Warn().Err(err)
	}
	return s.logger.Error().Err(err)
}

func normalizePatch(patch models.TaskPatch) (models.TaskPatch, error) {
	if patch.Title == nil {
		return patch, nil
	}
	title, err := models.NormalizeTitle(*patch.Title)
	if err != nil {
		return patch, err
	}
	patch.Title = &title
	return patch, nil
}
