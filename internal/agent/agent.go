// Package agent runs chat exchanges: it resolves the intent of a message,
// performs the matching task operation and phrases the outcome.
package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-agent/internal/completion"
	"github.com/adanyl0v/go-todo-agent/internal/intent"
	"github.com/adanyl0v/go-todo-agent/internal/metrics"
	"github.com/adanyl0v/go-todo-agent/internal/models"
	"github.com/adanyl0v/go-todo-agent/internal/services"
)

const (
	ActionCreate = "Create Task"
	ActionList   = "List Tasks"
	ActionUpdate = "Update Task"
	ActionFilter = "Filter Tasks"
	ActionDelete = "Delete Task"
	ActionChat   = "chat"
	ActionError  = "error"
)

// Exchange is the result of one chat message. It is never persisted.
type Exchange struct {
	ConversationID string
	TasksAffected  []*models.Task
	ActionType     string
	Response       string
}

type Agent struct {
	logger    zerolog.Logger
	tasks     services.TaskService
	resolver  *intent.Resolver
	completer completion.Completer
	listLimit int
	newID     func() string
}

type Option func(a *Agent)

// WithListLimit caps how many tasks the list intent returns.
func WithListLimit(limit int) Option {
	return func(a *Agent) {
		a.listLimit = limit
	}
}

// WithIDGenerator replaces the random conversation id source.
func WithIDGenerator(newID func() string) Option {
	return func(a *Agent) {
		a.newID = newID
	}
}

func New(
	logger zerolog.Logger,
	tasks services.TaskService,
	resolver *intent.Resolver,
	completer completion.Completer,
	opts ...Option,
) *Agent {
	if completer == nil {
		completer = completion.Disabled{}
	}
	a := &Agent{
		logger:    logger.With().Str("component", "agent").Logger(),
		tasks:     tasks,
		resolver:  resolver,
		completer: completer,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Handle never fails. Store failures and panics produce an exchange with
// ActionError and no affected tasks.
func (a *Agent) Handle(ctx context.Context, input, conversationID string) (exchange *Exchange) {
	if conversationID == "" {
		conversationID = a.newID()
	}
	logger := a.logger.With().
		Str("conversation_id", conversationID).
		Logger()

	defer func() {
		if r := recover(); r != nil {
			logger.Error().
				Interface("panic", r).
				Msg("recovered from panic while handling message")
			exchange = errorExchange()
		}
		exchange.ConversationID = conversationID
		metrics.ChatExchanges.WithLabelValues(exchange.ActionType).Inc()
	}()

	resolved := a.resolver.Resolve(input)
	logger.Debug().
		Str("intent", fmt.Sprintf("%T", resolved)).
		Msg("resolved intent")

	var err error
	switch in := resolved.(type) {
	case intent.Create:
		exchange, err = a.create(ctx, in)
	case intent.List:
		exchange, err = a.list(ctx)
	case intent.Complete:
		exchange, err = a.complete(ctx, in)
	case intent.FilterByPriority:
		exchange, err = a.filterByPriority(ctx, in)
	case intent.Delete:
		exchange, err = a.delete(ctx, in)
	case intent.Unrecognized:
		exchange = a.converse(ctx, logger, in)
	default:
		err = fmt.Errorf("unhandled intent %T", resolved)
	}
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to handle message")
		return errorExchange()
	}
	return exchange
}

func (a *Agent) create(ctx context.Context, in intent.Create) (*Exchange, error) {
	if in.Title == "" {
		return chat(createClarification), nil
	}

	task, err := a.tasks.CreateTask(ctx, services.CreateTaskParams{
		Title:       in.Title,
		Description: in.Description,
		Priority:    &in.Priority,
		DueDate:     in.DueDate,
	})
	if err != nil {
		var validationErr *models.ValidationError
		if errors.As(err, &validationErr) {
			return chat(fmt.Sprintf(createRejected, validationErr.Err)), nil
		}
		return nil, err
	}
	return &Exchange{
		TasksAffected: []*models.Task{task},
		ActionType:    ActionCreate,
		Response:      fmt.Sprintf(createSucceeded, task.Title),
	}, nil
}

func (a *Agent) list(ctx context.Context) (*Exchange, error) {
	tasks, err := a.tasks.GetTasks(ctx, 0, a.listLimit)
	if err != nil {
		return nil, err
	}

	response := fmt.Sprintf(listSucceeded, len(tasks))
	if len(tasks) == 0 {
		response = listEmpty
	}
	return &Exchange{
		TasksAffected: tasks,
		ActionType:    ActionList,
		Response:      response,
	}, nil
}

func (a *Agent) complete(ctx context.Context, in intent.Complete) (*Exchange, error) {
	if in.Reference == "" {
		return chat(completeClarification), nil
	}

	status := models.StatusCompleted
	patch := models.TaskPatch{Status: &status}

	task, err := a.tasks.UpdateTaskByReference(ctx, in.Reference, patch)
	if errors.Is(err, services.ErrTaskNotFound) {
		return chat(fmt.Sprintf(completeNotFound, in.Reference)), nil
	}
	if err != nil {
		return nil, err
	}

	return &Exchange{
		TasksAffected: []*models.Task{task},
		ActionType:    ActionUpdate,
		Response:      fmt.Sprintf(completeSucceeded, in.Reference),
	}, nil
}

func (a *Agent) filterByPriority(ctx context.Context, in intent.FilterByPriority) (*Exchange, error) {
	tasks, err := a.tasks.FilterTasks(ctx, models.TaskFilter{Priority: &in.Priority})
	if err != nil {
		return nil, err
	}
	return &Exchange{
		TasksAffected: tasks,
		ActionType:    ActionFilter,
		Response:      fmt.Sprintf(filterSucceeded, len(tasks), in.Priority),
	}, nil
}

func (a *Agent) delete(ctx context.Context, in intent.Delete) (*Exchange, error) {
	if in.Reference == "" {
		return chat(deleteClarification), nil
	}

	task, err := a.tasks.DeleteTaskByReference(ctx, in.Reference)
	if errors.Is(err, services.ErrTaskNotFound) {
		return chat(fmt.Sprintf(deleteNotFound, in.Reference)), nil
	}
	if err != nil {
		return nil, err
	}

	return &Exchange{
		TasksAffected: []*models.Task{task},
		ActionType:    ActionDelete,
		Response:      fmt.Sprintf(deleteSucceeded, in.Reference),
	}, nil
}

func (a *Agent) converse(ctx context.Context, logger zerolog.Logger, in intent.Unrecognized) *Exchange {
	text, err := a.completer.Complete(ctx, fmt.Sprintf(assistantPrompt, in.RawText))
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("completion unavailable, falling back to greeting")
		return chat(greeting)
	}
	if text == "" {
		return chat(greeting)
	}
	return chat(text)
}

func chat(response string) *Exchange {
	return &Exchange{
		TasksAffected: []*models.Task{},
		ActionType:    ActionChat,
		Response:      response,
	}
}

func errorExchange() *Exchange {
	return &Exchange{
		TasksAffected: []*models.Task{},
		ActionType:    ActionError,
		Response:      errorResponse,
	}
}
