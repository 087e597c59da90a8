// Package app wires configuration, storage, services and transports into a
// running application.
package app

import (
	"context"

	"github.com/adanyl0v/go-todo-agent/internal/agent"
	"github.com/adanyl0v/go-todo-agent/internal/config"
	"github.com/adanyl0v/go-todo-agent/internal/intent"
	"github.com/adanyl0v/go-todo-agent/internal/services"
)

type App struct {
	Config *config.Config
	Store  Store
	Tasks  services.TaskService
	Agent  *agent.Agent
}

// MustBuild opens the store, applies migrations if enabled and wires the
// task service and chat agent on top of it.
func MustBuild(ctx context.Context, cfg *config.Config) *App {
	store := MustOpenStore(ctx, cfg)
	if cfg.Store.AutoMigrate {
		MustMigrate(ctx, store)
	}

	tasks := services.NewTaskService(globalLogger, store)
	chatAgent := agent.New(
		globalLogger,
		tasks,
		intent.NewResolver(),
		NewCompleter(ctx, cfg.Completion),
		agent.WithListLimit(cfg.Chat.ListLimit),
	)

	return &App{
		Config: cfg,
		Store:  store,
		Tasks:  tasks,
		Agent:  chatAgent,
	}
}

func (a *App) Close() {
	CloseStore(a.Store)
}
