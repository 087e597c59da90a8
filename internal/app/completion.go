package app

import (
	"context"

	"github.com/adanyl0v/go-todo-agent/internal/completion"
	"github.com/adanyl0v/go-todo-agent/internal/config"
)

// NewCompleter builds the configured completer. A provider that cannot be
// set up, for example Gemini without credentials, leaves the chat running
// with the static greeting instead.
func NewCompleter(ctx context.Context, cfg config.CompletionConfig) completion.Completer {
	completer, err := completion.New(ctx, cfg, componentLogger("completion"))
	if err != nil {
		globalLogger.Warn().
			Err(err).
			Str("provider", cfg.Provider).
			Msg("completion disabled")
		return completion.Disabled{}
	}
	return completer
}
