// Package completion provides the text-completion services the chat agent
// falls back to for requests no rule understands.
package completion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-agent/internal/config"
	"github.com/adanyl0v/go-todo-agent/internal/metrics"
)

var ErrUnavailable = errors.New("completion service unavailable")

type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Disabled always reports ErrUnavailable.
type Disabled struct{}

func (Disabled) Complete(context.Context, string) (string, error) {
	return "", ErrUnavailable
}

// New builds the completer named by cfg.Provider, bounded by cfg.Timeout
// and instrumented with prometheus metrics.
func New(ctx context.Context, cfg config.CompletionConfig, logger zerolog.Logger) (Completer, error) {
	var (
		completer Completer
		err       error
	)
	switch cfg.Provider {
	case config.CompletionProviderGemini:
		completer, err = NewGemini(ctx, GeminiConfig{
			Model:    cfg.Model,
			APIKey:   cfg.APIKey,
			Endpoint: cfg.BaseURL,
		})
	case config.CompletionProviderOllama:
		completer, err = NewOllama(OllamaConfig{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	case config.CompletionProviderNone:
		completer = Disabled{}
	default:
		err = fmt.Errorf("%w: %q", config.ErrInvalidCompletionProvider, cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Dur("timeout", cfg.Timeout).
		Msg("configured completion service")
	return Instrument(WithTimeout(completer, cfg.Timeout), cfg.Provider), nil
}

type timeoutCompleter struct {
	next    Completer
	timeout time.Duration
}

// WithTimeout bounds every call to next. A non-positive timeout returns
// next unchanged.
func WithTimeout(next Completer, timeout time.Duration) Completer {
	if timeout <= 0 {
		return next
	}
	return &timeoutCompleter{
		next:    next,
		timeout: timeout,
	}
}

func (c *timeoutCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.next.Complete(ctx, prompt)
}

type instrumentedCompleter struct {
	next     Completer
	provider string
}

func Instrument(next Completer, provider string) Completer {
	return &instrumentedCompleter{
		next:     next,
		provider: provider,
	}
}

func (c *instrumentedCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, err := c.next.Complete(ctx, prompt)
	metrics.CompletionDuration.WithLabelValues(c.provider).Observe(time.Since(start).Seconds())

	outcome := "ok"
	switch {
	case errors.Is(err, ErrUnavailable):
		outcome = "unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		outcome = "timeout"
	case err != nil:
		outcome = "error"
	}
	metrics.CompletionRequests.WithLabelValues(c.provider, outcome).Inc()
	return text, err
}
