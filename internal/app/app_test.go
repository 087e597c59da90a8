package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-agent/internal/agent"
	"github.com/adanyl0v/go-todo-agent/internal/config"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	globalLogger = zerolog.Nop()

	cfg := &config.Config{
		Env: config.EnvProd,
		HTTP: config.HTTPConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Store: config.StoreConfig{
			Driver:      config.StoreDriverSQLite,
			AutoMigrate: true,
		},
		SQLite: config.SQLiteConfig{
			Path: filepath.Join(t.TempDir(), "nested", "tasks.db"),
		},
		Completion: config.CompletionConfig{
			Provider: config.CompletionProviderNone,
			Timeout:  time.Second,
		},
		Chat: config.ChatConfig{ListLimit: 10},
	}

	a := MustBuild(context.Background(), cfg)
	t.Cleanup(a.Close)
	return a
}

func TestMustBuildWiresChat(t *testing.T) {
	a := newTestApp(t)

	exchange := a.Agent.Handle(context.Background(), "remind me to water the plants", "")
	if exchange.ActionType != agent.ActionCreate {
		t.Fatalf("action = %q, response = %q", exchange.ActionType, exchange.Response)
	}

	tasks, err := a.Tasks.GetTasks(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("get tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "water the plants" {
		t.Errorf("unexpected tasks %+v", tasks)
	}

	exchange = a.Agent.Handle(context.Background(), "hello", "")
	if exchange.ActionType != agent.ActionChat || exchange.Response == "" {
		t.Errorf("unexpected fallback exchange %+v", exchange)
	}
}

func TestRouter(t *testing.T) {
	router := NewRouter(newTestApp(t))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("health: status = %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "http_requests_total") {
		t.Errorf("metrics: status = %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/tasks", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("allow origin = %q", got)
	}
}

func TestMustOpenStoreRejectsUnknownDriver(t *testing.T) {
	globalLogger = zerolog.Nop()
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustOpenStore(context.Background(), &config.Config{Store: config.StoreConfig{Driver: "mysql"}})
}
