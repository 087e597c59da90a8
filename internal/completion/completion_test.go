package completion

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-agent/internal/config"
)

// generateContentRequest is the REST body the Gemini client sends.
type generateContentRequest struct {
	Model    string `json:"model"`
	Contents []struct {
		Role  string `json:"role"`
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
}

func TestGeminiComplete(t *testing.T) {
	var gotPrompt, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		var req generateContentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if len(req.Contents) == 1 && len(req.Contents[0].Parts) == 1 {
			gotPrompt = req.Contents[0].Parts[0].Text
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Hi! "},{"text":"How can I help?"}]}}]}`))
	}))
	defer server.Close()

	gemini, err := NewGemini(context.Background(), GeminiConfig{
		Model:      "gemini-test",
		Endpoint:   server.URL,
		HTTPClient: server.Client(),
	})
	if err != nil {
		t.Fatalf("new gemini: %v", err)
	}

	text, err := gemini.Complete(context.Background(), "say hi")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if text != "Hi! How can I help?" {
		t.Errorf("text = %q", text)
	}
	if gotPrompt != "say hi" {
		t.Errorf("prompt = %q", gotPrompt)
	}
	if gotPath != "/v1beta/models/gemini-test:generateContent" {
		t.Errorf("unexpected path %q", gotPath)
	}
}

func TestGeminiErrors(t *testing.T) {
	tests := []struct {
		name            string
		status          int
		body            string
		wantUnavailable bool
	}{
		{"bad request", http.StatusBadRequest, `{"error":{"code":400,"message":"boom"}}`, false},
		{"no candidates", http.StatusOK, `{"candidates":[]}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			gemini, err := NewGemini(context.Background(), GeminiConfig{
				Model:      "models/gemini-test",
				Endpoint:   server.URL + "/",
				HTTPClient: server.Client(),
			})
			if err != nil {
				t.Fatalf("new gemini: %v", err)
			}

			_, err = gemini.Complete(context.Background(), "hello")
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantUnavailable != errors.Is(err, ErrUnavailable) {
				t.Errorf("unexpected error %v", err)
			}
		})
	}
}

func TestOllamaComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Stream || req.Model != "llama3" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"unexpected request"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(ollamaResponse{Response: " echo: " + req.Prompt + " "})
	}))
	defer server.Close()

	ollama, err := NewOllama(OllamaConfig{BaseURL: server.URL + "/", Model: "llama3"})
	if err != nil {
		t.Fatalf("new ollama: %v", err)
	}

	text, err := ollama.Complete(context.Background(), "ping")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if text != "echo: ping" {
		t.Errorf("text = %q", text)
	}
}

func TestOllamaErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model \"missing\" not found"}`))
	}))
	defer server.Close()

	ollama, err := NewOllama(OllamaConfig{BaseURL: server.URL, Model: "missing"})
	if err != nil {
		t.Fatalf("new ollama: %v", err)
	}

	_, err = ollama.Complete(context.Background(), "ping")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

type blockingCompleter struct{}

func (blockingCompleter) Complete(ctx context.Context, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestWithTimeout(t *testing.T) {
	completer := WithTimeout(blockingCompleter{}, 10*time.Millisecond)

	start := time.Now()
	_, err := completer.Complete(context.Background(), "hello")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Errorf("timeout not enforced")
	}

	if WithTimeout(Disabled{}, 0) != (Disabled{}) {
		t.Error("zero timeout should return the completer unchanged")
	}
}

func TestNew(t *testing.T) {
	completer, err := New(context.Background(), config.CompletionConfig{
		Provider: config.CompletionProviderNone,
		Timeout:  time.Second,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	_, err = completer.Complete(context.Background(), "hello")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}

	_, err = New(context.Background(), config.CompletionConfig{Provider: "openai"}, zerolog.Nop())
	if !errors.Is(err, config.ErrInvalidCompletionProvider) {
		t.Errorf("expected ErrInvalidCompletionProvider, got %v", err)
	}

	_, err = New(context.Background(), config.CompletionConfig{Provider: config.CompletionProviderOllama}, zerolog.Nop())
	if err == nil {
		t.Error("expected error for missing model")
	}
}
