// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-agent/internal/storage"
	"github.com/adanyl0v/go-todo-agent/internal/storage/sqlite"
)

// OpenSQLiteStore returns a migrated store backed by a file in t.TempDir.
func OpenSQLiteStore(t *testing.T) *sqlite.Store {
	t.Helper()
	ctx := context.Background()

	store, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "tasks.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	err = store.Migrate(ctx)
	if err != nil {
		t.Fatalf("migrate sqlite store: %v", err)
	}
	return store
}

// Clock is a settable time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// FakeCompleter records prompts and answers with a canned reply or error.
type FakeCompleter struct {
	mu      sync.Mutex
	Reply   string
	Err     error
	prompts []string
}

func (f *FakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.Err != nil {
		return "", f.Err
	}
	return f.Reply, nil
}

func (f *FakeCompleter) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

// FailingStore fails every transaction with Err.
type FailingStore struct {
	Err error
}

func (s FailingStore) InTx(context.Context, func(tx storage.Tx) error) error {
	return s.Err
}

func (s FailingStore) Ping(context.Context) error {
	return s.Err
}

func (FailingStore) Close() error {
	return nil
}

// CountingStore counts the transactions opened on the wrapped store.
type CountingStore struct {
	storage.Store

	mu  sync.Mutex
	txs int
}

func (s *CountingStore) InTx(ctx context.Context, fn func(tx storage.Tx) error) error {
	s.mu.Lock()
	s.txs++
	s.mu.Unlock()
	return s.Store.InTx(ctx, fn)
}

func (s *CountingStore) Transactions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txs
}

func (s *CountingStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = 0
}
