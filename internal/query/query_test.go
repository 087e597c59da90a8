package query

import (
	"reflect"
	"testing"
	"time"

	"github.com/adanyl0v/go-todo-agent/internal/models"
)

func TestWhere_EmptyFilter(t *testing.T) {
	where, args := NewBuilder(Postgres, nil).Where(models.TaskFilter{}, 1)
	if where != "" {
		t.Errorf("expected empty clause, got %q", where)
	}
	if len(args) != 0 {
		t.Errorf("expected no args, got %v", args)
	}
}

func TestWhere_PostgresConjunction(t *testing.T) {
	status := models.StatusPending
	priority := models.PriorityHigh
	before := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	after := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	where, args := NewBuilder(Postgres, nil).Where(models.TaskFilter{
		Status:    &status,
		Priority:  &priority,
		DueBefore: &before,
		DueAfter:  &after,
		Search:    "Milk",
	}, 1)

	want := "WHERE status = $1 AND priority = $2" +
		" AND due_date IS NOT NULL AND due_date <= $3" +
		" AND due_date IS NOT NULL AND due_date >= $4" +
		` AND (title_key LIKE $5 ESCAPE '\' OR description_key LIKE $6 ESCAPE '\')`
	if where != want {
		t.Errorf("where mismatch\n got: %s\nwant: %s", where, want)
	}

	wantArgs := []any{"pending", "high", before, after, "%milk%", "%milk%"}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Errorf("args = %v, want %v", args, wantArgs)
	}
}

func TestWhere_SQLitePlaceholdersAndEncoding(t *testing.T) {
	encode := func(t time.Time) any { return t.UTC().Format(time.DateOnly) }
	before := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	where, args := NewBuilder(SQLite, encode).Where(models.TaskFilter{DueBefore: &before}, 1)
	if where != "WHERE due_date IS NOT NULL AND due_date <= ?" {
		t.Errorf("unexpected clause %q", where)
	}
	if len(args) != 1 || args[0] != "2026-05-01" {
		t.Errorf("expected encoded bound, got %v", args)
	}
}

func TestWhere_SearchEscapesWildcards(t *testing.T) {
	_, args := NewBuilder(SQLite, nil).Where(models.TaskFilter{Search: `50%_off\`}, 1)
	if len(args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(args))
	}
	if args[0] != `%50\%\_off\\%` {
		t.Errorf("unexpected pattern %q", args[0])
	}
}

func TestFilterOrdersNewestFirst(t *testing.T) {
	q, args := NewBuilder(Postgres, nil).Filter(models.TaskFilter{})
	want := "SELECT " + TaskColumns + " FROM tasks ORDER BY created_at DESC, id DESC"
	if q != want {
		t.Errorf("got %q, want %q", q, want)
	}
	if len(args) != 0 {
		t.Errorf("expected no args, got %v", args)
	}
}

func TestListDefaults(t *testing.T) {
	tests := []struct {
		name       string
		offset     int
		limit      int
		wantOffset int
		wantLimit  int
	}{
		{"explicit", 10, 5, 10, 5},
		{"zero limit", 0, 0, 0, DefaultLimit},
		{"negative offset", -3, 20, 0, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, args := NewBuilder(Postgres, nil).List(tt.offset, tt.limit)
			if q != "SELECT "+TaskColumns+" FROM tasks ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2" {
				t.Errorf("unexpected query %q", q)
			}
			if args[0] != tt.wantLimit || args[1] != tt.wantOffset {
				t.Errorf("args = %v, want [%d %d]", args, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}
