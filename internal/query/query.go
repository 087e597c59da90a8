// Package query translates task filters into SQL for the supported dialects.
package query

import (
	"strconv"
	"strings"
	"time"

	"github.com/adanyl0v/go-todo-agent/internal/models"
	"github.com/adanyl0v/go-todo-agent/internal/storage"
)

type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

const (
	DefaultLimit = 100

	// TaskColumns is the projection every task query selects, in scan order.
	TaskColumns = "id, title, description, status, priority, due_date, created_at, updated_at"

	// OrderNewestFirst breaks created_at ties by id so equal timestamps
	// keep insertion order.
	OrderNewestFirst = "ORDER BY created_at DESC, id DESC"
)

// Builder renders queries against the tasks table.
type Builder struct {
	dialect Dialect
	// encodeTime converts a time bound into the driver's storage form.
	encodeTime func(time.Time) any
}

func NewBuilder(dialect Dialect, encodeTime func(time.Time) any) Builder {
	if encodeTime == nil {
		encodeTime = func(t time.Time) any { return t }
	}
	return Builder{
		dialect:    dialect,
		encodeTime: encodeTime,
	}
}

// Where renders the conjunction of the filter's predicates. It returns an
// empty clause for an empty filter. Placeholders are numbered from
// firstArg for dialects that number them.
func (b Builder) Where(filter models.TaskFilter, firstArg int) (string, []any) {
	var (
		conditions []string
		args       []any
	)
	next := func(arg any) string {
		args = append(args, arg)
		return b.placeholder(firstArg + len(args) - 1)
	}

	if filter.Status != nil {
		conditions = append(conditions, "status = "+next(string(*filter.Status)))
	}
	if filter.Priority != nil {
		conditions = append(conditions, "priority = "+next(string(*filter.Priority)))
	}
	if filter.DueBefore != nil {
		conditions = append(conditions,
			"due_date IS NOT NULL AND due_date <= "+next(b.encodeTime(*filter.DueBefore)))
	}
	if filter.DueAfter != nil {
		conditions = append(conditions,
			"due_date IS NOT NULL AND due_date >= "+next(b.encodeTime(*filter.DueAfter)))
	}
	if filter.Search != "" {
		pattern := storage.ContainsPattern(filter.Search)
		conditions = append(conditions, "(title_key LIKE "+next(pattern)+` ESCAPE '\'`+
			" OR description_key LIKE "+next(pattern)+` ESCAPE '\')`)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// Filter renders the full select for a filter. Filtering is not paginated.
func (b Builder) Filter(filter models.TaskFilter) (string, []any) {
	where, args := b.Where(filter, 1)

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(TaskColumns)
	sb.WriteString(" FROM tasks")
	if where != "" {
		sb.WriteString(" ")
		sb.WriteString(where)
	}
	sb.WriteString(" ")
	sb.WriteString(OrderNewestFirst)
	return sb.String(), args
}

// List renders the paginated listing. A non-positive limit falls back to
// DefaultLimit and a negative offset to zero.
func (b Builder) List(offset, limit int) (string, []any) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	q := "SELECT " + TaskColumns + " FROM tasks " + OrderNewestFirst +
		" LIMIT " + b.placeholder(1) + " OFFSET " + b.placeholder(2)
	return q, []any{limit, offset}
}

func (b Builder) placeholder(n int) string {
	if b.dialect == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}
