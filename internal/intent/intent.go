// Package intent classifies free-text requests into task operations using
// ordered keyword rules.
package intent

import (
	"time"

	"github.com/adanyl0v/go-todo-agent/internal/models"
)

// Intent is one of Create, List, Complete, FilterByPriority, Delete or
// Unrecognized.
type Intent interface {
	isIntent()
}

// Create carries an empty Title when no phrasing pattern matched.
type Create struct {
	Title       string
	Description *string
	Priority    models.Priority
	DueDate     *time.Time
}

type List struct{}

// Complete carries an empty Reference when nothing remained after
// stripping the command words.
type Complete struct {
	Reference string
}

type FilterByPriority struct {
	Priority models.Priority
}

type Delete struct {
	Reference string
}

type Unrecognized struct {
	RawText string
}

func (Create) isIntent()           {}
func (List) isIntent()             {}
func (Complete) isIntent()         {}
func (FilterByPriority) isIntent() {}
func (Delete) isIntent()           {}
func (Unrecognized) isIntent()     {}
