package models

import (
	"time"
	"unicode/utf8"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

const MaxTitleLength = 255

type Task struct {
	ID          int64
	Title       string
	Description *string
	Status      Status
	Priority    Priority
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskFilter is a conjunction of optional criteria.
// A nil pointer or an empty Search leaves that dimension unconstrained.
type TaskFilter struct {
	Status    *Status
	Priority  *Priority
	DueBefore *time.Time
	DueAfter  *time.Time
	Search    string
}

func (f TaskFilter) IsEmpty() bool {
	return f.Status == nil &&
		f.Priority == nil &&
		f.DueBefore == nil &&
		f.DueAfter == nil &&
		f.Search == ""
}

// TaskPatch describes a partial update. Nil fields are left untouched,
// the Clear* flags reset the optional columns to null.
type TaskPatch struct {
	Title            *string
	Description      *string
	ClearDescription bool
	Status           *Status
	Priority         *Priority
	DueDate          *time.Time
	ClearDueDate     bool
}

func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil &&
		p.Description == nil &&
		!p.ClearDescription &&
		p.Status == nil &&
		p.Priority == nil &&
		p.DueDate == nil &&
		!p.ClearDueDate
}

// Apply copies the patch onto task. It does not touch UpdatedAt.
func (p TaskPatch) Apply(task *Task) {
	if p.Title != nil {
		task.Title = *p.Title
	}
	switch {
	case p.ClearDescription:
		task.Description = nil
	case p.Description != nil:
		description := *p.Description
		task.Description = &description
	}
	if p.Status != nil {
		task.Status = *p.Status
	}
	if p.Priority != nil {
		task.Priority = *p.Priority
	}
	switch {
	case p.ClearDueDate:
		task.DueDate = nil
	case p.DueDate != nil:
		dueDate := *p.DueDate
		task.DueDate = &dueDate
	}
}

// Validate checks the invariants every stored task must hold.
func (t *Task) Validate() error {
	if _, err := NormalizeTitle(t.Title); err != nil {
		return err
	}
	if _, err := ParseStatus(string(t.Status)); err != nil {
		return NewValidationError("status", err)
	}
	if _, err := ParsePriority(string(t.Priority)); err != nil {
		return NewValidationError("priority", err)
	}
	if t.UpdatedAt.Before(t.CreatedAt) {
		return NewValidationError("updated_at", ErrUpdatedBeforeCreated)
	}
	return nil
}

func titleLength(title string) int {
	return utf8.RuneCountInString(title)
}
