package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEmptyTitle           = errors.New("title must not be empty")
	ErrTitleTooLong         = fmt.Errorf("title must be at most %d characters", MaxTitleLength)
	ErrInvalidStatus        = errors.New("invalid status, use: pending, in_progress, completed")
	ErrInvalidPriority      = errors.New("invalid priority, use: low, medium, high, urgent")
	ErrInvalidDate          = errors.New("invalid date, use YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS")
	ErrUpdatedBeforeCreated = errors.New("updated_at must not precede created_at")
)

// ValidationError reports which input field was rejected and why.
type ValidationError struct {
	Field string
	Err   error
}

func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{
		Field: field,
		Err:   err,
	}
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NormalizeTitle trims the title and enforces the length bounds.
func NormalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", NewValidationError("title", ErrEmptyTitle)
	}
	if titleLength(title) > MaxTitleLength {
		return "", NewValidationError("title", ErrTitleTooLong)
	}
	return title, nil
}

// ParseStatus parses s case-insensitively. Unknown values are rejected,
// never mapped onto a default.
func ParseStatus(s string) (Status, error) {
	switch status := Status(strings.ToLower(strings.TrimSpace(s))); status {
	case StatusPending, StatusInProgress, StatusCompleted:
		return status, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

func ParsePriority(s string) (Priority, error) {
	switch priority := Priority(strings.ToLower(strings.TrimSpace(s))); priority {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return priority, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// ParseDate accepts RFC 3339 timestamps and the ISO 8601 forms without an
// offset, which are interpreted as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}
