package intent

import (
	"reflect"
	"testing"
	"time"

	"github.com/adanyl0v/go-todo-agent/internal/models"
)

// Wednesday.
var testNow = time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC)

func endOfDay(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 23, 59, 59, 0, time.UTC)
	return &t
}

func TestResolve(t *testing.T) {
	resolver := NewResolver(WithClock(func() time.Time { return testNow }))

	tests := []struct {
		input string
		want  Intent
	}{
		{
			input: "Add a task to buy groceries tomorrow, high priority",
			want: Create{
				Title:    "buy groceries tomorrow, high priority",
				Priority: models.PriorityHigh,
				DueDate:  endOfDay(2026, 3, 5),
			},
		},
		{
			input: "Remind me to call the dentist",
			want:  Create{Title: "call the dentist", Priority: models.PriorityMedium},
		},
		{
			input: "add a task",
			want:  Create{Priority: models.PriorityMedium},
		},
		{
			input: "Add a task to review the urgent report",
			want:  Create{Title: "review the urgent report", Priority: models.PriorityUrgent},
		},
		{input: "Show me my tasks", want: List{}},
		{input: "  LIST TASKS  ", want: List{}},
		{input: "mark buy groceries as done", want: Complete{Reference: "buy groceries"}},
		{input: "Mark the grocery task as done", want: Complete{Reference: "grocery"}},
		{input: "mark the urgent report done", want: Complete{Reference: "urgent report done"}},
		{input: "Show me high priority tasks", want: FilterByPriority{Priority: models.PriorityHigh}},
		{input: "anything urgent?", want: FilterByPriority{Priority: models.PriorityUrgent}},
		{input: "urgent or high priority", want: FilterByPriority{Priority: models.PriorityHigh}},
		{input: "medium priority please", want: FilterByPriority{Priority: models.PriorityMedium}},
		{input: "delete all low priority tasks", want: FilterByPriority{Priority: models.PriorityLow}},
		{input: "delete nonexistent task", want: Delete{Reference: "nonexistent"}},
		{input: "Remove the meeting task", want: Delete{Reference: "meeting"}},
		{input: "delete", want: Delete{}},
		{input: "Hello there!", want: Unrecognized{RawText: "Hello there!"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := resolver.Resolve(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Resolve(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Add a task to buy groceries", "buy groceries"},
		{"add task called 'Quarterly Report' by friday", "quarterly report"},
		{`Add task "Call Mom" today`, "call mom"},
		{"Create a task for the team offsite", "the team offsite"},
		{"create task 'ship it'", "ship it"},
		{"Remind me to water the plants", "water the plants"},
		{"New task: clean garage", "clean garage"},
		{"task: renew passport", "renew passport"},
		{"I need to renew passport, add a task", "renew passport, add a task"},
		{"make task fix bike", "fix bike"},
		{"build", ""},
		{"add a task", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ExtractTitle(tt.input); got != tt.want {
				t.Errorf("ExtractTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractPriority(t *testing.T) {
	tests := []struct {
		input string
		want  models.Priority
	}{
		{"urgent, but also low priority", models.PriorityUrgent},
		{"low priority but do it ASAP", models.PriorityUrgent},
		{"needed immediately", models.PriorityUrgent},
		{"this is important", models.PriorityHigh},
		{"high priority", models.PriorityHigh},
		{"sometime next month", models.PriorityLow},
		{"low priority, and high as well", models.PriorityHigh},
		{"buy bread", models.PriorityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ExtractPriority(tt.input); got != tt.want {
				t.Errorf("ExtractPriority(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractDueDate(t *testing.T) {
	friday := time.Date(2026, 3, 6, 8, 0, 0, 0, time.UTC)
	saturday := time.Date(2026, 3, 7, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		now   time.Time
		want  *time.Time
	}{
		{"today", "finish it today", testNow, endOfDay(2026, 3, 4)},
		{"tomorrow", "Tomorrow please", testNow, endOfDay(2026, 3, 5)},
		{"next week", "sometime next week", testNow, endOfDay(2026, 3, 11)},
		{"friday from wednesday", "by friday", testNow, endOfDay(2026, 3, 6)},
		{"friday on friday", "by friday", friday, endOfDay(2026, 3, 13)},
		{"friday from saturday", "by Friday", saturday, endOfDay(2026, 3, 13)},
		{"first keyword wins", "tomorrow or today", testNow, endOfDay(2026, 3, 4)},
		{"month boundary", "tomorrow", time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC), endOfDay(2026, 4, 1)},
		{"none", "whenever", testNow, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractDueDate(tt.input, tt.now)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("expected no due date, got %v", got)
			case tt.want != nil && (got == nil || !got.Equal(*tt.want)):
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractDueDateKeepsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	now := time.Date(2026, 3, 4, 23, 30, 0, 0, loc)

	got := ExtractDueDate("today", now)
	want := time.Date(2026, 3, 4, 23, 59, 59, 0, loc)
	if got == nil || !got.Equal(want) || got.Location() != loc {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExtractReference(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"mark buy groceries as done", "buy groceries"},
		{"Mark the grocery task as done", "grocery"},
		{"complete laundry as completed", "laundry"},
		{"finish the report", "report"},
		{"delete nonexistent task", "nonexistent"},
		{"Remove  Buy Milk", "buy milk"},
		{"done with taxes", "done with taxes"},
		{"delete the task", "task"},
		{"delete", ""},
		{"delete ", ""},
		{"remove the", ""},
		{"delete theater tickets", "theater tickets"},
		{"marketing plan done", "marketing plan done"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ExtractReference(tt.input); got != tt.want {
				t.Errorf("ExtractReference(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
