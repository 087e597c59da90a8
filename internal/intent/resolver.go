package intent

import (
	"strings"
	"time"
)

type rule struct {
	keywords []string
	build    func(r *Resolver, text string) Intent
}

// Rules are evaluated in order and the first one with a keyword present
// wins. Reordering them changes behaviour: "mark the urgent report done"
// is a completion, not a priority filter.
var rules = []rule{
	{
		keywords: []string{
			"add task", "create task", "new task", "remind me",
			"create a task", "add a task", "make task", "build",
		},
		build: func(r *Resolver, text string) Intent {
			return Create{
				Title:    ExtractTitle(text),
				Priority: ExtractPriority(text),
				DueDate:  ExtractDueDate(text, r.now()),
			}
		},
	},
	{
		keywords: []string{"show tasks", "list tasks", "my tasks", "what tasks"},
		build: func(_ *Resolver, _ string) Intent {
			return List{}
		},
	},
	{
		keywords: []string{"mark", "complete", "done", "finished"},
		build: func(_ *Resolver, text string) Intent {
			return Complete{Reference: ExtractReference(text)}
		},
	},
	{
		keywords: []string{"high priority", "urgent", "medium priority", "low priority"},
		build: func(_ *Resolver, text string) Intent {
			return FilterByPriority{Priority: filterPriority(text)}
		},
	},
	{
		keywords: []string{"delete", "remove"},
		build: func(_ *Resolver, text string) Intent {
			return Delete{Reference: ExtractReference(text)}
		},
	},
}

type Resolver struct {
	now func() time.Time
}

type Option func(r *Resolver)

// WithClock sets the time relative due dates are anchored to.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		r.now = now
	}
}

func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve never fails: text no rule claims becomes Unrecognized with the
// original text.
func (r *Resolver) Resolve(text string) Intent {
	normalized := normalize(text)
	for _, rule := range rules {
		if containsAny(normalized, rule.keywords) {
			return rule.build(r, normalized)
		}
	}
	return Unrecognized{RawText: text}
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
