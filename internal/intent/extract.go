package intent

import (
	"regexp"
	"strings"
	"time"

	"github.com/adanyl0v/go-todo-agent/internal/models"
)

// Quoted captures come before the unquoted remainder in each pattern so a
// quoted title wins over the rest of the sentence.
var titlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`add (?:a )?task (?:to |called )?(?:'([^']+)'|"([^"]+)"|(.+))`),
	regexp.MustCompile(`create (?:a )?task (?:to |for |called )?(?:'([^']+)'|"([^"]+)"|(.+))`),
	regexp.MustCompile(`remind me to (.+)`),
	regexp.MustCompile(`new task:? (.+)`),
	regexp.MustCompile(`task:? (.+)`),
	regexp.MustCompile(`i need to (.+)`),
	regexp.MustCompile(`(?:create|add|make|build) (?:a )?task (.+)`),
	regexp.MustCompile(`create a task to (.+)`),
}

// ExtractTitle returns the first non-empty group of the first matching
// pattern, or "" if none matches.
func ExtractTitle(text string) string {
	text = normalize(text)
	for _, pattern := range titlePatterns {
		groups := pattern.FindStringSubmatch(text)
		if groups == nil {
			continue
		}
		for _, group := range groups[1:] {
			if group = strings.TrimSpace(group); group != "" {
				return group
			}
		}
	}
	return ""
}

var priorityBuckets = []struct {
	priority models.Priority
	words    []string
}{
	{models.PriorityUrgent, []string{"urgent", "asap", "immediately"}},
	{models.PriorityHigh, []string{"high priority", "important", "high"}},
	{models.PriorityLow, []string{"low priority", "low", "sometime"}},
}

// ExtractPriority checks the buckets in urgent, high, low order regardless
// of where the words appear, defaulting to medium.
func ExtractPriority(text string) models.Priority {
	text = normalize(text)
	for _, bucket := range priorityBuckets {
		if containsAny(text, bucket.words) {
			return bucket.priority
		}
	}
	return models.PriorityMedium
}

// filterPriority picks the priority a filter request asks for.
func filterPriority(text string) models.Priority {
	switch {
	case strings.Contains(text, "high"):
		return models.PriorityHigh
	case strings.Contains(text, "urgent"):
		return models.PriorityUrgent
	case strings.Contains(text, "medium"):
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}

// ExtractDueDate maps today, tomorrow, next week and friday to the end of
// the matching day in now's location. It returns nil if none is present.
func ExtractDueDate(text string, now time.Time) *time.Time {
	text = normalize(text)

	var days int
	switch {
	case strings.Contains(text, "today"):
		days = 0
	case strings.Contains(text, "tomorrow"):
		days = 1
	case strings.Contains(text, "next week"):
		days = 7
	case strings.Contains(text, "friday"):
		days = (int(time.Friday) - int(now.Weekday()) + 7) % 7
		if days == 0 {
			days = 7
		}
	default:
		return nil
	}

	day := now.AddDate(0, 0, days)
	due := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, now.Location())
	return &due
}

var (
	referencePrefix = regexp.MustCompile(`^(?:mark|complete|delete|remove|finish)(?:\s+|$)(?:the(?:\s+|$))?`)
	referenceSuffix = regexp.MustCompile(`\s+(?:task|as\s+done|as\s+completed).*$`)
)

// ExtractReference strips the leading command verb and the trailing
// "task" or "as done" suffix, leaving the title to look up. A bare verb
// leaves nothing.
func ExtractReference(text string) string {
	text = normalize(text)
	text = referencePrefix.ReplaceAllString(text, "")
	text = referenceSuffix.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
