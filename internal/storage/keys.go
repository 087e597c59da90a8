package storage

import (
	"strings"

	"golang.org/x/text/cases"
)

// FoldKey returns the case-folded form used for case-insensitive title
// lookups and searches. Both drivers compare folded keys so that matching
// does not depend on the database collation.
func FoldKey(s string) string {
	// A Caser is stateful, so a fresh one is used per call.
	return cases.Fold().String(strings.TrimSpace(s))
}

// FoldOptionalKey folds s, keeping nil as nil.
func FoldOptionalKey(s *string) *string {
	if s == nil {
		return nil
	}
	key := cases.Fold().String(*s)
	return &key
}

// ContainsPattern builds a LIKE pattern matching any value that contains
// the folded search term. Wildcards in the term are escaped with '\'.
func ContainsPattern(search string) string {
	escaped := strings.NewReplacer(
		`\`, `\\`,
		`%`, `\%`,
		`_`, `\_`,
	).Replace(cases.Fold().String(search))
	return "%" + escaped + "%"
}
