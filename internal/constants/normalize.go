package constants

import "strings"

// normalize folds case and drops separators so "in-progress", "In Progress"
// and "InProgress" compare equal.
func normalize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', ' ':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}
