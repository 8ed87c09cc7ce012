package format

import "strings"

// MaxDescriptionLen caps free-text description segments in the
// rendered line.
const MaxDescriptionLen = 75

// Normalize collapses runs of whitespace to single spaces.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate shortens s to at most max characters, cutting at a word
// boundary where possible and appending an ellipsis marker.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " .,;:") + "..."
}
