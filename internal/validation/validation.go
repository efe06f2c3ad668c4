package validation

import (
	"strings"
	"unicode/utf8"
)

// MaxTitleLength is the longest option title accepted, in runes.
const MaxTitleLength = 200

// NormalizeTitle trims surrounding whitespace. Titles stay case-sensitive.
func NormalizeTitle(title string) string {
	return strings.TrimSpace(title)
}

// ValidateTitle checks that a normalized title is usable as a store key.
func ValidateTitle(title string) (bool, string) {
	if title == "" {
		return false, "title is required"
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return false, "title must be at most 200 characters"
	}
	if !utf8.ValidString(title) {
		return false, "title must be valid UTF-8"
	}
	return true, ""
}

// NormalizePool trims every title, drops blanks and repeats, and keeps the
// first occurrence order.
func NormalizePool(pool []string) []string {
	seen := make(map[string]bool, len(pool))
	out := make([]string, 0, len(pool))
	for _, raw := range pool {
		title := NormalizeTitle(raw)
		if title == "" || seen[title] {
			continue
		}
		seen[title] = true
		out = append(out, title)
	}
	return out
}
