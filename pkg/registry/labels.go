package registry

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Labeler derives a verbose name from a programmatic field name.
type Labeler func(name string) string

var splitWordsPattern = regexp.MustCompile(`[_\-\s.]+`)

// DefaultLabeler converts a field name into a human-friendly label. It splits
// on underscores, dashes and camelCase boundaries: "created_at" and
// "createdAt" both become "Created At".
func DefaultLabeler(name string) string {
	if name == "" {
		return ""
	}

	words := splitWordsPattern.Split(name, -1)
	var segments []string
	for _, word := range words {
		if word == "" {
			continue
		}
		segments = append(segments, titleCase(splitCamel(word)))
	}
	return strings.TrimSpace(strings.Join(segments, " "))
}

// VerboseName returns the declared label when present and falls back to the
// labeler (DefaultLabeler when nil).
func VerboseName(declared, name string, labeler Labeler) string {
	if trimmed := strings.TrimSpace(declared); trimmed != "" {
		return trimmed
	}
	if labeler == nil {
		labeler = DefaultLabeler
	}
	if label := labeler(name); label != "" {
		return label
	}
	return name
}

func splitCamel(input string) string {
	runes := []rune(input)
	var out strings.Builder
	for i, r := range runes {
		if i > 0 {
			var next rune
			if i+1 < len(runes) {
				next = runes[i+1]
			}
			if isBoundary(runes[i-1], r, next) {
				out.WriteRune(' ')
			}
		}
		out.WriteRune(r)
	}
	return out.String()
}

// isBoundary reports whether a word starts at r. next is zero at the end of
// the input.
func isBoundary(prev, r, next rune) bool {
	if unicode.IsUpper(prev) && unicode.IsUpper(r) && unicode.IsLower(next) {
		// "HTTPServer" → "HTTP Server"
		return true
	}
	return (unicode.IsLower(prev) && unicode.IsUpper(r)) ||
		(unicode.IsLetter(prev) && unicode.IsDigit(r)) ||
		(unicode.IsDigit(prev) && unicode.IsLetter(r))
}

func titleCase(word string) string {
	if word == "" {
		return ""
	}
	parts := strings.Fields(word)
	for i, part := range parts {
		if isAcronym(part) {
			continue
		}
		lower := strings.ToLower(part)
		first, size := utf8.DecodeRuneInString(lower)
		parts[i] = string(unicode.ToUpper(first)) + lower[size:]
	}
	return strings.Join(parts, " ")
}

func isAcronym(word string) bool {
	if utf8.RuneCountInString(word) < 2 {
		return false
	}
	for _, r := range word {
		if !unicode.IsUpper(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
