package suggest

import (
	"fmt"
	"strings"
)

// Match is a candidate whose key, value or help text contains the searched
// word.
type Match struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	HelpText string `json:"help_text"`
}

// Label renders the match the way the suggestion widget lists it.
func (m Match) Label() string {
	return fmt.Sprintf("%s (%s)", m.Value, m.Key)
}

// Suggestion groups the matches found for one token.
type Suggestion struct {
	Token   Token   `json:"token"`
	Matches []Match `json:"matches"`
}

func matches(word string, key string, entry Entry) bool {
	return strings.Contains(strings.ToLower(key), word) ||
		strings.Contains(strings.ToLower(entry.Value), word) ||
		strings.Contains(strings.ToLower(entry.HelpText), word)
}

// Apply replaces the token's span in text with value.
func Apply(text string, token Token, value string) (string, error) {
	if token.Begin < 0 || token.End < token.Begin || token.End > len(text) {
		return "", fmt.Errorf("suggest: token [%d,%d) out of range for text of length %d", token.Begin, token.End, len(text))
	}
	return text[:token.Begin] + value + text[token.End:], nil
}
