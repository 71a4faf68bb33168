package suggest

import "strings"

// DefaultDelimiter separates tokens when none is configured.
const DefaultDelimiter = " "

// Token is a non-empty run of text between delimiters. Begin and End are byte
// offsets into the original text, End exclusive.
type Token struct {
	Text  string `json:"text"`
	Begin int    `json:"begin"`
	End   int    `json:"end"`
}

// Tokenize splits text on delimiter, dropping empty tokens.
func Tokenize(text, delimiter string) []Token {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	var tokens []Token
	start := 0
	for {
		idx := strings.Index(text[start:], delimiter)
		if idx < 0 {
			if start < len(text) {
				tokens = append(tokens, Token{Text: text[start:], Begin: start, End: len(text)})
			}
			return tokens
		}
		end := start + idx
		if end > start {
			tokens = append(tokens, Token{Text: text[start:end], Begin: start, End: end})
		}
		start = end + len(delimiter)
	}
}
