package render

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-suggest/pkg/suggest"
)

// Mode selects how the client script installs the dictionary.
type Mode string

const (
	// ModeSet replaces the client dictionary (setDict).
	ModeSet Mode = "set"
	// ModeUpdate merges into the client dictionary (updateDict).
	ModeUpdate Mode = "update"
)

// DefaultVariable is the global the client script registers under.
const DefaultVariable = "suggest"

// ParseMode validates a mode name. Empty input selects ModeSet.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ModeSet:
		return ModeSet, nil
	case ModeUpdate:
		return ModeUpdate, nil
	default:
		return "", fmt.Errorf("render: unknown mode %q", raw)
	}
}

// RenderOptions carry per-request output settings.
type RenderOptions struct {
	// Mode picks setDict or updateDict for script output.
	Mode Mode
	// Variable overrides the client global, DefaultVariable when empty.
	Variable string
	// Sanitize strips markup from help text other than basic inline
	// formatting. The client inserts help text as HTML.
	Sanitize bool
	// Indent pretty-prints structured output.
	Indent bool
}

// Prepare returns the dictionary a renderer should serialise, sanitised when
// requested.
func (o RenderOptions) Prepare(dict suggest.Dictionary) suggest.Dictionary {
	if !o.Sanitize {
		return dict
	}
	return SanitizeDictionary(dict)
}

// ScriptVariable returns the configured client global.
func (o RenderOptions) ScriptVariable() string {
	if v := strings.TrimSpace(o.Variable); v != "" {
		return v
	}
	return DefaultVariable
}
