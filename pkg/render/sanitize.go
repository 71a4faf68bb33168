package render

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-suggest/pkg/suggest"
)

var (
	helpPolicyOnce sync.Once
	helpPolicy     *bluemonday.Policy
)

// SanitizeHelpText strips every element from raw except b, i, em, strong,
// code and br.
func SanitizeHelpText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(helpSanitizer().Sanitize(trimmed))
}

// SanitizeDictionary returns a copy of dict with sanitised help text.
func SanitizeDictionary(dict suggest.Dictionary) suggest.Dictionary {
	out := make(suggest.Dictionary, len(dict))
	for key, entry := range dict {
		entry.HelpText = SanitizeHelpText(entry.HelpText)
		out[key] = entry
	}
	return out
}

func helpSanitizer() *bluemonday.Policy {
	helpPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "i", "em", "strong", "code", "br")
		helpPolicy = policy
	})
	return helpPolicy
}
