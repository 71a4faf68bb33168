package suggest

import "sort"

// Entry is a single suggestion: the value to insert and its help text.
type Entry struct {
	Value    string `json:"value" yaml:"value"`
	HelpText string `json:"help_text" yaml:"help_text"`
}

// Dictionary maps verbose names to suggestion entries.
type Dictionary map[string]Entry

// Keys returns the dictionary keys in lexical order.
func (d Dictionary) Keys() []string {
	keys := make([]string, 0, len(d))
	for key := range d {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy of the dictionary.
func (d Dictionary) Clone() Dictionary {
	if d == nil {
		return nil
	}
	out := make(Dictionary, len(d))
	for key, entry := range d {
		out[key] = entry
	}
	return out
}

// Map converts the dictionary into the candidate form used by Store.
func (d Dictionary) Map() map[string]Candidates {
	out := make(map[string]Candidates, len(d))
	for key, entry := range d {
		out[key] = Candidates{entry}
	}
	return out
}
