package suggest

import (
	"sort"
	"strings"
	"sync"
)

// Store holds a suggestion dictionary and answers lookups against it. It is
// safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries map[string]Candidates
}

// NewStore returns a store seeded with dict.
func NewStore(dict map[string]Candidates) *Store {
	s := &Store{entries: make(map[string]Candidates)}
	s.Update(dict)
	return s
}

// NewStoreFromDictionary seeds a store from a built dictionary.
func NewStoreFromDictionary(dict Dictionary) *Store {
	return NewStore(dict.Map())
}

// Update merges dict into the store, overriding keys present in both.
func (s *Store) Update(dict map[string]Candidates) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.merge(dict)
}

// Set replaces the stored dictionary with dict.
func (s *Store) Set(dict map[string]Candidates) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]Candidates, len(dict))
	s.merge(dict)
}

func (s *Store) merge(dict map[string]Candidates) {
	for key, candidates := range dict {
		s.entries[key] = append(Candidates(nil), candidates...)
	}
}

// Snapshot returns a copy of the stored dictionary.
func (s *Store) Snapshot() map[string]Candidates {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Candidates, len(s.entries))
	for key, candidates := range s.entries {
		out[key] = append(Candidates(nil), candidates...)
	}
	return out
}

// Len reports the number of keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Match returns every candidate whose key, value or help text contains word,
// ignoring case. Results are ordered by key, then by candidate position.
func (s *Store) Match(word string) []Match {
	needle := strings.ToLower(word)

	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var out []Match
	for _, key := range keys {
		for _, candidate := range s.entries[key] {
			if matches(needle, key, candidate) {
				out = append(out, Match{Key: key, Value: candidate.Value, HelpText: candidate.HelpText})
			}
		}
	}
	return out
}

// Suggest tokenizes text and returns the matches for every token that has
// any, in token order.
func (s *Store) Suggest(text, delimiter string) []Suggestion {
	var out []Suggestion
	for _, token := range Tokenize(text, delimiter) {
		found := s.Match(token.Text)
		if len(found) == 0 {
			continue
		}
		out = append(out, Suggestion{Token: token, Matches: found})
	}
	return out
}

// Current returns the suggestion for the last token of text, which is the
// word being typed. ok is false when the last token has no matches.
func (s *Store) Current(text, delimiter string) (Suggestion, bool) {
	tokens := Tokenize(text, delimiter)
	if len(tokens) == 0 {
		return Suggestion{}, false
	}
	last := tokens[len(tokens)-1]
	found := s.Match(last.Text)
	if len(found) == 0 {
		return Suggestion{}, false
	}
	return Suggestion{Token: last, Matches: found}, true
}
