// Package prompt offers an interactive try-out of a suggestion dictionary:
// the user types text, picks a token that has suggestions, picks one of the
// matches and sees the token replaced by the chosen value.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/goliatone/go-suggest/pkg/suggest"
)

const doneOption = "Done"

// Option configures a Session.
type Option func(*Session)

// WithDriver overrides the survey-backed driver.
func WithDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithDelimiter sets the token delimiter, a single space by default.
func WithDelimiter(delimiter string) Option {
	return func(s *Session) {
		if delimiter != "" {
			s.delimiter = delimiter
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Session drives one try-out over a store.
type Session struct {
	store     *suggest.Store
	driver    PromptDriver
	delimiter string
	logger    *slog.Logger
}

// NewSession constructs a Session reading candidates from store.
func NewSession(store *suggest.Store, options ...Option) *Session {
	s := &Session{
		store:     store,
		delimiter: suggest.DefaultDelimiter,
		logger:    slog.Default(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	return s
}

// Run prompts for text and applies suggestions until the user picks Done or
// no token has matches. It returns the final text.
func (s *Session) Run(ctx context.Context, initial string) (string, error) {
	if s.store == nil {
		return "", errors.New("prompt: store is nil")
	}

	text, err := s.driver.Input(ctx, InputConfig{
		Message: "Text",
		Default: initial,
		Help:    "Words are matched against field names, values and help text.",
	})
	if err != nil {
		return "", err
	}

	for {
		suggestions := s.store.Suggest(text, s.delimiter)
		if len(suggestions) == 0 {
			if err := s.driver.Info(ctx, fmt.Sprintf("No suggestions for %q", text)); err != nil {
				return "", err
			}
			return text, nil
		}

		suggestion, done, err := s.pickToken(ctx, suggestions)
		if err != nil {
			return "", err
		}
		if done {
			return text, nil
		}

		match, done, err := s.pickMatch(ctx, suggestion)
		if err != nil {
			return "", err
		}
		if done {
			continue
		}

		text, err = suggest.Apply(text, suggestion.Token, match.Value)
		if err != nil {
			return "", fmt.Errorf("prompt: apply suggestion: %w", err)
		}
		s.logger.Debug("suggestion applied", "token", suggestion.Token.Text, "value", match.Value)
		if err := s.driver.Info(ctx, text); err != nil {
			return "", err
		}
	}
}

func (s *Session) pickToken(ctx context.Context, suggestions []suggest.Suggestion) (suggest.Suggestion, bool, error) {
	options := make([]string, 0, len(suggestions)+1)
	for _, suggestion := range suggestions {
		options = append(options, fmt.Sprintf("%s (%d)", suggestion.Token.Text, len(suggestion.Matches)))
	}
	options = append(options, doneOption)

	idx, err := s.driver.Select(ctx, SelectConfig{
		Message:      "Token",
		Options:      options,
		DefaultIndex: len(suggestions) - 1,
	})
	if err != nil {
		return suggest.Suggestion{}, false, err
	}
	if idx < 0 || idx >= len(suggestions) {
		return suggest.Suggestion{}, true, nil
	}
	return suggestions[idx], false, nil
}

// pickMatch reports done when the user backs out without choosing.
func (s *Session) pickMatch(ctx context.Context, suggestion suggest.Suggestion) (suggest.Match, bool, error) {
	options := make([]string, 0, len(suggestion.Matches)+1)
	descriptions := make([]string, 0, len(suggestion.Matches)+1)
	for _, match := range suggestion.Matches {
		options = append(options, match.Label())
		descriptions = append(descriptions, match.HelpText)
	}
	options = append(options, "Back")
	descriptions = append(descriptions, "")

	idx, err := s.driver.Select(ctx, SelectConfig{
		Message:      fmt.Sprintf("Replace %q with", suggestion.Token.Text),
		Options:      options,
		Descriptions: descriptions,
	})
	if err != nil {
		return suggest.Match{}, false, err
	}
	if idx < 0 || idx >= len(suggestion.Matches) {
		return suggest.Match{}, true, nil
	}
	return suggestion.Matches[idx], false, nil
}
