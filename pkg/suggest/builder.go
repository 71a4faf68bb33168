package suggest

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/goliatone/go-suggest/pkg/registry"
)

// DefaultExcludedModel is excluded when the caller does not configure an
// exclusion set.
const DefaultExcludedModel = "UndesiredModel"

// DefaultExcludedModels returns a fresh copy of the default exclusion set.
func DefaultExcludedModels() []string {
	return []string{DefaultExcludedModel}
}

// Result is the outcome of a build.
type Result struct {
	Dictionary Dictionary `json:"dictionary"`
	// Collisions lists verbose names produced by more than one distinct entry,
	// sorted by key. It is populated under every policy.
	Collisions []Collision `json:"collisions,omitempty"`
	// Excluded lists the names of models skipped by the exclusion set, in
	// input order.
	Excluded []string `json:"excluded,omitempty"`
}

// Option configures a Builder.
type Option func(*Builder)

// WithExcluded replaces the default exclusion set. Calling it without names
// disables exclusion entirely.
func WithExcluded(names ...string) Option {
	return func(b *Builder) {
		b.excluded = make(map[string]struct{}, len(names))
		for _, name := range names {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				b.excluded[trimmed] = struct{}{}
			}
		}
	}
}

// WithCollisionPolicy selects how conflicting verbose names are resolved.
func WithCollisionPolicy(policy CollisionPolicy) Option {
	return func(b *Builder) {
		if policy != "" {
			b.policy = policy
		}
	}
}

// WithLabeler overrides the verbose name fallback for fields that do not
// declare one.
func WithLabeler(labeler registry.Labeler) Option {
	return func(b *Builder) {
		if labeler != nil {
			b.labeler = labeler
		}
	}
}

// WithLogger sets the logger used for build diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// Builder converts model descriptors into a suggestion dictionary.
type Builder struct {
	excluded map[string]struct{}
	policy   CollisionPolicy
	labeler  registry.Labeler
	logger   *slog.Logger
}

// NewBuilder returns a Builder excluding DefaultExcludedModel with the
// last-wins collision policy unless options say otherwise.
func NewBuilder(options ...Option) *Builder {
	b := &Builder{
		excluded: map[string]struct{}{DefaultExcludedModel: {}},
		policy:   CollisionLastWins,
		labeler:  registry.DefaultLabeler,
		logger:   slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b
}

// Excluded returns the configured exclusion set in lexical order.
func (b *Builder) Excluded() []string {
	names := make([]string, 0, len(b.excluded))
	for name := range b.excluded {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build walks models in order, and their fields in declaration order, adding
// one entry per eligible field. A field is eligible when its model is not
// excluded and it is neither the model's primary key nor a foreign key.
func (b *Builder) Build(models []registry.Model) (Result, error) {
	result := Result{Dictionary: make(Dictionary)}
	origins := make(map[string][]Origin)
	conflicted := make(map[string]bool)

	for _, model := range models {
		if err := model.Validate(); err != nil {
			return Result{}, fmt.Errorf("suggest: build: %w", err)
		}
		if _, skip := b.excluded[model.Name]; skip {
			b.logger.Debug("model excluded", "model", model.Name)
			result.Excluded = append(result.Excluded, model.Name)
			continue
		}

		added := 0
		for _, field := range model.Fields {
			if model.IsPrimaryKey(field) || field.IsForeignKey() {
				continue
			}

			key := registry.VerboseName(field.VerboseName, field.Name, b.labeler)
			entry := Entry{Value: field.Name, HelpText: field.HelpText}
			origin := Origin{Model: model.Name, Field: field.Name, Entry: entry}
			added++

			previous, exists := result.Dictionary[key]
			origins[key] = append(origins[key], origin)
			if !exists {
				result.Dictionary[key] = entry
				continue
			}
			if previous == entry {
				continue
			}

			conflicted[key] = true
			if b.policy == CollisionLastWins {
				result.Dictionary[key] = entry
			}
		}
		b.logger.Debug("model processed", "model", model.Name, "entries", added)
	}

	for key := range conflicted {
		result.Collisions = append(result.Collisions, Collision{Key: key, Origins: origins[key]})
	}
	sort.Slice(result.Collisions, func(i, j int) bool {
		return result.Collisions[i].Key < result.Collisions[j].Key
	})

	if len(result.Collisions) > 0 {
		if b.policy == CollisionFail {
			return Result{}, &CollisionError{Collisions: result.Collisions}
		}
		b.logger.Warn("verbose name collisions resolved", "policy", string(b.policy), "count", len(result.Collisions))
	}

	return result, nil
}

// BuildDictionary is a shortcut for NewBuilder(options...).Build(models) that
// returns only the dictionary.
func BuildDictionary(models []registry.Model, options ...Option) (Dictionary, error) {
	result, err := NewBuilder(options...).Build(models)
	if err != nil {
		return nil, err
	}
	return result.Dictionary, nil
}
