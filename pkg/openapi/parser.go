package openapi

import (
	"context"

	"github.com/goliatone/go-suggest/pkg/registry"
)

// Parser converts OpenAPI documents into models ordered by schema name.
type Parser interface {
	Models(ctx context.Context, doc registry.Document) ([]registry.Model, error)
}

// ParserOptions exposes parser toggles.
type ParserOptions struct {
	// ValidateDocument runs kin-openapi validation before extracting models.
	ValidateDocument bool

	// AllowExternalRefs lets the loader follow $refs into other documents.
	AllowExternalRefs bool

	// Labeler derives verbose names for properties without a title.
	Labeler registry.Labeler
}

// ParserOption mutates ParserOptions during construction.
type ParserOption func(*ParserOptions)

// WithValidation toggles document validation.
func WithValidation(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.ValidateDocument = enabled
	}
}

// WithExternalRefs toggles resolution of references to other documents.
func WithExternalRefs(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.AllowExternalRefs = enabled
	}
}

// WithLabeler overrides the verbose name fallback.
func WithLabeler(labeler registry.Labeler) ParserOption {
	return func(opts *ParserOptions) {
		opts.Labeler = labeler
	}
}

// NewParserOptions applies ParserOption functions and returns the resulting
// configuration.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{
		ValidateDocument: false,
		Labeler:          registry.DefaultLabeler,
	}
	for _, opt := range options {
		opt(&cfg)
	}
	if cfg.Labeler == nil {
		cfg.Labeler = registry.DefaultLabeler
	}
	return cfg
}
