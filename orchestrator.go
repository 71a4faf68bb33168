// Package suggest builds field suggestion dictionaries from model metadata.
// Each eligible field of each model becomes an entry keyed by its verbose name
// holding the field name and help text, ready for a client-side suggestion
// widget.
package suggest

import (
	"context"

	"github.com/goliatone/go-suggest/pkg/orchestrator"
	"github.com/goliatone/go-suggest/pkg/registry"
	"github.com/goliatone/go-suggest/pkg/render"
	pkgsuggest "github.com/goliatone/go-suggest/pkg/suggest"
)

// Dictionary aliases the suggestion dictionary for callers of the root package.
type Dictionary = pkgsuggest.Dictionary

// Entry is a single dictionary value.
type Entry = pkgsuggest.Entry

// Model describes a model and its fields.
type Model = registry.Model

// RenderOptions describes per-request output settings.
type RenderOptions = render.RenderOptions

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GetSuggestionDict builds the dictionary for an explicit list of models.
// Models named in exclude are skipped; without names the default exclusion
// set applies.
func GetSuggestionDict(models []Model, exclude ...string) (Dictionary, error) {
	var options []pkgsuggest.Option
	if len(exclude) > 0 {
		options = append(options, pkgsuggest.WithExcluded(exclude...))
	}
	return pkgsuggest.BuildDictionary(models, options...)
}

// GenerateDictionary loads the source, detects its format and builds the
// suggestion dictionary.
func GenerateDictionary(ctx context.Context, source registry.Source, options ...orchestrator.Option) (Dictionary, error) {
	gen := orchestrator.New(options...)
	result, err := gen.Generate(ctx, orchestrator.Request{Source: source})
	if err != nil {
		return nil, err
	}
	return result.Dictionary, nil
}

// Render loads the source and serialises its dictionary with the named
// renderer (json, yaml or js).
func Render(ctx context.Context, source registry.Source, rendererName string, renderOptions RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Render(ctx, orchestrator.Request{
		Source:        source,
		Renderer:      rendererName,
		RenderOptions: renderOptions,
	})
}
