package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	internalLoader "github.com/goliatone/go-suggest/internal/openapi/loader"
	internalParser "github.com/goliatone/go-suggest/internal/openapi/parser"
	"github.com/goliatone/go-suggest/pkg/descriptor"
	pkgopenapi "github.com/goliatone/go-suggest/pkg/openapi"
	"github.com/goliatone/go-suggest/pkg/registry"
	"github.com/goliatone/go-suggest/pkg/render"
	"github.com/goliatone/go-suggest/pkg/renderers/jsondict"
	"github.com/goliatone/go-suggest/pkg/renderers/script"
	"github.com/goliatone/go-suggest/pkg/renderers/yamldict"
	"github.com/goliatone/go-suggest/pkg/suggest"
)

const (
	defaultRendererName = jsondict.Name
	defaultAdapterName  = pkgopenapi.DefaultAdapterName
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects the document loader shared by the default adapters.
func WithLoader(loader pkgopenapi.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithParser injects a custom OpenAPI parser.
func WithParser(parser pkgopenapi.Parser) Option {
	return func(o *Orchestrator) {
		o.parser = parser
	}
}

// WithAdapterRegistry replaces the default adapter registry (openapi and
// descriptor).
func WithAdapterRegistry(adapters *registry.AdapterRegistry) Option {
	return func(o *Orchestrator) {
		o.adapters = adapters
	}
}

// WithRendererRegistry replaces the default renderer registry (json, yaml and
// js).
func WithRendererRegistry(renderers *render.Registry) Option {
	return func(o *Orchestrator) {
		o.renderers = renderers
	}
}

// WithDefaultAdapter names the adapter used when a request omits one and
// detection finds no match.
func WithDefaultAdapter(name string) Option {
	return func(o *Orchestrator) {
		o.defaultAdapter = name
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithExcluded replaces the excluded model names. Calling it without names
// disables exclusion.
func WithExcluded(names ...string) Option {
	return func(o *Orchestrator) {
		o.builderOptions = append(o.builderOptions, suggest.WithExcluded(names...))
	}
}

// WithCollisionPolicy selects how verbose-name clashes are resolved.
func WithCollisionPolicy(policy suggest.CollisionPolicy) Option {
	return func(o *Orchestrator) {
		o.builderOptions = append(o.builderOptions, suggest.WithCollisionPolicy(policy))
	}
}

// WithLabeler overrides the verbose-name fallback for fields without one.
func WithLabeler(labeler registry.Labeler) Option {
	return func(o *Orchestrator) {
		o.builderOptions = append(o.builderOptions, suggest.WithLabeler(labeler))
	}
}

// WithLogger sets the logger used by the orchestrator and its builder.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator coordinates the pipeline from a model source to rendered
// output. Missing dependencies are initialised with the built-in
// implementations.
type Orchestrator struct {
	loader          pkgopenapi.Loader
	parser          pkgopenapi.Parser
	adapters        *registry.AdapterRegistry
	renderers       *render.Registry
	defaultAdapter  string
	defaultRenderer string
	builderOptions  []suggest.Option
	builder         *suggest.Builder
	logger          *slog.Logger
	initialiseErr   error
	defaultsApplied bool
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultAdapter:  defaultAdapterName,
		defaultRenderer: defaultRendererName,
		logger:          slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes where models come from and how to render them. Exactly
// one of Provider, Document or Source is consulted, in that order.
type Request struct {
	// Provider supplies models directly (GORM registry, SQL introspection).
	Provider registry.Provider

	// Document bypasses the loader when the payload is already in memory.
	Document *registry.Document

	// Source identifies where the model document lives.
	Source registry.Source

	// Adapter names the adapter for Document or Source. Detected from the
	// payload when empty.
	Adapter string

	// Renderer names the renderer used by Render. Falls back to the
	// configured default.
	Renderer string

	// RenderOptions carries per-request output settings.
	RenderOptions render.RenderOptions
}

// Generate resolves the request's models and builds the suggestion
// dictionary.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (suggest.Result, error) {
	if ctx == nil {
		return suggest.Result{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return suggest.Result{}, err
	}
	if err := o.ready(); err != nil {
		return suggest.Result{}, err
	}

	models, err := o.resolveModels(ctx, req)
	if err != nil {
		return suggest.Result{}, err
	}

	result, err := o.builder.Build(models)
	if err != nil {
		return suggest.Result{}, fmt.Errorf("orchestrator: build dictionary: %w", err)
	}
	o.logger.Debug("dictionary generated",
		slog.Int("models", len(models)),
		slog.Int("entries", len(result.Dictionary)),
		slog.Int("collisions", len(result.Collisions)),
	)
	return result, nil
}

// Render runs Generate and serialises the dictionary with the requested
// renderer.
func (o *Orchestrator) Render(ctx context.Context, req Request) ([]byte, error) {
	result, err := o.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	return o.RenderDictionary(ctx, result.Dictionary, req.Renderer, req.RenderOptions)
}

// RenderDictionary serialises an already built dictionary.
func (o *Orchestrator) RenderDictionary(ctx context.Context, dict suggest.Dictionary, rendererName string, options render.RenderOptions) ([]byte, error) {
	if err := o.ready(); err != nil {
		return nil, err
	}
	renderer, err := o.Renderer(rendererName)
	if err != nil {
		return nil, err
	}
	output, err := renderer.Render(ctx, dict, options)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Renderer resolves a renderer by name, falling back to the default and then
// to the first registered renderer.
func (o *Orchestrator) Renderer(name string) (render.Renderer, error) {
	if o.renderers == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.renderers.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.renderers.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.renderers.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

// Excluded reports the model names the builder skips.
func (o *Orchestrator) Excluded() []string {
	if o.builder == nil {
		return nil
	}
	return o.builder.Excluded()
}

func (o *Orchestrator) resolveModels(ctx context.Context, req Request) ([]registry.Model, error) {
	if req.Provider != nil {
		models, err := req.Provider.Models(ctx)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: load models: %w", err)
		}
		return models, nil
	}

	adapter, doc, err := o.resolveAdapter(ctx, req)
	if err != nil {
		return nil, err
	}

	models, err := adapter.Models(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: parse models: %w", err)
	}
	o.logger.Debug("models parsed",
		slog.String("adapter", adapter.Name()),
		slog.String("source", doc.Location()),
		slog.Int("count", len(models)),
	)
	return models, nil
}

func (o *Orchestrator) ready() error {
	if err := o.initialiseErr; err != nil {
		return err
	}
	if !o.defaultsApplied {
		o.applyDefaults()
		return o.initialiseErr
	}
	return nil
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}

	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.loader == nil {
		o.loader = internalLoader.New(pkgopenapi.NewLoaderOptions())
	}
	if o.parser == nil {
		o.parser = internalParser.New(pkgopenapi.NewParserOptions())
	}
	if o.adapters == nil {
		o.adapters = registry.NewAdapterRegistry()
		o.adapters.MustRegister(pkgopenapi.NewAdapter(o.loader, o.parser))
		o.adapters.MustRegister(descriptor.NewAdapter(o.loader))
	}
	if o.renderers == nil {
		o.renderers = render.NewRegistry()
		o.renderers.MustRegister(jsondict.New())
		o.renderers.MustRegister(yamldict.New())
		renderer, err := script.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.renderers.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}

	builderOptions := append([]suggest.Option{suggest.WithLogger(o.logger)}, o.builderOptions...)
	o.builder = suggest.NewBuilder(builderOptions...)

	o.defaultsApplied = true
}
