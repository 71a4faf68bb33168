// Package script renders a dictionary as a JavaScript snippet that installs
// it into the client suggestion store, e.g.
//
//	suggest.setDict({"Title":{"value":"title","help_text":"Title of the book"}});
package script

import (
	"context"
	"fmt"
	"io/fs"
	"regexp"

	"github.com/goliatone/go-suggest/pkg/render"
	rendertemplate "github.com/goliatone/go-suggest/pkg/render/template"
	"github.com/goliatone/go-suggest/pkg/render/template/pongo"
	"github.com/goliatone/go-suggest/pkg/suggest"
)

// Name identifies the renderer in the registry.
const Name = "js"

const templateName = "templates/suggestions.js.tpl"

var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*(\.[A-Za-z_$][A-Za-z0-9_$]*)*$`)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
}

// WithTemplatesFS supplies an alternate bundle holding
// templates/suggestions.js.tpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

type Renderer struct {
	templates rendertemplate.TemplateRenderer
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the script renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(pongo.WithFS(cfg.templateFS))
		if err != nil {
			return nil, fmt.Errorf("script renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}
	return &Renderer{templates: renderer}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "application/javascript; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, dict suggest.Dictionary, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("script renderer: template renderer is nil")
	}

	variable := options.ScriptVariable()
	if !identifierPattern.MatchString(variable) {
		return nil, fmt.Errorf("script renderer: %q is not a valid JavaScript identifier", variable)
	}
	mode, err := render.ParseMode(string(options.Mode))
	if err != nil {
		return nil, fmt.Errorf("script renderer: %w", err)
	}
	method := "setDict"
	if mode == render.ModeUpdate {
		method = "updateDict"
	}

	payload := options.Prepare(dict)
	if payload == nil {
		payload = suggest.Dictionary{}
	}

	result, err := r.templates.RenderTemplate(templateName, map[string]any{
		"variable":   variable,
		"method":     method,
		"dictionary": payload,
		"indent":     options.Indent,
	})
	if err != nil {
		return nil, fmt.Errorf("script renderer: render template: %w", err)
	}
	return []byte(result), nil
}
