// Package yamldict renders a dictionary as YAML with keys in lexical order.
package yamldict

import (
	"bytes"
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-suggest/pkg/render"
	"github.com/goliatone/go-suggest/pkg/suggest"
)

// Name identifies the renderer in the registry.
const Name = "yaml"

type Renderer struct{}

var _ render.Renderer = (*Renderer)(nil)

func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "application/yaml; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, dict suggest.Dictionary, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	payload := options.Prepare(dict)
	if payload == nil {
		payload = suggest.Dictionary{}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(payload); err != nil {
		return nil, fmt.Errorf("yaml renderer: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("yaml renderer: close: %w", err)
	}
	return buf.Bytes(), nil
}
