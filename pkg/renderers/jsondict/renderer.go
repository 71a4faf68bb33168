// Package jsondict renders a dictionary as the JSON object consumed by the
// client store: {"Verbose name": {"value": ..., "help_text": ...}}.
package jsondict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-suggest/pkg/render"
	"github.com/goliatone/go-suggest/pkg/suggest"
)

// Name identifies the renderer in the registry.
const Name = "json"

type Renderer struct{}

var _ render.Renderer = (*Renderer)(nil)

func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "application/json; charset=utf-8"
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
	enc := json.NewEncoder(&buf)
	if options.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(payload); err != nil {
		return nil, fmt.Errorf("json renderer: encode: %w", err)
	}
	return buf.Bytes(), nil
}
