package openapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/goliatone/go-suggest/pkg/registry"
)

const DefaultAdapterName = "openapi"

// Adapter wraps the OpenAPI loader/parser flow behind the registry adapter
// interface.
type Adapter struct {
	loader Loader
	parser Parser
}

var _ registry.Adapter = (*Adapter)(nil)

// NewAdapter constructs an OpenAPI adapter with the supplied loader and parser.
func NewAdapter(loader Loader, parser Parser) *Adapter {
	return &Adapter{
		loader: loader,
		parser: parser,
	}
}

// Name returns the adapter registry identifier.
func (a *Adapter) Name() string {
	return DefaultAdapterName
}

// Detect reports whether the raw payload appears to be OpenAPI.
func (a *Adapter) Detect(_ registry.Source, raw []byte) bool {
	return detectOpenAPI(raw)
}

// Load fetches the raw OpenAPI document.
func (a *Adapter) Load(ctx context.Context, src registry.Source) (registry.Document, error) {
	if a == nil || a.loader == nil {
		return registry.Document{}, errors.New("openapi adapter: loader is nil")
	}
	return a.loader.Load(ctx, src)
}

// Models extracts component schemas as models.
func (a *Adapter) Models(ctx context.Context, doc registry.Document) ([]registry.Model, error) {
	if a == nil || a.parser == nil {
		return nil, errors.New("openapi adapter: parser is nil")
	}
	return a.parser.Models(ctx, doc)
}

func detectOpenAPI(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}
	if trimmed[0] == '{' {
		var payload map[string]any
		if err := json.Unmarshal(trimmed, &payload); err == nil {
			if _, ok := payload["openapi"]; ok {
				return true
			}
			if _, ok := payload["swagger"]; ok {
				return true
			}
		}
		return false
	}
	lower := strings.ToLower(string(trimmed))
	return strings.HasPrefix(lower, "openapi:") || strings.HasPrefix(lower, "swagger:") ||
		strings.Contains(lower, "\nopenapi:") || strings.Contains(lower, "\nswagger:")
}
