package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-suggest/pkg/registry"
)

type documentLoader interface {
	Load(ctx context.Context, src registry.Source) (registry.Document, error)
}

// resolveAdapter picks the adapter for a document or source request and
// returns the document it should parse. Without an explicit adapter the
// payload is loaded once with the shared loader and matched via Detect.
func (o *Orchestrator) resolveAdapter(ctx context.Context, req Request) (registry.Adapter, registry.Document, error) {
	if o.adapters == nil {
		return nil, registry.Document{}, errors.New("orchestrator: adapter registry is nil")
	}

	name := strings.TrimSpace(req.Adapter)
	if name != "" {
		adapter, err := o.adapters.Get(name)
		if err != nil {
			return nil, registry.Document{}, fmt.Errorf("orchestrator: %w", err)
		}
		doc, err := o.resolveDocument(ctx, req, adapter)
		if err != nil {
			return nil, registry.Document{}, err
		}
		return adapter, doc, nil
	}

	doc, err := o.resolveDocument(ctx, req, o.loader)
	if err != nil {
		return nil, registry.Document{}, err
	}
	if len(doc.Raw()) == 0 {
		adapter, err := o.fallbackAdapter("orchestrator: adapter is required")
		return adapter, doc, err
	}

	matches := o.adapters.Detect(doc.Source(), doc.Raw())
	switch len(matches) {
	case 0:
		adapter, err := o.fallbackAdapter("orchestrator: unable to detect adapter")
		return adapter, doc, err
	case 1:
		return matches[0], doc, nil
	default:
		return nil, registry.Document{}, fmt.Errorf("orchestrator: multiple adapters matched payload (%s), specify adapter", adapterNames(matches))
	}
}

func (o *Orchestrator) fallbackAdapter(reason string) (registry.Adapter, error) {
	if o.defaultAdapter == "" {
		return nil, errors.New(reason)
	}
	adapter, err := o.adapters.Get(o.defaultAdapter)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: default adapter: %w", err)
	}
	return adapter, nil
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request, loader documentLoader) (registry.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Source == nil {
		return registry.Document{}, errors.New("orchestrator: provider, source or document is required")
	}
	if loader == nil {
		return registry.Document{}, errors.New("orchestrator: loader is nil")
	}
	doc, err := loader.Load(ctx, req.Source)
	if err != nil {
		return registry.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}

func adapterNames(adapters []registry.Adapter) string {
	names := make([]string, 0, len(adapters))
	for _, adapter := range adapters {
		if adapter == nil {
			continue
		}
		if name := strings.TrimSpace(adapter.Name()); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}
