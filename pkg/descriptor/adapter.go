package descriptor

import (
	"context"
	"errors"

	"github.com/goliatone/go-suggest/pkg/registry"
)

// DefaultAdapterName identifies descriptor documents in the adapter registry.
const DefaultAdapterName = "descriptor"

// DocumentLoader fetches raw documents. The OpenAPI loader satisfies it.
type DocumentLoader interface {
	Load(ctx context.Context, src registry.Source) (registry.Document, error)
}

// Adapter exposes descriptor documents through registry.Adapter.
type Adapter struct {
	loader  DocumentLoader
	options []Option
}

var _ registry.Adapter = (*Adapter)(nil)

// NewAdapter constructs a descriptor adapter that reads documents via loader.
func NewAdapter(loader DocumentLoader, options ...Option) *Adapter {
	return &Adapter{loader: loader, options: options}
}

func (a *Adapter) Name() string {
	return DefaultAdapterName
}

func (a *Adapter) Detect(_ registry.Source, raw []byte) bool {
	return detect(raw)
}

func (a *Adapter) Load(ctx context.Context, src registry.Source) (registry.Document, error) {
	if a == nil || a.loader == nil {
		return registry.Document{}, errors.New("descriptor adapter: loader is nil")
	}
	return a.loader.Load(ctx, src)
}

func (a *Adapter) Models(ctx context.Context, doc registry.Document) ([]registry.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Parse(doc.Raw(), doc.Location(), a.options...)
}
