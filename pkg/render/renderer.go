package render

import (
	"context"

	"github.com/goliatone/go-suggest/pkg/suggest"
)

// Renderer converts a Dictionary into a byte representation.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, dict suggest.Dictionary, options RenderOptions) ([]byte, error)
}
