package loader

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	pkgopenapi "github.com/goliatone/go-suggest/pkg/openapi"
	"github.com/goliatone/go-suggest/pkg/registry"
)

// fetchFunc reads the raw bytes behind a source location.
type fetchFunc func(ctx context.Context, location string) ([]byte, error)

// Loader reads raw model documents, OpenAPI or descriptor alike; adapters
// decide what the bytes mean. Each source kind maps to one fetch strategy and
// kinds without one are rejected.
type Loader struct {
	fetchers map[registry.SourceKind]fetchFunc
}

var _ pkgopenapi.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options pkgopenapi.LoaderOptions) pkgopenapi.Loader {
	l := &Loader{fetchers: map[registry.SourceKind]fetchFunc{
		registry.SourceKindFile: loadFile,
	}}

	if files := options.FileSystem; files != nil {
		l.fetchers[registry.SourceKindFS] = func(ctx context.Context, name string) ([]byte, error) {
			return loadFromFS(ctx, files, name)
		}
	}

	if client := httpClient(options); client != nil {
		timeout := options.RequestTimeout
		l.fetchers[registry.SourceKindURL] = func(ctx context.Context, url string) ([]byte, error) {
			return loadHTTP(ctx, client, url, timeout)
		}
	}
	return l
}

// httpClient returns nil when remote documents are not allowed.
func httpClient(options pkgopenapi.LoaderOptions) *http.Client {
	timeout := options.RequestTimeout
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		return &clone
	case options.AllowHTTPFallback:
		return &http.Client{Timeout: timeout}
	default:
		return nil
	}
}

// Load reads the document behind src. Errors carry the source kind and
// location.
func (l *Loader) Load(ctx context.Context, src registry.Source) (registry.Document, error) {
	if src == nil {
		return registry.Document{}, errors.New("loader: source is nil")
	}

	fetch, ok := l.fetchers[src.Kind()]
	if !ok {
		return registry.Document{}, unsupported(src.Kind())
	}

	data, err := fetch(ctx, src.Location())
	if err != nil {
		return registry.Document{}, fmt.Errorf("loader: read %s %q: %w", src.Kind(), src.Location(), err)
	}

	doc, err := registry.NewDocument(src, data)
	if err != nil {
		return registry.Document{}, fmt.Errorf("loader: %s %q: %w", src.Kind(), src.Location(), err)
	}
	return doc, nil
}

func unsupported(kind registry.SourceKind) error {
	switch kind {
	case registry.SourceKindURL:
		return errors.New("loader: http support disabled")
	case registry.SourceKindFS:
		return errors.New("loader: filesystem is not configured")
	default:
		return fmt.Errorf("loader: unsupported source kind %q", kind)
	}
}
