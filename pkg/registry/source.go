package registry

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Source identifies where a schema document originated so loaders can operate
// on files, fs.FS entries, or URLs without leaking implementation details.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

type fileSource struct {
	path string
}

func (s fileSource) Location() string {
	return s.path
}

func (s fileSource) Kind() SourceKind {
	return SourceKindFile
}

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	name string
}

func (s fsSource) Location() string {
	return s.name
}

func (s fsSource) Kind() SourceKind {
	return SourceKindFS
}

// SourceFromFS returns a Source identifying a resource inside an fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

type urlSource struct {
	raw string
}

func (s urlSource) Location() string {
	return s.raw
}

func (s urlSource) Kind() SourceKind {
	return SourceKindURL
}

// NewURLSource validates raw and returns a URL Source.
func NewURLSource(raw string) (Source, error) {
	if raw == "" {
		return nil, errors.New("registry: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return nil, fmt.Errorf("registry: invalid URL %q: %w", raw, err)
	}
	return urlSource{raw: raw}, nil
}

// SourceFromURL is NewURLSource for fixed, known-good locations. It panics on
// an invalid URL.
func SourceFromURL(raw string) Source {
	src, err := NewURLSource(raw)
	if err != nil {
		panic(err.Error())
	}
	return src
}

// ParseSource maps a CLI/config string onto a Source. http(s) locations become
// URL sources, everything else is treated as a file path. Empty input yields
// a nil Source and no error; a malformed URL is an error.
func ParseSource(raw string) (Source, error) {
	location := strings.TrimSpace(raw)
	if location == "" {
		return nil, nil
	}
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewURLSource(location)
	}
	return SourceFromFile(location), nil
}

// MustParseSource is ParseSource for tests and fixed inputs. It panics on a
// malformed URL.
func MustParseSource(raw string) Source {
	src, err := ParseSource(raw)
	if err != nil {
		panic(err.Error())
	}
	return src
}
