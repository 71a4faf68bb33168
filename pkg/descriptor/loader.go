package descriptor

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-suggest/pkg/registry"
)

// LoadFS walks the provided filesystem and parses every JSON/YAML descriptor
// file in lexical path order. Model names must be unique across files.
func LoadFS(fsys fs.FS, options ...Option) ([]registry.Model, error) {
	if fsys == nil {
		return nil, nil
	}

	var (
		models []registry.Model
		owners = make(map[string]string)
	)
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDescriptorFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("descriptor: read %s: %w", path, err)
		}

		parsed, err := Parse(data, path, options...)
		if err != nil {
			return err
		}
		for _, model := range parsed {
			if previous, exists := owners[model.Name]; exists {
				return fmt.Errorf("descriptor: duplicate model %q (files %s, %s)", model.Name, previous, path)
			}
			owners[model.Name] = path
			models = append(models, model)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return models, nil
}

// Provider exposes a descriptor directory as a registry.Provider. The
// filesystem is read on every call so edits are picked up.
func Provider(fsys fs.FS, options ...Option) registry.Provider {
	return registry.ProviderFunc(func(ctx context.Context) ([]registry.Model, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return LoadFS(fsys, options...)
	})
}

func isDescriptorFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}
