package descriptor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-suggest/pkg/registry"
)

type documentFile struct {
	Models []modelFile `json:"models" yaml:"models"`
}

type modelFile struct {
	Name       string      `json:"name" yaml:"name"`
	PrimaryKey string      `json:"primary_key" yaml:"primary_key"`
	Fields     []fieldFile `json:"fields" yaml:"fields"`
}

type fieldFile struct {
	Name        string `json:"name" yaml:"name"`
	VerboseName string `json:"verbose_name" yaml:"verbose_name"`
	HelpText    string `json:"help_text" yaml:"help_text"`
	Type        string `json:"type" yaml:"type"`
	Target      string `json:"target" yaml:"target"`
	PrimaryKey  bool   `json:"primary_key" yaml:"primary_key"`
}

// Option customises descriptor parsing.
type Option func(*config)

type config struct {
	labeler registry.Labeler
}

// WithLabeler overrides how verbose names are derived for fields that do not
// declare one.
func WithLabeler(labeler registry.Labeler) Option {
	return func(cfg *config) {
		if labeler != nil {
			cfg.labeler = labeler
		}
	}
}

func newConfig(options []Option) config {
	cfg := config{labeler: registry.DefaultLabeler}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Parse decodes a descriptor document. The source name is only used in error
// messages.
func Parse(data []byte, source string, options ...Option) ([]registry.Model, error) {
	cfg := newConfig(options)

	doc, err := parseDocument(data, source)
	if err != nil {
		return nil, err
	}

	models := make([]registry.Model, 0, len(doc.Models))
	seen := make(map[string]struct{}, len(doc.Models))
	for i, raw := range doc.Models {
		model := normaliseModel(raw, cfg.labeler)
		if err := model.Validate(); err != nil {
			return nil, fmt.Errorf("descriptor: %s model #%d: %w", source, i, err)
		}
		if _, exists := seen[model.Name]; exists {
			return nil, fmt.Errorf("descriptor: %s defines duplicate model %q", source, model.Name)
		}
		seen[model.Name] = struct{}{}
		models = append(models, model)
	}
	return models, nil
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return documentFile{}, fmt.Errorf("descriptor: file %s is empty", source)
	}

	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return documentFile{}, fmt.Errorf("descriptor: parse %s: %w", source, err)
		}
	} else if err := yaml.Unmarshal(trimmed, &doc); err != nil {
		return documentFile{}, fmt.Errorf("descriptor: parse %s: %w", source, err)
	}

	if doc.Models == nil {
		return documentFile{}, fmt.Errorf("descriptor: %s: %w", source, errNoModels)
	}
	return doc, nil
}

var errNoModels = errors.New("document has no models key")

func normaliseModel(raw modelFile, labeler registry.Labeler) registry.Model {
	model := registry.Model{
		Name:       strings.TrimSpace(raw.Name),
		PrimaryKey: strings.TrimSpace(raw.PrimaryKey),
		Fields:     make([]registry.Field, 0, len(raw.Fields)),
	}
	for _, f := range raw.Fields {
		name := strings.TrimSpace(f.Name)
		kind := registry.ParseFieldKind(f.Type)
		target := strings.TrimSpace(f.Target)
		if strings.TrimSpace(f.Type) == "" && target != "" {
			kind = registry.FieldKindForeignKey
		}
		model.Fields = append(model.Fields, registry.Field{
			Name:        name,
			VerboseName: registry.VerboseName(f.VerboseName, name, labeler),
			HelpText:    strings.TrimSpace(f.HelpText),
			Kind:        kind,
			Target:      target,
			PrimaryKey:  f.PrimaryKey,
		})
	}
	return model
}

// detect reports whether raw looks like a descriptor document.
func detect(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}
	var probe map[string]any
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &probe); err != nil {
			return false
		}
	} else if err := yaml.Unmarshal(trimmed, &probe); err != nil {
		return false
	}
	if _, ok := probe["openapi"]; ok {
		return false
	}
	models, ok := probe["models"].([]any)
	return ok && len(models) > 0
}
