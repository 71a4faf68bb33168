package gormschema

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"gorm.io/gorm/schema"

	"github.com/goliatone/go-suggest/pkg/registry"
)

const tagName = "suggest"

// Option customises a Registry.
type Option func(*Registry)

// WithNamer overrides the naming strategy used to derive column names. It
// should match the strategy configured on the *gorm.DB.
func WithNamer(namer schema.Namer) Option {
	return func(r *Registry) {
		if namer != nil {
			r.namer = namer
		}
	}
}

// WithLabeler overrides how verbose names are derived from Go field names.
func WithLabeler(labeler registry.Labeler) Option {
	return func(r *Registry) {
		if labeler != nil {
			r.labeler = labeler
		}
	}
}

// WithLogger sets the logger used to report skipped relations.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Registry collects GORM model structs and serves them as registry models in
// registration order. It implements registry.Provider.
type Registry struct {
	mu      sync.RWMutex
	models  []any
	cache   *sync.Map
	namer   schema.Namer
	labeler registry.Labeler
	logger  *slog.Logger
}

var _ registry.Provider = (*Registry)(nil)

// New constructs a Registry holding the supplied model values (pointers to
// structs, as passed to AutoMigrate).
func New(models []any, options ...Option) *Registry {
	r := &Registry{
		cache:   &sync.Map{},
		namer:   schema.NamingStrategy{},
		labeler: registry.DefaultLabeler,
		logger:  slog.Default(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	r.Register(models...)
	return r
}

// Register appends models to the registry.
func (r *Registry) Register(models ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, model := range models {
		if model != nil {
			r.models = append(r.models, model)
		}
	}
}

// Models parses every registered struct. Foreign keys are collected in a
// second pass because has-one and has-many relations declare the key on the
// other model.
func (r *Registry) Models(ctx context.Context) ([]registry.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	values := append([]any(nil), r.models...)
	r.mu.RUnlock()

	if len(values) == 0 {
		return nil, errors.New("gormschema: no models registered")
	}

	schemas := make([]*schema.Schema, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		parsed, err := schema.Parse(value, r.cache, r.namer)
		if err != nil {
			return nil, fmt.Errorf("gormschema: parse %T: %w", value, err)
		}
		if _, dup := seen[parsed.Name]; dup {
			continue
		}
		seen[parsed.Name] = struct{}{}
		schemas = append(schemas, parsed)
	}

	foreignKeys := r.collectForeignKeys(schemas)

	models := make([]registry.Model, 0, len(schemas))
	for _, s := range schemas {
		models = append(models, r.convert(s, foreignKeys[s.Name]))
	}
	return models, nil
}

// collectForeignKeys maps schema name to column name to referenced schema.
func (r *Registry) collectForeignKeys(schemas []*schema.Schema) map[string]map[string]string {
	out := make(map[string]map[string]string)
	mark := func(owner, column, target string) {
		if owner == "" || column == "" {
			return
		}
		if out[owner] == nil {
			out[owner] = make(map[string]string)
		}
		if _, exists := out[owner][column]; !exists {
			out[owner][column] = target
		}
	}

	for _, s := range schemas {
		for _, rel := range s.Relationships.BelongsTo {
			for _, ref := range rel.References {
				if ref.ForeignKey == nil || ref.OwnPrimaryKey {
					continue
				}
				mark(s.Name, ref.ForeignKey.DBName, relatedName(rel))
			}
		}

		owned := append(append([]*schema.Relationship(nil), s.Relationships.HasOne...), s.Relationships.HasMany...)
		for _, rel := range owned {
			for _, ref := range rel.References {
				if ref.ForeignKey == nil || !ref.OwnPrimaryKey || ref.ForeignKey.Schema == nil {
					continue
				}
				mark(ref.ForeignKey.Schema.Name, ref.ForeignKey.DBName, s.Name)
			}
		}

		if n := len(s.Relationships.Many2Many); n > 0 {
			r.logger.Debug("gormschema: skipping many-to-many relations", "model", s.Name, "count", n)
		}
	}
	return out
}

func relatedName(rel *schema.Relationship) string {
	if rel == nil || rel.FieldSchema == nil {
		return ""
	}
	return rel.FieldSchema.Name
}

func (r *Registry) convert(s *schema.Schema, foreignKeys map[string]string) registry.Model {
	model := registry.Model{Name: s.Name}
	if s.PrioritizedPrimaryField != nil {
		model.PrimaryKey = s.PrioritizedPrimaryField.DBName
	}

	for _, f := range s.Fields {
		// Association fields and fields ignored with `gorm:"-"` have no column.
		if f.DBName == "" {
			continue
		}
		settings := schema.ParseTagSetting(f.Tag.Get(tagName), ";")
		if _, hidden := settings["-"]; hidden {
			continue
		}

		help := strings.TrimSpace(settings["HELP"])
		if help == "" {
			help = strings.TrimSpace(f.Comment)
		}

		field := registry.Field{
			Name:        f.DBName,
			VerboseName: registry.VerboseName(settings["LABEL"], f.Name, r.labeler),
			HelpText:    help,
			Kind:        kindOf(f.DataType),
			PrimaryKey:  f.PrimaryKey,
		}
		if target, ok := foreignKeys[f.DBName]; ok {
			field.Kind = registry.FieldKindForeignKey
			field.Target = target
		}
		model.Fields = append(model.Fields, field)
	}
	return model
}

func kindOf(dataType schema.DataType) registry.FieldKind {
	switch dataType {
	case schema.Bool:
		return registry.FieldKindBoolean
	case schema.Int, schema.Uint:
		return registry.FieldKindInteger
	case schema.Float:
		return registry.FieldKindNumber
	case schema.String:
		return registry.FieldKindString
	case schema.Time:
		return registry.FieldKindDateTime
	case schema.Bytes:
		return registry.FieldKindText
	default:
		return registry.ParseFieldKind(string(dataType))
	}
}
