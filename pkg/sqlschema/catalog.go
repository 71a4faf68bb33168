package sqlschema

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goliatone/go-suggest/pkg/registry"
)

// Column describes a table column as reported by the database catalog.
type Column struct {
	Name       string
	Type       string
	Comment    string
	PrimaryKey bool
}

// ForeignKey describes a single-column reference to another table.
type ForeignKey struct {
	Column    string
	RefTable  string
	RefColumn string
}

// Catalog queries table metadata. Tables must be returned in a stable order
// and columns in declaration order.
type Catalog interface {
	Driver() string
	Tables(ctx context.Context) ([]string, error)
	Columns(ctx context.Context, table string) ([]Column, error)
	ForeignKeys(ctx context.Context, table string) ([]ForeignKey, error)
}

// Option customises an Introspector.
type Option func(*Introspector)

// WithTables restricts introspection to the named tables, keeping catalog
// order.
func WithTables(tables ...string) Option {
	return func(i *Introspector) {
		i.include = make(map[string]struct{}, len(tables))
		for _, table := range tables {
			if trimmed := strings.TrimSpace(table); trimmed != "" {
				i.include[trimmed] = struct{}{}
			}
		}
	}
}

// WithLabeler overrides how verbose names are derived from column names.
func WithLabeler(labeler registry.Labeler) Option {
	return func(i *Introspector) {
		if labeler != nil {
			i.labeler = labeler
		}
	}
}

// WithLogger sets the logger used for introspection diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Introspector) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// Introspector turns catalog metadata into registry models. It implements
// registry.Provider so a database can be used wherever a model list is
// expected.
type Introspector struct {
	catalog Catalog
	include map[string]struct{}
	labeler registry.Labeler
	logger  *slog.Logger
}

var _ registry.Provider = (*Introspector)(nil)

// NewIntrospector wraps a catalog.
func NewIntrospector(catalog Catalog, options ...Option) *Introspector {
	i := &Introspector{
		catalog: catalog,
		labeler: registry.DefaultLabeler,
		logger:  slog.Default(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(i)
		}
	}
	return i
}

// Models reads every (selected) table from the catalog.
func (i *Introspector) Models(ctx context.Context) ([]registry.Model, error) {
	if i == nil || i.catalog == nil {
		return nil, fmt.Errorf("sqlschema: catalog is nil")
	}

	tables, err := i.catalog.Tables(ctx)
	if err != nil {
		return nil, fmt.Errorf("sqlschema: list tables: %w", err)
	}

	models := make([]registry.Model, 0, len(tables))
	for _, table := range tables {
		if len(i.include) > 0 {
			if _, ok := i.include[table]; !ok {
				continue
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		model, err := i.table(ctx, table)
		if err != nil {
			return nil, err
		}
		models = append(models, model)
	}

	i.logger.Debug("sqlschema: introspected tables", "driver", i.catalog.Driver(), "tables", len(models))
	return models, nil
}

func (i *Introspector) table(ctx context.Context, table string) (registry.Model, error) {
	columns, err := i.catalog.Columns(ctx, table)
	if err != nil {
		return registry.Model{}, fmt.Errorf("sqlschema: columns for %s: %w", table, err)
	}
	fks, err := i.catalog.ForeignKeys(ctx, table)
	if err != nil {
		return registry.Model{}, fmt.Errorf("sqlschema: foreign keys for %s: %w", table, err)
	}

	targets := make(map[string]string, len(fks))
	for _, fk := range fks {
		targets[fk.Column] = fk.RefTable
	}

	model := registry.Model{Name: table, Fields: make([]registry.Field, 0, len(columns))}
	for _, col := range columns {
		field := registry.Field{
			Name:        col.Name,
			VerboseName: registry.VerboseName("", col.Name, i.labeler),
			HelpText:    strings.TrimSpace(col.Comment),
			Kind:        kindOf(col.Type),
			PrimaryKey:  col.PrimaryKey,
		}
		if target, ok := targets[col.Name]; ok {
			field.Kind = registry.FieldKindForeignKey
			field.Target = target
		}
		if col.PrimaryKey && model.PrimaryKey == "" {
			model.PrimaryKey = col.Name
		}
		model.Fields = append(model.Fields, field)
	}
	return model, nil
}

// kindOf maps a declared column type such as "VARCHAR(120)" onto a FieldKind.
func kindOf(declared string) registry.FieldKind {
	base := strings.ToLower(strings.TrimSpace(declared))
	if idx := strings.IndexByte(base, '('); idx >= 0 {
		base = strings.TrimSpace(base[:idx])
	}
	// Postgres reports array columns with a leading underscore in udt_name.
	if strings.HasSuffix(base, "[]") || strings.HasPrefix(base, "_") {
		return registry.FieldKindArray
	}
	if kind := registry.ParseFieldKind(base); kind != registry.FieldKindUnknown {
		return kind
	}
	// SQLite type affinity rules.
	switch {
	case strings.Contains(base, "int"):
		return registry.FieldKindInteger
	case strings.Contains(base, "char"), strings.Contains(base, "clob"):
		return registry.FieldKindString
	case strings.Contains(base, "text"):
		return registry.FieldKindText
	case strings.Contains(base, "real"), strings.Contains(base, "floa"), strings.Contains(base, "doub"):
		return registry.FieldKindNumber
	case strings.Contains(base, "time"):
		return registry.FieldKindDateTime
	default:
		return registry.FieldKindUnknown
	}
}
