package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// FieldKind classifies a field. Only FieldKindForeignKey changes how the
// suggestion builder treats a field; the other kinds are informational.
type FieldKind string

const (
	FieldKindString     FieldKind = "string"
	FieldKindText       FieldKind = "text"
	FieldKindInteger    FieldKind = "integer"
	FieldKindNumber     FieldKind = "number"
	FieldKindBoolean    FieldKind = "boolean"
	FieldKindDate       FieldKind = "date"
	FieldKindDateTime   FieldKind = "datetime"
	FieldKindArray      FieldKind = "array"
	FieldKindObject     FieldKind = "object"
	FieldKindForeignKey FieldKind = "foreignKey"
	FieldKindUnknown    FieldKind = "unknown"
)

// ParseFieldKind maps loose type names (descriptor files, database column
// types) onto a FieldKind.
func ParseFieldKind(raw string) FieldKind {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "string", "char", "varchar", "character varying", "charfield", "uuid":
		return FieldKindString
	case "text", "textfield", "clob":
		return FieldKindText
	case "integer", "int", "int2", "int4", "int8", "bigint", "smallint", "serial", "bigserial", "integerfield":
		return FieldKindInteger
	case "number", "float", "double", "double precision", "real", "numeric", "decimal", "floatfield", "decimalfield":
		return FieldKindNumber
	case "boolean", "bool", "booleanfield":
		return FieldKindBoolean
	case "date", "datefield":
		return FieldKindDate
	case "datetime", "date-time", "timestamp", "timestamptz", "timestamp with time zone", "timestamp without time zone", "datetimefield":
		return FieldKindDateTime
	case "array":
		return FieldKindArray
	case "object", "json", "jsonb":
		return FieldKindObject
	case "foreignkey", "foreign_key", "foreign-key", "fk", "belongsto":
		return FieldKindForeignKey
	default:
		return FieldKindUnknown
	}
}

// Field is a single attribute of a Model.
type Field struct {
	// Name is the programmatic attribute name inserted as the suggestion value.
	Name string `json:"name" yaml:"name"`
	// VerboseName is the human readable label used as the dictionary key.
	VerboseName string    `json:"verbose_name,omitempty" yaml:"verbose_name,omitempty"`
	HelpText    string    `json:"help_text,omitempty" yaml:"help_text,omitempty"`
	Kind        FieldKind `json:"kind,omitempty" yaml:"kind,omitempty"`
	// Target names the referenced model for foreign keys.
	Target     string `json:"target,omitempty" yaml:"target,omitempty"`
	PrimaryKey bool   `json:"primary_key,omitempty" yaml:"primary_key,omitempty"`
}

// IsForeignKey reports whether the field references another model.
func (f Field) IsForeignKey() bool {
	return f.Kind == FieldKindForeignKey
}

// Model is a data entity exposing an ordered set of fields and a primary key.
type Model struct {
	Name       string  `json:"name" yaml:"name"`
	PrimaryKey string  `json:"primary_key,omitempty" yaml:"primary_key,omitempty"`
	Fields     []Field `json:"fields" yaml:"fields"`
}

// IsPrimaryKey reports whether the field is the model's primary key, either by
// name or because the field flags itself as such.
func (m Model) IsPrimaryKey(field Field) bool {
	if field.PrimaryKey {
		return true
	}
	return m.PrimaryKey != "" && m.PrimaryKey == field.Name
}

// Field looks up a field by name.
func (m Model) Field(name string) (Field, bool) {
	for _, field := range m.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Validate performs basic sanity checks before a model is handed to builders.
func (m Model) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return errors.New("registry: model name is required")
	}
	seen := make(map[string]struct{}, len(m.Fields))
	for idx, field := range m.Fields {
		if strings.TrimSpace(field.Name) == "" {
			return fmt.Errorf("registry: model %q field %d has no name", m.Name, idx)
		}
		if _, dup := seen[field.Name]; dup {
			return fmt.Errorf("registry: model %q defines field %q twice", m.Name, field.Name)
		}
		seen[field.Name] = struct{}{}
	}
	return nil
}

// Clone returns a deep copy so callers can mutate fields safely.
func (m Model) Clone() Model {
	cloned := m
	if len(m.Fields) > 0 {
		cloned.Fields = append([]Field(nil), m.Fields...)
	}
	return cloned
}

// Provider returns the models of a live registry (ORM metadata, database
// catalog). Implementations must return models in a stable order.
type Provider interface {
	Models(ctx context.Context) ([]Model, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context) ([]Model, error)

// Models calls f.
func (f ProviderFunc) Models(ctx context.Context) ([]Model, error) {
	return f(ctx)
}

// Static returns a Provider serving a fixed list of models.
func Static(models ...Model) Provider {
	snapshot := make([]Model, len(models))
	for i, model := range models {
		snapshot[i] = model.Clone()
	}
	return ProviderFunc(func(ctx context.Context) ([]Model, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out := make([]Model, len(snapshot))
		for i, model := range snapshot {
			out[i] = model.Clone()
		}
		return out, nil
	})
}
