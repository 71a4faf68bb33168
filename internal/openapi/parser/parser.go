package parser

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	pkgopenapi "github.com/goliatone/go-suggest/pkg/openapi"
	"github.com/goliatone/go-suggest/pkg/registry"
)

const (
	verboseNameExtensionKey = "x-verbose-name"
	primaryKeyExtensionKey  = "x-primary-key"
	foreignKeyExtensionKey  = "x-foreign-key"
	foreignKeyFormat        = "foreign-key"
	componentSchemaPrefix   = "#/components/schemas/"
)

// Parser implements pkgopenapi.Parser using kin-openapi.
type Parser struct {
	options pkgopenapi.ParserOptions
}

// Ensure the implementation satisfies the public interface.
var _ pkgopenapi.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options pkgopenapi.ParserOptions) pkgopenapi.Parser {
	if options.Labeler == nil {
		options.Labeler = registry.DefaultLabeler
	}
	return &Parser{options: options}
}

// Models converts every component schema into a model, ordered by schema name.
func (p *Parser) Models(ctx context.Context, doc registry.Document) ([]registry.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: p.options.AllowExternalRefs,
	}

	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load document: %w", err)
	}

	if p.options.ValidateDocument {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi parser: validate: %w", err)
		}
	}

	if spec.Components == nil || len(spec.Components.Schemas) == 0 {
		return nil, errors.New("openapi parser: document does not contain any component schemas")
	}

	names := make([]string, 0, len(spec.Components.Schemas))
	for name := range spec.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	models := make([]registry.Model, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ref := spec.Components.Schemas[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		model, ok := p.convertModel(name, ref.Value)
		if !ok {
			continue
		}
		models = append(models, model)
	}
	return models, nil
}

// convertModel reports false for component schemas that do not describe an
// object with properties, such as enums or scalar aliases.
func (p *Parser) convertModel(name string, schema *openapi3.Schema) (registry.Model, bool) {
	props := collectProperties(schema)
	if len(props) == 0 {
		return registry.Model{}, false
	}
	props = propagateRelationshipMetadata(props)

	model := registry.Model{Name: name}
	if pk, ok := schema.Extensions[primaryKeyExtensionKey].(string); ok && pk != "" {
		model.PrimaryKey = pk
	}

	for _, prop := range props {
		field, ok := p.convertField(prop)
		if !ok {
			continue
		}
		if field.PrimaryKey && model.PrimaryKey == "" {
			model.PrimaryKey = field.Name
		}
		model.Fields = append(model.Fields, field)
	}

	if model.PrimaryKey == "" {
		if _, ok := model.Field("id"); ok {
			model.PrimaryKey = "id"
		}
	}
	return model, true
}

func (p *Parser) convertField(prop property) (registry.Field, bool) {
	if prop.reverse() {
		return registry.Field{}, false
	}

	field := registry.Field{Name: prop.name}
	value := prop.value()

	declared := ""
	if value != nil {
		declared, _ = value.Extensions[verboseNameExtensionKey].(string)
		if declared == "" {
			declared = value.Title
		}
		field.HelpText = strings.TrimSpace(value.Description)
		field.PrimaryKey = extensionBool(value.Extensions, primaryKeyExtensionKey)
		field.Kind = kindOf(value)
	}
	field.VerboseName = registry.VerboseName(declared, prop.name, p.options.Labeler)

	if target, ok := prop.foreignKey(); ok {
		field.Kind = registry.FieldKindForeignKey
		field.Target = target
	}
	if field.Kind == "" {
		field.Kind = registry.FieldKindUnknown
	}
	return field, true
}

func kindOf(schema *openapi3.Schema) registry.FieldKind {
	switch schema.Format {
	case "date":
		return registry.FieldKindDate
	case "date-time":
		return registry.FieldKindDateTime
	case foreignKeyFormat:
		return registry.FieldKindForeignKey
	}

	switch firstSchemaType(schema.Type) {
	case openapi3.TypeString:
		if schema.MaxLength == nil && schema.Format == "" && len(schema.Enum) == 0 {
			return registry.FieldKindText
		}
		return registry.FieldKindString
	case openapi3.TypeInteger:
		return registry.FieldKindInteger
	case openapi3.TypeNumber:
		return registry.FieldKindNumber
	case openapi3.TypeBoolean:
		return registry.FieldKindBoolean
	case openapi3.TypeArray:
		return registry.FieldKindArray
	case openapi3.TypeObject:
		return registry.FieldKindObject
	default:
		return registry.FieldKindUnknown
	}
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	for _, value := range values {
		if value != openapi3.TypeNull {
			return value
		}
	}
	return ""
}

func extensionBool(ext map[string]any, key string) bool {
	switch v := ext[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	default:
		return false
	}
}

// refName extracts the component name out of a local $ref.
func refName(ref string) string {
	if ref == "" {
		return ""
	}
	if idx := strings.LastIndex(ref, "/"); idx >= 0 {
		return ref[idx+1:]
	}
	return strings.TrimPrefix(ref, componentSchemaPrefix)
}
