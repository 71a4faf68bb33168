package parser

import (
	"sort"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"
)

const (
	relationshipExtensionKey = "x-relationships"

	relationshipTypeAttr       = "type"
	relationshipTargetAttr     = "target"
	relationshipForeignKeyAttr = "foreignKey"
	relationshipThroughAttr    = "through"
	relationshipInverseAttr    = "inverse"
	relationshipCardAttr       = "cardinality"
	relationshipSourceAttr     = "sourceField"
)

var relationshipKeyLookup = map[string]string{
	"type":        relationshipTypeAttr,
	"kind":        relationshipTypeAttr,
	"target":      relationshipTargetAttr,
	"foreignkey":  relationshipForeignKeyAttr,
	"foreign_id":  relationshipForeignKeyAttr,
	"foreign-id":  relationshipForeignKeyAttr,
	"through":     relationshipThroughAttr,
	"pivot":       relationshipThroughAttr,
	"inverse":     relationshipInverseAttr,
	"cardinality": relationshipCardAttr,
	"sourcefield": relationshipSourceAttr,
}

// property is a component schema property along with its normalised
// relationship metadata.
type property struct {
	name         string
	ref          *openapi3.SchemaRef
	relationship map[string]string
}

func (p property) value() *openapi3.Schema {
	if p.ref == nil {
		return nil
	}
	return p.ref.Value
}

// target resolves the referenced model of a relation property: the declared
// relationship target, a direct $ref, or the first $ref inside allOf.
func (p property) target() string {
	if target := p.relationship[relationshipTargetAttr]; target != "" {
		return refName(target)
	}
	if p.ref == nil {
		return ""
	}
	if p.ref.Ref != "" {
		return refName(p.ref.Ref)
	}
	if p.ref.Value != nil {
		for _, item := range p.ref.Value.AllOf {
			if item != nil && item.Ref != "" {
				return refName(item.Ref)
			}
		}
	}
	return ""
}

// reverse reports whether the property describes the many side of a relation.
// Such properties are not columns of the model and are dropped.
func (p property) reverse() bool {
	if p.relationship[relationshipCardAttr] == "many" {
		return p.relationship[relationshipSourceAttr] == ""
	}
	value := p.value()
	if value == nil || firstSchemaType(value.Type) != openapi3.TypeArray || value.Items == nil {
		return false
	}
	return value.Items.Ref != ""
}

// foreignKey reports whether the property references another model and, when
// known, the name of that model.
func (p property) foreignKey() (string, bool) {
	if card := p.relationship[relationshipCardAttr]; card == "one" {
		return p.target(), true
	}
	if p.relationship[relationshipSourceAttr] != "" {
		return p.target(), true
	}
	value := p.value()
	if value != nil {
		if value.Format == foreignKeyFormat || extensionBool(value.Extensions, foreignKeyExtensionKey) {
			return p.target(), true
		}
	}
	if target := p.target(); target != "" && len(p.relationship) == 0 && p.refersToObject() {
		return target, true
	}
	return "", false
}

// refersToObject reports whether a $ref property points at an object schema
// rather than a shared scalar such as an enum.
func (p property) refersToObject() bool {
	value := p.value()
	if value == nil {
		return true
	}
	if len(value.AllOf) > 0 {
		for _, item := range value.AllOf {
			if item != nil && item.Ref != "" && item.Value != nil {
				return isObject(item.Value)
			}
		}
	}
	return isObject(value)
}

func isObject(schema *openapi3.Schema) bool {
	if len(schema.Properties) > 0 {
		return true
	}
	return firstSchemaType(schema.Type) == openapi3.TypeObject
}

// collectProperties returns the schema's properties sorted by name, merging
// properties contributed through allOf members.
func collectProperties(schema *openapi3.Schema) []property {
	merged := make(map[string]*openapi3.SchemaRef)
	var walk func(*openapi3.Schema, int)
	walk = func(s *openapi3.Schema, depth int) {
		if s == nil || depth > 8 {
			return
		}
		for _, item := range s.AllOf {
			if item != nil {
				walk(item.Value, depth+1)
			}
		}
		for name, ref := range s.Properties {
			merged[name] = ref
		}
	}
	walk(schema, 0)

	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)

	props := make([]property, 0, len(names))
	for _, name := range names {
		ref := merged[name]
		prop := property{name: name, ref: ref}
		if ref != nil && ref.Value != nil {
			prop.relationship = normaliseRelationshipExtension(ref.Value.Extensions[relationshipExtensionKey])
		}
		props = append(props, prop)
	}
	return props
}

func normaliseRelationshipExtension(value any) map[string]string {
	raw, ok := value.(map[string]any)
	if !ok || len(raw) == 0 {
		return nil
	}

	normalised := make(map[string]string)
	for key, val := range raw {
		canonical, ok := canonicalRelationshipKey(key)
		if !ok {
			continue
		}
		if strVal, ok := toString(val); ok {
			normalised[canonical] = strVal
		}
	}

	if len(normalised) == 0 {
		return nil
	}

	if relType := normalised[relationshipTypeAttr]; relType != "" {
		if _, exists := normalised[relationshipCardAttr]; !exists {
			if card := deriveCardinality(relType); card != "" {
				normalised[relationshipCardAttr] = card
			}
		}
	}

	return normalised
}

func canonicalRelationshipKey(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	sanitised := normaliseKey(raw)
	if sanitised == "" {
		return "", false
	}
	if canonical, ok := relationshipKeyLookup[sanitised]; ok {
		return canonical, true
	}
	return sanitised, true
}

func normaliseKey(raw string) string {
	var builder strings.Builder
	builder.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			builder.WriteRune(unicode.ToLower(r))
		}
	}
	return builder.String()
}

func toString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, v != ""
	default:
		return "", false
	}
}

func deriveCardinality(relType string) string {
	switch strings.ToLower(relType) {
	case "belongsto", "hasone":
		return "one"
	case "hasmany", "manytomany":
		return "many"
	default:
		return ""
	}
}

// propagateRelationshipMetadata copies relationship metadata onto the sibling
// property named by foreignKey, so an `author` relation with
// `foreignKey: author_id` also marks `author_id`. The sibling records the
// relation it was derived from under sourceField.
func propagateRelationshipMetadata(props []property) []property {
	if len(props) == 0 {
		return props
	}

	index := make(map[string]int, len(props))
	for i, prop := range props {
		index[prop.name] = i
	}

	updated := append([]property(nil), props...)
	for _, prop := range props {
		fk := prop.relationship[relationshipForeignKeyAttr]
		if fk == "" || fk == prop.name {
			continue
		}
		hostIdx, ok := index[fk]
		if !ok {
			continue
		}

		host := updated[hostIdx]
		rel := cloneRelationshipMap(host.relationship)
		for key, value := range prop.relationship {
			if key == relationshipForeignKeyAttr {
				continue
			}
			if _, exists := rel[key]; !exists {
				rel[key] = value
			}
		}
		if rel[relationshipTargetAttr] == "" {
			if target := prop.target(); target != "" {
				rel[relationshipTargetAttr] = target
			}
		}
		rel[relationshipSourceAttr] = prop.name
		host.relationship = rel
		updated[hostIdx] = host
	}
	return updated
}

func cloneRelationshipMap(rel map[string]string) map[string]string {
	cloned := make(map[string]string, len(rel)+2)
	for key, value := range rel {
		if value == "" {
			continue
		}
		cloned[key] = value
	}
	return cloned
}
