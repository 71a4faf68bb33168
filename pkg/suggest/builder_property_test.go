package suggest

import (
	"fmt"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/goliatone/go-suggest/pkg/registry"
)

type fieldRef struct {
	model string
	field registry.Field
}

func drawModels(rt *rapid.T) ([]registry.Model, []string) {
	count := rapid.IntRange(0, 5).Draw(rt, "models")
	models := make([]registry.Model, 0, count)
	for m := 0; m < count; m++ {
		name := fmt.Sprintf("Model%d", m)
		fieldCount := rapid.IntRange(0, 6).Draw(rt, name+"-fields")
		model := registry.Model{Name: name}
		for f := 0; f < fieldCount; f++ {
			field := registry.Field{
				Name:        fmt.Sprintf("m%d_f%d", m, f),
				VerboseName: rapid.SampledFrom([]string{"", "Name", "Title", "Code"}).Draw(rt, "label"),
				HelpText:    rapid.SampledFrom([]string{"", "help"}).Draw(rt, "help"),
			}
			if rapid.Bool().Draw(rt, "fk") {
				field.Kind = registry.FieldKindForeignKey
			}
			model.Fields = append(model.Fields, field)
		}
		if fieldCount > 0 && rapid.Bool().Draw(rt, "pk") {
			model.PrimaryKey = model.Fields[rapid.IntRange(0, fieldCount-1).Draw(rt, "pk-index")].Name
		}
		models = append(models, model)
	}

	var excluded []string
	for _, model := range models {
		if rapid.Bool().Draw(rt, "exclude-"+model.Name) {
			excluded = append(excluded, model.Name)
		}
	}
	return models, excluded
}

func eligibleFields(models []registry.Model, excluded []string) []fieldRef {
	skip := make(map[string]bool, len(excluded))
	for _, name := range excluded {
		skip[name] = true
	}
	var out []fieldRef
	for _, model := range models {
		if skip[model.Name] {
			continue
		}
		for _, field := range model.Fields {
			if model.IsPrimaryKey(field) || field.IsForeignKey() {
				continue
			}
			out = append(out, fieldRef{model: model.Name, field: field})
		}
	}
	return out
}

func TestBuildProperties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		models, excluded := drawModels(rt)

		result, err := NewBuilder(WithExcluded(excluded...)).Build(models)
		if err != nil {
			rt.Fatalf("build: %v", err)
		}

		eligible := eligibleFields(models, excluded)
		allowed := make(map[string]bool, len(eligible))
		last := make(map[string]Entry)
		for _, ref := range eligible {
			allowed[ref.field.Name] = true
			key := registry.VerboseName(ref.field.VerboseName, ref.field.Name, nil)
			last[key] = Entry{Value: ref.field.Name, HelpText: ref.field.HelpText}
		}

		for key, entry := range result.Dictionary {
			if !allowed[entry.Value] {
				rt.Fatalf("entry %q=%+v comes from an excluded model, a primary key or a foreign key", key, entry)
			}
		}
		if len(result.Dictionary) != len(last) {
			rt.Fatalf("dictionary has %d keys, want %d", len(result.Dictionary), len(last))
		}
		for key, want := range last {
			got, ok := result.Dictionary[key]
			if !ok {
				rt.Fatalf("missing key %q", key)
			}
			if got != want {
				rt.Fatalf("key %q = %+v, want last processed %+v", key, got, want)
			}
		}
		for _, collision := range result.Collisions {
			if len(collision.Origins) < 2 {
				rt.Fatalf("collision %q has %d origins", collision.Key, len(collision.Origins))
			}
		}
	})
}

func TestTokenizeProperties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		text := rapid.StringMatching(`[ab ,:]{0,24}`).Draw(rt, "text")
		delimiter := rapid.SampledFrom([]string{" ", ",", "::"}).Draw(rt, "delimiter")

		previousEnd := 0
		for _, token := range Tokenize(text, delimiter) {
			if token.Text == "" {
				rt.Fatalf("empty token in %q", text)
			}
			if text[token.Begin:token.End] != token.Text {
				rt.Fatalf("offsets [%d,%d) do not match %q in %q", token.Begin, token.End, token.Text, text)
			}
			if strings.Contains(token.Text, delimiter) {
				rt.Fatalf("token %q contains delimiter %q", token.Text, delimiter)
			}
			if token.Begin < previousEnd {
				rt.Fatalf("tokens overlap in %q", text)
			}
			previousEnd = token.End
		}
	})
}
