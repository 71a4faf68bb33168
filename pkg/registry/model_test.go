package registry

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestParseFieldKind(t *testing.T) {
	cases := map[string]FieldKind{
		"CharField":                FieldKindString,
		"varchar":                  FieldKindString,
		"TEXT":                     FieldKindText,
		"bigint":                   FieldKindInteger,
		"numeric":                  FieldKindNumber,
		"bool":                     FieldKindBoolean,
		"timestamp with time zone": FieldKindDateTime,
		"ForeignKey":               FieldKindForeignKey,
		"belongsTo":                FieldKindForeignKey,
		"geometry":                 FieldKindUnknown,
		"":                         FieldKindUnknown,
	}
	for input, want := range cases {
		if got := ParseFieldKind(input); got != want {
			t.Fatalf("ParseFieldKind(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestModelIsPrimaryKey(t *testing.T) {
	model := Model{Name: "Book", PrimaryKey: "isbn"}
	if !model.IsPrimaryKey(Field{Name: "isbn"}) {
		t.Fatalf("expected isbn to be the primary key")
	}
	if !model.IsPrimaryKey(Field{Name: "uuid", PrimaryKey: true}) {
		t.Fatalf("expected flagged field to be a primary key")
	}
	if model.IsPrimaryKey(Field{Name: "title"}) {
		t.Fatalf("title must not be a primary key")
	}
}

func TestModelValidate(t *testing.T) {
	if err := (Model{}).Validate(); err == nil {
		t.Fatalf("expected error for unnamed model")
	}
	dup := Model{Name: "Book", Fields: []Field{{Name: "title"}, {Name: "title"}}}
	if err := dup.Validate(); err == nil || !strings.Contains(err.Error(), "twice") {
		t.Fatalf("expected duplicate field error, got %v", err)
	}
	if err := (Model{Name: "Book", Fields: []Field{{Name: " "}}}).Validate(); err == nil {
		t.Fatalf("expected error for unnamed field")
	}
}

func TestStaticProviderReturnsCopies(t *testing.T) {
	provider := Static(Model{Name: "Book", Fields: []Field{{Name: "title"}}})

	first, err := provider.Models(context.Background())
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	first[0].Fields[0].Name = "mutated"

	second, err := provider.Models(context.Background())
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	if second[0].Fields[0].Name != "title" {
		t.Fatalf("provider leaked internal state: %+v", second[0])
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := provider.Models(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}
