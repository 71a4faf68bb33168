package gormschema

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gorm.io/gorm"

	"github.com/goliatone/go-suggest/pkg/registry"
)

type Author struct {
	gorm.Model
	FullName string `gorm:"size:120;comment:The author's full name" suggest:"label:Name"`
	Books    []Book
}

type Book struct {
	ISBN        string `gorm:"primaryKey;size:13"`
	Title       string `suggest:"label:Title;help:Title of the book"`
	Pages       int
	Price       float64
	InPrint     bool
	AuthorID    uint
	Author      Author
	PublisherID uint
	Internal    string `suggest:"-"`
	Scratch     string `gorm:"-"`
}

type Publisher struct {
	ID    uint
	Name  string
	Books []Book
}

func fieldsByName(t *testing.T, models []registry.Model, name string) map[string]registry.Field {
	t.Helper()
	for _, model := range models {
		if model.Name != name {
			continue
		}
		out := make(map[string]registry.Field, len(model.Fields))
		for _, field := range model.Fields {
			out[field.Name] = field
		}
		return out
	}
	t.Fatalf("model %s not found", name)
	return nil
}

func TestRegistryModels(t *testing.T) {
	reg := New([]any{&Author{}, &Book{}, &Publisher{}})

	models, err := reg.Models(context.Background())
	if err != nil {
		t.Fatalf("models: %v", err)
	}

	var names []string
	for _, model := range models {
		names = append(names, model.Name)
	}
	if diff := cmp.Diff([]string{"Author", "Book", "Publisher"}, names); diff != "" {
		t.Fatalf("model order mismatch (-want +got):\n%s", diff)
	}

	if models[0].PrimaryKey != "id" || models[1].PrimaryKey != "isbn" {
		t.Fatalf("unexpected primary keys %q %q", models[0].PrimaryKey, models[1].PrimaryKey)
	}

	author := fieldsByName(t, models, "Author")
	if got := author["full_name"]; got.VerboseName != "Name" || got.HelpText != "The author's full name" {
		t.Fatalf("unexpected full_name field %+v", got)
	}
	if _, ok := author["books"]; ok {
		t.Fatalf("has-many association must not be emitted as a field")
	}
	if got := author["created_at"]; got.VerboseName != "Created At" || got.Kind != registry.FieldKindDateTime {
		t.Fatalf("unexpected created_at field %+v", got)
	}

	book := fieldsByName(t, models, "Book")
	want := map[string]registry.Field{
		"isbn":         {Name: "isbn", VerboseName: "ISBN", Kind: registry.FieldKindString, PrimaryKey: true},
		"title":        {Name: "title", VerboseName: "Title", HelpText: "Title of the book", Kind: registry.FieldKindString},
		"pages":        {Name: "pages", VerboseName: "Pages", Kind: registry.FieldKindInteger},
		"price":        {Name: "price", VerboseName: "Price", Kind: registry.FieldKindNumber},
		"in_print":     {Name: "in_print", VerboseName: "In Print", Kind: registry.FieldKindBoolean},
		"author_id":    {Name: "author_id", VerboseName: "Author ID", Kind: registry.FieldKindForeignKey, Target: "Author"},
		"publisher_id": {Name: "publisher_id", VerboseName: "Publisher ID", Kind: registry.FieldKindForeignKey, Target: "Publisher"},
	}
	if diff := cmp.Diff(want, book); diff != "" {
		t.Fatalf("book fields mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryWithoutOwningModel(t *testing.T) {
	models, err := New([]any{&Book{}}).Models(context.Background())
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	book := fieldsByName(t, models, "Book")
	if book["author_id"].Kind != registry.FieldKindForeignKey {
		t.Fatalf("belongs-to key should be detected from the owning model alone")
	}
	if book["publisher_id"].Kind == registry.FieldKindForeignKey {
		t.Fatalf("publisher_id needs Publisher registered to be detected")
	}
}

func TestRegistryErrors(t *testing.T) {
	if _, err := New(nil).Models(context.Background()); err == nil {
		t.Fatalf("expected error for empty registry")
	}
	if _, err := New([]any{42}).Models(context.Background()); err == nil {
		t.Fatalf("expected error for non-struct model")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New([]any{&Book{}}).Models(ctx); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestRegistryRegisterDeduplicates(t *testing.T) {
	reg := New([]any{&Book{}})
	reg.Register(&Book{}, nil)

	models, err := reg.Models(context.Background())
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	if len(models) != 1 {
		t.Fatalf("expected duplicates to collapse, got %d models", len(models))
	}
}
