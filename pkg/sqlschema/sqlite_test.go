package sqlschema

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-suggest/pkg/registry"
)

const librarySchema = `
CREATE TABLE authors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	full_name VARCHAR(120) NOT NULL,
	born_on DATE
);

CREATE TABLE books (
	isbn TEXT PRIMARY KEY,
	title VARCHAR(200) NOT NULL,
	price REAL,
	in_print BOOLEAN,
	author_id INTEGER NOT NULL,
	published_at DATETIME,
	FOREIGN KEY (author_id) REFERENCES authors(id)
);
`

func newLibraryDB(t *testing.T) *SQLiteCatalog {
	t.Helper()

	db, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(librarySchema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return NewSQLiteCatalog(db)
}

func TestSQLiteIntrospection(t *testing.T) {
	catalog := newLibraryDB(t)

	models, err := NewIntrospector(catalog).Models(context.Background())
	if err != nil {
		t.Fatalf("models: %v", err)
	}

	want := []registry.Model{
		{
			Name:       "authors",
			PrimaryKey: "id",
			Fields: []registry.Field{
				{Name: "id", VerboseName: "Id", Kind: registry.FieldKindInteger, PrimaryKey: true},
				{Name: "full_name", VerboseName: "Full Name", Kind: registry.FieldKindString},
				{Name: "born_on", VerboseName: "Born On", Kind: registry.FieldKindDate},
			},
		},
		{
			Name:       "books",
			PrimaryKey: "isbn",
			Fields: []registry.Field{
				{Name: "isbn", VerboseName: "Isbn", Kind: registry.FieldKindText, PrimaryKey: true},
				{Name: "title", VerboseName: "Title", Kind: registry.FieldKindString},
				{Name: "price", VerboseName: "Price", Kind: registry.FieldKindNumber},
				{Name: "in_print", VerboseName: "In Print", Kind: registry.FieldKindBoolean},
				{Name: "author_id", VerboseName: "Author Id", Kind: registry.FieldKindForeignKey, Target: "authors"},
				{Name: "published_at", VerboseName: "Published At", Kind: registry.FieldKindDateTime},
			},
		},
	}
	if diff := cmp.Diff(want, models); diff != "" {
		t.Fatalf("models mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLiteIntrospectionWithTables(t *testing.T) {
	catalog := newLibraryDB(t)

	models, err := NewIntrospector(catalog, WithTables("books", "missing")).Models(context.Background())
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	if len(models) != 1 || models[0].Name != "books" {
		t.Fatalf("expected only books, got %+v", models)
	}
}

func TestOpenSQLite(t *testing.T) {
	catalog, closeFn, err := Open(context.Background(), "sqlite", ":memory:", "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer closeFn()

	if catalog.Driver() != "sqlite" {
		t.Fatalf("unexpected driver %q", catalog.Driver())
	}
	tables, err := catalog.Tables(context.Background())
	if err != nil {
		t.Fatalf("tables: %v", err)
	}
	if len(tables) != 0 {
		t.Fatalf("expected empty database, got %v", tables)
	}

	if _, _, err := Open(context.Background(), "oracle", "dsn", ""); err == nil {
		t.Fatalf("expected unsupported driver error")
	}
	if _, _, err := Open(context.Background(), "sqlite", "", ""); err == nil {
		t.Fatalf("expected missing dsn error")
	}
}

func TestKindOf(t *testing.T) {
	cases := map[string]registry.FieldKind{
		"VARCHAR(255)":                "string",
		"character varying":           "string",
		"int4":                        "integer",
		"UNSIGNED BIG INT":            "integer",
		"numeric(10, 2)":              "number",
		"DOUBLE":                      "number",
		"timestamptz":                 "datetime",
		"_text[]":                     "array",
		"jsonb":                       "object",
		"NATIVE CHARACTER(70)":        "string",
		"blob":                        "unknown",
		"timestamp without time zone": "datetime",
	}
	for input, want := range cases {
		if got := kindOf(input); got != want {
			t.Fatalf("kindOf(%q) = %q, want %q", input, got, want)
		}
	}
}
