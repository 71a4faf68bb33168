package parser

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	pkgopenapi "github.com/goliatone/go-suggest/pkg/openapi"
	"github.com/goliatone/go-suggest/pkg/registry"
)

const libraryDocument = `
openapi: 3.0.3
info:
  title: Library
  version: 1.0.0
paths: {}
components:
  schemas:
    Status:
      type: string
      enum: [draft, published]
    Author:
      type: object
      properties:
        id:
          type: integer
        full_name:
          type: string
          maxLength: 120
          title: Name
          description: The author's full name
        books:
          type: array
          items:
            $ref: '#/components/schemas/Book'
    Book:
      type: object
      x-primary-key: isbn
      properties:
        isbn:
          type: string
          maxLength: 13
        title:
          type: string
          maxLength: 200
          x-verbose-name: Title
          description: Title of the book
        published_on:
          type: string
          format: date
        status:
          $ref: '#/components/schemas/Status'
        author_id:
          type: integer
        author:
          allOf:
            - $ref: '#/components/schemas/Author'
          x-relationships:
            type: belongsTo
            foreignKey: author_id
        publisher_id:
          type: integer
          format: foreign-key
        editor:
          allOf:
            - $ref: '#/components/schemas/Author'
          description: Supervising editor
`

func TestParserModels(t *testing.T) {
	parser := New(pkgopenapi.NewParserOptions())
	doc := registry.MustNewDocument(registry.SourceFromFS("library.yaml"), []byte(libraryDocument))

	models, err := parser.Models(context.Background(), doc)
	if err != nil {
		t.Fatalf("models: %v", err)
	}

	want := []registry.Model{
		{
			Name:       "Author",
			PrimaryKey: "id",
			Fields: []registry.Field{
				{Name: "full_name", VerboseName: "Name", HelpText: "The author's full name", Kind: registry.FieldKindString},
				{Name: "id", VerboseName: "Id", Kind: registry.FieldKindInteger},
			},
		},
		{
			Name:       "Book",
			PrimaryKey: "isbn",
			Fields: []registry.Field{
				{Name: "author", VerboseName: "Author", Kind: registry.FieldKindForeignKey, Target: "Author"},
				{Name: "author_id", VerboseName: "Author Id", Kind: registry.FieldKindForeignKey, Target: "Author"},
				{Name: "editor", VerboseName: "Editor", HelpText: "Supervising editor", Kind: registry.FieldKindForeignKey, Target: "Author"},
				{Name: "isbn", VerboseName: "Isbn", Kind: registry.FieldKindString},
				{Name: "published_on", VerboseName: "Published On", Kind: registry.FieldKindDate},
				{Name: "publisher_id", VerboseName: "Publisher Id", Kind: registry.FieldKindForeignKey},
				{Name: "status", VerboseName: "Status", Kind: registry.FieldKindString},
				{Name: "title", VerboseName: "Title", HelpText: "Title of the book", Kind: registry.FieldKindString},
			},
		},
	}

	if diff := cmp.Diff(want, models); diff != "" {
		t.Fatalf("models mismatch (-want +got):\n%s", diff)
	}
}

func TestParserPrimaryKeyExtension(t *testing.T) {
	const document = `{
  "openapi": "3.0.0",
  "info": { "title": "PK", "version": "1.0.0" },
  "paths": {},
  "components": {
    "schemas": {
      "Ticket": {
        "type": "object",
        "properties": {
          "code": { "type": "string", "x-primary-key": true },
          "summary": { "type": "string" }
        }
      }
    }
  }
}`

	parser := New(pkgopenapi.NewParserOptions())
	models, err := parser.Models(context.Background(), registry.MustNewDocument(registry.SourceFromFS("pk.json"), []byte(document)))
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	if len(models) != 1 {
		t.Fatalf("expected one model, got %d", len(models))
	}
	if models[0].PrimaryKey != "code" {
		t.Fatalf("expected primary key code, got %q", models[0].PrimaryKey)
	}
	if !models[0].IsPrimaryKey(models[0].Fields[0]) {
		t.Fatalf("expected code to be flagged as primary key")
	}
}

func TestParserCustomLabeler(t *testing.T) {
	parser := New(pkgopenapi.NewParserOptions(pkgopenapi.WithLabeler(strings.ToUpper)))
	models, err := parser.Models(context.Background(), registry.MustNewDocument(registry.SourceFromFS("library.yaml"), []byte(libraryDocument)))
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	field, ok := models[1].Field("published_on")
	if !ok {
		t.Fatalf("published_on not found")
	}
	if field.VerboseName != "PUBLISHED_ON" {
		t.Fatalf("expected custom label, got %q", field.VerboseName)
	}
}

func TestParserErrors(t *testing.T) {
	parser := New(pkgopenapi.NewParserOptions(pkgopenapi.WithValidation(true)))

	cases := map[string]string{
		"invalid payload": "{not yaml or json",
		"no schemas":      "openapi: 3.0.0\ninfo: {title: Empty, version: '1'}\npaths: {}\n",
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			doc := registry.MustNewDocument(registry.SourceFromFS("bad.yaml"), []byte(payload))
			if _, err := parser.Models(context.Background(), doc); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	doc := registry.MustNewDocument(registry.SourceFromFS("library.yaml"), []byte(libraryDocument))
	if _, err := parser.Models(ctx, doc); err == nil {
		t.Fatalf("expected context error")
	}
}
