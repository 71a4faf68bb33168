package suggest

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-suggest/pkg/registry"
)

func bookModel() registry.Model {
	return registry.Model{
		Name:       "Book",
		PrimaryKey: "id",
		Fields: []registry.Field{
			{Name: "id", Kind: registry.FieldKindInteger},
			{Name: "title", VerboseName: "Title", HelpText: "Title of the book", Kind: registry.FieldKindString},
			{Name: "author", VerboseName: "Author", Kind: registry.FieldKindForeignKey, Target: "Author"},
			{Name: "published_on", HelpText: "First edition date", Kind: registry.FieldKindDate},
		},
	}
}

func TestBuildSkipsPrimaryAndForeignKeys(t *testing.T) {
	dict, err := BuildDictionary([]registry.Model{bookModel()})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	want := Dictionary{
		"Title":        {Value: "title", HelpText: "Title of the book"},
		"Published On": {Value: "published_on", HelpText: "First edition date"},
	}
	if diff := cmp.Diff(want, dict); diff != "" {
		t.Fatalf("dictionary mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildSingleEligibleField(t *testing.T) {
	model := registry.Model{
		Name:       "Article",
		PrimaryKey: "id",
		Fields: []registry.Field{
			{Name: "id"},
			{Name: "headline", VerboseName: "Title", HelpText: "Shown above the fold"},
		},
	}
	dict, err := BuildDictionary([]registry.Model{model})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := Dictionary{"Title": {Value: "headline", HelpText: "Shown above the fold"}}
	if diff := cmp.Diff(want, dict); diff != "" {
		t.Fatalf("dictionary mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildExcludesDefaultModel(t *testing.T) {
	undesired := registry.Model{
		Name:   DefaultExcludedModel,
		Fields: []registry.Field{{Name: "secret", VerboseName: "Secret"}},
	}

	result, err := NewBuilder().Build([]registry.Model{undesired, bookModel()})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, ok := result.Dictionary["Secret"]; ok {
		t.Fatalf("excluded model leaked into dictionary: %+v", result.Dictionary)
	}
	if diff := cmp.Diff([]string{DefaultExcludedModel}, result.Excluded); diff != "" {
		t.Fatalf("excluded mismatch (-want +got):\n%s", diff)
	}
	if len(result.Dictionary) != 2 {
		t.Fatalf("expected the included model to contribute 2 entries, got %d", len(result.Dictionary))
	}
}

func TestBuildWithCustomExclusions(t *testing.T) {
	undesired := registry.Model{Name: DefaultExcludedModel, Fields: []registry.Field{{Name: "secret"}}}

	result, err := NewBuilder(WithExcluded("Book")).Build([]registry.Model{undesired, bookModel()})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := Dictionary{"Secret": {Value: "secret"}}
	if diff := cmp.Diff(want, result.Dictionary); diff != "" {
		t.Fatalf("dictionary mismatch (-want +got):\n%s", diff)
	}

	result, err = NewBuilder(WithExcluded()).Build([]registry.Model{undesired})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(result.Dictionary) != 1 || len(result.Excluded) != 0 {
		t.Fatalf("expected no exclusions, got %+v", result)
	}
}

func TestBuildModelWithoutEligibleFields(t *testing.T) {
	model := registry.Model{
		Name:       "Membership",
		PrimaryKey: "id",
		Fields: []registry.Field{
			{Name: "id"},
			{Name: "user_id", Kind: registry.FieldKindForeignKey},
			{Name: "group_id", Kind: registry.FieldKindForeignKey},
		},
	}
	dict, err := BuildDictionary([]registry.Model{model})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(dict) != 0 {
		t.Fatalf("expected empty dictionary, got %+v", dict)
	}
}

func collidingModels() []registry.Model {
	return []registry.Model{
		{Name: "Book", Fields: []registry.Field{{Name: "title", VerboseName: "Name", HelpText: "Book title"}}},
		{Name: "Author", Fields: []registry.Field{{Name: "full_name", VerboseName: "Name", HelpText: "Author name"}}},
	}
}

func TestBuildCollisionLastWins(t *testing.T) {
	result, err := NewBuilder().Build(collidingModels())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(result.Dictionary) != 1 {
		t.Fatalf("expected exactly one entry, got %+v", result.Dictionary)
	}
	if got := result.Dictionary["Name"]; got.Value != "full_name" {
		t.Fatalf("expected last processed entry to win, got %+v", got)
	}

	want := []Collision{{
		Key: "Name",
		Origins: []Origin{
			{Model: "Book", Field: "title", Entry: Entry{Value: "title", HelpText: "Book title"}},
			{Model: "Author", Field: "full_name", Entry: Entry{Value: "full_name", HelpText: "Author name"}},
		},
	}}
	if diff := cmp.Diff(want, result.Collisions); diff != "" {
		t.Fatalf("collisions mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildCollisionFirstWins(t *testing.T) {
	result, err := NewBuilder(WithCollisionPolicy(CollisionFirstWins)).Build(collidingModels())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := result.Dictionary["Name"]; got.Value != "title" {
		t.Fatalf("expected first processed entry to win, got %+v", got)
	}
	if len(result.Collisions) != 1 {
		t.Fatalf("expected collision to be reported, got %+v", result.Collisions)
	}
}

func TestBuildCollisionError(t *testing.T) {
	_, err := NewBuilder(WithCollisionPolicy(CollisionFail)).Build(collidingModels())
	var collisionErr *CollisionError
	if !errors.As(err, &collisionErr) {
		t.Fatalf("expected *CollisionError, got %v", err)
	}
	if len(collisionErr.Collisions) != 1 || collisionErr.Collisions[0].Key != "Name" {
		t.Fatalf("unexpected collisions %+v", collisionErr.Collisions)
	}
	if msg := err.Error(); msg != `suggest: verbose name collision: "Name" (Book.title, Author.full_name)` {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestBuildIdenticalEntriesAreNotCollisions(t *testing.T) {
	shared := registry.Field{Name: "created_at", HelpText: "Creation time"}
	models := []registry.Model{
		{Name: "Book", Fields: []registry.Field{shared}},
		{Name: "Author", Fields: []registry.Field{shared}},
	}
	result, err := NewBuilder(WithCollisionPolicy(CollisionFail)).Build(models)
	if err != nil {
		t.Fatalf("identical entries must not fail the build: %v", err)
	}
	if len(result.Collisions) != 0 || len(result.Dictionary) != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestBuildRejectsInvalidModels(t *testing.T) {
	if _, err := BuildDictionary([]registry.Model{{Name: ""}}); err == nil {
		t.Fatalf("expected error for unnamed model")
	}
}

func TestBuildUsesCustomLabeler(t *testing.T) {
	model := registry.Model{Name: "Book", Fields: []registry.Field{{Name: "page_count"}}}
	dict, err := BuildDictionary([]registry.Model{model}, WithLabeler(func(name string) string {
		return "label:" + name
	}))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, ok := dict["label:page_count"]; !ok {
		t.Fatalf("custom labeler not applied: %+v", dict)
	}
}

func TestParseCollisionPolicy(t *testing.T) {
	for input, want := range map[string]CollisionPolicy{
		"":           CollisionLastWins,
		"LAST-WINS":  CollisionLastWins,
		"first-wins": CollisionFirstWins,
		" error ":    CollisionFail,
	} {
		got, err := ParseCollisionPolicy(input)
		if err != nil || got != want {
			t.Fatalf("ParseCollisionPolicy(%q) = %q, %v", input, got, err)
		}
	}
	if _, err := ParseCollisionPolicy("merge"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}
