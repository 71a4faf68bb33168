package jsondict

import (
	"context"
	"testing"

	"github.com/goliatone/go-suggest/pkg/render"
	"github.com/goliatone/go-suggest/pkg/suggest"
)

func TestRenderer_Render(t *testing.T) {
	dict := suggest.Dictionary{
		"Title":  {Value: "title", HelpText: "Title of the <script>x</script><b>book</b>"},
		"Author": {Value: "author", HelpText: ""},
	}

	got, err := New().Render(context.Background(), dict, render.RenderOptions{Sanitize: true})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `{"Author":{"value":"author","help_text":""},"Title":{"value":"title","help_text":"Title of the \u003cb\u003ebook\u003c/b\u003e"}}` + "\n"
	if string(got) != want {
		t.Fatalf("unexpected output:\n got: %s\nwant: %s", got, want)
	}
}

func TestRenderer_RenderEmptyDictionary(t *testing.T) {
	got, err := New().Render(context.Background(), nil, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(got) != "{}\n" {
		t.Fatalf("expected empty object, got %q", got)
	}
}

func TestRenderer_RenderIndent(t *testing.T) {
	dict := suggest.Dictionary{"Title": {Value: "title"}}
	got, err := New().Render(context.Background(), dict, render.RenderOptions{Indent: true})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "{\n  \"Title\": {\n    \"value\": \"title\",\n    \"help_text\": \"\"\n  }\n}\n"
	if string(got) != want {
		t.Fatalf("unexpected output:\n got: %s\nwant: %s", got, want)
	}
}

func TestRenderer_RenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Render(ctx, suggest.Dictionary{}, render.RenderOptions{}); err == nil {
		t.Fatalf("expected context error")
	}
}
