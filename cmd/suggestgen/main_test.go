package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-suggest/pkg/prompt"
	"github.com/goliatone/go-suggest/pkg/sqlschema"
)

const libraryDictionary = `{"Name":{"value":"name","help_text":"Publisher name"},"Pages":{"value":"pages","help_text":"Number of pages"},"Title":{"value":"title","help_text":"Title of the book"}}` + "\n"

// isolate runs the command from an empty directory and home so no local
// suggestgen.yaml or .env leaks into the test, returning the absolute path of
// the library fixture.
func isolate(t *testing.T) string {
	t.Helper()
	fixture, err := filepath.Abs(filepath.Join("testdata", "library.yaml"))
	if err != nil {
		t.Fatalf("resolve fixture: %v", err)
	}
	t.Setenv("HOME", t.TempDir())
	{
		dir := t.TempDir()
		prev, err := os.Getwd()
		if err != nil {
			t.Fatalf("getwd: %v", err)
		}
		if err := os.Chdir(dir); err != nil {
			t.Fatalf("chdir: %v", err)
		}
		t.Cleanup(func() { _ = os.Chdir(prev) })
	}
	return fixture
}

func execute(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	cmd := a.rootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestBuild_OpenAPIToStdout(t *testing.T) {
	fixture := isolate(t)

	out, err := execute(t, newApp(), "build", "--source", fixture)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if out != libraryDictionary {
		t.Fatalf("unexpected output:\n got: %s\nwant: %s", out, libraryDictionary)
	}
}

func TestBuild_ScriptToFile(t *testing.T) {
	fixture := isolate(t)
	target := filepath.Join(t.TempDir(), "static", "suggestions.js")

	_, err := execute(t, newApp(), "build",
		"--source", fixture,
		"--format", "js",
		"--mode", "update",
		"--variable", "window.suggest",
		"-o", target,
	)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.HasPrefix(string(data), `window.suggest.updateDict({"Name":`) {
		t.Fatalf("unexpected script: %s", data)
	}
}

func TestBuild_ConfigFileExclusions(t *testing.T) {
	fixture := isolate(t)
	cfgPath := filepath.Join(t.TempDir(), "suggestgen.yaml")
	content := "source: " + fixture + "\nexclude: [Publisher, Book]\nrender:\n  format: yaml\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, err := execute(t, newApp(), "build", "--config", cfgPath)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := "Name:\n  value: full_name\n  help_text: Full name of the author\nSecret:\n  value: secret\n  help_text: \"\"\n"
	if out != want {
		t.Fatalf("unexpected output:\n got: %q\nwant: %q", out, want)
	}
}

func TestBuild_SQLiteDatabase(t *testing.T) {
	isolate(t)
	dsn := filepath.Join(t.TempDir(), "library.db")

	db, err := sqlschema.OpenSQLite(dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	_, err = db.Exec(`
CREATE TABLE authors (id INTEGER PRIMARY KEY, name TEXT NOT NULL);
CREATE TABLE books (
	id INTEGER PRIMARY KEY,
	title TEXT NOT NULL,
	author_id INTEGER REFERENCES authors(id)
);`)
	if err != nil {
		t.Fatalf("create schema: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close sqlite: %v", err)
	}

	out, err := execute(t, newApp(), "build", "--db-driver", "sqlite", "--db-dsn", dsn)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := `{"Name":{"value":"name","help_text":""},"Title":{"value":"title","help_text":""}}` + "\n"
	if out != want {
		t.Fatalf("unexpected output:\n got: %s\nwant: %s", out, want)
	}
}

func TestBuild_RequiresSource(t *testing.T) {
	isolate(t)
	if _, err := execute(t, newApp(), "build"); err == nil {
		t.Fatalf("expected error without a model source")
	}
}

func TestBuild_MalformedURLSource(t *testing.T) {
	isolate(t)
	_, err := execute(t, newApp(), "build", "--source", "http://example.com/%zz")
	if err == nil || !strings.Contains(err.Error(), "invalid --source") {
		t.Fatalf("expected invalid source error, got %v", err)
	}
}

func TestMatch_Text(t *testing.T) {
	fixture := isolate(t)

	out, err := execute(t, newApp(), "match", "--source", fixture, "the book")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	want := "the [0:3]\n  title (Title): Title of the book\nbook [4:8]\n  title (Title): Title of the book\n"
	if out != want {
		t.Fatalf("unexpected output:\n got: %q\nwant: %q", out, want)
	}
}

func TestMatch_JSONWithoutSuggestions(t *testing.T) {
	fixture := isolate(t)

	out, err := execute(t, newApp(), "match", "--json", "--source", fixture, "zzz")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if out != "[]\n" {
		t.Fatalf("expected empty JSON array, got %q", out)
	}
}

type scriptedDriver struct {
	input   string
	selects []int
}

func (d *scriptedDriver) Input(context.Context, prompt.InputConfig) (string, error) {
	return d.input, nil
}

func (d *scriptedDriver) Select(context.Context, prompt.SelectConfig) (int, error) {
	if len(d.selects) == 0 {
		return 0, errors.New("no select scripted")
	}
	idx := d.selects[0]
	d.selects = d.selects[1:]
	return idx, nil
}

func (d *scriptedDriver) Info(context.Context, string) error {
	return nil
}

func TestTry_AppliesSuggestion(t *testing.T) {
	fixture := isolate(t)

	a := newApp()
	// token "book", match "title", then Done
	a.promptDriver = &scriptedDriver{input: "the book", selects: []int{1, 0, 2}}

	out, err := execute(t, a, "try", "--source", fixture)
	if err != nil {
		t.Fatalf("try: %v", err)
	}
	if out != "the title\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestPublish_RequiresBucket(t *testing.T) {
	fixture := isolate(t)
	if _, err := execute(t, newApp(), "publish", "--source", fixture); err == nil {
		t.Fatalf("expected error without bucket")
	}
}
