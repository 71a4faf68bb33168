package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"

	"github.com/goliatone/go-suggest/pkg/render"
	"github.com/goliatone/go-suggest/pkg/suggest"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
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
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Defaults(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "suggestgen.yaml", `
source: models.yaml
exclude: [Audit, Session]
collision: first-wins
server:
  addr: ":9090"
  cache_ttl: 30s
database:
  driver: sqlite
  dsn: app.db
  tables: "books, authors"
render:
  format: js
  mode: update
`)
	t.Setenv("SUGGESTGEN_SERVER_ADDR", ":7070")
	t.Setenv("SUGGESTGEN_LOG_LEVEL", "debug")

	cfg, err := Load(viper.New(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Source != "models.yaml" {
		t.Fatalf("unexpected source %q", cfg.Source)
	}
	if diff := cmp.Diff([]string{"Audit", "Session"}, cfg.Exclude); diff != "" {
		t.Fatalf("exclude mismatch (-want +got):\n%s", diff)
	}
	if cfg.CollisionPolicy() != suggest.CollisionFirstWins {
		t.Fatalf("unexpected collision policy %q", cfg.CollisionPolicy())
	}
	if cfg.Server.Addr != ":7070" {
		t.Fatalf("expected env override for server.addr, got %q", cfg.Server.Addr)
	}
	if cfg.Server.CacheTTL != 30*time.Second {
		t.Fatalf("unexpected cache ttl %s", cfg.Server.CacheTTL)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("expected env override for log.level, got %q", cfg.Log.Level)
	}
	if diff := cmp.Diff([]string{"books", "authors"}, cfg.Database.Tables); diff != "" {
		t.Fatalf("tables mismatch (-want +got):\n%s", diff)
	}
	if cfg.Render.Format != "js" || cfg.Render.Mode != "update" || !cfg.Render.Sanitize {
		t.Fatalf("unexpected render config %+v", cfg.Render)
	}
}

func TestLoad_EmptyExcludeDisablesExclusion(t *testing.T) {
	path := writeFile(t, t.TempDir(), "suggestgen.yaml", "exclude: []\n")

	cfg, err := Load(viper.New(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Exclude) != 0 {
		t.Fatalf("expected no exclusions, got %v", cfg.Exclude)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}

	path := writeFile(t, t.TempDir(), "suggestgen.yaml", "collision: random\n")
	if _, err := Load(viper.New(), path); err == nil {
		t.Fatalf("expected validation error for unknown collision policy")
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"empty delimiter": func(c *Config) { c.Delimiter = "" },
		"negative ttl":    func(c *Config) { c.Server.CacheTTL = -time.Second },
		"unknown mode":    func(c *Config) { c.Render.Mode = "merge" },
		"dsn without driver": func(c *Config) {
			c.Database.DSN = "postgres://localhost/app"
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Defaults()
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}

	if err := Defaults().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".env", "SUGGESTGEN_DOTENV_PROBE=from-file\n")
	t.Setenv("SUGGESTGEN_DOTENV_PROBE", "")
	os.Unsetenv("SUGGESTGEN_DOTENV_PROBE")

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("load dotenv: %v", err)
	}
	if got := os.Getenv("SUGGESTGEN_DOTENV_PROBE"); got != "from-file" {
		t.Fatalf("expected value from .env, got %q", got)
	}
}

func TestConfig_RenderOptions(t *testing.T) {
	cfg := Defaults()
	cfg.Render.Mode = "update"
	cfg.Render.Variable = "window.suggest"
	cfg.Render.Indent = true

	want := render.RenderOptions{
		Mode:     render.ModeUpdate,
		Variable: "window.suggest",
		Sanitize: true,
		Indent:   true,
	}
	if diff := cmp.Diff(want, cfg.RenderOptions()); diff != "" {
		t.Fatalf("render options mismatch (-want +got):\n%s", diff)
	}
}
