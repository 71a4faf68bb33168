// Package config loads suggestgen settings from suggestgen.yaml, SUGGESTGEN_*
// environment variables, a .env file and command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/goliatone/go-suggest/internal/logging"
	"github.com/goliatone/go-suggest/pkg/render"
	"github.com/goliatone/go-suggest/pkg/suggest"
)

const (
	// EnvPrefix namespaces environment overrides, e.g. SUGGESTGEN_SERVER_ADDR.
	EnvPrefix = "SUGGESTGEN"
	// FileName is the configuration file looked up without extension.
	FileName = "suggestgen"
)

// Config holds every suggestgen setting.
type Config struct {
	Source    string          `mapstructure:"source"`
	Adapter   string          `mapstructure:"adapter"`
	Exclude   []string        `mapstructure:"exclude"`
	Collision string          `mapstructure:"collision"`
	Delimiter string          `mapstructure:"delimiter"`
	Log       logging.Options `mapstructure:"log"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Publish   PublishConfig   `mapstructure:"publish"`
	Render    RenderConfig    `mapstructure:"render"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr     string        `mapstructure:"addr"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	Watch    bool          `mapstructure:"watch"`
}

// DatabaseConfig selects a live database as model source.
type DatabaseConfig struct {
	Driver string   `mapstructure:"driver"`
	DSN    string   `mapstructure:"dsn"`
	Schema string   `mapstructure:"schema"`
	Tables []string `mapstructure:"tables"`
}

// PublishConfig names the S3 destination of `suggestgen publish`. An empty
// key becomes suggestions.<format>.
type PublishConfig struct {
	Bucket string `mapstructure:"bucket"`
	Key    string `mapstructure:"key"`
	Region string `mapstructure:"region"`
}

// RenderConfig controls rendered output.
type RenderConfig struct {
	Format   string `mapstructure:"format"`
	Sanitize bool   `mapstructure:"sanitize"`
	Mode     string `mapstructure:"mode"`
	Variable string `mapstructure:"variable"`
	Indent   bool   `mapstructure:"indent"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Adapter:   "",
		Exclude:   suggest.DefaultExcludedModels(),
		Collision: string(suggest.CollisionLastWins),
		Delimiter: suggest.DefaultDelimiter,
		Log: logging.Options{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Server: ServerConfig{
			Addr:     ":8080",
			CacheTTL: 5 * time.Minute,
			Watch:    true,
		},
		Render: RenderConfig{
			Format:   "json",
			Sanitize: true,
			Mode:     string(render.ModeSet),
			Variable: render.DefaultVariable,
		},
	}
}

// SetDefaults registers Defaults on v. Every key must be known to viper for
// environment overrides to reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("source", d.Source)
	v.SetDefault("adapter", d.Adapter)
	v.SetDefault("exclude", d.Exclude)
	v.SetDefault("collision", d.Collision)
	v.SetDefault("delimiter", d.Delimiter)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.output", d.Log.Output)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.cache_ttl", d.Server.CacheTTL)
	v.SetDefault("server.watch", d.Server.Watch)
	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.dsn", d.Database.DSN)
	v.SetDefault("database.schema", d.Database.Schema)
	v.SetDefault("database.tables", d.Database.Tables)
	v.SetDefault("publish.bucket", d.Publish.Bucket)
	v.SetDefault("publish.key", d.Publish.Key)
	v.SetDefault("publish.region", d.Publish.Region)
	v.SetDefault("render.format", d.Render.Format)
	v.SetDefault("render.sanitize", d.Render.Sanitize)
	v.SetDefault("render.mode", d.Render.Mode)
	v.SetDefault("render.variable", d.Render.Variable)
	v.SetDefault("render.indent", d.Render.Indent)
}

// Load reads configuration into a Config. When cfgFile is empty the file is
// looked up as ./suggestgen.{yaml,yml,json} and then
// ~/.config/suggestgen/suggestgen.yaml; a missing file is not an error.
func Load(v *viper.Viper, cfgFile string) (Config, error) {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", FileName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.Exclude = normaliseList(cfg.Exclude)
	cfg.Database.Tables = normaliseList(cfg.Database.Tables)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDotEnv loads environment variables from the given files (".env" when
// none are given). Missing files are ignored; existing variables win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: stat %s: %w", path, err)
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("config: load %s: %w", path, err)
		}
	}
	return nil
}

// Validate checks values that would otherwise fail deep inside a command.
func (c Config) Validate() error {
	if _, err := suggest.ParseCollisionPolicy(c.Collision); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Delimiter == "" {
		return errors.New("config: delimiter must not be empty")
	}
	if c.Server.CacheTTL < 0 {
		return errors.New("config: server.cache_ttl must not be negative")
	}
	if _, err := render.ParseMode(c.Render.Mode); err != nil {
		return fmt.Errorf("config: render.mode: %w", err)
	}
	if c.Database.DSN != "" && c.Database.Driver == "" {
		return errors.New("config: database.driver is required with database.dsn")
	}
	return nil
}

// RenderOptions converts the render section into renderer options.
func (c Config) RenderOptions() render.RenderOptions {
	mode, err := render.ParseMode(c.Render.Mode)
	if err != nil {
		mode = render.ModeSet
	}
	return render.RenderOptions{
		Mode:     mode,
		Variable: c.Render.Variable,
		Sanitize: c.Render.Sanitize,
		Indent:   c.Render.Indent,
	}
}

// CollisionPolicy returns the parsed collision policy.
func (c Config) CollisionPolicy() suggest.CollisionPolicy {
	policy, err := suggest.ParseCollisionPolicy(c.Collision)
	if err != nil {
		return suggest.CollisionLastWins
	}
	return policy
}

func normaliseList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}
