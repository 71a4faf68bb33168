package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-suggest/internal/config"
	"github.com/goliatone/go-suggest/internal/logging"
	"github.com/goliatone/go-suggest/pkg/prompt"
)

// flagKeys maps command line flags to configuration keys. Flags are bound
// per invocation so commands may share a key without clobbering each other.
var flagKeys = map[string]string{
	"source":     "source",
	"adapter":    "adapter",
	"exclude":    "exclude",
	"collision":  "collision",
	"delimiter":  "delimiter",
	"log-level":  "log.level",
	"log-format": "log.format",
	"db-driver":  "database.driver",
	"db-dsn":     "database.dsn",
	"db-schema":  "database.schema",
	"db-tables":  "database.tables",
	"format":     "render.format",
	"mode":       "render.mode",
	"variable":   "render.variable",
	"sanitize":   "render.sanitize",
	"indent":     "render.indent",
	"addr":       "server.addr",
	"cache-ttl":  "server.cache_ttl",
	"watch":      "server.watch",
	"bucket":     "publish.bucket",
	"key":        "publish.key",
	"region":     "publish.region",
}

type app struct {
	v       *viper.Viper
	cfgFile string
	envFile string
	cfg     config.Config
	logger  *slog.Logger

	// promptDriver replaces the terminal prompts of `try` when set.
	promptDriver prompt.PromptDriver
}

func newRootCmd() *cobra.Command {
	return newApp().rootCmd()
}

func newApp() *app {
	return &app{v: viper.New()}
}

func (a *app) rootCmd() *cobra.Command {

	root := &cobra.Command{
		Use:   "suggestgen",
		Short: "Generate field suggestion dictionaries from model metadata",
		Long: `suggestgen reads models from an OpenAPI document, a model descriptor file
or directory, or a live SQLite/Postgres database, and builds a dictionary
mapping each field's verbose name to its name and help text.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: ./suggestgen.yaml or ~/.config/suggestgen/suggestgen.yaml)")
	pf.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before configuration")
	pf.StringP("source", "s", "", "model document path, URL or descriptor directory")
	pf.String("adapter", "", "source adapter (openapi, descriptor); detected when empty")
	pf.StringSlice("exclude", nil, "model names to skip (default UndesiredModel)")
	pf.String("collision", "", "verbose name collision policy: last-wins, first-wins or error")
	pf.String("delimiter", "", "token delimiter used for matching")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: text or json")
	pf.String("db-driver", "", "database driver for introspection: sqlite or postgres")
	pf.String("db-dsn", "", "database connection string; takes precedence over --source")
	pf.String("db-schema", "", "postgres schema (default public)")
	pf.StringSlice("db-tables", nil, "restrict introspection to these tables")

	root.AddCommand(
		newBuildCmd(a),
		newServeCmd(a),
		newMatchCmd(a),
		newTryCmd(a),
		newPublishCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(a.envFile); err != nil {
		return err
	}
	for name, key := range flagKeys {
		if flag := cmd.Flags().Lookup(name); flag != nil {
			if err := a.v.BindPFlag(key, flag); err != nil {
				return err
			}
		}
	}

	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	switch cfg.Log.Output {
	case "", "stderr":
		a.logger = logging.NewWithWriter(cfg.Log, cmd.ErrOrStderr())
	default:
		a.logger = logging.New(cfg.Log)
	}
	return nil
}

func addRenderFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringP("format", "f", "", "output format: json, yaml or js (default json)")
	flags.String("mode", "", "script mode: set (setDict) or update (updateDict)")
	flags.String("variable", "", "global the script registers under (default suggest)")
	flags.Bool("sanitize", true, "strip markup from help text except basic inline tags")
	flags.Bool("indent", false, "pretty-print structured output")
}
