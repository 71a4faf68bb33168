package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-suggest/pkg/server"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dictionary over HTTP",
		Long: `Serve exposes:
  GET /suggestions                 dictionary (?format=json|yaml|js)
  GET /suggestions.js              client script (?mode=set|update&variable=...)
  GET /suggestions/match?q=...     per-token suggestions (&delimiter=...)
  GET /suggestions/collisions      verbose names claimed by several fields
  GET /healthz                     liveness probe`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			source, err := a.modelSource(ctx)
			if err != nil {
				return err
			}
			defer source.close()

			if a.cfg.Log.Level != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}

			options := []server.Option{
				server.WithCacheTTL(a.cfg.Server.CacheTTL),
				server.WithDelimiter(a.cfg.Delimiter),
				server.WithRenderOptions(a.cfg.RenderOptions()),
				server.WithLogger(a.logger),
			}
			if a.cfg.Server.Watch && source.watch != "" {
				options = append(options, server.WithWatchPaths(source.watch))
			}

			srv, err := server.New(a.orchestrator(), source.request, options...)
			if err != nil {
				return err
			}
			return srv.Run(ctx, a.cfg.Server.Addr)
		},
	}

	flags := cmd.Flags()
	flags.String("addr", "", "listen address (default :8080)")
	flags.Duration("cache-ttl", 0, "how long a generated dictionary is reused (default 5m)")
	flags.Bool("watch", true, "regenerate when the source file changes")
	addRenderFlags(cmd)
	return cmd
}
