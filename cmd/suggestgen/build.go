package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newBuildCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render the suggestion dictionary to stdout or a file",
		Example: `  suggestgen build --source api.yaml
  suggestgen build --source models/ --format js --mode update -o static/suggestions.js
  suggestgen build --db-driver sqlite --db-dsn app.db --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			gen, result, err := a.generate(ctx)
			if err != nil {
				return err
			}

			out, err := gen.RenderDictionary(ctx, result.Dictionary, a.cfg.Render.Format, a.cfg.RenderOptions())
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(out)
				return err
			}
			if dir := filepath.Dir(output); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create output directory: %w", err)
				}
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			a.logger.Info("dictionary written",
				"path", output,
				"entries", len(result.Dictionary),
				"collisions", len(result.Collisions),
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	addRenderFlags(cmd)
	return cmd
}
