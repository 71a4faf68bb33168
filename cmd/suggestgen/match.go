package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-suggest/pkg/suggest"
)

func newMatchCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "match <text>...",
		Short:   "Print the suggestions for each token of a text",
		Example: `  suggestgen match --source api.yaml "the book title"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, result, err := a.generate(cmd.Context())
			if err != nil {
				return err
			}

			text := strings.Join(args, " ")
			store := suggest.NewStoreFromDictionary(result.Dictionary)
			suggestions := store.Suggest(text, a.cfg.Delimiter)

			out := cmd.OutOrStdout()
			if asJSON {
				if suggestions == nil {
					suggestions = []suggest.Suggestion{}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(suggestions)
			}

			if len(suggestions) == 0 {
				_, err := fmt.Fprintf(out, "no suggestions for %q\n", text)
				return err
			}
			for _, suggestion := range suggestions {
				fmt.Fprintf(out, "%s [%d:%d]\n", suggestion.Token.Text, suggestion.Token.Begin, suggestion.Token.End)
				for _, match := range suggestion.Matches {
					if match.HelpText != "" {
						fmt.Fprintf(out, "  %s: %s\n", match.Label(), match.HelpText)
						continue
					}
					fmt.Fprintf(out, "  %s\n", match.Label())
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print suggestions as JSON")
	return cmd
}
