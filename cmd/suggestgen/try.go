package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-suggest/pkg/prompt"
	"github.com/goliatone/go-suggest/pkg/suggest"
)

func newTryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "try [text]...",
		Short: "Interactively apply suggestions to a text",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, result, err := a.generate(cmd.Context())
			if err != nil {
				return err
			}

			d := a.promptDriver
			if d == nil {
				d = prompt.NewSurveyDriver(cmd.OutOrStdout())
			}
			session := prompt.NewSession(
				suggest.NewStoreFromDictionary(result.Dictionary),
				prompt.WithDriver(d),
				prompt.WithDelimiter(a.cfg.Delimiter),
				prompt.WithLogger(a.logger),
			)

			text, err := session.Run(cmd.Context(), strings.Join(args, " "))
			if errors.Is(err, prompt.ErrAborted) {
				return nil
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
	return cmd
}
