package main

import (
	"strings"

	"github.com/spf13/cobra"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "resolve <query>",
		Short: "Resolve a media title into a scored canonical record",
		Long: `Resolve a free-form title ("Mulan", "Mulan (1998) - Movie", an IMDb or
Rotten Tomatoes URL) into a canonical record with a thematic content score.
Ambiguous titles return a numbered option list; resolve again with the
option text to pick one.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return ctx.withPipeline(func(p *pipeline) error {
				result, err := p.resolver.Resolve(cmd.Context(), query)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, result)
				}
				out := cmd.OutOrStdout()
				if result.Ambiguous() {
					printOptions(out, result.Options)
					return nil
				}
				printRecord(out, result.Record, result.FromCache)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}
