package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRefreshCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "refresh <record-id>",
		Short: "Discard a cached record and resolve it again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(func(p *pipeline) error {
				result, err := p.resolver.Refresh(cmd.Context(), args[0])
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
				printRecord(out, result.Record, false)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}

func newDeepDiveCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "deep-dive <record-id>",
		Short: "Produce a detailed per-season breakdown for a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(func(p *pipeline) error {
				rec, err := p.resolver.DeepDiveRecord(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, rec)
				}
				out := cmd.OutOrStdout()
				printRecord(out, rec, false)
				if rec.DeepAnalysis != "" {
					fmt.Fprintf(out, "\n%s\n", rec.DeepAnalysis)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}

func newVoteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:       "vote <record-id> up|down",
		Short:     "Record agreement or disagreement with a score",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var up bool
			switch args[1] {
			case "up":
				up = true
			case "down":
				up = false
			default:
				return fmt.Errorf("vote must be %q or %q, got %q", "up", "down", args[1])
			}
			return ctx.withPipeline(func(p *pipeline) error {
				if err := p.resolver.Vote(cmd.Context(), args[0], up); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Vote recorded")
				return nil
			})
		},
	}
}

func newUpdatesCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "updates",
		Short: "Check stored series for new episodes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(func(p *pipeline) error {
				summary, err := p.resolver.CheckUpdates(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, summary)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Checked %d series\n", summary.Checked)
				if len(summary.Updated) == 0 {
					fmt.Fprintln(out, "No new episodes")
					return nil
				}
				for _, title := range summary.Updated {
					fmt.Fprintf(out, "New episodes: %s\n", title)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}

func newPickCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Pick a random mild, well-reviewed record from the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(func(p *pipeline) error {
				rec, err := p.resolver.RandomSafePick(cmd.Context())
				if err != nil {
					return err
				}
				if rec == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing in the cache qualifies yet")
					return nil
				}
				if jsonOut {
					return writeJSON(cmd, rec)
				}
				printRecord(cmd.OutOrStdout(), rec, true)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}
