package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"screener/internal/media"
	"screener/internal/store"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the resolution cache",
	}

	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheShowCommand(ctx))
	cacheCmd.AddCommand(newCacheRemoveCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				records, err := st.List(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, records)
				}
				out := cmd.OutOrStdout()
				if len(records) == 0 {
					fmt.Fprintln(out, "Cache is empty")
					return nil
				}
				rows := make([][]string, 0, len(records))
				for _, rec := range records {
					rows = append(rows, cacheListRow(rec))
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Title", "Type", "Year", "ATP", "IMDb", "Votes"},
					rows, "ATP", "IMDb", "Votes"))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}

func cacheListRow(rec *media.Record) []string {
	imdb := ""
	if rec.IMDb != nil {
		imdb = formatFloat(*rec.IMDb)
	}
	votes := ""
	if rec.VotesUp+rec.VotesDown > 0 {
		votes = fmt.Sprintf("+%d/-%d", rec.VotesUp, rec.VotesDown)
	}
	return []string{
		shortID(rec.ID),
		rec.Title,
		string(rec.Type),
		rec.Year,
		formatFloat(rec.ATP),
		imdb,
		votes,
	}
}

// shortID trims a uuid to its first block for table display. Commands
// accept the full id; cache show prints it.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func newCacheShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <record-id|title>",
		Short: "Show one cached record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				rec, err := st.GetByID(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if rec == nil {
					if rec, err = st.FindByTitle(cmd.Context(), args[0]); err != nil {
						return err
					}
				}
				if rec == nil {
					return fmt.Errorf("no cached record matches %q", args[0])
				}
				if jsonOut {
					return writeJSON(cmd, rec)
				}
				printRecord(cmd.OutOrStdout(), rec, false)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}

func newCacheRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <record-id>...",
		Short: "Remove cached records",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				out := cmd.OutOrStdout()
				for _, id := range args {
					deleted, err := st.Delete(cmd.Context(), id)
					if err != nil {
						return err
					}
					if deleted {
						fmt.Fprintf(out, "Removed %s\n", id)
					} else {
						fmt.Fprintf(out, "No record with id %s\n", id)
					}
				}
				return nil
			})
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				removed, err := st.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", pluralize(removed, "record"))
				return nil
			})
		},
	}
}

func pluralize(n int64, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.FormatInt(n, 10) + " " + noun + "s"
}
