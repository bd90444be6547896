package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"nyamedia/internal/config"
	"nyamedia/internal/store"
)

func newSeriesCommand(ctx *commandContext) *cobra.Command {
	seriesCmd := &cobra.Command{
		Use:   "series",
		Short: "Inspect and manage tracked series",
	}
	seriesCmd.AddCommand(newSeriesListCommand(ctx))
	seriesCmd.AddCommand(newSeriesEditCommand(ctx))
	seriesCmd.AddCommand(newSeriesRemoveCommand(ctx))
	return seriesCmd
}

func newSeriesListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tracked series",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				all, err := st.ListSeries(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(all) == 0 {
					fmt.Fprintln(out, "No series tracked. Add one with `nyamedia add`.")
					return nil
				}
				rows := make([][]string, 0, len(all))
				for _, s := range all {
					count, err := st.CountMissions(cmd.Context(), s.ID)
					if err != nil {
						return err
					}
					rows = append(rows, []string{
						strconv.FormatInt(s.ID, 10),
						s.DisplayName(),
						s.Source,
						strconv.Itoa(count),
						s.FeedURL,
						formatDate(s.CreatedAt),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Name", "Source", "Missions", "Feed", "Added"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}

func newSeriesEditCommand(ctx *commandContext) *cobra.Command {
	var feedFlag string

	cmd := &cobra.Command{
		Use:   "edit <series-id>",
		Short: "Change the feed URL of a tracked series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSeriesID(args[0])
			if err != nil {
				return err
			}
			feed := strings.TrimSpace(feedFlag)
			if feed == "" {
				return fmt.Errorf("--feed is required")
			}
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				if err := st.UpdateFeedURL(cmd.Context(), id, feed); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Series %d now reads %s\n", id, feed)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&feedFlag, "feed", "", "New feed URL")
	return cmd
}

func newSeriesRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <series-id>",
		Aliases: []string{"rm"},
		Short:   "Stop tracking a series and forget its missions",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSeriesID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				count, err := st.CountMissions(cmd.Context(), id)
				if err != nil {
					return err
				}
				if err := st.RemoveSeries(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed series %d and %d recorded mission(s)\n", id, count)
				return nil
			})
		},
	}
}

func newMissionsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "missions <series-id>",
		Short: "List releases already dispatched for a series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSeriesID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				series, err := st.GetSeries(cmd.Context(), id)
				if err != nil {
					return err
				}
				missions, err := st.ListMissions(cmd.Context(), id)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(missions) == 0 {
					fmt.Fprintf(out, "No missions recorded for %s\n", series.DisplayName())
					return nil
				}
				rows := make([][]string, 0, len(missions))
				for _, m := range missions {
					rows = append(rows, []string{m.ContentID, formatTimestamp(m.CreatedAt)})
				}
				fmt.Fprintf(out, "%s (%d mission(s))\n", series.DisplayName(), len(missions))
				fmt.Fprintln(out, renderTable([]string{"Content ID", "Recorded"}, rows, nil))
				return nil
			})
		},
	}
}
