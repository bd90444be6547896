package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nyamedia/internal/config"
	"nyamedia/internal/store"
)

func newInitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database schema, adopting an existing database when present",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				stats, err := st.Stats(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Database ready at %s (schema v%d, %d series, %d missions)\n",
					st.Path(), stats.SchemaVersion, stats.Series, stats.Missions)
				return nil
			})
		},
	}
}
