package main

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"nyamedia/internal/config"
	"nyamedia/internal/extract"
	"nyamedia/internal/store"
)

func newSourcesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List feed source tags with a registered extractor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := extract.Default()
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				stats, err := st.Stats(cmd.Context())
				if err != nil {
					return err
				}
				var rows [][]string
				for _, tag := range registry.Sources() {
					rows = append(rows, []string{tag, "yes", strconv.Itoa(stats.SeriesBySource[tag])})
				}
				// Tags stored on series but unknown to the registry are
				// skipped by every run; list them so they can be fixed.
				var orphaned []string
				for tag := range stats.SeriesBySource {
					if !registry.Supports(tag) {
						orphaned = append(orphaned, tag)
					}
				}
				slices.Sort(orphaned)
				for _, tag := range orphaned {
					rows = append(rows, []string{tag, "no", strconv.Itoa(stats.SeriesBySource[tag])})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Source", "Supported", "Series"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight},
				))
				return nil
			})
		},
	}
}
