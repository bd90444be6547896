package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"nyamedia/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "doctor",
		Short:       "Check configuration, database, and service readiness",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("nyamedia doctor", colorize) {
				fmt.Fprintln(out, line)
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				fmt.Fprintln(out, renderStatusLine("Configuration", statusError, err.Error(), colorize))
				return errors.New("configuration could not be loaded")
			}
			source := ctx.configPath
			if !ctx.configExists {
				source += " (not found; defaults in use)"
			}
			fmt.Fprintln(out, renderStatusLine("Config file", statusInfo, source, colorize))

			results := preflight.RunAll(cmd.Context(), cfg)
			for _, r := range results {
				kind := statusOK
				if !r.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(r.Name, kind, r.Detail, colorize))
			}
			if preflight.Failed(results) {
				return errors.New("one or more checks failed")
			}
			return nil
		},
	}
}
