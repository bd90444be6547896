package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"nyamedia/internal/config"
	"nyamedia/internal/extract"
	"nyamedia/internal/logging"
	"nyamedia/internal/services"
	"nyamedia/internal/services/metadata"
	"nyamedia/internal/store"
)

type seriesInput struct {
	id     int64
	feed   string
	source string
	name   string
}

func newAddCommand(ctx *commandContext) *cobra.Command {
	var (
		idFlag     int64
		feedFlag   string
		sourceFlag string
		nameFlag   string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Track a new series",
		Long: "Register a series and its feed. When stdin is a terminal, missing values are\n" +
			"prompted for; otherwise --id and --feed are required. The source is inferred\n" +
			"from the feed host when --source is omitted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input := seriesInput{id: idFlag, feed: feedFlag, source: sourceFlag, name: nameFlag}
			registry := extract.Default()
			if err := collectSeriesInput(cmd.InOrStdin(), cmd.OutOrStdout(), isTerminal(cmd.InOrStdin()), registry, &input); err != nil {
				return err
			}

			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				if input.name == "" {
					input.name = lookupSeriesName(cmd.Context(), cfg, input.id, logger, cmd.ErrOrStderr())
				}
				series, err := st.AddSeries(cmd.Context(), store.Series{
					ID:      input.id,
					FeedURL: input.feed,
					Source:  input.source,
					Name:    input.name,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Tracking series %d (%s) from %s feed %s\n",
					series.ID, series.DisplayName(), series.Source, series.FeedURL)
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&idFlag, "id", 0, "Series id")
	cmd.Flags().StringVar(&feedFlag, "feed", "", "Feed URL")
	cmd.Flags().StringVar(&sourceFlag, "source", "", "Feed source tag (nyaa, dmhy); inferred from the feed host when omitted")
	cmd.Flags().StringVar(&nameFlag, "name", "", "Display name; looked up from the metadata service when omitted")
	return cmd
}

// collectSeriesInput fills missing values from in when interactive, then
// validates the result against the registry.
func collectSeriesInput(in io.Reader, out io.Writer, interactive bool, registry *extract.Registry, input *seriesInput) error {
	input.feed = strings.TrimSpace(input.feed)
	input.source = strings.ToLower(strings.TrimSpace(input.source))
	input.name = strings.TrimSpace(input.name)

	if interactive {
		reader := bufio.NewReader(in)
		for input.id <= 0 {
			raw, err := prompt(reader, out, "Series ID")
			if err != nil {
				return err
			}
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				fmt.Fprintln(out, "Series ID must be a positive integer.")
				continue
			}
			input.id = id
		}
		for input.feed == "" {
			raw, err := prompt(reader, out, "Feed URL")
			if err != nil {
				return err
			}
			input.feed = raw
		}
		if input.source == "" {
			suggestion := inferSource(input.feed, registry)
			label := "Source (" + strings.Join(registry.Sources(), ", ") + ")"
			if suggestion != "" {
				label += " [" + suggestion + "]"
			}
			raw, err := prompt(reader, out, label)
			if err != nil {
				return err
			}
			input.source = strings.ToLower(raw)
			if input.source == "" {
				input.source = suggestion
			}
		}
	}

	if input.id <= 0 {
		return errors.New("--id is required when stdin is not a terminal")
	}
	if input.feed == "" {
		return errors.New("--feed is required when stdin is not a terminal")
	}
	if parsed, err := url.Parse(input.feed); err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("feed %q must be an http(s) URL", input.feed)
	}
	if input.source == "" {
		input.source = inferSource(input.feed, registry)
	}
	if input.source == "" {
		return fmt.Errorf("could not infer a source from %s; pass --source (%s)", input.feed, strings.Join(registry.Sources(), ", "))
	}
	if !registry.Supports(input.source) {
		return services.Wrap(services.ErrUnsupportedSource, "cli", "add", fmt.Sprintf("%q (known: %s)", input.source, strings.Join(registry.Sources(), ", ")), nil)
	}
	return nil
}

func prompt(reader *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprintf(out, "%s: ", label)
	line, err := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	switch {
	case err == nil:
		return line, nil
	case errors.Is(err, io.EOF) && line != "":
		return line, nil
	case errors.Is(err, io.EOF):
		return "", errors.New("input closed before all values were provided")
	default:
		return "", err
	}
}

// inferSource matches a registered source tag against the feed host, so
// https://nyaa.si/?page=rss resolves to nyaa.
func inferSource(feedURL string, registry *extract.Registry) string {
	parsed, err := url.Parse(feedURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(parsed.Hostname())
	for _, tag := range registry.Sources() {
		if strings.Contains(host, tag) {
			return tag
		}
	}
	return ""
}

func lookupSeriesName(ctx context.Context, cfg *config.Config, id int64, logger *slog.Logger, stderr io.Writer) string {
	if strings.TrimSpace(cfg.API.Host) == "" {
		return ""
	}
	lookupCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.API.TimeoutSeconds)*time.Second)
	defer cancel()

	name, err := metadata.NewClient(cfg.API).SeriesName(lookupCtx, id)
	if err != nil {
		logging.WarnWithContext(logger, "series name lookup failed", "metadata_lookup_failed",
			logging.Int64(logging.FieldSeriesID, id),
			logging.Error(err),
			logging.String(logging.FieldErrorKind, services.Kind(err)),
			logging.String(logging.FieldImpact, "series stored without a display name"),
		)
		fmt.Fprintf(stderr, "warning: could not resolve a name for series %d: %v\n", id, err)
		return ""
	}
	return name
}
