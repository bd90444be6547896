// Package dispatch hands releases to the download daemon using the per-series
// destination convention <download_root>/<series_id>/.
package dispatch

import (
	"context"
	"log/slog"
	"path"
	"strconv"
	"strings"

	"nyamedia/internal/logging"
	"nyamedia/internal/services"
	"nyamedia/internal/services/aria2"
)

// Adder is the daemon call the dispatcher wraps.
type Adder interface {
	AddURI(ctx context.Context, uris []string, options aria2.Options) (string, error)
}

// Dispatcher queues downloads on the daemon.
type Dispatcher struct {
	adder  Adder
	root   string
	logger *slog.Logger
}

// New constructs a dispatcher writing under downloadRoot, a POSIX path on the
// daemon's host.
func New(adder Adder, downloadRoot string, logger *slog.Logger) *Dispatcher {
	root := path.Clean("/" + strings.TrimSpace(downloadRoot))
	return &Dispatcher{
		adder:  adder,
		root:   root,
		logger: logging.NewComponentLogger(logger, "dispatch"),
	}
}

// Destination returns the directory a series' downloads land in, with a
// trailing slash.
func (d *Dispatcher) Destination(seriesID int64) string {
	return path.Join(d.root, strconv.FormatInt(seriesID, 10)) + "/"
}

// Dispatch makes one add-download call. It never retries; any failure is
// tagged services.ErrDispatch.
func (d *Dispatcher) Dispatch(ctx context.Context, uri, destinationDir string) error {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return services.Wrap(services.ErrDispatch, "dispatch", "add uri", "empty uri", nil)
	}
	gid, err := d.adder.AddURI(ctx, []string{uri}, aria2.Options{"dir": destinationDir})
	if err != nil {
		return services.Wrap(services.ErrDispatch, "dispatch", "add uri", destinationDir, err)
	}
	logging.WithContext(ctx, d.logger).Debug("download queued",
		logging.String("gid", gid),
		logging.String("dir", destinationDir),
	)
	return nil
}
