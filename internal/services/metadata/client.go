// Package metadata resolves series display names from the media metadata
// service.
package metadata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"nyamedia/internal/config"
	"nyamedia/internal/services"
)

// HTTPDoer describes the HTTP client used by the metadata client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type seriesResponse struct {
	Data struct {
		Series struct {
			Name string `json:"name"`
		} `json:"series"`
	} `json:"data"`
}

// Client looks up series by id.
type Client struct {
	baseURL string
	client  HTTPDoer
}

// NewClient builds a client from the [api] settings.
func NewClient(cfg config.API) *Client {
	return NewHTTPClient(cfg.Host, &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second})
}

// NewHTTPClient constructs a client with an explicit HTTP client.
func NewHTTPClient(baseURL string, client HTTPDoer) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  client,
	}
}

// SeriesName fetches GET {host}/api/v1/series/{id} and returns data.series.name.
func (c *Client) SeriesName(ctx context.Context, seriesID int64) (string, error) {
	if c.baseURL == "" {
		return "", services.Wrap(services.ErrConfiguration, "metadata", "series name", "api.host is not configured", nil)
	}
	endpoint := c.baseURL + "/api/v1/series/" + strconv.FormatInt(seriesID, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build metadata request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch series %d: %w", seriesID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", services.Wrap(services.ErrNotFound, "metadata", "series name", fmt.Sprintf("series %d", seriesID), nil)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("metadata service returned %d for series %d", resp.StatusCode, seriesID)
	}

	var payload seriesResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode series %d: %w", seriesID, err)
	}
	name := strings.TrimSpace(payload.Data.Series.Name)
	if name == "" {
		return "", services.Wrap(services.ErrNotFound, "metadata", "series name", fmt.Sprintf("series %d has no name", seriesID), nil)
	}
	return name, nil
}
