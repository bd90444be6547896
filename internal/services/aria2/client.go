package aria2

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	gobreaker "github.com/sony/gobreaker/v2"

	"nyamedia/internal/config"
	"nyamedia/internal/logging"
)

// HTTPDoer describes the HTTP client used by the aria2 client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ErrCircuitOpen is returned while the breaker rejects calls after repeated
// transport failures.
var ErrCircuitOpen = errors.New("aria2 circuit open")

// RPCError is an error object returned by the daemon.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("aria2 rpc error %d: %s", e.Code, e.Message)
}

// Options are per-download aria2 options such as "dir".
type Options map[string]string

// Version is the aria2.getVersion result.
type Version struct {
	Version         string   `json:"version"`
	EnabledFeatures []string `json:"enabledFeatures"`
}

type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type response struct {
	ID     string          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

// Client talks to one aria2 JSON-RPC endpoint.
type Client struct {
	endpoint string
	secret   string
	client   HTTPDoer
	breaker  *gobreaker.CircuitBreaker[json.RawMessage]
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client HTTPDoer) Option {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

// NewClient builds a client from the [aria2] settings.
func NewClient(cfg *config.Config, logger *slog.Logger, opts ...Option) *Client {
	timeout := time.Duration(cfg.Aria2.TimeoutSeconds) * time.Second
	c := &Client{
		endpoint: cfg.Aria2Endpoint(),
		secret:   cfg.Aria2.Secret,
		client:   &http.Client{Timeout: timeout},
		logger:   logging.NewComponentLogger(logger, "aria2"),
	}
	if failures := cfg.Aria2.BreakerFailures; failures > 0 {
		c.breaker = gobreaker.NewCircuitBreaker[json.RawMessage](gobreaker.Settings{
			Name:        "aria2-rpc",
			MaxRequests: 1,
			Timeout:     time.Duration(cfg.Aria2.BreakerCooldownSeconds) * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= uint32(failures)
			},
			// The daemon answered; an RPC-level rejection says nothing about
			// its availability.
			IsSuccessful: func(err error) bool {
				var rpcErr *RPCError
				return err == nil || errors.As(err, &rpcErr)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				if to == gobreaker.StateOpen {
					logging.WarnWithContext(c.logger, "aria2 unreachable, pausing dispatches", "aria2_circuit_open",
						logging.String("from", from.String()),
						logging.String(logging.FieldErrorHint, "check that aria2c is running with --enable-rpc"),
						logging.String(logging.FieldImpact, "releases stay unrecorded and are retried next run"),
					)
					return
				}
				c.logger.Info("aria2 circuit state changed", logging.String("from", from.String()), logging.String("to", to.String()))
			},
		})
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the JSON-RPC URL in use.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// AddURI queues a download and returns its GID.
func (c *Client) AddURI(ctx context.Context, uris []string, options Options) (string, error) {
	params := []any{uris}
	if len(options) > 0 {
		params = append(params, options)
	}
	raw, err := c.call(ctx, "aria2.addUri", params)
	if err != nil {
		return "", err
	}
	var gid string
	if err := json.Unmarshal(raw, &gid); err != nil {
		return "", fmt.Errorf("decode addUri result: %w", err)
	}
	return gid, nil
}

// GetVersion reports the daemon version.
func (c *Client) GetVersion(ctx context.Context) (Version, error) {
	raw, err := c.call(ctx, "aria2.getVersion", nil)
	if err != nil {
		return Version{}, err
	}
	var version Version
	if err := json.Unmarshal(raw, &version); err != nil {
		return Version{}, fmt.Errorf("decode getVersion result: %w", err)
	}
	return version, nil
}

func (c *Client) call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	if c.breaker == nil {
		return c.do(ctx, method, params)
	}
	raw, err := c.breaker.Execute(func() (json.RawMessage, error) {
		return c.do(ctx, method, params)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %w", ErrCircuitOpen, err)
	}
	return raw, err
}

func (c *Client) do(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	if c.secret != "" {
		params = append([]any{"token:" + c.secret}, params...)
	}
	if params == nil {
		params = []any{}
	}
	body, err := json.Marshal(request{JSONRPC: "2.0", ID: uuid.NewString(), Method: method, Params: params})
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", method, err)
	}
	var decoded response
	if err := json.Unmarshal(payload, &decoded); err != nil {
		if resp.StatusCode >= http.StatusMultipleChoices {
			return nil, fmt.Errorf("%s: http status %d", method, resp.StatusCode)
		}
		return nil, fmt.Errorf("%s: decode response: %w", method, err)
	}
	if decoded.Error != nil {
		return nil, decoded.Error
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%s: http status %d", method, resp.StatusCode)
	}
	return decoded.Result, nil
}
