package testsupport

import (
	"path/filepath"
	"testing"

	"nyamedia/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Store.Path = filepath.Join(base, "data", "data.sqlite")
	cfgVal.Aria2.Host = "http://127.0.0.1"
	cfgVal.Aria2.Port = 0
	cfgVal.Feeds.RequestsPerSecond = 0
	cfgVal.Feeds.TimeoutSeconds = 5
	cfgVal.Aria2.TimeoutSeconds = 5

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithAria2Endpoint points the aria2 client at a test server URL such as the
// one returned by httptest.Server.URL.
func WithAria2Endpoint(serverURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Aria2.Host = serverURL
		b.cfg.Aria2.Port = 0
		b.cfg.Aria2.RPCPath = "/jsonrpc"
	}
}

// WithAria2Secret sets the RPC token on the test config.
func WithAria2Secret(secret string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Aria2.Secret = secret
	}
}

// WithAPIHost sets the metadata service host on the test config.
func WithAPIHost(host string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.API.Host = host
	}
}

// WithWorkers sets the feed worker count.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Feeds.Workers = n
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
