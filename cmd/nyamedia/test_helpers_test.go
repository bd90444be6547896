package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"nyamedia/internal/config"
	"nyamedia/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	feedURL    string
	aria2      *fakeAria2
}

type fakeAria2 struct {
	mu    sync.Mutex
	uris  []string
	dirs  []string
	calls int
}

func (f *fakeAria2) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     string            `json:"id"`
		Method string            `json:"method"`
		Params []json.RawMessage `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	switch req.Method {
	case "aria2.getVersion":
		json.NewEncoder(w).Encode(map[string]any{
			"id": req.ID, "jsonrpc": "2.0",
			"result": map[string]any{"version": "1.37.0", "enabledFeatures": []string{"BitTorrent"}},
		})
	case "aria2.addUri":
		var uris []string
		var opts map[string]string
		json.Unmarshal(req.Params[0], &uris)
		json.Unmarshal(req.Params[1], &opts)
		f.uris = append(f.uris, uris...)
		f.dirs = append(f.dirs, opts["dir"])
		json.NewEncoder(w).Encode(map[string]any{"id": req.ID, "jsonrpc": "2.0", "result": fmt.Sprintf("gid%d", f.calls)})
	default:
		json.NewEncoder(w).Encode(map[string]any{"id": req.ID, "jsonrpc": "2.0", "error": map[string]any{"code": 1, "message": "Method not found"}})
	}
}

func (f *fakeAria2) added() ([]string, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.uris), slices.Clone(f.dirs)
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("ARIA2_SECRET", "")
	t.Setenv("NTFY_TOPIC", "")
	t.Setenv("NYAMEDIA_API_HOST", "")

	published := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	feedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/nyaa":
			w.Write([]byte(testsupport.NyaaFeed(
				testsupport.FeedItem{Title: "Show - 02", Link: "magnet:?xt=urn:btih:H2", InfoHash: "H2", Published: published.Add(time.Hour)},
				testsupport.FeedItem{Title: "Show - 01", Link: "magnet:?xt=urn:btih:H1", InfoHash: "H1", Published: published},
			)))
		case "/dmhy":
			w.Write([]byte(testsupport.DmhyFeed(
				testsupport.FeedItem{Title: "Other - 05", Enclosure: "magnet:?xt=urn:btih:D5", Published: published},
			)))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(feedSrv.Close)

	aria := &fakeAria2{}
	ariaSrv := httptest.NewServer(aria)
	t.Cleanup(ariaSrv.Close)

	metaSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/series/7" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"data":{"series":{"name":"Frieren"}}}`))
	}))
	t.Cleanup(metaSrv.Close)

	cfg := testsupport.NewConfig(t, testsupport.WithAria2Endpoint(ariaSrv.URL), testsupport.WithAPIHost(metaSrv.URL))
	configPath := filepath.Join(homeDir, ".config", "nyamedia", "config.toml")
	writeTestConfig(t, configPath, cfg, "")

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		feedURL:    feedSrv.URL,
		aria2:      aria,
	}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	flags := []string{}
	if env != nil && env.configPath != "" {
		flags = append(flags, "--config", env.configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config, ntfyTopic string) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q

[store]
path = %q

[api]
host = %q

[aria2]
host = %q
port = 0
download_root = "/downloads"
breaker_failures = 0

[feeds]
requests_per_second = 0
timeout_seconds = 5

[notifications]
ntfy_topic = %q

[logging]
level = "warn"
`,
		cfg.Paths.DataDir,
		cfg.Paths.LogDir,
		cfg.Store.Path,
		cfg.API.Host,
		cfg.Aria2.Host,
		ntfyTopic,
	)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func waitForDispatches(t *testing.T, env *cliTestEnv, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if uris, _ := env.aria2.added(); len(uris) >= n {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d dispatches within 5s", n)
}
