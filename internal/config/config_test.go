package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"nyamedia/internal/config"
)

func TestLoadDefaultConfigUsesEnvFallbacksAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("ARIA2_SECRET", "env-secret")
	t.Setenv("NYAMEDIA_API_HOST", "https://media.example.com/")
	t.Setenv("NTFY_TOPIC", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "nyamedia")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Store.Path != filepath.Join(wantData, "data.sqlite") {
		t.Fatalf("unexpected store path: %q", cfg.Store.Path)
	}
	if cfg.Aria2.Secret != "env-secret" {
		t.Fatalf("expected aria2 secret from env, got %q", cfg.Aria2.Secret)
	}
	if cfg.API.Host != "https://media.example.com" {
		t.Fatalf("expected trailing slash trimmed from api host, got %q", cfg.API.Host)
	}
	if cfg.Aria2Endpoint() != "http://localhost:6800/jsonrpc" {
		t.Fatalf("unexpected aria2 endpoint: %q", cfg.Aria2Endpoint())
	}
	if cfg.Aria2.DownloadRoot != "/downloads" {
		t.Fatalf("unexpected download root: %q", cfg.Aria2.DownloadRoot)
	}
	if cfg.Feeds.Workers != 1 {
		t.Fatalf("expected single feed worker by default, got %d", cfg.Feeds.Workers)
	}
	if cfg.LockPath() != cfg.Store.Path+".lock" {
		t.Fatalf("unexpected lock path: %q", cfg.LockPath())
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir, filepath.Dir(cfg.Store.Path)} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	t.Setenv("ARIA2_SECRET", "env-secret")
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nyamedia.toml")

	type payload struct {
		Store struct {
			Path string `toml:"path"`
		} `toml:"store"`
		Aria2 struct {
			Host         string `toml:"host"`
			Port         int    `toml:"port"`
			Secret       string `toml:"secret"`
			DownloadRoot string `toml:"download_root"`
		} `toml:"aria2"`
		Feeds struct {
			Workers int `toml:"workers"`
		} `toml:"feeds"`
	}
	custom := payload{}
	custom.Store.Path = filepath.Join(tempDir, "db", "custom.sqlite")
	custom.Aria2.Host = "aria.local"
	custom.Aria2.Port = 16800
	custom.Aria2.Secret = "file-secret"
	custom.Aria2.DownloadRoot = "/srv/media//anime/"
	custom.Feeds.Workers = 4
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Store.Path != custom.Store.Path {
		t.Fatalf("expected store path from file, got %q", cfg.Store.Path)
	}
	if cfg.Aria2.Secret != "file-secret" {
		t.Fatalf("expected file secret to win over env, got %q", cfg.Aria2.Secret)
	}
	if cfg.Aria2Endpoint() != "http://aria.local:16800/jsonrpc" {
		t.Fatalf("unexpected aria2 endpoint: %q", cfg.Aria2Endpoint())
	}
	if cfg.Aria2.DownloadRoot != "/srv/media/anime" {
		t.Fatalf("expected cleaned download root, got %q", cfg.Aria2.DownloadRoot)
	}
	if cfg.Feeds.Workers != 4 {
		t.Fatalf("expected 4 workers, got %d", cfg.Feeds.Workers)
	}
}

func TestSetStorePathOverridesConfig(t *testing.T) {
	cfg := config.Default()
	dir := t.TempDir()
	if err := cfg.SetStorePath(filepath.Join(dir, "other.sqlite")); err != nil {
		t.Fatalf("SetStorePath: %v", err)
	}
	if cfg.Store.Path != filepath.Join(dir, "other.sqlite") {
		t.Fatalf("unexpected store path %q", cfg.Store.Path)
	}
	if err := cfg.SetStorePath("   "); err != nil {
		t.Fatalf("SetStorePath blank: %v", err)
	}
	if cfg.Store.Path != filepath.Join(dir, "other.sqlite") {
		t.Fatal("blank override should leave store path untouched")
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "[aria2]") {
		t.Fatalf("sample config missing aria2 section: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Aria2.Port != 6800 {
		t.Fatalf("expected sample aria2 port 6800, got %d", cfg.Aria2.Port)
	}
	if !strings.Contains(cfg.Paths.DataDir, "nyamedia") {
		t.Fatalf("expected data dir to contain nyamedia, got %q", cfg.Paths.DataDir)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	valid := func() config.Config {
		cfg := config.Default()
		cfg.Store.Path = "/tmp/nyamedia.sqlite"
		return cfg
	}

	cfg := valid()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}

	cfg = valid()
	cfg.Store.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing store path")
	}

	cfg = valid()
	cfg.Aria2.DownloadRoot = "downloads"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for relative download root")
	}

	cfg = valid()
	cfg.Aria2.Host = "ftp://localhost"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-http aria2 host")
	}

	cfg = valid()
	cfg.Feeds.Workers = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero workers")
	}

	cfg = valid()
	cfg.Feeds.RequestsPerSecond = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative request rate")
	}

	cfg = valid()
	cfg.API.Host = "not a url"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for malformed api host")
	}

	cfg = valid()
	cfg.Notifications.NtfyTopic = "topic-only"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for ntfy topic without scheme")
	}
}
