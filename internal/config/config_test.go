package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"autosheetify/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("AUTOSHEETIFY_TOKEN", "")
	t.Setenv("AUTOSHEETIFY_BASE_URL", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	wantPath := filepath.Join(tempHome, ".config", "autosheetify", "config.toml")
	if resolved != wantPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, wantPath)
	}

	wantData := filepath.Join(tempHome, ".local", "share", "autosheetify")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.LibraryPath() != filepath.Join(wantData, "library.db") {
		t.Fatalf("unexpected library path: %q", cfg.LibraryPath())
	}
	if cfg.Auth.SessionPath != filepath.Join(tempHome, ".config", "autosheetify", "session.json") {
		t.Fatalf("unexpected session path: %q", cfg.Auth.SessionPath)
	}
	if cfg.Service.BaseURL != "http://127.0.0.1:8000" {
		t.Fatalf("unexpected base url: %q", cfg.Service.BaseURL)
	}
	if cfg.RequestTimeout() != 600*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.RequestTimeout())
	}
	if cfg.Server.Bind != "127.0.0.1:7488" {
		t.Fatalf("unexpected server bind: %q", cfg.Server.Bind)
	}
	if cfg.Transcription.DefaultInstrument != "piano" {
		t.Fatalf("unexpected default instrument: %q", cfg.Transcription.DefaultInstrument)
	}
	if !cfg.Library.Enabled {
		t.Fatal("expected library enabled by default")
	}
	if cfg.LogFilePath() != "" {
		t.Fatalf("expected file logging disabled by default, got %q", cfg.LogFilePath())
	}
}

func TestLoadCustomConfigAndEnvOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("AUTOSHEETIFY_TOKEN", "env-token")
	t.Setenv("AUTOSHEETIFY_BASE_URL", "https://sheets.example.com/")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	payload := struct {
		Paths struct {
			OutputDir string `toml:"output_dir"`
		} `toml:"paths"`
		Transcription struct {
			DefaultInstrument string `toml:"default_instrument"`
		} `toml:"transcription"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}{}
	payload.Paths.OutputDir = "~/sheets"
	payload.Transcription.DefaultInstrument = " Guitar "
	payload.Logging.Format = "JSON"

	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected existing config at %q, got %q (exists=%v)", configPath, resolved, exists)
	}
	if cfg.Paths.OutputDir != filepath.Join(tempHome, "sheets") {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	if cfg.Transcription.DefaultInstrument != "guitar" {
		t.Fatalf("unexpected default instrument: %q", cfg.Transcription.DefaultInstrument)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("unexpected log format: %q", cfg.Logging.Format)
	}
	if cfg.Auth.Token != "env-token" {
		t.Fatalf("expected token from env, got %q", cfg.Auth.Token)
	}
	if cfg.Service.BaseURL != "https://sheets.example.com" {
		t.Fatalf("expected base url from env without trailing slash, got %q", cfg.Service.BaseURL)
	}
}

func TestConfigTokenWinsOverEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("AUTOSHEETIFY_TOKEN", "env-token")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[auth]\ntoken = \"file-token\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Auth.Token != "file-token" {
		t.Fatalf("unexpected token: got %q want %q", cfg.Auth.Token, "file-token")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"scheme", func(c *config.Config) { c.Service.BaseURL = "ftp://example.com" }, "service.base_url"},
		{"host", func(c *config.Config) { c.Service.BaseURL = "http://" }, "service.base_url"},
		{"timeout", func(c *config.Config) { c.Service.TimeoutSeconds = -1 }, "service.timeout_seconds"},
		{"instrument", func(c *config.Config) { c.Transcription.DefaultInstrument = "drums" }, "default_instrument"},
		{"format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"level", func(c *config.Config) { c.Logging.Level = "trace" }, "logging.level"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("unexpected error %q, want mention of %q", err, tc.want)
			}
		})
	}
}

func TestCreateSampleProducesLoadableConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("AUTOSHEETIFY_TOKEN", "")
	t.Setenv("AUTOSHEETIFY_BASE_URL", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Service.TimeoutSeconds != 600 {
		t.Fatalf("unexpected sample timeout: %d", cfg.Service.TimeoutSeconds)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q: %v", dir, err)
		}
	}
}
