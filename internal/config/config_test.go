package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vango-dev/imageloader/internal/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Fetch.Timeout != DefaultTimeout {
		t.Errorf("Fetch.Timeout = %v, want %v", cfg.Fetch.Timeout, DefaultTimeout)
	}
	if cfg.Fetch.MaxBytes != DefaultMaxBytes {
		t.Errorf("Fetch.MaxBytes = %d, want %d", cfg.Fetch.MaxBytes, DefaultMaxBytes)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultAddr)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Path() != "" {
		t.Errorf("Path() = %q, want empty", cfg.Path())
	}
	if cfg.Fetch.DevicePixelRatio != 1 || cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "imageloader.yaml")
	yaml := `fetch:
  timeout: 5s
  max_bytes: 1024
  device_pixel_ratio: 2
  base_url: https://cdn.example.com/img/
server:
  addr: 0.0.0.0:9090
  pretty: true
s3:
  region: eu-west-1
  path_style: true
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Fetch.Timeout != 5*time.Second {
		t.Errorf("Fetch.Timeout = %v, want 5s", cfg.Fetch.Timeout)
	}
	if cfg.Fetch.MaxBytes != 1024 || cfg.Fetch.DevicePixelRatio != 2 {
		t.Errorf("Fetch = %+v", cfg.Fetch)
	}
	if cfg.Server.Addr != "0.0.0.0:9090" || !cfg.Server.Pretty {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Server.RenderTimeout != DefaultRenderTimeout {
		t.Errorf("Server.RenderTimeout = %v, want default", cfg.Server.RenderTimeout)
	}
	if cfg.S3.Region != "eu-west-1" || !cfg.S3.PathStyle {
		t.Errorf("S3 = %+v", cfg.S3)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}
	if u := cfg.BaseURL(); u == nil || u.Host != "cdn.example.com" {
		t.Errorf("BaseURL() = %v", u)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("IMAGELOADER_FETCH_TIMEOUT", "250ms")
	t.Setenv("IMAGELOADER_SERVER_ADDR", "localhost:7000")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Fetch.Timeout != 250*time.Millisecond {
		t.Errorf("Fetch.Timeout = %v, want 250ms", cfg.Fetch.Timeout)
	}
	if cfg.Server.Addr != "localhost:7000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("fetch: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("fetch:\n  device_pixel_ratio: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		code string
	}{
		{"missing explicit file", filepath.Join(dir, "missing.yaml"), "E101"},
		{"unparsable file", bad, "E100"},
		{"invalid value", invalid, "E104"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Code(err); got != tt.code {
				t.Errorf("code = %q, want %q (%v)", got, tt.code, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		code   string
	}{
		{"valid", func(*Config) {}, ""},
		{"zero timeout allowed", func(c *Config) { c.Fetch.Timeout = 0 }, ""},
		{"negative timeout", func(c *Config) { c.Fetch.Timeout = -time.Second }, "E102"},
		{"negative max bytes", func(c *Config) { c.Fetch.MaxBytes = -1 }, "E103"},
		{"zero dpr", func(c *Config) { c.Fetch.DevicePixelRatio = 0 }, "E104"},
		{"relative base url", func(c *Config) { c.Fetch.BaseURL = "/images" }, "E121"},
		{"host:port base url", func(c *Config) { c.Fetch.BaseURL = "cdn.example.com:443" }, "E121"},
		{"s3 endpoint without scheme", func(c *Config) { c.S3.Endpoint = "localhost:9000" }, "E120"},
		{"s3 endpoint without host", func(c *Config) { c.S3.Endpoint = "http:///bucket" }, "E120"},
		{"s3 endpoint non http scheme", func(c *Config) { c.S3.Endpoint = "ftp://127.0.0.1:9000" }, "E120"},
		{"s3 endpoint", func(c *Config) { c.S3.Endpoint = "http://127.0.0.1:9000" }, ""},
		{"missing port", func(c *Config) { c.Server.Addr = "localhost" }, "E105"},
		{"zero render timeout", func(c *Config) { c.Server.RenderTimeout = 0 }, "E107"},
		{"bad namespace", func(c *Config) { c.Metrics.Namespace = "image-loader" }, "E108"},
		{"bad namespace ignored when disabled", func(c *Config) {
			c.Metrics.Enabled = false
			c.Metrics.Namespace = "image-loader"
		}, ""},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }, "E106"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if got := errors.Code(err); got != tt.code {
				t.Errorf("Validate() = %v, want code %q", err, tt.code)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}
