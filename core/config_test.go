package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if cfg.Checkout.Compensate {
		t.Error("compensation must default to off")
	}
	if cfg.Telemetry.Enabled {
		t.Error("telemetry must default to off")
	}
}

func TestNewConfigWithOptions(t *testing.T) {
	cfg, err := NewConfig(
		WithName("test-client"),
		WithBaseURL("https://food.example.com"),
		WithRequestTimeout(30*time.Second),
		WithCompensation(true),
		WithLogLevel("DEBUG"),
	)
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}

	if cfg.Name != "test-client" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.BaseURL != "https://food.example.com" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if !cfg.Checkout.Compensate {
		t.Error("Compensate not applied")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ORDERFLOW_API_URL", "http://backend:9000")
	t.Setenv("ORDERFLOW_REQUEST_TIMEOUT", "20s")
	t.Setenv("ORDERFLOW_CHECKOUT_COMPENSATE", "true")
	t.Setenv("ORDERFLOW_LOG_LEVEL", "ERROR")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}

	if cfg.BaseURL != "http://backend:9000" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.RequestTimeout != 20*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if !cfg.Checkout.Compensate {
		t.Error("Compensate not read from env")
	}
	if cfg.Logging.Level != "ERROR" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestOptionsOverrideEnv(t *testing.T) {
	t.Setenv("ORDERFLOW_API_URL", "http://from-env:9000")

	cfg, err := NewConfig(WithBaseURL("http://from-option:9000"))
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}
	if cfg.BaseURL != "http://from-option:9000" {
		t.Errorf("explicit option should win over env, got %q", cfg.BaseURL)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orderflow.yaml")
	data := []byte(`
name: filecfg
base_url: http://file:8080
request_timeout: 25s
checkout:
  compensate: true
menu:
  cache_ttl: 1m
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewConfig(WithConfigFile(path))
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}

	if cfg.Name != "filecfg" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.BaseURL != "http://file:8080" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.RequestTimeout != 25*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if !cfg.Checkout.Compensate {
		t.Error("Compensate not read from file")
	}
	if cfg.Menu.CacheTTL != time.Minute {
		t.Errorf("Menu.CacheTTL = %v", cfg.Menu.CacheTTL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"empty base URL", func(c *Config) { c.BaseURL = "" }, true},
		{"relative base URL", func(c *Config) { c.BaseURL = "not a url" }, true},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }, true},
		{"bad telemetry provider", func(c *Config) {
			c.Telemetry.Enabled = true
			c.Telemetry.Provider = "statsd"
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("validation errors must wrap ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}
