package core

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the complete configuration for the ordering client.
// Precedence: defaults < config file < environment < explicit options.
type Config struct {
	// Name identifies this client in logs and traces
	Name string `yaml:"name"`

	// BaseURL is the root of the ordering API (e.g. http://localhost:8080)
	BaseURL string `yaml:"base_url"`

	// RequestTimeout bounds every API call. An indefinite hang is not
	// acceptable; timed-out calls surface ErrRequestTimeout.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	Session   SessionConfig   `yaml:"session"`
	Menu      MenuConfig      `yaml:"menu"`
	Checkout  CheckoutConfig  `yaml:"checkout"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SessionConfig configures optional redis-backed cart session storage.
type SessionConfig struct {
	// RedisURL enables the redis session store when non-empty
	// (e.g. redis://localhost:6379)
	RedisURL string `yaml:"redis_url"`

	// TTL is how long a saved cart survives without activity
	TTL time.Duration `yaml:"ttl"`
}

// MenuConfig configures catalog fetching.
type MenuConfig struct {
	// CacheTTL caches the catalog between fetches; 0 disables caching
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// CheckoutConfig configures submission behavior.
type CheckoutConfig struct {
	// Compensate enables a compensating delete of the phase-1 order
	// when attaching items fails. Off by default: the observed backend
	// contract leaves the orphaned order in place and only surfaces
	// the error.
	Compensate bool `yaml:"compensate"`
}

// TelemetryConfig configures OpenTelemetry export.
type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"` // OTLP gRPC endpoint
	Provider string `yaml:"provider"` // "otlp" or "stdout"
}

// LoggingConfig configures the default logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Option configures a Config.
type Option func(*Config) error

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Name:           "orderflow",
		BaseURL:        "http://localhost:8080",
		RequestTimeout: 15 * time.Second,
		Session: SessionConfig{
			TTL: 24 * time.Hour,
		},
		Menu: MenuConfig{
			CacheTTL: 30 * time.Second,
		},
		Telemetry: TelemetryConfig{
			Provider: "stdout",
		},
		Logging: LoggingConfig{
			Level: "INFO",
		},
	}
}

// NewConfig creates a Config from defaults, environment, and options.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := DefaultConfig()

	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromEnv applies ORDERFLOW_* environment variables.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("ORDERFLOW_NAME"); v != "" {
		c.Name = v
	}
	if v := os.Getenv("ORDERFLOW_API_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("ORDERFLOW_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("ORDERFLOW_REQUEST_TIMEOUT: %w", err)
		}
		c.RequestTimeout = d
	}
	if v := os.Getenv("ORDERFLOW_REDIS_URL"); v != "" {
		c.Session.RedisURL = v
	}
	if v := os.Getenv("ORDERFLOW_MENU_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("ORDERFLOW_MENU_CACHE_TTL: %w", err)
		}
		c.Menu.CacheTTL = d
	}
	if v := os.Getenv("ORDERFLOW_CHECKOUT_COMPENSATE"); v != "" {
		c.Checkout.Compensate = parseBool(v)
	}
	if v := os.Getenv("ORDERFLOW_TELEMETRY_ENABLED"); v != "" {
		c.Telemetry.Enabled = parseBool(v)
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		c.Telemetry.Endpoint = v
		c.Telemetry.Provider = "otlp"
	}
	if v := os.Getenv("ORDERFLOW_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base URL is required", ErrInvalidConfiguration)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: invalid base URL %q", ErrInvalidConfiguration, c.BaseURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive", ErrInvalidConfiguration)
	}
	if c.Telemetry.Enabled && c.Telemetry.Provider != "otlp" && c.Telemetry.Provider != "stdout" {
		return fmt.Errorf("%w: unknown telemetry provider %q", ErrInvalidConfiguration, c.Telemetry.Provider)
	}
	return nil
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return b
}

// WithName sets the client name used in logs and traces.
func WithName(name string) Option {
	return func(c *Config) error {
		if name == "" {
			return fmt.Errorf("%w: name cannot be empty", ErrInvalidConfiguration)
		}
		c.Name = name
		return nil
	}
}

// WithBaseURL sets the ordering API base URL.
func WithBaseURL(u string) Option {
	return func(c *Config) error {
		c.BaseURL = u
		return nil
	}
}

// WithRequestTimeout bounds every API call.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Config) error {
		if d <= 0 {
			return fmt.Errorf("%w: request timeout must be positive", ErrInvalidConfiguration)
		}
		c.RequestTimeout = d
		return nil
	}
}

// WithRedisURL enables the redis-backed cart session store.
func WithRedisURL(u string) Option {
	return func(c *Config) error {
		c.Session.RedisURL = u
		return nil
	}
}

// WithSessionTTL sets how long a saved cart session survives.
func WithSessionTTL(d time.Duration) Option {
	return func(c *Config) error {
		c.Session.TTL = d
		return nil
	}
}

// WithMenuCacheTTL sets catalog cache duration; 0 disables caching.
func WithMenuCacheTTL(d time.Duration) Option {
	return func(c *Config) error {
		c.Menu.CacheTTL = d
		return nil
	}
}

// WithCompensation toggles the compensating delete on phase-2 failure.
func WithCompensation(enabled bool) Option {
	return func(c *Config) error {
		c.Checkout.Compensate = enabled
		return nil
	}
}

// WithTelemetry enables OpenTelemetry export to the given OTLP endpoint.
func WithTelemetry(enabled bool, endpoint string) Option {
	return func(c *Config) error {
		c.Telemetry.Enabled = enabled
		if endpoint != "" {
			c.Telemetry.Endpoint = endpoint
			c.Telemetry.Provider = "otlp"
		}
		return nil
	}
}

// WithLogLevel sets the default logger level.
func WithLogLevel(level string) Option {
	return func(c *Config) error {
		c.Logging.Level = level
		return nil
	}
}

// WithConfigFile loads a YAML config file into the Config.
func WithConfigFile(path string) Option {
	return func(c *Config) error {
		return c.LoadFromFile(path)
	}
}
