package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Terminal  TerminalConfig  `yaml:"terminal"`
	Logging   LogConfig       `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8090" yaml:"port"`
	Host string `envconfig:"HOST" default:"127.0.0.1" yaml:"host"`
}

// TerminalConfig holds terminal session configuration.
type TerminalConfig struct {
	// TempDir scopes per-session artifacts (pipes, logs, agent scripts).
	// Empty means a per-process directory under os.TempDir().
	TempDir string `envconfig:"TERMINAL_TEMP_DIR" yaml:"temp_dir"`

	// LaunchTimeout bounds how long a launch may take to become interactable.
	LaunchTimeout time.Duration `envconfig:"TERMINAL_LAUNCH_TIMEOUT" default:"10s" yaml:"launch_timeout"`

	// PollInterval is the control-file polling cadence of the Windows/WSL
	// agent loop. It is the upper bound on command delivery latency there.
	PollInterval time.Duration `envconfig:"TERMINAL_POLL_INTERVAL" default:"1s" yaml:"poll_interval"`

	// DefaultLines and MaxLines bound get_output tail reads.
	DefaultLines int `envconfig:"TERMINAL_DEFAULT_LINES" default:"100" yaml:"default_lines"`
	MaxLines     int `envconfig:"TERMINAL_MAX_LINES" default:"1000" yaml:"max_lines"`

	// LaunchRetries is how many times a flaky automation call (osascript)
	// is retried before the launch fails.
	LaunchRetries int `envconfig:"TERMINAL_LAUNCH_RETRIES" default:"3" yaml:"launch_retries"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" yaml:"level"`
	Development bool   `envconfig:"LOG_DEV" default:"false" yaml:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100" yaml:"requests_per_second"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200" yaml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true" yaml:"enabled"`
}

// Load loads configuration from environment variables, then applies the
// optional YAML file named by TERMBRIDGE_CONFIG on top (file values win).
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if path := os.Getenv("TERMBRIDGE_CONFIG"); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// applyFile overlays YAML file values onto cfg.
func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8090",
			Host: "127.0.0.1",
		},
		Terminal: TerminalConfig{
			LaunchTimeout: 10 * time.Second,
			PollInterval:  time.Second,
			DefaultLines:  100,
			MaxLines:      1000,
			LaunchRetries: 3,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
