package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ConfigEnvVar names the environment variable holding the config file path
const ConfigEnvVar = "TEXTCONV_CONFIG"

// Config holds the complete application configuration
type Config struct {
	LogLevel string       `toml:"log_level" env:"TEXTCONV_LOG_LEVEL"`
	Socket   SocketConfig `toml:"socket"`
	HTTP     HTTPConfig   `toml:"http"`
	REPL     REPLConfig   `toml:"repl"`
}

// SocketConfig holds the Unix socket server settings
type SocketConfig struct {
	Path string `toml:"path" env:"TEXTCONV_SOCKET"`
}

// HTTPConfig holds the HTTP API settings
type HTTPConfig struct {
	Addr            string   `toml:"addr" env:"TEXTCONV_HTTP_ADDR"`
	ReadTimeout     Duration `toml:"read_timeout" env:"TEXTCONV_HTTP_READ_TIMEOUT"`
	WriteTimeout    Duration `toml:"write_timeout" env:"TEXTCONV_HTTP_WRITE_TIMEOUT"`
	ShutdownTimeout Duration `toml:"shutdown_timeout" env:"TEXTCONV_HTTP_SHUTDOWN_TIMEOUT"`
	MaxBodyBytes    int64    `toml:"max_body_bytes" env:"TEXTCONV_HTTP_MAX_BODY"`
}

// REPLConfig holds the interactive client settings
type REPLConfig struct {
	// Color is one of "auto", "always" or "never"
	Color       string `toml:"color" env:"TEXTCONV_COLOR"`
	HistoryFile string `toml:"history_file" env:"TEXTCONV_HISTORY"`
}

// Duration wraps time.Duration for TOML and environment parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// LoadConfig reads the TOML file at path, if any, then applies environment
// overrides and defaults. An empty path falls back to TEXTCONV_CONFIG and
// then to ./textconv.toml; a missing default file is not an error.
func LoadConfig(path string) (*Config, error) {
	// The .env file is optional.
	_ = godotenv.Load()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(ConfigEnvVar)
		explicit = path != ""
	}
	if !explicit {
		path = "textconv.toml"
	}
	path = os.ExpandEnv(path)

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			log.Debugf("no config file at %s, using defaults", path)
		} else {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultSocketPath returns the socket path used when none is configured
func DefaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "textconv.sock")
	}
	return filepath.Join(os.TempDir(), "textconv.sock")
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Socket.Path == "" {
		c.Socket.Path = DefaultSocketPath()
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = "127.0.0.1:8420"
	}
	if c.HTTP.ReadTimeout.Duration == 0 {
		c.HTTP.ReadTimeout.Duration = 10 * time.Second
	}
	if c.HTTP.WriteTimeout.Duration == 0 {
		c.HTTP.WriteTimeout.Duration = 10 * time.Second
	}
	if c.HTTP.ShutdownTimeout.Duration == 0 {
		c.HTTP.ShutdownTimeout.Duration = 5 * time.Second
	}
	if c.HTTP.MaxBodyBytes == 0 {
		c.HTTP.MaxBodyBytes = 1 << 20
	}
	if c.REPL.Color == "" {
		c.REPL.Color = "auto"
	}
}

func (c *Config) validate() error {
	if _, err := withLevel(log, c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.REPL.Color) {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid repl.color %q: want auto, always or never", c.REPL.Color)
	}
	if c.HTTP.MaxBodyBytes < 0 {
		return fmt.Errorf("invalid http.max_body_bytes %d", c.HTTP.MaxBodyBytes)
	}
	return nil
}
