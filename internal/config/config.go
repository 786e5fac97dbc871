// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"cardprice/internal/errors"
	"cardprice/internal/logging"
)

// Environment variables that override file configuration
const (
	EnvAddress      = "CARDPRICE_ADDR"
	EnvLocale       = "CARDPRICE_LOCALE"
	EnvModifiers    = "CARDPRICE_MODIFIERS"
	EnvLogLevel     = "CARDPRICE_LOG_LEVEL"
	EnvLogFormat    = "CARDPRICE_LOG_FORMAT"
	EnvReadTimeout  = "CARDPRICE_READ_TIMEOUT_SECONDS"
	EnvWriteTimeout = "CARDPRICE_WRITE_TIMEOUT_SECONDS"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" toml:"version"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server" toml:"server"`

	// Pricing contains pricing configuration
	Pricing PricingConfig `json:"pricing" toml:"pricing"`

	// Output contains output configuration
	Output OutputConfig `json:"output" toml:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" toml:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Address to listen on
	Address string `json:"address" toml:"address"`

	// ReadTimeoutSeconds bounds reading a request
	ReadTimeoutSeconds int `json:"read_timeout_seconds" toml:"read_timeout_seconds"`

	// WriteTimeoutSeconds bounds writing a response
	WriteTimeoutSeconds int `json:"write_timeout_seconds" toml:"write_timeout_seconds"`

	// ShutdownTimeoutSeconds bounds graceful shutdown
	ShutdownTimeoutSeconds int `json:"shutdown_timeout_seconds" toml:"shutdown_timeout_seconds"`

	// MaxBodyBytes limits request body size
	MaxBodyBytes int64 `json:"max_body_bytes" toml:"max_body_bytes"`
}

// ReadTimeout returns the read timeout as a duration
func (s ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the write timeout as a duration
func (s ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSeconds) * time.Second
}

// ShutdownTimeout returns the shutdown timeout as a duration
func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSeconds) * time.Second
}

// PricingConfig contains pricing-related settings
type PricingConfig struct {
	// ModifiersPath is an optional HCL modifier table; empty uses the built-in table
	ModifiersPath string `json:"modifiers_path" toml:"modifiers_path"`

	// Locale selects the display language for messages (en, uk)
	Locale string `json:"locale" toml:"locale"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default CLI output format (text, json, cli)
	DefaultFormat string `json:"default_format" toml:"default_format"`

	// NoColor disables ANSI colors in CLI output
	NoColor bool `json:"no_color" toml:"no_color"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Server: ServerConfig{
			Address:                ":8050",
			ReadTimeoutSeconds:     10,
			WriteTimeoutSeconds:    10,
			ShutdownTimeoutSeconds: 5,
			MaxBodyBytes:           64 * 1024,
		},
		Pricing: PricingConfig{
			Locale: "en",
		},
		Output: OutputConfig{
			DefaultFormat: "text",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a JSON or TOML file.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Config("failed to read config "+path, err)
	}

	config := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, config)
	default:
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, errors.Config("failed to parse config "+path, err)
	}

	return config, config.Validate()
}

// LoadEnvFiles loads .env files into the process environment.
// Missing files are skipped; variables already set are not overwritten.
func LoadEnvFiles(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return errors.Config("failed to load env file "+p, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from CARDPRICE_* environment variables
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvAddress); v != "" {
		c.Server.Address = v
	}
	if v := os.Getenv(EnvLocale); v != "" {
		c.Pricing.Locale = v
	}
	if v := os.Getenv(EnvModifiers); v != "" {
		c.Pricing.ModifiersPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if err := envSeconds(EnvReadTimeout, &c.Server.ReadTimeoutSeconds); err != nil {
		return err
	}
	if err := envSeconds(EnvWriteTimeout, &c.Server.WriteTimeoutSeconds); err != nil {
		return err
	}
	return c.Validate()
}

func envSeconds(name string, dst *int) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return errors.Config(name+" must be an integer", err)
	}
	*dst = n
	return nil
}

// Validate checks the configuration for values the server cannot run with
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return errors.New(errors.TypeConfig, "server.address is required")
	}
	if c.Server.ReadTimeoutSeconds <= 0 || c.Server.WriteTimeoutSeconds <= 0 {
		return errors.New(errors.TypeConfig, "server timeouts must be positive")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New(errors.TypeConfig, "server.max_body_bytes must be positive")
	}
	return nil
}

// Save saves configuration to a file, as TOML when the extension is .toml
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if strings.ToLower(filepath.Ext(path)) == ".toml" {
		data, err = toml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
