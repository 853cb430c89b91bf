package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override, e.g.
// PLANETEXPLORER_SERVER_PORT.
const EnvPrefix = "PLANETEXPLORER"

// Config represents the top-level planetexplorer configuration file.
type Config struct {
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	API     APIConfig     `yaml:"api" mapstructure:"api"`
	State   StateConfig   `yaml:"state" mapstructure:"state"`
	MCP     MCPConfig     `yaml:"mcp" mapstructure:"mcp"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

// ServerConfig controls the HTTP server behavior.
type ServerConfig struct {
	Host            string     `yaml:"host" mapstructure:"host"`
	Port            int        `yaml:"port" mapstructure:"port"`
	ShutdownTimeout string     `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	RateLimit       int        `yaml:"rate_limit" mapstructure:"rate_limit"`
	CORS            CORSConfig `yaml:"cors" mapstructure:"cors"`
}

// CORSConfig controls cross-origin resource sharing settings.
type CORSConfig struct {
	Origins []string `yaml:"origins" mapstructure:"origins"`
}

// APIConfig controls the upstream planets API client.
type APIConfig struct {
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url"`
	Timeout           string  `yaml:"timeout" mapstructure:"timeout"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	UserAgent         string  `yaml:"user_agent" mapstructure:"user_agent"`
}

// StateConfig controls the screen state holders.
type StateConfig struct {
	StopTimeout   string `yaml:"stop_timeout" mapstructure:"stop_timeout"`
	IOParallelism int    `yaml:"io_parallelism" mapstructure:"io_parallelism"`
}

// MCPConfig controls the MCP (Model Context Protocol) server.
type MCPConfig struct {
	Transport string `yaml:"transport" mapstructure:"transport"`
	Port      int    `yaml:"port" mapstructure:"port"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultConfig returns a Config pre-filled with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ShutdownTimeout: "30s",
			RateLimit:       120,
			CORS: CORSConfig{
				Origins: []string{"*"},
			},
		},
		API: APIConfig{
			BaseURL: "https://swapi.dev/api/",
			Timeout: "0s",
		},
		State: StateConfig{
			StopTimeout:   "5s",
			IOParallelism: 64,
		},
		MCP: MCPConfig{
			Transport: "stdio",
			Port:      3001,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// SetDefaults registers every key with its default on v and enables
// environment overrides. Keys must be known to viper for Unmarshal to pick
// up environment values that have no counterpart in the config file.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.rate_limit", d.Server.RateLimit)
	v.SetDefault("server.cors.origins", d.Server.CORS.Origins)
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("api.requests_per_second", d.API.RequestsPerSecond)
	v.SetDefault("api.user_agent", d.API.UserAgent)
	v.SetDefault("state.stop_timeout", d.State.StopTimeout)
	v.SetDefault("state.io_parallelism", d.State.IOParallelism)
	v.SetDefault("mcp.transport", d.MCP.Transport)
	v.SetDefault("mcp.port", d.MCP.Port)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// FromViper decodes and validates the effective configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadYAMLConfig reads and parses a YAML configuration file on top of the
// defaults. Environment variables referenced as ${VAR_NAME} in the file are
// expanded before parsing.
func LoadYAMLConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Expand environment variables: ${VAR_NAME}
	content := os.ExpandEnv(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WriteDefaultConfig writes the default configuration to a YAML file.
func WriteDefaultConfig(path string) error {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first invalid value, wrapped in ErrInvalid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return invalid("server.port", "%d out of range", c.Server.Port)
	}
	if c.Server.RateLimit < 0 {
		return invalid("server.rate_limit", "must not be negative")
	}
	if c.MCP.Port < 0 || c.MCP.Port > 65535 {
		return invalid("mcp.port", "%d out of range", c.MCP.Port)
	}
	for key, val := range map[string]string{
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"api.timeout":             c.API.Timeout,
		"state.stop_timeout":      c.State.StopTimeout,
	} {
		if _, err := parseDuration(val); err != nil {
			return invalid(key, "%v", err)
		}
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || !u.IsAbs() {
		return invalid("api.base_url", "%q is not an absolute URL", c.API.BaseURL)
	}
	if c.API.RequestsPerSecond < 0 {
		return invalid("api.requests_per_second", "must not be negative")
	}
	if c.State.IOParallelism <= 0 {
		return invalid("state.io_parallelism", "must be positive")
	}
	switch c.MCP.Transport {
	case "stdio", "http":
	default:
		return invalid("mcp.transport", "%q must be stdio or http", c.MCP.Transport)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return invalid("logging.level", "unknown level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return invalid("logging.format", "%q must be text or json", c.Logging.Format)
	}
	return nil
}

// ShutdownDuration returns the parsed graceful shutdown timeout.
func (s ServerConfig) ShutdownDuration() time.Duration {
	return mustDuration(s.ShutdownTimeout, 30*time.Second)
}

// TimeoutDuration returns the per-request upstream timeout. Zero means none.
func (a APIConfig) TimeoutDuration() time.Duration {
	return mustDuration(a.Timeout, 0)
}

// StopDuration returns how long a holder keeps loading after its last
// subscriber leaves.
func (s StateConfig) StopDuration() time.Duration {
	return mustDuration(s.StopTimeout, 5*time.Second)
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" || s == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", s)
	}
	return d, nil
}

func mustDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := parseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func invalid(key, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalid, key, fmt.Sprintf(format, args...))
}
