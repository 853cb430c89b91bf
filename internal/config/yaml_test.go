package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Server.ShutdownDuration() != 30*time.Second {
		t.Errorf("ShutdownDuration() = %v", cfg.Server.ShutdownDuration())
	}
	if cfg.API.TimeoutDuration() != 0 {
		t.Errorf("TimeoutDuration() = %v, want no timeout", cfg.API.TimeoutDuration())
	}
	if cfg.State.StopDuration() != 5*time.Second {
		t.Errorf("StopDuration() = %v", cfg.State.StopDuration())
	}
	if cfg.State.IOParallelism != 64 {
		t.Errorf("IOParallelism = %d, want 64", cfg.State.IOParallelism)
	}
}

func TestWriteAndLoadDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planetexplorer.yaml")
	if err := WriteDefaultConfig(path); err != nil {
		t.Fatalf("WriteDefaultConfig: %v", err)
	}
	cfg, err := LoadYAMLConfig(path)
	if err != nil {
		t.Fatalf("LoadYAMLConfig: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadYAMLConfigExpandsEnv(t *testing.T) {
	t.Setenv("PE_TEST_UPSTREAM", "http://localhost:9999/api/")
	path := filepath.Join(t.TempDir(), "planetexplorer.yaml")
	content := "api:\n  base_url: ${PE_TEST_UPSTREAM}\n  timeout: 2s\nserver:\n  port: 9090\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadYAMLConfig(path)
	if err != nil {
		t.Fatalf("LoadYAMLConfig: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:9999/api/" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutDuration() != 2*time.Second {
		t.Errorf("TimeoutDuration() = %v", cfg.API.TimeoutDuration())
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("unset keys should keep defaults, Level = %q", cfg.Logging.Level)
	}
}

func TestLoadYAMLConfigErrors(t *testing.T) {
	if _, err := LoadYAMLConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("server: [\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadYAMLConfig(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port", func(c *Config) { c.Server.Port = 70000 }},
		{"rate limit", func(c *Config) { c.Server.RateLimit = -1 }},
		{"shutdown timeout", func(c *Config) { c.Server.ShutdownTimeout = "soon" }},
		{"negative stop timeout", func(c *Config) { c.State.StopTimeout = "-1s" }},
		{"relative base url", func(c *Config) { c.API.BaseURL = "api/" }},
		{"requests per second", func(c *Config) { c.API.RequestsPerSecond = -2 }},
		{"parallelism", func(c *Config) { c.State.IOParallelism = 0 }},
		{"transport", func(c *Config) { c.MCP.Transport = "sse" }},
		{"mcp port", func(c *Config) { c.MCP.Port = -1 }},
		{"level", func(c *Config) { c.Logging.Level = "trace" }},
		{"format", func(c *Config) { c.Logging.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestFromViperDefaultsAndEnv(t *testing.T) {
	t.Setenv("PLANETEXPLORER_SERVER_PORT", "9191")
	t.Setenv("PLANETEXPLORER_API_REQUESTS_PER_SECOND", "2.5")
	t.Setenv("PLANETEXPLORER_LOGGING_FORMAT", "json")

	v := viper.New()
	SetDefaults(v)
	cfg, err := FromViper(v)
	if err != nil {
		t.Fatalf("FromViper: %v", err)
	}
	if cfg.Server.Port != 9191 {
		t.Errorf("Port = %d, want 9191", cfg.Server.Port)
	}
	if cfg.API.RequestsPerSecond != 2.5 {
		t.Errorf("RequestsPerSecond = %v, want 2.5", cfg.API.RequestsPerSecond)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Format = %q, want json", cfg.Logging.Format)
	}
	if cfg.API.BaseURL != "https://swapi.dev/api/" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if diff := cmp.Diff([]string{"*"}, cfg.Server.CORS.Origins); diff != "" {
		t.Errorf("origins mismatch (-want +got):\n%s", diff)
	}
}

func TestFromViperInvalid(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("mcp.transport", "carrier-pigeon")
	if _, err := FromViper(v); !errors.Is(err, ErrInvalid) {
		t.Errorf("FromViper() error = %v, want ErrInvalid", err)
	}
}
