// Package config loads service configuration from a TOML file with
// environment overrides for secrets.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Server    ServerConfig    `toml:"server"`
	LLM       LLMConfig       `toml:"llm"`
	Storage   StorageConfig   `toml:"storage"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type LLMConfig struct {
	// APIKey is normally left empty in the file and supplied via
	// ANTHROPIC_API_KEY.
	APIKey  string `toml:"api_key"`
	Enabled bool   `toml:"enabled"`
}

type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

type TelemetryConfig struct {
	Enabled  bool   `toml:"enabled"`
	Endpoint string `toml:"endpoint"`
}

func Default() Config {
	return Config{
		Server:    ServerConfig{Addr: ":8080"},
		LLM:       LLMConfig{Enabled: true},
		Storage:   StorageConfig{DBPath: "reports.db"},
		Telemetry: TelemetryConfig{Enabled: false, Endpoint: "localhost:4318"},
	}
}

// Load reads a TOML config file over the defaults. A missing path returns
// defaults; a missing file at an explicit path is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		cfg.applyEnv()
		return cfg, nil
	}

	blob, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(blob, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if key := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")); key != "" {
		c.LLM.APIKey = key
	}
}
