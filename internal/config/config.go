package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultAPIBaseURL = "http://localhost:8080"

type Config struct {
	Server      ServerConfig    `yaml:"server"`
	API         APIConfig       `yaml:"api"`
	Tailscale   TailscaleConfig `yaml:"tailscale"`
	Environment string          `yaml:"environment"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// APIConfig points at the remote workout API that owns authentication and
// persistence.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// Production reports whether the app runs in production mode. Session
// cookies are marked Secure only in production.
func (c *Config) Production() bool {
	return c.Environment == "production"
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A missing file is not an error; the front-end can run from
// environment alone. Env vars:
//
//	REPSHEET_SERVER_HOST, REPSHEET_SERVER_PORT, REPSHEET_ENV,
//	GO_API_URL (base address of the remote workout API)
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{Host: "127.0.0.1", Port: 3000},
		API:    APIConfig{BaseURL: defaultAPIBaseURL},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = defaultAPIBaseURL
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("REPSHEET_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("REPSHEET_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("REPSHEET_ENV"); v != "" {
		cfg.Environment = v
	}
	if v := os.Getenv("GO_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
