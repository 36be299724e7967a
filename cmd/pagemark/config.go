package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds file-based configuration. Flags take precedence over
// values loaded from the file.
type Config struct {
	// Addr is the HTTP bind address for the serve command.
	Addr string `yaml:"addr"`

	Auth struct {
		// Enabled turns on bearer-token checks for /target.
		Enabled bool   `yaml:"enabled"`
		Token   string `yaml:"token"`
	} `yaml:"auth"`

	Render struct {
		// Timeout bounds a single page render.
		Timeout time.Duration `yaml:"timeout"`
		// Static skips the browser and fetches pages with plain HTTP.
		Static bool `yaml:"static"`
	} `yaml:"render"`

	Threat struct {
		// Endpoint of the threat-intelligence service. Empty disables
		// threat lookups.
		Endpoint string `yaml:"endpoint"`
	} `yaml:"threat"`

	Cache struct {
		// Path to the SQLite cache database. Empty disables caching.
		Path string `yaml:"path"`
	} `yaml:"cache"`

	// BlockedDomains extends the default deny-list.
	BlockedDomains []string `yaml:"blocked_domains"`
}

// DefaultConfig returns a Config with usable defaults.
func DefaultConfig() Config {
	var cfg Config
	cfg.Addr = ":8080"
	cfg.Render.Timeout = 30 * time.Second
	return cfg
}

// LoadConfig reads a YAML config file, layered over DefaultConfig.
// A missing path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %q: %w", path, err)
	}

	return cfg, nil
}
