// Package config loads otc's optional TOML configuration. All values have
// working defaults; a missing file is not an error.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// DefaultFilename is looked up in the working directory when no explicit
// path is given
const DefaultFilename = "otc.toml"

// Config holds tool-wide defaults
type Config struct {
	// ScanRadius is the default cluster capture zone radius in mm when a
	// plan does not specify one
	ScanRadius float64 `toml:"scan_radius"`

	// LogLevel is the default log verbosity: debug, info, warn or error
	LogLevel string `toml:"log_level"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		ScanRadius: 8.5,
		LogLevel:   "info",
	}
}

// Load reads the configuration file at path, merged over the defaults.
// An empty path tries DefaultFilename; a missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFilename
	}

	if _, err := os.Stat(path); err != nil {
		if explicit {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
