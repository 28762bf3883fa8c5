// Package config handles configuration for NoteVault, including defaults,
// an optional JSON overlay, and command-line flags.
package config

import (
	"os"
	"path/filepath"
)

// Config holds runtime settings.
//
// Fields:
//   - DatabasePath: location of the SQLite file. The directory is created on
//     startup if missing.
//   - LogLevel: debug | info | warn | error.
type Config struct {
	DatabasePath string
	LogLevel     string
}

// LoadDefaults populates Config with sensible defaults: the database lives
// under the user's config directory.
func (c *Config) LoadDefaults() {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	c.DatabasePath = filepath.Join(dir, "notevault", "notevault.db")
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file (-c/-config) and finally from command-line
// flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
