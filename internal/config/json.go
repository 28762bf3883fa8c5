package config

import (
	"encoding/json"
	"os"

	"github.com/notevault/notevault/internal/flagx"
)

// JsonConfig is the DTO for the optional JSON configuration file. Empty
// fields leave the corresponding Config value untouched.
type JsonConfig struct {
	DatabasePath string `json:"database_path"`
	LogLevel     string `json:"log_level"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags, when present. A missing flag means no file is loaded; a
// present but unreadable or invalid file is a startup error and panics.
func parseJson(cfg *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
