package config

import (
	"flag"
	"os"

	"github.com/notevault/notevault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-d, --database string   path to the SQLite database file
//	-l, --log-level string  debug | info | warn | error
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with flags owned by the command
// shell.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "--database", "-l", "--log-level"})

	fs := flag.NewFlagSet("config", flag.ContinueOnError)

	fs.StringVar(&config.DatabasePath, "d", config.DatabasePath, "path to the SQLite database file")
	fs.StringVar(&config.DatabasePath, "database", config.DatabasePath, "path to the SQLite database file")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")

	_ = fs.Parse(args)
}
