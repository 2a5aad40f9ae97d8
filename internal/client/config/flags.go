package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/rentdesk/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-u string   absolute API URL
//	-m string   mode: development or production
//	-d string   path of the session database
//	-l string   log level: debug, info, warn, error
//
// Only these flags are parsed; others (such as -c) are left to their
// own layer.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-u", "-m", "-d", "-l"})

	fs := flag.NewFlagSet("rentdesk", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "u", cfg.APIBaseURL, "API base URL")
	fs.StringVar(&cfg.Mode, "m", cfg.Mode, "mode (development|production)")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "session database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
