package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/laurel-etl/laurel/pkg/logging"
)

// NewLogger builds the CLI logger from config.
func NewLogger(config *Config) zerolog.Logger {
	level := determineLogLevel(config)
	return logging.NewLoggerFromConfig(&logging.Config{
		Level:     level,
		Format:    config.LogFormat,
		Output:    config.LogOutput,
		NoColor:   config.NoColor || os.Getenv("NO_COLOR") != "",
		AddCaller: level == zerolog.DebugLevel.String() || level == zerolog.TraceLevel.String(),
	})
}

// determineLogLevel resolves the level name. An explicit --log-level (or
// LOG_LEVEL) wins over -q, which wins over -v. Unknown names fall back to
// info with a warning.
func determineLogLevel(config *Config) string {
	switch {
	case config.LogLevel != "":
		level := logging.ParseLevel(config.LogLevel).String()
		if level == zerolog.InfoLevel.String() && !strings.EqualFold(config.LogLevel, level) {
			fmt.Fprintf(os.Stderr, "Warning: invalid log level %q, using %q\n", config.LogLevel, level)
		}
		return level
	case config.Quiet:
		if config.Verbose {
			fmt.Fprintln(os.Stderr, "Warning: both --verbose and --quiet specified, using --quiet")
		}
		return zerolog.WarnLevel.String()
	case config.Verbose:
		return zerolog.DebugLevel.String()
	default:
		return zerolog.InfoLevel.String()
	}
}
