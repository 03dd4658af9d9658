// Package logging provides structured logging for laurel using zerolog.
//
// Every reconciliation pass logs through the logger stored in its context.
// Passes tag that logger with a pass id, and the source or sink being
// worked on, so a single run can be followed across its log lines:
//
//	ctx = logging.WithPassID(ctx, id)
//	logging.FromContext(logging.WithSource(ctx, "csv")).
//		Info().Int("records", 120).Msg("Loaded source")
//
// Without a context logger the process default is used. It is built from
// LOG_LEVEL, LOG_FORMAT, LOG_OUTPUT and friends (see EnvConfig), writing
// console output on a terminal and JSON otherwise.
package logging

import (
	"os"
	"sync/atomic"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var defaultLogger atomic.Pointer[zerolog.Logger]

func init() {
	SetDefault(NewLoggerFromConfig(EnvConfig()))
}

// Default returns the process default logger.
func Default() *zerolog.Logger {
	return defaultLogger.Load()
}

// SetDefault replaces the process default logger. The zerolog global
// logger follows it so third-party log calls land in the same place.
func SetDefault(logger zerolog.Logger) {
	defaultLogger.Store(&logger)
	log.Logger = logger
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
