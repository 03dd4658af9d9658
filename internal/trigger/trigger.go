// Package trigger re-runs a reconciliation pass when its inputs change or
// on a cron schedule. Overlapping runs are refused.
package trigger

import (
	"context"

	"github.com/laurel-etl/laurel/pkg/errors"
	"github.com/laurel-etl/laurel/pkg/logging"
)

// Func is one unit of triggered work.
type Func func(ctx context.Context) error

// Runner serializes invocations of a Func.
type Runner struct {
	name  string
	fn    Func
	guard Guard
}

// NewRunner wraps fn under a guard keyed by name.
func NewRunner(name string, fn Func) *Runner {
	return &Runner{name: name, fn: fn}
}

// Fire runs fn unless a previous run is still in flight, in which case it
// returns ErrAlreadyRunning without calling fn.
func (r *Runner) Fire(ctx context.Context, reason string) error {
	logger := logging.FromContext(ctx)
	if !r.guard.TryLock(r.name) {
		logger.Warn().Str("job", r.name).Str("trigger", reason).Msg("Previous run still in progress, skipping")
		return errors.ErrAlreadyRunning
	}
	defer r.guard.Unlock(r.name)

	logger.Info().Str("job", r.name).Str("trigger", reason).Msg("Starting run")
	if err := r.fn(ctx); err != nil {
		logger.Error().Err(err).Str("job", r.name).Msg("Run failed")
		return err
	}
	return nil
}

// Running reports whether a run is in flight.
func (r *Runner) Running() bool {
	return r.guard.Running(r.name)
}

// Wait blocks until the in-flight run, if any, finishes or ctx ends.
func (r *Runner) Wait(ctx context.Context) {
	r.guard.WaitAll(ctx)
}
