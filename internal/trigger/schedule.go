package trigger

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/laurel-etl/laurel/pkg/errors"
	"github.com/laurel-etl/laurel/pkg/logging"
)

// ParseSchedule validates a standard five-field expression or a descriptor
// such as "@hourly" or "@every 10m".
func ParseSchedule(expr string) (cron.Schedule, error) {
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, errors.NewValidationError("schedule", expr, err.Error())
	}
	return sched, nil
}

// Schedule fires r on every tick of expr until ctx is done, then waits for
// a run in flight to finish.
func Schedule(ctx context.Context, r *Runner, expr string) error {
	logger := logging.FromContext(ctx)
	sched, err := ParseSchedule(expr)
	if err != nil {
		return err
	}

	c := cron.New()
	c.Schedule(sched, cron.FuncJob(func() {
		_ = r.Fire(ctx, "schedule")
	}))
	c.Start()
	logger.Info().Str("cron", expr).Time("next", sched.Next(time.Now())).Msg("Scheduled runs")

	<-ctx.Done()
	stopped := c.Stop()
	<-stopped.Done()
	logger.Info().Msg("Stopped schedule")
	return nil
}
