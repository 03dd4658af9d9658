package app

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/laurel-etl/laurel/internal/config"
	"github.com/laurel-etl/laurel/internal/trigger"
	"github.com/laurel-etl/laurel/pkg/logging"
)

// runner opens one pipeline and wraps its Run for repeated triggering.
func (a *App) runner(cmd *cobra.Command, settings *config.Settings) (*trigger.Runner, error) {
	p, err := a.Pipeline(cmd.Context(), settings, PipelineOptions{})
	if err != nil {
		return nil, err
	}
	return trigger.NewRunner("reconcile", func(ctx context.Context) error {
		result, err := p.Run(ctx)
		if err != nil {
			return err
		}
		logging.FromContext(ctx).Info().Msg(result.Summary())
		return nil
	}), nil
}
