package app

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/laurel-etl/laurel/internal/cmd/output"
	"github.com/laurel-etl/laurel/internal/trigger"
	"github.com/laurel-etl/laurel/pkg/errors"
	"github.com/laurel-etl/laurel/pkg/logging"
	"github.com/laurel-etl/laurel/pkg/provenance"
	"github.com/laurel-etl/laurel/pkg/sources"
)

// NewRunCommand creates the run command: one reconciliation pass.
func (a *App) NewRunCommand() *cobra.Command {
	var (
		dryRun         bool
		withProvenance bool
		provenanceFile string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one reconciliation pass",
		Long: `Run reads every configured source, merges records that share a
first and last name, and replaces the sink contents with the result.

Sources that are missing or unreadable are skipped with a warning.
A sink failure fails the command.`,
		Example: `  laurel run
  laurel run --dry-run --format wide
  laurel run --sink-driver sqlite --db-path customers.db
  laurel run --provenance --provenance-file provenance.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := output.ParseFormat(a.config.Format)
			if err != nil {
				return err
			}
			settings, err := a.config.Settings()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			p, err := a.Pipeline(ctx, settings, PipelineOptions{
				DryRun:     dryRun,
				Provenance: withProvenance || provenanceFile != "",
			})
			if err != nil {
				return err
			}

			result, err := p.Run(ctx)
			if err != nil {
				return err
			}

			if provenanceFile != "" {
				if err := provenance.Save(provenanceFile, result.Provenance); err != nil {
					return err
				}
				logging.FromContext(ctx).Info().Str("path", provenanceFile).Msg("Wrote provenance")
			}

			out := cmd.OutOrStdout()
			if dryRun || format != "" {
				if format == "" {
					format = output.DetectFormat("")
				}
				return output.WriteResult(out, result, format)
			}
			if withProvenance {
				fmt.Fprint(out, provenance.GenerateReport(result.Provenance).String())
			}
			fmt.Fprintln(out, result.Summary())
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "reconcile and print the result without writing to the sink")
	cmd.Flags().BoolVar(&withProvenance, "provenance", false, "record which source supplied each field")
	cmd.Flags().StringVar(&provenanceFile, "provenance-file", "", "write the provenance map to this file (YAML, or JSON for a .json path)")
	return cmd
}

// NewWatchCommand creates the watch command: a pass on every input change.
func (a *App) NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Re-run the pass whenever an input file changes",
		Long: `Watch runs one pass immediately, then again whenever any source file
is written, created or renamed. Bursts of changes within the debounce
window (watch_debounce, default 500ms) cause a single run. A change that
arrives while a pass is running is skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := a.config.Settings()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			runner, err := a.runner(cmd, settings)
			if err != nil {
				return err
			}

			var files []string
			for _, id := range sources.IDs() {
				if path := settings.SourcePaths()[id]; path != "" {
					files = append(files, path)
				}
			}

			_ = runner.Fire(ctx, "startup")
			return trigger.Watch(ctx, runner, files, settings.WatchDebounce)
		},
	}
}

// NewScheduleCommand creates the schedule command: passes on a cron schedule.
func (a *App) NewScheduleCommand() *cobra.Command {
	var expr string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the pass on a cron schedule",
		Long: `Schedule runs a pass on every tick of a standard five-field cron
expression or a descriptor such as @hourly or "@every 15m". A tick that
arrives while a pass is running is skipped.`,
		Example: `  laurel schedule --cron "0 * * * *"
  laurel schedule --cron "@every 10m"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := a.config.Settings()
			if err != nil {
				return err
			}
			if expr == "" {
				expr = settings.Schedule
			}
			if _, err := trigger.ParseSchedule(expr); err != nil {
				return err
			}
			runner, err := a.runner(cmd, settings)
			if err != nil {
				return err
			}
			return trigger.Schedule(cmd.Context(), runner, expr)
		},
	}

	cmd.Flags().StringVar(&expr, "cron", "", "cron expression (defaults to the schedule setting)")
	return cmd
}

// NewProvenanceCommand creates the provenance command: print a saved map.
func (a *App) NewProvenanceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "provenance <file>",
		Short: "Show a provenance file written by run --provenance-file",
		Long: `Provenance prints, per customer and field, which source supplied the
kept value and which later values were ignored. With --format json or yaml
the raw map is printed instead.`,
		Example: `  laurel provenance provenance.yaml
  laurel provenance provenance.json --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.ParseFormat(a.config.Format)
			if err != nil {
				return err
			}
			file, err := provenance.Load(args[0])
			if err != nil {
				return err
			}
			if file == nil {
				return errors.NewNotFoundError("provenance file", args[0])
			}

			out := cmd.OutOrStdout()
			if format == output.FormatJSON || format == output.FormatYAML {
				return output.NewFormatter(format).Format(out, file)
			}
			fmt.Fprint(out, provenance.GenerateReport(file.Provenance).String())
			return nil
		},
	}
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "laurel version %s\n", a.version)
			fmt.Fprintf(out, "commit: %s\n", a.commit)
			fmt.Fprintf(out, "built: %s\n", a.date)
			fmt.Fprintf(out, "built by: %s\n", a.builtBy)
			fmt.Fprintf(out, "go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
