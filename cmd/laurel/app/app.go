// Package app provides the application context and dependency management
// for the laurel CLI. It centralizes configuration, logging and the
// construction of reconciliation pipelines.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/laurel-etl/laurel"
	"github.com/laurel-etl/laurel/internal/config"
	"github.com/laurel-etl/laurel/internal/sinks"
	insources "github.com/laurel-etl/laurel/internal/sources"
	"github.com/laurel-etl/laurel/pkg/errors"
	"github.com/laurel-etl/laurel/pkg/logging"
	"github.com/laurel-etl/laurel/pkg/reconciler"
	"github.com/laurel-etl/laurel/pkg/sink"
)

// App represents the laurel application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// pipelines opened by commands, closed on Shutdown
	mu        sync.Mutex
	pipelines []*laurel.Pipeline
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.NewConfigError("app", "failed to load config", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	logging.SetDefault(*app.logger)

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// PipelineOptions tune a pipeline beyond the configured settings.
type PipelineOptions struct {
	DryRun     bool
	Provenance bool
}

// Pipeline builds a reconciliation pipeline from the configured settings.
// The sink is opened here; dry runs open none.
func (a *App) Pipeline(ctx context.Context, settings *config.Settings, po PipelineOptions) (*laurel.Pipeline, error) {
	inputs, err := insources.Build(settings.SourcePaths())
	if err != nil {
		return nil, err
	}

	opts := []laurel.Option{
		laurel.WithInputs(inputs),
		laurel.WithNotesPolicy(reconciler.NotesPolicy(settings.NotesPolicy)),
		laurel.WithProvenance(po.Provenance),
		laurel.WithDryRun(po.DryRun),
		laurel.WithLogger(a.logger),
	}

	var s sink.Sink
	if !po.DryRun {
		s, err = sinks.Open(ctx, settings)
		if err != nil {
			return nil, err
		}
		opts = append(opts, laurel.WithSink(s))
	}

	p, err := laurel.New(opts...)
	if err != nil {
		if s != nil {
			_ = s.Close()
		}
		return nil, err
	}

	a.mu.Lock()
	a.pipelines = append(a.pipelines, p)
	a.mu.Unlock()
	return p, nil
}

// Shutdown closes every sink opened by Pipeline.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var first error
	for _, p := range a.pipelines {
		if err := p.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close sink during shutdown")
			if first == nil {
				first = err
			}
		}
	}
	a.pipelines = nil
	return first
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}
