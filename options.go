package laurel

import (
	"github.com/rs/zerolog"

	"github.com/laurel-etl/laurel/pkg/errors"
	"github.com/laurel-etl/laurel/pkg/reconciler"
	"github.com/laurel-etl/laurel/pkg/sink"
	"github.com/laurel-etl/laurel/pkg/sources"
)

// Option is a function that configures a Pipeline
type Option func(*config) error

// options applies the given options to the pipeline.
func (p *Pipeline) options(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(p.config); err != nil {
			return err
		}
	}
	return nil
}

// WithInputs sets the sources read on every pass.
func WithInputs(inputs *sources.Sources) Option {
	return func(c *config) error {
		if inputs == nil {
			return errors.NewValidationError("inputs", nil, "sources must not be nil")
		}
		c.inputs = inputs
		return nil
	}
}

// WithSink sets where reconciled customers are written
func WithSink(s sink.Sink) Option {
	return func(c *config) error {
		c.sink = s
		return nil
	}
}

// WithNotesPolicy configures what happens to free-text lines
func WithNotesPolicy(policy reconciler.NotesPolicy) Option {
	return func(c *config) error {
		c.notesPolicy = policy
		return nil
	}
}

// WithProvenance records which source supplied each field
func WithProvenance(enabled bool) Option {
	return func(c *config) error {
		c.provenance = enabled
		return nil
	}
}

// WithDryRun reconciles without writing to the sink
func WithDryRun(enabled bool) Option {
	return func(c *config) error {
		c.dryRun = enabled
		return nil
	}
}

// WithLogger sets the logger used when the run context carries none
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}
