// Package laurel reconciles customer records spread across CSV, JSON, XML
// and free-text files into one customer per person and writes the result
// to a sink.
//
// A Pipeline runs one pass at a time:
//
//	p, err := laurel.New(
//	    laurel.WithInputs(inputs),
//	    laurel.WithSink(s),
//	)
//	result, err := p.Run(ctx)
//
// A source that cannot be read is logged and treated as empty. A sink
// that cannot be written fails the pass.
package laurel

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/laurel-etl/laurel/pkg/errors"
	"github.com/laurel-etl/laurel/pkg/reconciler"
	"github.com/laurel-etl/laurel/pkg/sink"
	"github.com/laurel-etl/laurel/pkg/sources"
)

// Result is the outcome of one pass.
type Result = reconciler.Result

// Pipeline reads the configured sources, reconciles their records and
// replaces the sink's contents with the result.
type Pipeline struct {
	mu     sync.Mutex
	config *config
	hooks  *hooks
}

// config holds a Pipeline's settings.
type config struct {
	inputs      *sources.Sources
	sink        sink.Sink
	notesPolicy reconciler.NotesPolicy
	provenance  bool
	dryRun      bool
	logger      *zerolog.Logger
}

func defaultConfig() *config {
	return &config{
		inputs:      sources.NewSources(),
		notesPolicy: reconciler.NotesUnattached,
	}
}

// New creates a Pipeline with the given options. A sink is required unless
// the pipeline is a dry run.
func New(opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		config: defaultConfig(),
		hooks:  newHooks(),
	}
	if err := p.options(opts...); err != nil {
		return nil, err
	}
	if p.config.sink == nil && !p.config.dryRun {
		return nil, errors.NewConfigError("pipeline", "a sink is required unless dry-run is enabled", nil)
	}
	if !p.config.notesPolicy.IsValid() {
		return nil, errors.NewValidationError("notes_policy", p.config.notesPolicy, "unknown notes policy")
	}
	return p, nil
}

// Inputs returns the sources read by each pass.
func (p *Pipeline) Inputs() *sources.Sources {
	return p.config.inputs
}

// Sink returns the configured sink, or nil for a dry run without one.
func (p *Pipeline) Sink() sink.Sink {
	return p.config.sink
}

// Close releases the sink.
func (p *Pipeline) Close() error {
	if p.config.sink == nil {
		return nil
	}
	return p.config.sink.Close()
}
