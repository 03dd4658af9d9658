package laurel

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/laurel-etl/laurel/pkg/errors"
	"github.com/laurel-etl/laurel/pkg/logging"
	"github.com/laurel-etl/laurel/pkg/reconciler"
	"github.com/laurel-etl/laurel/pkg/sources"
)

// Run performs one reconciliation pass. Passes on the same Pipeline are
// serialized; each starts from an empty customer set.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Step 0: Set context
	if ctx == nil {
		ctx = context.Background()
	}
	if p.config.logger != nil {
		ctx = logging.WithLogger(ctx, p.config.logger)
	}
	ctx = logging.WithPassID(ctx, uuid.NewString())
	logger := logging.FromContext(ctx)

	// Step 1: Build the reconciler for this pass
	rec, err := reconciler.New(
		reconciler.WithNotesPolicy(p.config.notesPolicy),
		reconciler.WithProvenance(p.config.provenance),
	)
	if err != nil {
		return nil, err
	}

	// Step 2: Read every source in pass order
	batches := make([]reconciler.Batch, 0, p.config.inputs.Len())
	for _, src := range p.config.inputs.List() {
		batch := p.read(ctx, src)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}

	// Step 3: Reconcile
	result, err := rec.Reconcile(ctx, batches)
	if err != nil {
		return nil, err
	}
	result.Metadata.DryRun = p.config.dryRun

	// Step 4: Replace the sink contents unless dry run
	if p.config.dryRun {
		logger.Info().Bool("dry_run", true).Int("customers", len(result.Customers)).Msg("Dry run completed - sink not written")
		p.hooks.passCompleted(result)
		return result, nil
	}

	driver := p.config.sink.Driver().String()
	result.Metadata.Sink = driver
	written, err := p.config.sink.ReplaceAll(logging.WithSink(ctx, driver), result.Customers)
	if err != nil {
		if !errors.IsSinkError(err) {
			err = errors.NewSinkError(driver, "write", err)
		}
		logger.Error().Err(err).Str("sink", driver).Msg("Failed to write customers")
		return nil, err
	}
	result.Metadata.Written = written

	logger.Info().
		Str("sink", driver).
		Int("written", written).
		Int("notes", len(result.Notes)).
		Msg("Customers written")

	p.hooks.passCompleted(result)
	return result, nil
}

// read runs one adapter, turning any failure (including a panic) into an
// empty batch that carries a SourceError.
func (p *Pipeline) read(ctx context.Context, src sources.Source) (batch reconciler.Batch) {
	logger := logging.FromContext(logging.WithSource(ctx, src.ID().String()))
	batch = reconciler.Batch{Source: src.ID()}

	defer func() {
		if r := recover(); r != nil {
			batch.Records = nil
			batch.Err = p.sourceFailed(ctx, src, errors.SourceUnexpected, fmt.Errorf("panic: %v", r))
		}
	}()

	records, err := src.Read(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return batch
		}
		batch.Err = p.sourceFailed(ctx, src, "", err)
		return batch
	}

	logger.Info().Str("path", src.Path()).Int("records", len(records)).Msg("Loaded source")
	batch.Records = records
	return batch
}

func (p *Pipeline) sourceFailed(ctx context.Context, src sources.Source, reason errors.SourceReason, err error) *errors.SourceError {
	serr := errors.NewSourceError(src.ID().String(), src.Path(), reason, err)
	logging.FromContext(ctx).Warn().
		Err(serr.Err).
		Str("source", serr.Source).
		Str("path", serr.Path).
		Str("reason", string(serr.Reason)).
		Msg("Source failed, continuing without it")
	p.hooks.sourceFailed(serr)
	return serr
}
