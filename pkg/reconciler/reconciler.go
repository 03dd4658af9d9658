// Package reconciler folds customer records from several sources into one
// record per person.
//
// Records are projected onto canonical fields, keyed by normalized name,
// and merged so that the first informative value for a field wins. Sources
// are folded in a fixed order (csv, json, xml), which makes that order the
// precedence order when sources disagree. Records without a usable name
// are dropped.
package reconciler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/laurel-etl/laurel/pkg/customer"
	"github.com/laurel-etl/laurel/pkg/fields"
	"github.com/laurel-etl/laurel/pkg/identity"
	"github.com/laurel-etl/laurel/pkg/logging"
	"github.com/laurel-etl/laurel/pkg/projection"
	"github.com/laurel-etl/laurel/pkg/provenance"
	"github.com/laurel-etl/laurel/pkg/sources"
)

// Reconciler is the main interface for reconciling records from multiple sources.
type Reconciler interface {
	// Reconcile folds the batches in pass order and returns the normalized
	// customers. Each call is an independent pass.
	Reconcile(ctx context.Context, batches []Batch) (*Result, error)
}

// Batch is everything one source produced in a pass.
type Batch struct {
	Source  sources.ID
	Records []sources.RawRecord
	// Err is the read failure that emptied this batch, if any.
	Err error
}

type reconciler struct {
	notes    NotesPolicy
	tracking bool
}

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &reconciler{
		notes:    options.notes,
		tracking: options.tracking,
	}, nil
}

// passContext holds the state of one reconciliation pass.
type passContext struct {
	set     *Set
	tracker provenance.Tracker
	result  *Result
	logger  *zerolog.Logger
}

// Reconcile performs one pass with a clean step-by-step flow.
func (r *reconciler) Reconcile(ctx context.Context, batches []Batch) (*Result, error) {
	// Step 1: Initialize pass state
	pc := &passContext{
		set:     NewSet(),
		tracker: provenance.NewTracker(r.tracking),
		result:  NewResult(),
		logger:  logging.FromContext(ctx),
	}
	pc.result.Metadata.NotesPolicy = r.notes
	pc.result.Metadata.Provenance = r.tracking

	// Step 2: Fold batches in pass order
	for _, batch := range sortBatches(batches) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pc.result.Sources = append(pc.result.Sources, r.fold(pc, batch))
		pc.result.Metadata.Sources = append(pc.result.Metadata.Sources, batch.Source)
	}

	// Step 3: Normalize accumulated records
	pc.set.Each(func(key identity.Key, rec fields.Record) {
		c := customer.Normalize(rec)
		c.Key = key.String()
		pc.result.Customers = append(pc.result.Customers, c)
	})

	// Step 4: Validate and finalize
	pc.result.Warnings = append(pc.result.Warnings, validate(pc.result)...)
	pc.result.Provenance = pc.tracker.Map()
	pc.result.Finalize()

	pc.logger.Info().
		Int("customers", len(pc.result.Customers)).
		Int("records_read", pc.result.Metadata.Stats.RecordsRead).
		Int("records_dropped", pc.result.Metadata.Stats.RecordsDropped).
		Int("values_ignored", pc.result.Metadata.Stats.ValuesIgnored).
		Dur("duration", pc.result.Metadata.Duration).
		Msg("Reconciled customer records")

	return pc.result, nil
}

// fold merges every record of one batch into the pass state.
func (r *reconciler) fold(pc *passContext, batch Batch) SourceStats {
	stats := SourceStats{Source: batch.Source, Err: batch.Err}
	if batch.Err != nil {
		stats.Error = batch.Err.Error()
		pc.result.Metadata.Stats.SourcesFailed++
	}

	kind := batch.Source.Kind()
	if kind == sources.Unknown {
		pc.result.Warnings = append(pc.result.Warnings, "unknown source "+batch.Source.String()+" contributed no fields")
	}

	for _, raw := range batch.Records {
		stats.Read++
		if kind == sources.Text {
			r.keepNote(pc, raw, &stats)
			continue
		}

		key, ok := projection.Identity(kind, raw)
		if !ok {
			stats.Dropped++
			continue
		}
		rec := projection.Project(kind, raw)

		ch, created := pc.set.Fold(key, rec)
		stats.Merged++
		if created {
			pc.result.Metadata.Stats.CustomersCreated++
		}
		r.track(pc, batch.Source, key, rec, ch)
	}

	s := &pc.result.Metadata.Stats
	s.RecordsRead += stats.Read
	s.RecordsMerged += stats.Merged
	s.RecordsDropped += stats.Dropped

	if stats.Dropped > 0 {
		pc.logger.Debug().
			Str("source", batch.Source.String()).
			Int("dropped", stats.Dropped).
			Msg("Dropped records without a first and last name")
	}
	return stats
}

func (r *reconciler) keepNote(pc *passContext, raw sources.RawRecord, stats *SourceStats) {
	line, ok := raw.Lookup(sources.NotesKey)
	if !ok {
		return
	}
	stats.Notes++
	if r.notes == NotesUnattached {
		pc.result.Notes = append(pc.result.Notes, line)
		pc.result.Metadata.Stats.NotesKept++
	}
}

func (r *reconciler) track(pc *passContext, src sources.ID, key identity.Key, rec fields.Record, ch Changes) {
	s := &pc.result.Metadata.Stats
	s.FieldsSet += len(ch.Applied)
	s.ValuesIgnored += len(ch.Ignored)
	if !r.tracking {
		return
	}

	now := time.Now()
	for _, f := range ch.Applied {
		pc.tracker.Track(key.String(), f.String(), provenance.Provenance{
			Source:    src,
			Value:     rec.Get(f).String(),
			Event:     provenance.EventSet,
			Timestamp: now,
			Reason:    "first informative value",
		})
	}
	for _, f := range ch.Ignored {
		pc.tracker.Track(key.String(), f.String(), provenance.Provenance{
			Source:    src,
			Value:     rec.Get(f).String(),
			Event:     provenance.EventIgnored,
			Timestamp: now,
			Reason:    "field already set by an earlier source",
		})
	}
}
