package reconciler

import (
	"fmt"
	"time"

	"github.com/laurel-etl/laurel/pkg/customer"
	"github.com/laurel-etl/laurel/pkg/provenance"
	"github.com/laurel-etl/laurel/pkg/sources"
)

// Result represents the outcome of a reconciliation pass.
type Result struct {
	// Customers in the order their identity was first seen
	Customers []customer.Customer `json:"customers" yaml:"customers"`

	// Notes are free-text lines kept under NotesUnattached
	Notes []string `json:"notes,omitempty" yaml:"notes,omitempty"`

	// Sources holds per-source statistics in pass order
	Sources []SourceStats `json:"sources" yaml:"sources"`

	Metadata   ResultMetadata `json:"metadata" yaml:"metadata"`
	Provenance provenance.Map `json:"provenance,omitempty" yaml:"provenance,omitempty"`
	Warnings   []string       `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// SourceStats describes what one source contributed.
type SourceStats struct {
	Source  sources.ID `json:"source" yaml:"source"`
	Read    int        `json:"read" yaml:"read"`
	Merged  int        `json:"merged" yaml:"merged"`
	Dropped int        `json:"dropped" yaml:"dropped"`
	Notes   int        `json:"notes" yaml:"notes"`
	Error   string     `json:"error,omitempty" yaml:"error,omitempty"`
	Err     error      `json:"-" yaml:"-"`
}

// ResultMetadata contains metadata about the reconciliation pass.
type ResultMetadata struct {
	StartTime   time.Time     `json:"start_time" yaml:"start_time"`
	EndTime     time.Time     `json:"end_time" yaml:"end_time"`
	Duration    time.Duration `json:"duration" yaml:"duration"`
	Sources     []sources.ID  `json:"sources" yaml:"sources"`
	NotesPolicy NotesPolicy   `json:"notes_policy" yaml:"notes_policy"`
	Provenance  bool          `json:"provenance" yaml:"provenance"`

	// Sink, Written and DryRun describe the write that followed the pass.
	Sink    string `json:"sink,omitempty" yaml:"sink,omitempty"`
	Written int    `json:"written" yaml:"written"`
	DryRun  bool   `json:"dry_run" yaml:"dry_run"`

	Stats ResultStatistics `json:"stats" yaml:"stats"`
}

// ResultStatistics contains statistics about the reconciliation.
type ResultStatistics struct {
	RecordsRead      int   `json:"records_read" yaml:"records_read"`
	RecordsMerged    int   `json:"records_merged" yaml:"records_merged"`
	RecordsDropped   int   `json:"records_dropped" yaml:"records_dropped"`
	CustomersCreated int   `json:"customers_created" yaml:"customers_created"`
	FieldsSet        int   `json:"fields_set" yaml:"fields_set"`
	ValuesIgnored    int   `json:"values_ignored" yaml:"values_ignored"`
	NotesKept        int   `json:"notes_kept" yaml:"notes_kept"`
	SourcesFailed    int   `json:"sources_failed" yaml:"sources_failed"`
	TotalTimeMs      int64 `json:"total_time_ms" yaml:"total_time_ms"`
}

// NewResult creates a new result with defaults.
func NewResult() *Result {
	return &Result{
		Customers: []customer.Customer{},
		Sources:   []SourceStats{},
		Metadata: ResultMetadata{
			StartTime: time.Now(),
			Sources:   []sources.ID{},
		},
	}
}

// Source returns the statistics recorded for id.
func (r *Result) Source(id sources.ID) (SourceStats, bool) {
	for _, s := range r.Sources {
		if s.Source == id {
			return s, true
		}
	}
	return SourceStats{}, false
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	s := r.Metadata.Stats
	summary := fmt.Sprintf("Reconciled %d customers from %d records (%d dropped without identity)",
		len(r.Customers), s.RecordsRead, s.RecordsDropped)
	if s.SourcesFailed > 0 {
		summary += fmt.Sprintf(", %d sources failed", s.SourcesFailed)
	}
	return summary
}

// Finalize calculates duration and marks completion.
func (r *Result) Finalize() {
	r.Metadata.EndTime = time.Now()
	r.Metadata.Duration = r.Metadata.EndTime.Sub(r.Metadata.StartTime)
	r.Metadata.Stats.TotalTimeMs = r.Metadata.Duration.Milliseconds()
}
