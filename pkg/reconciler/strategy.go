package reconciler

import (
	"slices"

	"github.com/laurel-etl/laurel/pkg/sources"
)

// NotesPolicy decides what happens to lines read from the free-text source.
// Lines are never merged into a customer's notes field: the text carries no
// identity to match on.
type NotesPolicy string

const (
	// NotesUnattached keeps the lines on the result as a separate log.
	NotesUnattached NotesPolicy = "unattached"
	// NotesDrop discards the lines after counting them.
	NotesDrop NotesPolicy = "drop"
)

// NotesPolicies returns all supported policies.
func NotesPolicies() []NotesPolicy {
	return []NotesPolicy{NotesUnattached, NotesDrop}
}

// IsValid returns true if p is a supported policy.
func (p NotesPolicy) IsValid() bool {
	return slices.Contains(NotesPolicies(), p)
}

// String returns the policy name.
func (p NotesPolicy) String() string {
	return string(p)
}

// passRank returns the position of id in the fixed pass order. Unknown
// sources sort last.
func passRank(id sources.ID) int {
	if i := slices.Index(sources.IDs(), id); i >= 0 {
		return i
	}
	return len(sources.IDs())
}

// sortBatches orders batches by pass order, keeping the given order among
// batches of the same source.
func sortBatches(batches []Batch) []Batch {
	sorted := slices.Clone(batches)
	slices.SortStableFunc(sorted, func(a, b Batch) int {
		return passRank(a.Source) - passRank(b.Source)
	})
	return sorted
}
