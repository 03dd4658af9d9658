package reconciler

import (
	"github.com/laurel-etl/laurel/pkg/fields"
	"github.com/laurel-etl/laurel/pkg/identity"
)

// Set accumulates one merged record per identity key. It remembers the
// order in which keys were first seen. A Set belongs to a single pass and
// is not safe for concurrent use.
type Set struct {
	index   map[identity.Key]int
	keys    []identity.Key
	records []fields.Record
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{index: make(map[identity.Key]int)}
}

// Fold merges rec into the record held for key, creating it on first
// sight. It reports the merge changes and whether the key was new.
func (s *Set) Fold(key identity.Key, rec fields.Record) (Changes, bool) {
	i, ok := s.index[key]
	if !ok {
		i = len(s.records)
		s.index[key] = i
		s.keys = append(s.keys, key)
		s.records = append(s.records, fields.Record{})
	}
	merged, ch := Merge(s.records[i], rec)
	s.records[i] = merged
	return ch, !ok
}

// Get returns the record held for key.
func (s *Set) Get(key identity.Key) (fields.Record, bool) {
	i, ok := s.index[key]
	if !ok {
		return fields.Record{}, false
	}
	return s.records[i], true
}

// Len returns the number of distinct keys.
func (s *Set) Len() int {
	return len(s.keys)
}

// Each calls fn for every key in first-seen order.
func (s *Set) Each(fn func(identity.Key, fields.Record)) {
	for i, key := range s.keys {
		fn(key, s.records[i])
	}
}
