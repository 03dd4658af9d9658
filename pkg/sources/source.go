// Package sources defines the contract between the reconciliation pass
// and the adapters that read customer records from files.
//
// An adapter turns one input into flat RawRecords. Keys and values are
// trimmed and empty values are omitted, so absence is the only way a
// source says "no information" for a key.
//
// Example usage:
//
//	set := sources.NewSources()
//	set.Set(csvfile.New("data_cetm50/user_data.csv"))
//	for _, src := range set.List() { // pass order: csv, json, xml, txt
//	    records, err := src.Read(ctx)
//	    ...
//	}
package sources

import (
	"context"
	"slices"
	"sync"
)

// ID represents the identifier of an input source.
type ID string

// String returns the string representation of a source ID.
func (id ID) String() string {
	return string(id)
}

// Source identifiers, one per supported input shape.
const (
	CSVID  ID = "csv"
	JSONID ID = "json"
	XMLID  ID = "xml"
	TextID ID = "txt"
)

// IDs returns all source IDs in the fixed pass order. Earlier sources win
// when two sources disagree on a field.
func IDs() []ID {
	return []ID{
		CSVID,
		JSONID,
		XMLID,
		TextID,
	}
}

// IsValid returns true if the ID is one of the defined constants.
func (id ID) IsValid() bool {
	return slices.Contains(IDs(), id)
}

// Kind returns the record shape produced by the source.
func (id ID) Kind() Kind {
	switch id {
	case CSVID:
		return Tabular
	case JSONID:
		return Object
	case XMLID:
		return Tree
	case TextID:
		return Text
	default:
		return Unknown
	}
}

// Kind is the shape of the records a source produces.
type Kind int

// Source kinds.
const (
	Unknown Kind = iota
	Tabular
	Object
	Tree
	Text
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Tabular:
		return "tabular"
	case Object:
		return "object"
	case Tree:
		return "tree"
	case Text:
		return "text"
	default:
		return "unknown"
	}
}

// Source reads the records of one input.
type Source interface {
	// ID returns the identifier of this source
	ID() ID

	// Path returns the location the source reads from
	Path() string

	// Read returns every record of the input. A missing input, a parse
	// failure, or any other problem is reported as an error and the
	// caller treats the source as empty.
	Read(ctx context.Context) ([]RawRecord, error)
}

// Sources is a thread-safe container of at most one source per ID.
type Sources struct {
	mu      sync.RWMutex
	sources map[ID]Source
}

// NewSources creates a new Sources instance.
func NewSources(srcs ...Source) *Sources {
	s := &Sources{
		sources: make(map[ID]Source),
	}
	for _, src := range srcs {
		s.Set(src)
	}
	return s
}

// Get returns a source by ID.
func (s *Sources) Get(id ID) (Source, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src, found := s.sources[id]
	return src, found
}

// Set registers src under its ID, replacing any previous source.
func (s *Sources) Set(src Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[src.ID()] = src
}

// Delete deletes a source by ID.
func (s *Sources) Delete(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sources, id)
}

// Len returns the number of sources.
func (s *Sources) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sources)
}

// List returns the registered sources in pass order.
func (s *Sources) List() []Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]Source, 0, len(s.sources))
	for _, id := range IDs() {
		if src, ok := s.sources[id]; ok {
			list = append(list, src)
		}
	}
	return list
}
