package reconciler

import (
	"github.com/laurel-etl/laurel/pkg/fields"
)

// Changes reports what a merge did to an accumulated record.
type Changes struct {
	// Applied lists fields that were unset and took the incoming value.
	Applied []fields.Field
	// Ignored lists fields whose incoming value differed from the kept one.
	Ignored []fields.Field
}

// Empty reports whether the merge changed nothing.
func (c Changes) Empty() bool {
	return len(c.Applied) == 0
}

// Merge folds incoming into acc and returns the result. A field is copied
// only when acc has no information for it and incoming does; a value that
// is already set is never overwritten. Unset incoming fields are skipped.
//
// Merging the same incoming record twice changes nothing the second time.
func Merge(acc, incoming fields.Record) (fields.Record, Changes) {
	var ch Changes
	incoming.Each(func(f fields.Field, v fields.Value) {
		cur := acc.Get(f)
		switch {
		case !cur.IsSet():
			acc.Set(f, v)
			ch.Applied = append(ch.Applied, f)
		case !cur.Equal(v):
			ch.Ignored = append(ch.Ignored, f)
		}
	})
	return acc, ch
}
