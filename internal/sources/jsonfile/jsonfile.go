// Package jsonfile reads customer objects from a JSON document whose root
// is an array of objects or a single object.
package jsonfile

import (
	"context"
	"fmt"
	"io"

	"github.com/tidwall/gjson"

	"github.com/laurel-etl/laurel/pkg/errors"
	"github.com/laurel-etl/laurel/pkg/sources"
)

func init() {
	sources.Register(sources.JSONID, func(path string) sources.Source { return New(path) })
}

// Source reads a JSON array of flat objects.
type Source struct {
	path string
}

// New creates a JSON source for path.
func New(path string) *Source {
	return &Source{path: path}
}

// ID returns sources.JSONID.
func (s *Source) ID() sources.ID { return sources.JSONID }

// Path returns the file path.
func (s *Source) Path() string { return s.path }

// Read returns one record per top-level object. A root object counts as a
// one-element array. Strings are taken as-is, null is absent, and any other
// value keeps its JSON text (true, 42, {"a":1}).
func (s *Source) Read(ctx context.Context) ([]sources.RawRecord, error) {
	f, err := sources.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.WrapIO("read", s.path, err)
	}
	if !gjson.ValidBytes(data) {
		return nil, errors.NewParseError("json", s.path, "invalid JSON document", nil)
	}

	root := gjson.ParseBytes(data)
	var items []gjson.Result
	switch {
	case root.IsArray():
		items = root.Array()
	case root.IsObject():
		items = []gjson.Result{root}
	default:
		return nil, errors.NewParseError("json", s.path, fmt.Sprintf("root must be an array or object, got %s", root.Type), nil)
	}

	records := make([]sources.RawRecord, 0, len(items))
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !item.IsObject() {
			return nil, errors.NewParseError("json", s.path, fmt.Sprintf("element %d is not an object", i), nil)
		}

		rec := sources.RawRecord{}
		item.ForEach(func(key, value gjson.Result) bool {
			rec.Put(key.String(), text(value))
			return true
		})
		records = append(records, rec)
	}
	return records, nil
}

// text renders a JSON value as source text.
func text(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return v.String()
	default:
		return v.Raw
	}
}
