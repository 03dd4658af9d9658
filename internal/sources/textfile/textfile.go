// Package textfile reads free-text notes, one per non-blank line.
package textfile

import (
	"context"
	"io"
	"strings"

	"github.com/laurel-etl/laurel/pkg/errors"
	"github.com/laurel-etl/laurel/pkg/sources"
)

func init() {
	sources.Register(sources.TextID, func(path string) sources.Source { return New(path) })
}

// Source reads a plain text file.
type Source struct {
	path string
}

// New creates a text source for path.
func New(path string) *Source {
	return &Source{path: path}
}

// ID returns sources.TextID.
func (s *Source) ID() sources.ID { return sources.TextID }

// Path returns the file path.
func (s *Source) Path() string { return s.path }

// Read returns one record per non-blank line, stored under
// sources.NotesKey. CRLF and lone CR both end a line.
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
	content := string(data)
	if err := sources.ValidUTF8("txt", s.path, content); err != nil {
		return nil, err
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	records := []sources.RawRecord{}
	for _, line := range strings.Split(content, "\n") {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec := sources.RawRecord{}
		rec.Put(sources.NotesKey, line)
		if len(rec) > 0 {
			records = append(records, rec)
		}
	}
	return records, nil
}
