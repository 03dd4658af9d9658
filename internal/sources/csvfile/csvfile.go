// Package csvfile reads customer rows from a CSV file with a header row.
package csvfile

import (
	"context"
	"encoding/csv"
	stderrors "errors"
	"io"

	"github.com/laurel-etl/laurel/pkg/errors"
	"github.com/laurel-etl/laurel/pkg/sources"
)

func init() {
	sources.Register(sources.CSVID, func(path string) sources.Source { return New(path) })
}

// Source reads a header-keyed CSV file.
type Source struct {
	path string
}

// New creates a CSV source for path.
func New(path string) *Source {
	return &Source{path: path}
}

// ID returns sources.CSVID.
func (s *Source) ID() sources.ID { return sources.CSVID }

// Path returns the file path.
func (s *Source) Path() string { return s.path }

// Read returns one record per data row keyed by the header. Cells past the
// end of a short row are absent and cells past the header are ignored.
// Quoting is lenient; text that is not UTF-8 makes the file malformed.
func (s *Source) Read(ctx context.Context) ([]sources.RawRecord, error) {
	f, err := sources.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = true

	header, err := r.Read()
	if err == io.EOF {
		return []sources.RawRecord{}, nil
	}
	if err != nil {
		return nil, s.parseError(err)
	}
	header = append([]string(nil), header...)
	if err := sources.ValidUTF8("csv", s.path, header...); err != nil {
		return nil, err
	}

	records := []sources.RawRecord{}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, s.parseError(err)
		}
		if err := sources.ValidUTF8("csv", s.path, row...); err != nil {
			return nil, err
		}

		rec := make(sources.RawRecord, len(header))
		for i, key := range header {
			if i < len(row) {
				rec.Put(key, row[i])
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *Source) parseError(err error) error {
	perr := errors.NewParseError("csv", s.path, err.Error(), err)
	var csvErr *csv.ParseError
	if stderrors.As(err, &csvErr) {
		perr.Line = csvErr.Line
		perr.Column = csvErr.Column
		perr.Message = csvErr.Err.Error()
	}
	return perr
}
