// Package filesink writes customers to a JSON or YAML document.
package filesink

import (
	"context"

	"github.com/laurel-etl/laurel/pkg/customer"
	"github.com/laurel-etl/laurel/pkg/errors"
	"github.com/laurel-etl/laurel/pkg/save"
	"github.com/laurel-etl/laurel/pkg/sink"
)

// Document is the on-disk layout.
type Document struct {
	Customers []customer.Customer `json:"customers" yaml:"customers"`
}

// Sink rewrites one file on every pass. The file is replaced atomically.
type Sink struct {
	path   string
	format save.Format
}

// New returns a Sink writing to path. The driver must be sink.JSON or
// sink.YAML.
func New(driver sink.Driver, path string) (*Sink, error) {
	if path == "" {
		return nil, errors.NewValidationError("db_path", path, "required for file sinks")
	}
	format, err := save.ParseFormat(driver.String())
	if err != nil {
		return nil, err
	}
	return &Sink{path: path, format: format}, nil
}

// Driver returns sink.JSON or sink.YAML.
func (s *Sink) Driver() sink.Driver {
	if s.format == save.FormatYAML {
		return sink.YAML
	}
	return sink.JSON
}

// Path returns the output file.
func (s *Sink) Path() string { return s.path }

// ReplaceAll writes customers over the previous file.
func (s *Sink) ReplaceAll(ctx context.Context, customers []customer.Customer) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, errors.WrapSink(s.Driver().String(), "write", err)
	}
	doc := Document{Customers: sink.AssignIDs(customers)}
	if err := save.Write(doc, save.WithPath(s.path), save.WithFormat(s.format)); err != nil {
		return 0, errors.WrapSink(s.Driver().String(), "write", err)
	}
	return len(doc.Customers), nil
}

// Close is a no-op.
func (s *Sink) Close() error { return nil }
