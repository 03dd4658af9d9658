// Package save encodes values as JSON or YAML to a writer or a file.
package save

import (
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/laurel-etl/laurel/pkg/errors"
)

// Format is an export encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats returns every supported format.
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML}
}

// IsValid reports whether f is supported.
func (f Format) IsValid() bool {
	return slices.Contains(Formats(), f)
}

// String returns the format name.
func (f Format) String() string {
	return string(f)
}

// ParseFormat parses a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	if f == "yml" {
		f = FormatYAML
	}
	if !f.IsValid() {
		return "", errors.NewValidationError("format", s, "must be json or yaml")
	}
	return f, nil
}

// FormatFromPath picks the format matching the extension of path, or
// fallback when the extension names no supported format.
func FormatFromPath(path string, fallback Format) Format {
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return fallback
	}
	return f
}

// Options configure a single Write.
type Options struct {
	path   string
	writer io.Writer
	format Format
}

// Option configures a Write.
type Option func(*Options)

func newOptions(opts ...Option) Options {
	o := Options{format: FormatJSON}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithFormat selects the encoding. JSON is the default.
func WithFormat(f Format) Option {
	return func(o *Options) {
		o.format = f
	}
}

// WithPath writes to a file, replacing it atomically.
func WithPath(path string) Option {
	return func(o *Options) {
		o.path = path
	}
}

// WithWriter writes to w instead of a file.
func WithWriter(w io.Writer) Option {
	return func(o *Options) {
		o.writer = w
	}
}
