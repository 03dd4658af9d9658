// Package output renders pass results for the terminal.
package output

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/laurel-etl/laurel/pkg/errors"
	"github.com/laurel-etl/laurel/pkg/save"
)

// Format is an output format name.
type Format string

const (
	// FormatTable shows the summary columns of each customer.
	FormatTable Format = "table"
	// FormatWide shows every customer field.
	FormatWide Format = "wide"
	// FormatJSON emits the whole result as JSON.
	FormatJSON Format = "json"
	// FormatYAML emits the whole result as YAML.
	FormatYAML Format = "yaml"
)

// IsTable reports whether f renders tables.
func (f Format) IsTable() bool {
	return f == FormatTable || f == FormatWide
}

// Align is a column alignment.
type Align int

// Alignments.
const (
	AlignDefault Align = iota
	AlignLeft
	AlignCenter
	AlignRight
)

func (a Align) tw() tw.Align {
	switch a {
	case AlignLeft:
		return tw.AlignLeft
	case AlignCenter:
		return tw.AlignCenter
	case AlignRight:
		return tw.AlignRight
	default:
		return tw.Skip
	}
}

// Formatter writes data to w.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// NewFormatter returns the formatter for format. Table formats fall back
// to JSON for anything that is not Data.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatYAML:
		return documentFormatter(save.FormatYAML)
	case FormatJSON:
		return documentFormatter(save.FormatJSON)
	default:
		return TableFormatter{}
	}
}

type documentFormatter save.Format

func (f documentFormatter) Format(w io.Writer, data any) error {
	return save.Write(data, save.WithWriter(w), save.WithFormat(save.Format(f)))
}

// Data is a table: headers, rows and optional per-column alignment.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align
}

// TableFormatter renders Data with tablewriter.
type TableFormatter struct{}

// Format implements Formatter.
func (TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case Data:
		return renderTable(w, v)
	case *Data:
		return renderTable(w, *v)
	default:
		return documentFormatter(save.FormatJSON).Format(w, data)
	}
}

func renderTable(w io.Writer, data Data) error {
	config := tablewriter.Config{}
	if len(data.ColumnAlignment) > 0 {
		align := make([]tw.Align, len(data.ColumnAlignment))
		for i, a := range data.ColumnAlignment {
			align[i] = a.tw()
		}
		config.Header.Alignment = tw.CellAlignment{PerColumn: align}
		config.Row.Alignment = tw.CellAlignment{PerColumn: align}
	}

	table := tablewriter.NewTable(w, tablewriter.WithConfig(config))
	if len(data.Headers) > 0 {
		table.Header(toAny(data.Headers)...)
	}
	for _, row := range data.Rows {
		if err := table.Append(toAny(row)...); err != nil {
			return err
		}
	}
	return table.Render()
}

func toAny(cells []string) []any {
	out := make([]any, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	return out
}

// DetectFormat returns explicit when set. Otherwise terminals get a table
// and pipes get JSON.
func DetectFormat(explicit string) Format {
	if explicit != "" {
		return Format(strings.ToLower(explicit))
	}
	fd := os.Stdout.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return FormatTable
	}
	return FormatJSON
}

// ParseFormat validates a format name. The empty name is accepted and
// means "detect".
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(s))
	switch format {
	case FormatTable, FormatJSON, FormatYAML, FormatWide, "":
		return format, nil
	default:
		return "", errors.NewValidationError("format", s, "must be one of: table, json, yaml, wide")
	}
}
