package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/laurel-etl/laurel/pkg/customer"
	"github.com/laurel-etl/laurel/pkg/fields"
	"github.com/laurel-etl/laurel/pkg/reconciler"
)

// summaryFields are the customer columns shown in a narrow table.
var summaryFields = []fields.Field{
	fields.FirstName,
	fields.LastName,
	fields.Age,
	fields.Sex,
	fields.AddressCity,
	fields.Company,
}

// Header turns a column name such as "vehicle_make" or "firstName" into
// "Vehicle Make" / "First Name".
func Header(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case r == '_':
			b.WriteRune(' ')
		case i > 0 && unicode.IsUpper(r):
			b.WriteRune(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return cases.Title(language.English).String(b.String())
}

// CustomersTable lays customers out one per row. wide selects every field.
func CustomersTable(customers []customer.Customer, wide bool) Data {
	cols := summaryFields
	if wide {
		cols = fields.All()
	}

	headers := make([]string, 0, len(cols)+1)
	headers = append(headers, "#")
	for _, f := range cols {
		headers = append(headers, Header(f.String()))
	}

	rows := make([][]string, 0, len(customers))
	for i := range customers {
		row := make([]string, 0, len(cols)+1)
		row = append(row, strconv.Itoa(i+1))
		for _, f := range cols {
			row = append(row, customers[i].Get(f))
		}
		rows = append(rows, row)
	}

	align := make([]Align, len(headers))
	align[0] = AlignRight
	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// SourcesTable lays out per-source statistics.
func SourcesTable(stats []reconciler.SourceStats) Data {
	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		status := "ok"
		if s.Error != "" {
			status = s.Error
		}
		rows = append(rows, []string{
			s.Source.String(),
			strconv.Itoa(s.Read),
			strconv.Itoa(s.Merged),
			strconv.Itoa(s.Dropped),
			strconv.Itoa(s.Notes),
			status,
		})
	}
	return Data{
		Headers:         []string{"Source", "Read", "Merged", "Dropped", "Notes", "Status"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignLeft},
	}
}

// WriteResult renders a pass result. Tables show the customers followed by
// the source statistics; JSON and YAML emit the whole result.
func WriteResult(w io.Writer, result *reconciler.Result, format Format) error {
	if !format.IsTable() {
		return NewFormatter(format).Format(w, result)
	}

	table := TableFormatter{}
	if err := table.Format(w, CustomersTable(result.Customers, format == FormatWide)); err != nil {
		return err
	}
	fmt.Fprintln(w)
	if err := table.Format(w, SourcesTable(result.Sources)); err != nil {
		return err
	}
	if len(result.Notes) > 0 {
		fmt.Fprintf(w, "\n%d unattached notes\n", len(result.Notes))
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	fmt.Fprintln(w, result.Summary())
	return nil
}
