package output_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laurel-etl/laurel/internal/cmd/output"
	"github.com/laurel-etl/laurel/pkg/customer"
	"github.com/laurel-etl/laurel/pkg/errors"
	"github.com/laurel-etl/laurel/pkg/fields"
	"github.com/laurel-etl/laurel/pkg/reconciler"
	"github.com/laurel-etl/laurel/pkg/sources"
)

func sampleResult() *reconciler.Result {
	r := reconciler.NewResult()
	r.Customers = []customer.Customer{
		customer.Normalize(fields.NewRecord(map[fields.Field]string{
			fields.FirstName: "John", fields.LastName: "Doe", fields.Age: "30",
		})),
	}
	r.Sources = []reconciler.SourceStats{
		{Source: sources.CSVID, Read: 2, Merged: 1, Dropped: 1},
		{Source: sources.XMLID, Error: "source xml unavailable"},
	}
	r.Notes = []string{"called twice"}
	r.Metadata.Stats.RecordsRead = 2
	r.Metadata.Stats.RecordsDropped = 1
	return r
}

func TestHeader(t *testing.T) {
	assert.Equal(t, "First Name", output.Header("firstName"))
	assert.Equal(t, "Vehicle Make", output.Header("vehicle_make"))
	assert.Equal(t, "Iban", output.Header("iban"))
}

func TestCustomersTable(t *testing.T) {
	r := sampleResult()

	narrow := output.CustomersTable(r.Customers, false)
	assert.Equal(t, []string{"#", "First Name", "Last Name", "Age", "Sex", "Address City", "Company"}, narrow.Headers)
	require.Len(t, narrow.Rows, 1)
	assert.Equal(t, []string{"1", "John", "Doe", "30", fields.Unknown, fields.Unknown, fields.Unknown}, narrow.Rows[0])

	wide := output.CustomersTable(r.Customers, true)
	assert.Len(t, wide.Headers, fields.Count+1)
}

func TestWriteResultTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.WriteResult(&buf, sampleResult(), output.FormatTable))
	out := buf.String()
	assert.Contains(t, out, "John")
	assert.Contains(t, out, "source xml unavailable")
	assert.Contains(t, out, "1 unattached notes")
	assert.Contains(t, out, "Reconciled 1 customers")
}

func TestWriteResultJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.WriteResult(&buf, sampleResult(), output.FormatJSON))

	var decoded struct {
		Customers []customer.Customer `json:"customers"`
		Notes     []string            `json:"notes"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Customers, 1)
	assert.Equal(t, "Doe", decoded.Customers[0].LastName)
	assert.Equal(t, []string{"called twice"}, decoded.Notes)
}

func TestWriteResultYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.WriteResult(&buf, sampleResult(), output.FormatYAML))
	assert.Contains(t, buf.String(), "firstName: John")
}

func TestParseFormat(t *testing.T) {
	f, err := output.ParseFormat("YAML")
	require.NoError(t, err)
	assert.Equal(t, output.FormatYAML, f)

	_, err = output.ParseFormat("xml")
	assert.True(t, errors.IsValidationError(err))

	assert.Equal(t, output.FormatJSON, output.DetectFormat("json"))
}

func TestTableFormatterFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.NewFormatter(output.FormatTable).Format(&buf, map[string]int{"written": 2}))
	assert.JSONEq(t, `{"written": 2}`, buf.String())

	assert.True(t, output.FormatWide.IsTable())
	assert.False(t, output.FormatYAML.IsTable())
}
