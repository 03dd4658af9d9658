package laurel_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laurel-etl/laurel"
	insources "github.com/laurel-etl/laurel/internal/sources"
	"github.com/laurel-etl/laurel/pkg/errors"
	"github.com/laurel-etl/laurel/pkg/fields"
	"github.com/laurel-etl/laurel/pkg/logging"
	"github.com/laurel-etl/laurel/pkg/reconciler"
	"github.com/laurel-etl/laurel/pkg/sink"
	"github.com/laurel-etl/laurel/pkg/sources"
)

const (
	csvData = "First Name,Second Name,Age,Sex,Vehicle Make\n" +
		"John,Doe,30,Male,Ford\n" +
		"Ann,,41,Female,Kia\n"
	jsonData = `[
  {"firstName": "john", "lastName": "DOE", "age": 31, "iban": "GB00"},
  {"firstName": "Mary", "lastName": "Major", "credit_card_number": "4111"}
]`
	xmlData = `<users>
  <user firstName="John" lastName="Doe" company="Acme" sex="M" retired="False"/>
  <user firstName="Mary" lastName="Major" age="N/A" salary="30000"/>
</users>`
	txtData = "Called about a refund.\r\n\r\n  Prefers email  \n"
)

func writeInputs(t *testing.T, files map[sources.ID]string) map[sources.ID]string {
	t.Helper()
	dir := t.TempDir()
	paths := make(map[sources.ID]string, len(files))
	for id, content := range files {
		path := filepath.Join(dir, "user_data."+id.String())
		if content != "" {
			require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		}
		paths[id] = path
	}
	return paths
}

func newPipeline(t *testing.T, files map[sources.ID]string, opts ...laurel.Option) (*laurel.Pipeline, *sink.MemorySink) {
	t.Helper()
	inputs, err := insources.Build(writeInputs(t, files))
	require.NoError(t, err)

	mem := sink.NewMemory()
	opts = append([]laurel.Option{
		laurel.WithInputs(inputs),
		laurel.WithSink(mem),
		laurel.WithLogger(logging.NewNopLogger()),
	}, opts...)
	p, err := laurel.New(opts...)
	require.NoError(t, err)
	return p, mem
}

func allInputs() map[sources.ID]string {
	return map[sources.ID]string{
		sources.CSVID:  csvData,
		sources.JSONID: jsonData,
		sources.XMLID:  xmlData,
		sources.TextID: txtData,
	}
}

func TestRunReconcilesAllSources(t *testing.T) {
	p, mem := newPipeline(t, allInputs())

	var completed *laurel.Result
	p.OnPassCompleted(func(r *laurel.Result) { completed = r })

	result, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Same(t, result, completed)

	require.Len(t, result.Customers, 2)
	john := result.Customers[0]
	assert.Equal(t, "john_doe", john.Key)
	assert.Equal(t, "John", john.FirstName)
	assert.Equal(t, "30", john.Age, "csv is folded before json")
	assert.Equal(t, "Male", john.Sex, "csv is folded before xml")
	assert.Equal(t, "GB00", john.IBAN)
	assert.Equal(t, "Acme", john.Company)
	assert.Equal(t, fields.Unknown, john.Notes)

	mary := result.Customers[1]
	assert.Equal(t, "mary_major", mary.Key)
	assert.Equal(t, fields.Unknown, mary.Age)
	assert.Equal(t, "30000", mary.Salary)

	assert.Equal(t, []string{"Called about a refund.", "Prefers email"}, result.Notes)

	csvStats, ok := result.Source(sources.CSVID)
	require.True(t, ok)
	assert.Equal(t, 2, csvStats.Read)
	assert.Equal(t, 1, csvStats.Dropped)

	assert.Equal(t, 1, mem.Writes())
	assert.Len(t, mem.Customers(), 2)
	assert.Equal(t, 2, result.Metadata.Written)
	assert.Equal(t, "memory", result.Metadata.Sink)
}

func TestRunRepeatedReplacesSink(t *testing.T) {
	p, mem := newPipeline(t, allInputs())
	for i := 0; i < 3; i++ {
		_, err := p.Run(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 3, mem.Writes())
	assert.Len(t, mem.Customers(), 2)
}

func TestRunAbsorbsSourceFailures(t *testing.T) {
	files := allInputs()
	files[sources.XMLID] = ""              // missing file
	files[sources.JSONID] = `[{"firstName":` // malformed

	tl := logging.NewTestLogger(t)
	p, mem := newPipeline(t, files, laurel.WithLogger(tl.Logger))
	var failed []*errors.SourceError
	p.OnSourceFailed(func(err *errors.SourceError) { failed = append(failed, err) })

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, failed, 2)
	assert.ErrorIs(t, failed[0], errors.ErrSourceMalformed)
	assert.Equal(t, "json", failed[0].Source)
	assert.ErrorIs(t, failed[1], errors.ErrSourceUnavailable)
	assert.Equal(t, "xml", failed[1].Source)

	assert.Equal(t, 2, result.Metadata.Stats.SourcesFailed)
	require.Len(t, result.Customers, 1)
	assert.Equal(t, fields.Unknown, result.Customers[0].IBAN)
	assert.Len(t, mem.Customers(), 1)

	warnings := tl.Find("Source failed, continuing without it")
	require.Len(t, warnings, 2)
	assert.Equal(t, "warn", warnings[0].Level())
	assert.Equal(t, "malformed", warnings[0].Str("reason"))
	assert.Equal(t, "unavailable", warnings[1].Str("reason"))
	assert.NotEmpty(t, warnings[1].Str("pass_id"))
	assert.Len(t, tl.Find("Loaded source"), 2)
}

func TestRunAllSourcesMissingWritesEmptySet(t *testing.T) {
	p, mem := newPipeline(t, map[sources.ID]string{
		sources.CSVID: "",
		sources.XMLID: "",
	})
	result, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Customers)
	assert.Equal(t, 1, mem.Writes())
	assert.Empty(t, mem.Customers())
}

type panicSource struct{}

func (panicSource) ID() sources.ID { return sources.JSONID }
func (panicSource) Path() string   { return "boom.json" }
func (panicSource) Read(context.Context) ([]sources.RawRecord, error) {
	panic("adapter bug")
}

func TestRunRecoversAdapterPanic(t *testing.T) {
	inputs, err := insources.Build(writeInputs(t, map[sources.ID]string{sources.CSVID: csvData}))
	require.NoError(t, err)
	inputs.Set(panicSource{})

	p, err := laurel.New(
		laurel.WithInputs(inputs),
		laurel.WithSink(sink.NewMemory()),
		laurel.WithLogger(logging.NewNopLogger()),
	)
	require.NoError(t, err)

	result, err := p.Run(context.Background())
	require.NoError(t, err)
	stats, ok := result.Source(sources.JSONID)
	require.True(t, ok)
	assert.ErrorIs(t, stats.Err, errors.ErrSourceUnexpected)
	assert.Len(t, result.Customers, 1)
}

func TestRunSinkFailureIsFatal(t *testing.T) {
	p, mem := newPipeline(t, allInputs())
	mem.FailWith(errors.New("connection refused"))

	completed := false
	p.OnPassCompleted(func(*laurel.Result) { completed = true })

	result, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, errors.ErrSinkFailed)
	assert.False(t, completed)
}

func TestRunDryRun(t *testing.T) {
	p, mem := newPipeline(t, allInputs(), laurel.WithDryRun(true))
	result, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Metadata.DryRun)
	assert.Len(t, result.Customers, 2)
	assert.Zero(t, mem.Writes())
}

func TestRunOptions(t *testing.T) {
	p, _ := newPipeline(t, allInputs(),
		laurel.WithNotesPolicy(reconciler.NotesDrop),
		laurel.WithProvenance(true),
	)
	result, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Notes)
	assert.NotEmpty(t, result.Provenance)
}

func TestRunCanceled(t *testing.T) {
	p, mem := newPipeline(t, allInputs())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, mem.Writes())
}

func TestNewValidation(t *testing.T) {
	_, err := laurel.New()
	require.Error(t, err)

	_, err = laurel.New(laurel.WithDryRun(true))
	require.NoError(t, err)

	_, err = laurel.New(laurel.WithDryRun(true), laurel.WithNotesPolicy("attach"))
	assert.True(t, errors.IsValidationError(err))

	_, err = laurel.New(laurel.WithInputs(nil))
	assert.True(t, errors.IsValidationError(err))
}
