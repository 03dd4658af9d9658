package textfile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/laurel-etl/laurel/internal/sources/textfile"
	pkgerrors "github.com/laurel-etl/laurel/pkg/errors"
	"github.com/laurel-etl/laurel/pkg/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "user_data.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRead(t *testing.T) {
	src := textfile.New(writeFile(t, "  first note \r\nsecond\rthird\n\n   \nfourth"))
	assert.Equal(t, sources.TextID, src.ID())

	records, err := src.Read(context.Background())
	require.NoError(t, err)

	var lines []string
	for _, r := range records {
		lines = append(lines, r[sources.NotesKey])
	}
	assert.Equal(t, []string{"first note", "second", "third", "fourth"}, lines)
}

func TestReadEmpty(t *testing.T) {
	records, err := textfile.New(writeFile(t, "\n \r\n")).Read(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReadErrors(t *testing.T) {
	_, err := textfile.New(filepath.Join(t.TempDir(), "nope.txt")).Read(context.Background())
	assert.Equal(t, pkgerrors.SourceUnavailable, pkgerrors.ClassifySource(err))

	_, err = textfile.New(writeFile(t, "bad \xfe byte")).Read(context.Background())
	assert.Equal(t, pkgerrors.SourceMalformed, pkgerrors.ClassifySource(err))
}
