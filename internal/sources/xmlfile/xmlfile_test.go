package xmlfile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/laurel-etl/laurel/internal/sources/xmlfile"
	pkgerrors "github.com/laurel-etl/laurel/pkg/errors"
	"github.com/laurel-etl/laurel/pkg/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "user_data.xml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRead(t *testing.T) {
	path := writeFile(t, `<?xml version="1.0" encoding="UTF-8"?>
<users>
  <user firstName="Ann" lastName=" Lee " salary="50000" pension="" retired="False"/>
  <user firstName="Bob" lastName="Smith" marital_status="single">
    <note>ignored child</note>
    <user firstName="Nested" lastName="Ignored"/>
  </user>
  <customer firstName="Not" lastName="A User"/>
</users>`)

	src := xmlfile.New(path)
	assert.Equal(t, sources.XMLID, src.ID())

	records, err := src.Read(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, sources.RawRecord{
		"firstName": "Ann", "lastName": "Lee", "salary": "50000", "retired": "False",
	}, records[0])
	assert.Equal(t, sources.RawRecord{
		"firstName": "Bob", "lastName": "Smith", "marital_status": "single",
	}, records[1])
}

func TestReadEmptyRoot(t *testing.T) {
	records, err := xmlfile.New(writeFile(t, `<users/>`)).Read(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReadMalformed(t *testing.T) {
	tests := map[string]string{
		"unclosed":    `<users><user firstName="Ann">`,
		"mismatched":  `<users><user firstName="Ann"></users>`,
		"empty":       ``,
		"two roots":   `<users/><users/>`,
		"bad attr":    `<users><user firstName=Ann/></users>`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := xmlfile.New(writeFile(t, content)).Read(context.Background())
			require.Error(t, err)
			assert.Equal(t, pkgerrors.SourceMalformed, pkgerrors.ClassifySource(err))
		})
	}
}

func TestReadMissingFile(t *testing.T) {
	_, err := xmlfile.New(filepath.Join(t.TempDir(), "nope.xml")).Read(context.Background())
	assert.Equal(t, pkgerrors.SourceUnavailable, pkgerrors.ClassifySource(err))
}

func TestReadDeclaredEncodings(t *testing.T) {
	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(
		`<?xml version="1.0" encoding="UTF-16"?><users><user firstName="Zoé" lastName="Lee"/></users>`)
	require.NoError(t, err)

	tests := []struct {
		name    string
		content string
		first   string
	}{
		{"us-ascii", `<?xml version="1.0" encoding="us-ascii"?><users><user firstName="Ann" lastName="Lee"/></users>`, "Ann"},
		{"latin-1", "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><users><user firstName=\"Zo\xe9\" lastName=\"Lee\"/></users>", "Zoé"},
		{"windows-1252", "<?xml version=\"1.0\" encoding=\"windows-1252\"?><users><user firstName=\"Zo\xe9\" lastName=\"Lee\"/></users>", "Zoé"},
		{"utf-16 with bom", utf16, "Zoé"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := xmlfile.New(writeFile(t, tt.content)).Read(context.Background())
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, tt.first, records[0]["firstName"])
			assert.Equal(t, "Lee", records[0]["lastName"])
		})
	}
}

func TestReadUnknownEncoding(t *testing.T) {
	path := writeFile(t, `<?xml version="1.0" encoding="x-klingon"?><users/>`)
	_, err := xmlfile.New(path).Read(context.Background())
	assert.Equal(t, pkgerrors.SourceMalformed, pkgerrors.ClassifySource(err))
}
