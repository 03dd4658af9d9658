package sources

import (
	"io"
	"os"
	"unicode/utf8"

	"github.com/laurel-etl/laurel/pkg/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Open opens path for reading as text. A leading UTF-8 byte order mark is
// consumed and UTF-16 input with a BOM is transcoded to UTF-8. Other input
// passes through unchanged; callers check it with ValidUTF8.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	return &decodedFile{
		Reader: transform.NewReader(f, unicode.BOMOverride(transform.Nop)),
		file:   f,
	}, nil
}

type decodedFile struct {
	io.Reader
	file *os.File
}

func (d *decodedFile) Close() error {
	return d.file.Close()
}

// ValidUTF8 returns a parse error naming format and path when s is not
// valid UTF-8.
func ValidUTF8(format, path string, s ...string) error {
	for _, v := range s {
		if !utf8.ValidString(v) {
			return errors.NewParseError(format, path, "invalid UTF-8 text", nil)
		}
	}
	return nil
}
