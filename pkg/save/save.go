package save

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/laurel-etl/laurel/pkg/constants"
	"github.com/laurel-etl/laurel/pkg/errors"
)

// Encode renders v in format f.
func Encode(v any, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return nil, errors.WrapParse("json", "", err)
		}
		return buf.Bytes(), nil
	case FormatYAML:
		data, err := yaml.MarshalWithOptions(v, yaml.Indent(2), yaml.IndentSequence(false))
		if err != nil {
			return nil, errors.WrapParse("yaml", "", err)
		}
		return data, nil
	default:
		return nil, errors.NewValidationError("format", f, "unsupported format")
	}
}

// Write encodes v and writes it to the configured writer, or to the
// configured path. A path is replaced atomically: the data goes to a
// temporary file in the same directory which is then renamed over it.
func Write(v any, opts ...Option) error {
	o := newOptions(opts...)
	if !o.format.IsValid() {
		return errors.NewValidationError("format", o.format, "unsupported format")
	}

	data, err := Encode(v, o.format)
	if err != nil {
		return err
	}

	if o.writer != nil {
		_, err := o.writer.Write(data)
		return errors.WrapIO("write", "", err)
	}
	if o.path == "" {
		return errors.NewValidationError("path", "", "either a path or a writer is required")
	}
	return writeAtomic(o.path, data)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.WrapIO("create", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // gone after a successful rename

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		tmp.Close() //nolint:errcheck
		return errors.WrapIO("write", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapIO("close", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.WrapIO("rename", path, err)
	}
	return nil
}
