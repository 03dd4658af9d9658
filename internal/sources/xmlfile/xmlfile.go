// Package xmlfile reads customer attributes from <user> elements that are
// direct children of an XML document's root element.
package xmlfile

import (
	"context"
	"encoding/xml"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/ianaindex"

	"github.com/laurel-etl/laurel/pkg/errors"
	"github.com/laurel-etl/laurel/pkg/sources"
)

// recordElement is the name of the elements that carry one customer each.
const recordElement = "user"

func init() {
	sources.Register(sources.XMLID, func(path string) sources.Source { return New(path) })
}

// Source reads attribute-bearing user elements.
type Source struct {
	path string
}

// New creates an XML source for path.
func New(path string) *Source {
	return &Source{path: path}
}

// ID returns sources.XMLID.
func (s *Source) ID() sources.ID { return sources.XMLID }

// Path returns the file path.
func (s *Source) Path() string { return s.path }

// Read returns one record per <user> child of the root, built from the
// element's attributes. Child elements and text are ignored, as are user
// elements nested deeper. The whole document must be well-formed.
func (s *Source) Read(ctx context.Context) ([]sources.RawRecord, error) {
	f, err := sources.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	dec := xml.NewDecoder(f)
	dec.CharsetReader = charsetReader
	records := []sources.RawRecord{}
	depth := 0
	sawRoot := false

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, s.parseError(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 1 {
				if sawRoot {
					return nil, errors.NewParseError("xml", s.path, "multiple root elements", nil)
				}
				sawRoot = true
			}
			if depth == 2 && t.Name.Local == recordElement {
				rec := make(sources.RawRecord, len(t.Attr))
				for _, attr := range t.Attr {
					rec.Put(attrName(attr.Name), attr.Value)
				}
				records = append(records, rec)
			}
		case xml.EndElement:
			depth--
		}
	}

	if !sawRoot {
		return nil, errors.NewParseError("xml", s.path, "no root element", nil)
	}
	return records, nil
}

// charsetReader decodes documents whose declaration names a charset other
// than UTF-8. sources.Open has already turned UTF-16 with a BOM into UTF-8,
// and ASCII is a subset of it, so those labels pass the input through.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(label) {
	case "us-ascii", "ascii", "utf-16", "utf-16le", "utf-16be":
		return input, nil
	}
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}

func attrName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func (s *Source) parseError(err error) error {
	perr := errors.NewParseError("xml", s.path, err.Error(), err)
	var synErr *xml.SyntaxError
	if stderrors.As(err, &synErr) {
		perr.Line = synErr.Line
		perr.Message = synErr.Msg
	}
	return perr
}
