// Package sources wires the built-in file adapters.
package sources

import (
	"slices"

	"github.com/laurel-etl/laurel/pkg/errors"
	"github.com/laurel-etl/laurel/pkg/sources"

	// Import all source implementations for auto-registration via init()
	_ "github.com/laurel-etl/laurel/internal/sources/csvfile"
	_ "github.com/laurel-etl/laurel/internal/sources/jsonfile"
	_ "github.com/laurel-etl/laurel/internal/sources/textfile"
	_ "github.com/laurel-etl/laurel/internal/sources/xmlfile"
)

// Build creates one source per configured path, walking the registered
// adapters in pass order. Sources with an empty path are left out of the
// pass. A configured ID with no adapter behind it is an error.
func Build(paths map[sources.ID]string) (*sources.Sources, error) {
	registered := sources.Registered()
	for id, path := range paths {
		if !id.IsValid() {
			return nil, errors.NewValidationError("source", id, "unknown source")
		}
		if path != "" && !slices.Contains(registered, id) {
			return nil, errors.NewNotFoundError("source", id.String())
		}
	}

	set := sources.NewSources()
	for _, id := range registered {
		path := paths[id]
		if path == "" {
			continue
		}
		src, err := sources.Build(id, path)
		if err != nil {
			return nil, err
		}
		set.Set(src)
	}
	return set, nil
}
