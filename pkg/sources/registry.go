package sources

import (
	"sync"

	"github.com/laurel-etl/laurel/pkg/errors"
)

// Factory creates a source reading from path.
type Factory func(path string) Source

var (
	registryMu sync.RWMutex
	registry   = make(map[ID]Factory)
)

// Register makes a source implementation available under id. Adapters call
// it from init.
func Register(id ID, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[id] = factory
}

// Build creates the registered source for id.
func Build(id ID, path string) (Source, error) {
	registryMu.RLock()
	factory, ok := registry[id]
	registryMu.RUnlock()
	if !ok {
		return nil, errors.NewNotFoundError("source", id.String())
	}
	return factory(path), nil
}

// Registered returns the registered IDs in pass order.
func Registered() []ID {
	registryMu.RLock()
	defer registryMu.RUnlock()
	var ids []ID
	for _, id := range IDs() {
		if _, ok := registry[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}
