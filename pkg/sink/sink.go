// Package sink defines where reconciled customers are written.
//
// Every sink replaces its whole data set on each write: prior customers are
// removed and the new set inserted. Whether a reader can observe the gap
// depends on the sink; SQL sinks do both inside one transaction.
package sink

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/laurel-etl/laurel/pkg/customer"
)

// Driver identifies a sink implementation.
type Driver string

// Supported drivers.
const (
	MySQL    Driver = "mysql"
	Postgres Driver = "postgres"
	SQLite   Driver = "sqlite"
	MongoDB  Driver = "mongodb"
	JSON     Driver = "json"
	YAML     Driver = "yaml"
	Memory   Driver = "memory"
)

// Drivers returns every supported driver.
func Drivers() []Driver {
	return []Driver{MySQL, Postgres, SQLite, MongoDB, JSON, YAML, Memory}
}

// IsValid returns true if d is a supported driver.
func (d Driver) IsValid() bool {
	return slices.Contains(Drivers(), d)
}

// IsSQL reports whether d is backed by database/sql.
func (d Driver) IsSQL() bool {
	return d == MySQL || d == Postgres || d == SQLite
}

// String returns the driver name.
func (d Driver) String() string {
	return string(d)
}

// Sink persists a finalized customer set.
type Sink interface {
	// Driver returns the driver backing this sink
	Driver() Driver

	// ReplaceAll clears prior data and writes customers, returning the
	// number written. Any error leaves the outcome to the sink's own
	// atomicity guarantees and must be treated as fatal by the caller.
	ReplaceAll(ctx context.Context, customers []customer.Customer) (int, error)

	// Close releases connections and files
	Close() error
}

// AssignIDs returns a copy of customers with a fresh surrogate ID each.
func AssignIDs(customers []customer.Customer) []customer.Customer {
	out := make([]customer.Customer, len(customers))
	for i, c := range customers {
		c.ID = uuid.New().String()
		out[i] = c
	}
	return out
}
