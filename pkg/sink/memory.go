package sink

import (
	"context"
	"sync"

	"github.com/laurel-etl/laurel/pkg/customer"
)

// MemorySink keeps the last written set in memory. It backs dry runs and
// tests.
type MemorySink struct {
	mu        sync.RWMutex
	customers []customer.Customer
	writes    int
	err       error
}

// NewMemory creates an empty MemorySink.
func NewMemory() *MemorySink {
	return &MemorySink{}
}

// Driver returns Memory.
func (m *MemorySink) Driver() Driver { return Memory }

// FailWith makes every following ReplaceAll return err.
func (m *MemorySink) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// ReplaceAll swaps the stored set for customers.
func (m *MemorySink) ReplaceAll(ctx context.Context, customers []customer.Customer) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	m.customers = AssignIDs(customers)
	m.writes++
	return len(m.customers), nil
}

// Customers returns a copy of the stored set.
func (m *MemorySink) Customers() []customer.Customer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]customer.Customer(nil), m.customers...)
}

// Writes returns the number of successful ReplaceAll calls.
func (m *MemorySink) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

// Close is a no-op.
func (m *MemorySink) Close() error { return nil }
