package testutil

import (
	"sync"
)

// CountingModule is a search module over a fixed set of values that counts
// how often each name is looked up.
type CountingModule struct {
	values map[string]any
	errs   map[string]error

	mu      sync.Mutex
	lookups map[string]int
}

// NewCountingModule creates a counting module serving values.
func NewCountingModule(values map[string]any) *CountingModule {
	return &CountingModule{
		values:  values,
		errs:    make(map[string]error),
		lookups: make(map[string]int),
	}
}

// Fail makes lookups of name fail with err.
func (m *CountingModule) Fail(name string, err error) *CountingModule {
	m.errs[name] = err
	return m
}

// Lookup implements the search module contract.
func (m *CountingModule) Lookup(name string) (any, bool, error) {
	m.mu.Lock()
	m.lookups[name]++
	m.mu.Unlock()

	if err, ok := m.errs[name]; ok {
		return nil, true, err
	}
	v, ok := m.values[name]
	return v, ok, nil
}

// Lookups returns how many times name was looked up.
func (m *CountingModule) Lookups(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lookups[name]
}

// CommonValues returns a fresh logger and database keyed the way
// TestService expects.
func CommonValues() map[string]any {
	return map[string]any{
		"logger":   NewTestLogger(),
		"database": NewTestDatabase("primary"),
	}
}
