package engine

import (
	"context"
	"sync"
)

// MockVariationSource is a test implementation of the VariationSource
// interface. It returns canned variations per item and records every lookup
// so tests can assert call behavior.
type MockVariationSource struct {
	variations map[string][]string
	calls      []string
	mu         sync.Mutex
}

// NewMockVariationSource creates an empty mock variation source.
func NewMockVariationSource() *MockVariationSource {
	return &MockVariationSource{
		variations: make(map[string][]string),
	}
}

// Set registers the variations returned for an item.
func (m *MockVariationSource) Set(item string, variations ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.variations[item] = variations
}

// Variations returns the registered variations, or the item itself when none
// are registered, mirroring the fallback-to-identity contract.
func (m *MockVariationSource) Variations(_ context.Context, item string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, item)
	if v, ok := m.variations[item]; ok {
		return v
	}
	return []string{item}
}

// Calls returns the items looked up so far.
func (m *MockVariationSource) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}
