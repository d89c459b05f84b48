package presets

import (
	"sort"
	"sync"
)

// Memory is an in-memory store for testing.
type Memory struct {
	mu   sync.RWMutex
	data map[string]Preset
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]Preset)}
}

// Get retrieves a preset by name.
func (m *Memory) Get(name string) (*Preset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.data[name]; ok {
		return &p, nil
	}
	return nil, nil
}

// Put stores a preset.
func (m *Memory) Put(p Preset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[p.Name] = p
	return nil
}

// Delete removes a preset by name.
func (m *Memory) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, name)
	return nil
}

// List returns the stored preset names.
func (m *Memory) List() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r := make([]string, 0, len(m.data))
	for name := range m.data {
		r = append(r, name)
	}
	sort.Strings(r)
	return r, nil
}

// Close is a no-op for memory store.
func (m *Memory) Close() error {
	return nil
}
