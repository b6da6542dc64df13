package sessionstore

import "sync"

// Ensure Memory implements the port
var _ Store = (*Memory)(nil)

// Memory is the in-process Store implementation. One instance is created per
// browser session and dropped when the session ends, which gives values the
// session lifetime the port requires.
type Memory struct {
	mu     sync.RWMutex
	values map[Key]string
}

// NewMemory creates an empty session store.
func NewMemory() *Memory {
	return &Memory{values: make(map[Key]string)}
}

func (m *Memory) Get(key Key) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	return v, ok
}

func (m *Memory) Set(key Key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
}

func (m *Memory) Delete(key Key) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
}
