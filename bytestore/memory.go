package bytestore

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory ByteStore implementation for testing and
// ephemeral caches. Thread-safe for concurrent reads and writes.
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte
}

var _ ByteStore = (*MemoryStore)(nil)

// NewMemoryStore creates a new empty in-memory byte store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// IsEmpty reports whether the store holds no bytes.
func (m *MemoryStore) IsEmpty(_ context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.data) == 0, nil
}

// GetBytes returns a copy of the stored bytes, or nil when empty.
func (m *MemoryStore) GetBytes(_ context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.data) == 0 {
		return nil, nil
	}

	// Return a copy to prevent external mutation
	copied := make([]byte, len(m.data))
	copy(copied, m.data)
	return copied, nil
}

// SetBytes replaces the stored bytes.
func (m *MemoryStore) SetBytes(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Copy to prevent external mutation
	copied := make([]byte, len(data))
	copy(copied, data)
	m.data = copied
	return nil
}
