package cache

import (
	"context"
	"sync"
)

// MemoryStore is a simple in-memory preference store. Used when Redis is not
// available; values do not survive a restart.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]string),
	}
}

// Get retrieves a value by key (returns empty string if not found)
func (ms *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.items[key], nil
}

// Set stores a key-value pair
func (ms *MemoryStore) Set(ctx context.Context, key string, value string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.items[key] = value
	return nil
}

// Delete removes a key
func (ms *MemoryStore) Delete(ctx context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.items, key)
	return nil
}
