// Package repo contains the persistent key-value backends behind the draft
// cache. Each backend has its own file; all satisfy KVStore.
// No cache policy lives here, only storage and error mapping.
package repo

import (
	"context"
	"sync"

	"github.com/pkordes/voyager/internal/domain"
)

// KVStore is a string-keyed, string-valued store with no transactions.
// The draft cache depends on this interface, not on a concrete backend,
// which allows it to be unit-tested against the in-memory implementation.
type KVStore interface {
	// Get returns the value stored under key.
	// Returns domain.ErrNotFound if the key is absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// memoryKV is a process-local KVStore. Values do not survive a restart.
type memoryKV struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryKV returns an empty in-memory KVStore.
func NewMemoryKV() KVStore {
	return &memoryKV{data: make(map[string]string)}
}

func (m *memoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (m *memoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.data[key] = value
	m.mu.Unlock()
	return nil
}

func (m *memoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}
