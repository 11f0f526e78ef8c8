// Package mock provides mock implementations of database interfaces for testing.
package mock

import (
	"context"
	"sync"

	"github.com/kozaktomas/face-attendance/internal/database"
)

// MockStore is a mock implementation of database.Store
type MockStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	// Track calls
	GetCalls []string
	PutCalls []PutCall

	// Error injection
	GetError error
	PutError error
}

// PutCall tracks a Put call
type PutCall struct {
	Key   string
	Value []byte
}

// NewMockStore creates a new mock store
func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string][]byte),
	}
}

// Seed stores a raw value without recording a call
func (m *MockStore) Seed(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
}

// Get retrieves a value by key
func (m *MockStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	m.GetCalls = append(m.GetCalls, key)
	m.mu.Unlock()

	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, database.ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

// Put stores a value
func (m *MockStore) Put(ctx context.Context, key string, value []byte) error {
	if m.PutError != nil {
		return m.PutError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PutCalls = append(m.PutCalls, PutCall{Key: key, Value: append([]byte(nil), value...)})
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// PutCount returns the number of successful Put calls
func (m *MockStore) PutCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.PutCalls)
}
