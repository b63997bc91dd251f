package config

import (
	"sync"

	"github.com/farleyman/newsboard-go/internal/models"
)

// MemStore is an in-memory Store for tests that never writes to disk.
type MemStore struct {
	mu  sync.Mutex
	cfg *models.BoardConfig
}

// NewMemStore returns an in-memory store that serves DefaultConfig until
// the first Save.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Load returns a copy of the stored document, or DefaultConfig if none
// has been saved yet.
func (m *MemStore) Load() (*models.BoardConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cfg == nil {
		def := models.DefaultConfig()
		return &def, nil
	}
	cp := m.cfg.DeepCopy()
	return &cp, nil
}

// Save stores a deep copy of the given document in memory.
func (m *MemStore) Save(cfg *models.BoardConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := cfg.DeepCopy()
	m.cfg = &cp
	return nil
}

// Path returns ":memory:" to indicate this is an in-memory store.
func (m *MemStore) Path() string { return ":memory:" }

// Flush is a no-op for in-memory stores.
func (m *MemStore) Flush() error { return nil }

var _ Store = (*MemStore)(nil)
