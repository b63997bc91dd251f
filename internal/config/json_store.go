package config

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/farleyman/newsboard-go/internal/models"
)

const (
	configFileName = "board.json"
	debounceDelay  = 500 * time.Millisecond
)

// JSONStore is an atomic JSON file store with debounced writes.
type JSONStore struct {
	mu      sync.Mutex
	path    string
	timer   *time.Timer
	pending *models.BoardConfig
}

// NewJSONStore creates a new JSON store in the given config directory.
func NewJSONStore(configDir string) *JSONStore {
	return &JSONStore{
		path: filepath.Join(configDir, configFileName),
	}
}

// Path returns the file path used by this store.
func (s *JSONStore) Path() string { return s.path }

// Load reads the document from disk. Returns DefaultConfig on ENOENT or
// parse errors.
func (s *JSONStore) Load() (*models.BoardConfig, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			def := models.DefaultConfig()
			return &def, nil
		}
		return nil, err
	}

	var cfg models.BoardConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		slog.Warn("config: corrupt JSON config, using defaults", "path", s.path, "err", err)
		def := models.DefaultConfig()
		return &def, nil
	}

	migrateConfig(&cfg)
	return &cfg, nil
}

// Save schedules a debounced write of the document to disk.
// The actual write happens after 500ms of no further Save calls.
func (s *JSONStore) Save(cfg *models.BoardConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Take a copy so we don't hold a reference to the caller's document
	cp := cfg.DeepCopy()
	s.pending = &cp

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(debounceDelay, func() {
		s.mu.Lock()
		cfg := s.pending
		s.mu.Unlock()
		if cfg != nil {
			if err := s.writeAtomic(cfg); err != nil {
				slog.Error("config: failed to write document", "path", s.path, "err", err)
			}
		}
	})
	return nil
}

// Flush forces an immediate write of any pending document.
func (s *JSONStore) Flush() error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	cfg := s.pending
	s.mu.Unlock()
	if cfg == nil {
		return nil
	}
	return s.writeAtomic(cfg)
}

func (s *JSONStore) writeAtomic(cfg *models.BoardConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	// Write to temp file, then rename (atomic on Linux)
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, s.path)
}

var _ Store = (*JSONStore)(nil)
