// Package config handles loading and saving the persisted board document.
package config

import "github.com/farleyman/newsboard-go/internal/models"

// Store is the interface for persisting the board document.
type Store interface {
	// Load loads the current document. Returns DefaultConfig if no file exists.
	Load() (*models.BoardConfig, error)

	// Save persists the document. Implementations may debounce rapid saves.
	Save(cfg *models.BoardConfig) error

	// Path returns the file path used by this store.
	Path() string

	// Flush forces an immediate write of any pending document.
	Flush() error
}
