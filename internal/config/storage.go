package config

import (
	"fmt"

	"github.com/lgbarn/chess-server-go/internal/errors"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	// Backend is BackendMemory or BackendSQLite.
	Backend string

	// DSN is the SQLite data source, a file path or ":memory:".
	DSN string
}

// NewStorageConfig creates a StorageConfig with default values.
func NewStorageConfig() *StorageConfig {
	return &StorageConfig{
		Backend: BackendMemory,
		DSN:     "chess.db",
	}
}

// Validate checks the backend name and that SQLite has a DSN.
func (s *StorageConfig) Validate() error {
	switch s.Backend {
	case BackendMemory:
		return nil
	case BackendSQLite:
		if s.DSN == "" {
			return fmt.Errorf("sqlite backend needs a DSN: %w", errors.ErrInvalidConfig)
		}
		return nil
	}
	return fmt.Errorf("unknown storage backend %q: %w", s.Backend, errors.ErrInvalidConfig)
}
