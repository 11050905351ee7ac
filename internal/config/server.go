package config

import (
	"fmt"
	"time"

	"github.com/lgbarn/chess-server-go/internal/errors"
)

// ServerConfig holds settings for the HTTP and websocket listener.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// Workers is the number of goroutines serialising in-game actions.
	// All actions for one game run on the same worker.
	Workers int

	// QueueSize is the buffered depth of each worker's queue.
	QueueSize int

	// WriteTimeout bounds each websocket write.
	WriteTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
}

// NewServerConfig creates a ServerConfig with default values.
func NewServerConfig() *ServerConfig {
	return &ServerConfig{
		Addr:            ":8080",
		Workers:         4,
		QueueSize:       64,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Validate checks that the server configuration is usable.
func (s *ServerConfig) Validate() error {
	if s.Addr == "" {
		return fmt.Errorf("listen address is empty: %w", errors.ErrInvalidConfig)
	}
	if s.Workers < 1 {
		return fmt.Errorf("workers (%d) must be at least 1: %w", s.Workers, errors.ErrInvalidConfig)
	}
	if s.QueueSize < 0 {
		return fmt.Errorf("queue size (%d) is negative: %w", s.QueueSize, errors.ErrInvalidConfig)
	}
	if s.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive: %w", errors.ErrInvalidConfig)
	}
	return nil
}
