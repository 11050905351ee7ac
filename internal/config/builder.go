package config

import (
	"io"
	"time"
)

// ConfigBuilder provides a fluent API for building Config instances.
type ConfigBuilder struct {
	cfg *Config
}

// NewConfigBuilder creates a new ConfigBuilder with default values.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: NewConfig(),
	}
}

// Build returns the built Config.
func (b *ConfigBuilder) Build() *Config {
	return b.cfg
}

// WithAddr sets the listen address.
func (b *ConfigBuilder) WithAddr(addr string) *ConfigBuilder {
	b.cfg.Server.Addr = addr
	return b
}

// WithWorkers sets the worker count and per-worker queue size.
func (b *ConfigBuilder) WithWorkers(n, queueSize int) *ConfigBuilder {
	b.cfg.Server.Workers = n
	b.cfg.Server.QueueSize = queueSize
	return b
}

// WithWriteTimeout sets the websocket write timeout.
func (b *ConfigBuilder) WithWriteTimeout(d time.Duration) *ConfigBuilder {
	b.cfg.Server.WriteTimeout = d
	return b
}

// WithMemoryStorage selects the in-memory backend.
func (b *ConfigBuilder) WithMemoryStorage() *ConfigBuilder {
	b.cfg.Storage.Backend = BackendMemory
	return b
}

// WithSQLiteStorage selects the SQLite backend at dsn.
func (b *ConfigBuilder) WithSQLiteStorage(dsn string) *ConfigBuilder {
	b.cfg.Storage.Backend = BackendSQLite
	b.cfg.Storage.DSN = dsn
	return b
}

// WithBcryptCost sets the password hashing cost.
func (b *ConfigBuilder) WithBcryptCost(cost int) *ConfigBuilder {
	b.cfg.Auth.BcryptCost = cost
	return b
}

// WithLogOutput sets the log writer.
func (b *ConfigBuilder) WithLogOutput(w io.Writer) *ConfigBuilder {
	b.cfg.LogFile = w
	return b
}

// WithVerbosity sets the verbosity level.
func (b *ConfigBuilder) WithVerbosity(level int) *ConfigBuilder {
	b.cfg.Verbosity = level
	return b
}
