// Package config provides configuration for the chess server.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lgbarn/chess-server-go/internal/errors"
)

// Config holds all server configuration.
type Config struct {
	Server  *ServerConfig
	Storage *StorageConfig
	Auth    *AuthConfig

	Verbosity int // 0=errors only, 1=requests and game events, 2=debug

	// LogFile receives all log output.
	LogFile io.Writer
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Server:    NewServerConfig(),
		Storage:   NewStorageConfig(),
		Auth:      NewAuthConfig(),
		Verbosity: 1,
		LogFile:   os.Stderr,
	}
}

// SetLogOutput sets the log destination.
func (c *Config) SetLogOutput(w io.Writer) {
	c.LogFile = w
}

// Validate checks every sub-configuration.
func (c *Config) Validate() error {
	if c.Verbosity < 0 {
		return fmt.Errorf("verbosity %d is negative: %w", c.Verbosity, errors.ErrInvalidConfig)
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// Level maps the verbosity setting to a log level.
func (c *Config) Level() slog.Level {
	switch {
	case c.Verbosity <= 0:
		return slog.LevelError
	case c.Verbosity == 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// NewLogger returns a text logger writing to LogFile at the configured level.
func (c *Config) NewLogger() *slog.Logger {
	w := c.LogFile
	if w == nil {
		w = io.Discard
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.Level()}))
}
