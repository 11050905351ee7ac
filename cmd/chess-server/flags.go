// flags.go - Command-line flag definitions and configuration
package main

import (
	"flag"
	"os"

	"github.com/lgbarn/chess-server-go/internal/config"
)

var (
	// Listener
	addr            = flag.String("addr", "", "Listen address (default :8080, env CHESS_ADDR)")
	writeTimeout    = flag.Duration("write-timeout", 0, "Websocket write timeout (default 10s)")
	shutdownTimeout = flag.Duration("shutdown-timeout", 0, "Graceful shutdown timeout (default 5s)")

	// Game workers
	workers   = flag.Int("workers", 0, "Goroutines serialising in-game actions (default 4)")
	queueSize = flag.Int("queue", -1, "Queue depth per worker (default 64)")

	// Storage
	storageBackend = flag.String("storage", "", "Storage backend: memory or sqlite (default memory, env CHESS_STORAGE)")
	dsn            = flag.String("dsn", "", "SQLite database file (default chess.db, env CHESS_DSN)")

	// Auth
	bcryptCost = flag.Int("bcrypt-cost", 0, "bcrypt work factor (default 10)")

	// Logging
	verbosity = flag.Int("v", 1, "Verbosity: 0 errors only, 1 info, 2 debug")
	logFile   = flag.String("l", "", "Write log to file (default stderr)")
	appendLog = flag.String("L", "", "Append log to file")

	// Help
	help    = flag.Bool("h", false, "Show help")
	version = flag.Bool("version", false, "Show version")
)

// applyFlags applies all command-line flags to the configuration.
func applyFlags(cfg *config.Config) {
	applyEnv(cfg, os.Getenv)
	applyServerFlags(cfg)
	applyStorageFlags(cfg)
	applyAuthFlags(cfg)
	cfg.Verbosity = *verbosity
}

// applyEnv applies environment fallbacks. Flags given on the command line
// override them.
func applyEnv(cfg *config.Config, getenv func(string) string) {
	if v := getenv("CHESS_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := getenv("CHESS_STORAGE"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := getenv("CHESS_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
}

// applyServerFlags configures the listener and the game workers.
func applyServerFlags(cfg *config.Config) {
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *writeTimeout > 0 {
		cfg.Server.WriteTimeout = *writeTimeout
	}
	if *shutdownTimeout > 0 {
		cfg.Server.ShutdownTimeout = *shutdownTimeout
	}
	if *workers > 0 {
		cfg.Server.Workers = *workers
	}
	if *queueSize >= 0 {
		cfg.Server.QueueSize = *queueSize
	}
}

// applyStorageFlags configures the storage backend.
func applyStorageFlags(cfg *config.Config) {
	if *storageBackend != "" {
		cfg.Storage.Backend = *storageBackend
	}
	if *dsn != "" {
		cfg.Storage.DSN = *dsn
	}
}

// applyAuthFlags configures password hashing.
func applyAuthFlags(cfg *config.Config) {
	if *bcryptCost > 0 {
		cfg.Auth.BcryptCost = *bcryptCost
	}
}
