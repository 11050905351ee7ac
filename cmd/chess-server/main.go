// chess-server hosts two-player chess games over HTTP and websockets.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lgbarn/chess-server-go/internal/config"
	"github.com/lgbarn/chess-server-go/internal/httpx"
	"github.com/lgbarn/chess-server-go/internal/service"
	"github.com/lgbarn/chess-server-go/internal/storage"
	"github.com/lgbarn/chess-server-go/internal/storage/memory"
	"github.com/lgbarn/chess-server-go/internal/storage/sqlstore"
	"github.com/lgbarn/chess-server-go/internal/worker"
)

const programVersion = "0.1.0"

func main() {
	flag.Usage = usage
	flag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}

	if *version {
		fmt.Printf("chess-server version %s\n", programVersion)
		os.Exit(0)
	}

	cfg := config.NewConfig()
	applyFlags(cfg)
	setupLogFile(cfg)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	os.Exit(serve(cfg))
}

// serve runs the server until SIGINT or SIGTERM and returns the exit code.
func serve(cfg *config.Config) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// run serves until ctx is cancelled, then shuts down within the configured
// timeout.
func run(ctx context.Context, cfg *config.Config) error {
	logger := cfg.NewLogger()

	stores, err := openStorage(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer stores.Close()

	pool := worker.NewPool(cfg.Server.Workers, cfg.Server.QueueSize)
	pool.Start()
	defer pool.Close()

	users := service.NewUserService(stores, cfg.Auth.BcryptCost, logger)
	games := service.NewGameService(stores.Games, users, pool, logger)
	srv := httpx.NewServer(users, games, cfg.Server, logger)

	errc := make(chan error, 1)
	go func() { errc <- srv.Listen() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Close(shutdownCtx); err != nil {
		// Forced shutdown: queued commands are dropped, not played.
		logger.Error("shutdown", "err", err)
		pool.Stop()
	}
	return <-errc
}

// openStorage opens the configured backend.
func openStorage(ctx context.Context, cfg *config.StorageConfig, logger *slog.Logger) (*storage.Stores, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		logger.Info("using sqlite storage", "dsn", cfg.DSN)
		return sqlstore.Open(ctx, cfg.DSN)
	default:
		logger.Info("using memory storage")
		return memory.New(), nil
	}
}

// setupLogFile configures the log file based on command-line flags.
func setupLogFile(cfg *config.Config) {
	if *logFile != "" {
		file, err := os.Create(*logFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating log file %s: %v\n", *logFile, err)
			os.Exit(1)
		}
		cfg.SetLogOutput(file)
	}

	if *appendLog != "" {
		file, err := os.OpenFile(*appendLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644) //nolint:gosec // G302: 0644 is appropriate for user-created log files
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file %s: %v\n", *appendLog, err)
			os.Exit(1)
		}
		cfg.SetLogOutput(file)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: chess-server [options]\n\n")
	fmt.Fprintf(os.Stderr, "Hosts two-player chess games over HTTP and websockets.\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nEnvironment:\n")
	fmt.Fprintf(os.Stderr, "  CHESS_ADDR     listen address\n")
	fmt.Fprintf(os.Stderr, "  CHESS_STORAGE  storage backend\n")
	fmt.Fprintf(os.Stderr, "  CHESS_DSN      SQLite database file\n")
}
