// Package main is the entry point for the boilerplate API server.
//
// The main package stays minimal — its job is to:
//  1. Load configuration (env vars, with .env autoloaded for local dev)
//  2. Create the logger
//  3. Hand both to the server and start it
//
// All actual logic lives in imported packages (internal/server,
// internal/handler, ...), which keeps the app testable without main.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	// Autoload reads a .env file from the working directory into the
	// process environment before main runs. Missing .env is not an error.
	_ "github.com/joho/godotenv/autoload"

	"github.com/sakif/boilerplate-api/internal/config"
	"github.com/sakif/boilerplate-api/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	// Ensure the database directory exists (like `mkdir -p`).
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// logLevel maps the LOG_LEVEL config string to a slog level, defaulting to
// Info for anything unrecognised.
func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
