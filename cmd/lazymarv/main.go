package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/rebeliceyang/lazymarv/internal/api"
	"github.com/rebeliceyang/lazymarv/internal/config"
	"github.com/rebeliceyang/lazymarv/internal/history"
)

var (
	cfg     *config.Config
	loader  *config.Loader
	logFile *os.File
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies command line overrides
func loadConfig() {
	loader = config.NewLoader(configFile)
	loaded, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not load config: %v (using defaults)\n", err)
		loaded = config.GetDefaults()
	}
	if serverURL != "" {
		loaded.Server.URL = serverURL
	}
	if logLevel != "" {
		loaded.Log.Level = logLevel
	}
	cfg = loaded
}

// setupLogging sends slog output to the log file; the terminal belongs to the UI
func setupLogging() {
	path, err := cfg.Log.LogPath()
	if err == nil {
		err = os.MkdirAll(filepath.Dir(path), 0755)
	}
	if err == nil {
		logFile, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open log file: %v\n", err)
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
		return
	}
	handler := slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()})
	slog.SetDefault(slog.New(handler).With("pid", os.Getpid()))
}

func closeLogging() {
	if logFile != nil {
		_ = logFile.Close()
	}
}

// newClient creates the api client from the server settings
func newClient() (*api.Client, error) {
	return api.NewClient(api.Options{
		BaseURL:     cfg.Server.URL,
		Timeout:     time.Duration(cfg.Server.Timeout) * time.Millisecond,
		RateLimit:   cfg.Server.RateLimit,
		Burst:       cfg.Server.Burst,
		Concurrency: cfg.Server.Concurrency,
		Logger:      slog.Default(),
	})
}

// openHistory opens the filter history database in the config dir
func openHistory() (*history.Store, error) {
	dir, err := config.GetConfigPath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config dir: %w", err)
	}
	return history.NewStore(filepath.Join(dir, "history.db"))
}
