package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"
)

// setupLog sends the default logger to path, appending timestamped lines.
// The returned func closes the file.
func setupLog(path, level string) (func() error, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	path, err = homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("unable to expand log path: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec
			return nil, fmt.Errorf("unable to create log directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("unable to open log file: %w", err)
	}

	log.SetOutput(f)
	log.SetLevel(lvl)
	log.SetReportTimestamp(true)
	log.SetTimeFormat("2006-01-02 15:04:05")
	log.SetFormatter(log.TextFormatter)
	return f.Close, nil
}
