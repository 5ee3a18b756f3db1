package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// NewLogger creates a structured text logger writing to w.
// Verbose enables debug-level output; otherwise info and above.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewRunLogger creates the logger for one pipeline run: structured text to
// logs/<date>.log under baseDir and, mirrored, to stderr. The log file is
// opened in append mode so that the per-stage processes of one date share
// a file.
//
// The returned close function must be called on every exit path; it closes
// the file sink. The logger itself is handed to stages explicitly instead
// of being set as the process default.
func NewRunLogger(baseDir, date string, verbose bool) (*slog.Logger, func() error, error) {
	logDir := filepath.Join(baseDir, "logs")
	if err := os.MkdirAll(logDir, 0750); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	path := filepath.Join(logDir, date+".log")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) //nolint:gosec // Path is derived from a validated date
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := NewLogger(io.MultiWriter(file, os.Stderr), verbose)
	return logger, file.Close, nil
}
