package logging

import (
	"io"
	"log/slog"
	"os"
)

// New returns the process logger: human-readable text in dev, JSON in release.
func New(mode string) *slog.Logger {
	return NewWithWriter(mode, os.Stdout)
}

func NewWithWriter(mode string, w io.Writer) *slog.Logger {
	if mode == "release" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// Discard is used where a logger is required but output is unwanted.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
