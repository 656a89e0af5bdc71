package logger

import (
	"io"
	"log/slog"
	"os"
)

// New creates a new slog logger writing to stdout
// If verbose is true, logs at Info level and above
// If verbose is false, logs only Error level and above
func New(verbose bool) *slog.Logger {
	return NewWithWriter(os.Stdout, verbose)
}

// NewWithWriter is New with a custom destination, so command output
// and logs can go to different streams
func NewWithWriter(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelError
	if verbose {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(w, opts)
	return slog.New(handler)
}
