// Package logging configures the engine's structured logger. The CLI
// never logs — it only prints results and errors — so this package is
// only ever wired into internal/engine.
package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how verbosely the engine logs.
type Options struct {
	// FilePath, if set, directs logs to a rotated file instead of
	// stderr.
	FilePath string
	// MaxSizeMB is the rotation threshold passed to lumberjack.
	MaxSizeMB int
	// MaxBackups bounds how many rotated files are retained.
	MaxBackups int
	// Debug enables slog.LevelDebug; otherwise the engine logs at Info.
	Debug bool
}

// New builds a logger per Options. A zero Options value logs to
// stderr at Info level.
func New(opts Options) *slog.Logger {
	var sink io.Writer = os.Stderr
	if opts.FilePath != "" {
		sink = &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    orDefault(opts.MaxSizeMB, 10),
			MaxBackups: orDefault(opts.MaxBackups, 3),
			Compress:   true,
		}
	}
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(sink, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// Discard returns a logger that drops everything, used by the engine
// when its Options carry no logger (as in the engine's own tests).
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
