// Package logging sets up structured logging for the vim-fmi client.
//
// Logs go to stderr as text (or JSON) and, when a directory is configured,
// are also appended as JSON to "<service>_<YYYY-MM-DD>.log" in it.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config configures New. The zero value logs Info and above to stderr.
type Config struct {
	Level   slog.Level
	JSON    bool   // JSON instead of text on the primary writer
	Dir     string // optional log file directory
	Service string // added to every record as "service"

	// Writer replaces stderr as the primary destination.
	Writer io.Writer
}

// Logger is a slog.Logger that owns its log file, if any.
type Logger struct {
	*slog.Logger
	file *os.File
}

// ParseLevel parses "debug", "info", "warn" or "error", case-insensitively.
// An empty string means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// New builds a Logger. A log file that cannot be opened is reported as an
// error, but the returned Logger still works on the primary writer.
func New(cfg Config) (*Logger, error) {
	opts := &slog.HandlerOptions{Level: cfg.Level}

	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}

	var primary slog.Handler
	if cfg.JSON {
		primary = slog.NewJSONHandler(w, opts)
	} else {
		primary = slog.NewTextHandler(w, opts)
	}

	l := &Logger{}
	handler := primary

	var fileErr error
	if cfg.Dir != "" {
		l.file, fileErr = openLogFile(cfg.Dir, cfg.Service)
		if fileErr == nil {
			handler = fanout{primary, slog.NewJSONHandler(l.file, opts)}
		}
	}

	if cfg.Service != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String("service", cfg.Service)})
	}

	l.Logger = slog.New(handler)
	return l, fileErr
}

// Close syncs and closes the log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := errors.Join(l.file.Sync(), l.file.Close())
	l.file = nil
	return err
}

func openLogFile(dir, service string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	if service == "" {
		service = "vimfmi"
	}
	name := fmt.Sprintf("%s_%s.log", service, time.Now().Format("2006-01-02"))
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// fanout sends every record to all of its handlers.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
