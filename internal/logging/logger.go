package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format selects the slog handler.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config describes a logger. The zero value logs text at info level to stderr.
type Config struct {
	Level  slog.Level
	Format Format
	Writer io.Writer
}

// New creates a configured application logger.
// It writes to Stderr so stdout stays free for traces, tables and graphs.
func New(level slog.Level) *slog.Logger {
	return NewWithConfig(Config{Level: level})
}

// NewWithConfig builds a logger from cfg. An unknown format falls back to text.
// It standardizes common keys (e.g., "error" -> "err").
func NewWithConfig(cfg Config) *slog.Logger {
	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level: cfg.Level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}
	if cfg.Format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseConfig reads a level name (debug, info, warn, error) and a format name.
func ParseConfig(level, format string) (Config, error) {
	var cfg Config
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return cfg, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	switch f := Format(strings.ToLower(format)); f {
	case FormatText, FormatJSON:
		cfg.Format = f
	case "":
		cfg.Format = FormatText
	default:
		return cfg, fmt.Errorf("invalid log format %q (want text or json)", format)
	}
	return cfg, nil
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
