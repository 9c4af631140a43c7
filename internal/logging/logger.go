// Package logging defines a minimal structured-logging interface used across
// the project. Implementations wrap slog or zap.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "login finished", "operation", "login", "outcome", "success")
type Logger interface {
	// Debug logs verbose diagnostics, off by default.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Backend names accepted by New.
const (
	BackendSlog = "slog"
	BackendZap  = "zap"
)

// Output formats accepted by WithFormat.
const (
	FormatText = "text"
	FormatJSON = "json"
)

type options struct {
	out    io.Writer
	format string
	source bool
}

// Option tunes the logger built by New.
type Option func(*options)

// WithOutput sends records to w instead of stderr.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithFormat selects FormatText (the default) or FormatJSON.
func WithFormat(format string) Option {
	return func(o *options) { o.format = format }
}

// WithSource adds the calling file and line to every record.
func WithSource(on bool) Option {
	return func(o *options) { o.source = on }
}

// New builds a Logger for the given backend ("slog" or "zap") and level
// ("debug", "info", "warn", "error"). By default records are text and go to
// stderr so they do not interleave with the REPL on stdout.
//
// Values logged under credential keys (see Redacted) are masked by either
// backend.
func New(backend, level string, opts ...Option) (Logger, error) {
	o := options{out: os.Stderr, format: FormatText}
	for _, opt := range opts {
		opt(&o)
	}
	switch strings.ToLower(o.format) {
	case "", FormatText, FormatJSON:
	default:
		return nil, fmt.Errorf("unknown log format %q", o.format)
	}

	switch strings.ToLower(backend) {
	case "", BackendSlog:
		lvl, err := parseSlogLevel(level)
		if err != nil {
			return nil, err
		}
		return NewSlogLogger(slog.New(newSlogHandler(o, lvl))), nil
	case BackendZap:
		return newZap(level, o)
	default:
		return nil, fmt.Errorf("unknown log backend %q", backend)
	}
}

func parseSlogLevel(level string) (slog.Level, error) {
	var lvl slog.Level
	if level == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

// Redacted replaces the value of any attribute whose key names a credential.
const Redacted = "[redacted]"

var secretKeys = map[string]struct{}{
	"password":      {},
	"access":        {},
	"refresh":       {},
	"token":         {},
	"access_token":  {},
	"refresh_token": {},
	"authorization": {},
}

func isSecret(key string) bool {
	_, ok := secretKeys[strings.ToLower(key)]
	return ok
}

// scrub returns args with credential values masked. args is returned as is
// when there is nothing to mask.
func scrub(args []any) []any {
	var out []any
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok || !isSecret(key) {
			continue
		}
		if out == nil {
			out = slices.Clone(args)
		}
		out[i+1] = Redacted
	}
	if out == nil {
		return args
	}
	return out
}
