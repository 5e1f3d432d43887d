// Package logging adapts ports.Logger onto github.com/rs/zerolog.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pipeforge/pipeforge/internal/ports"
)

// Options configures the zerolog-backed adapter.
type Options struct {
	Writer    io.Writer
	Level     string
	Human     bool // console writer instead of JSON, mirrors --verbose/TTY
	Layer     string
	Component string
	Fields    map[string]interface{}
}

// Logger implements ports.Logger using a zerolog.Context.
type Logger struct {
	logger zerolog.Logger
	layer  string
}

// New creates a Logger adapter with the supplied options.
func New(opts Options) (*Logger, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stdout
	}
	if opts.Human {
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: "15:04:05"}
	}

	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	layer := opts.Layer
	if layer == "" {
		layer = "infrastructure"
	}

	ctx := zerolog.New(writer).With().Timestamp().Str("layer", layer)
	if opts.Component != "" {
		ctx = ctx.Str("component", opts.Component)
	}
	for _, k := range sortedKeys(opts.Fields) {
		ctx = ctx.Interface(k, opts.Fields[k])
	}

	return &Logger{logger: ctx.Logger().Level(level), layer: layer}, nil
}

// Debug emits a debug log entry.
func (l *Logger) Debug(ctx context.Context, msg string, fields ...interface{}) {
	l.log(ctx, l.logger.Debug(), msg, fields...)
}

// Info emits an info log entry.
func (l *Logger) Info(ctx context.Context, msg string, fields ...interface{}) {
	l.log(ctx, l.logger.Info(), msg, fields...)
}

// Warn emits a warning log entry.
func (l *Logger) Warn(ctx context.Context, msg string, fields ...interface{}) {
	l.log(ctx, l.logger.Warn(), msg, fields...)
}

// Error emits an error log entry.
func (l *Logger) Error(ctx context.Context, msg string, fields ...interface{}) {
	l.log(ctx, l.logger.Error(), msg, fields...)
}

// With derives a new logger carrying additional persistent fields.
func (l *Logger) With(fields ...interface{}) ports.Logger {
	if l == nil {
		return &NoOpLogger{}
	}
	ctx := l.logger.With()
	ctx = applyPairs(ctx, fields)
	return &Logger{logger: ctx.Logger(), layer: l.layer}
}

func (l *Logger) log(ctx context.Context, ev *zerolog.Event, msg string, fields ...interface{}) {
	if l == nil {
		return
	}
	if id := ports.GetCorrelationID(ctx); id != "" {
		ev = ev.Str("correlation_id", id)
	}
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok || key == "" {
			continue
		}
		ev = ev.Interface(key, fields[i+1])
	}
	ev.Msg(msg)
}

func applyPairs(ctx zerolog.Context, fields []interface{}) zerolog.Context {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok || key == "" {
			continue
		}
		ctx = ctx.Interface(key, fields[i+1])
	}
	return ctx
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// compile-time assurance
var _ ports.Logger = (*Logger)(nil)
