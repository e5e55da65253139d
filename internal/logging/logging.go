// Package logging provides the context-carried, module-scoped logger
// used by the diff/plan/execute pipeline and the CLI. The API shape
// mirrors github.com/kopia/kopia's repo/logging package: a
// context.Context carries an optional LoggerFactory, Module(name)
// resolves it into a concrete Logger, and the zero value (no factory
// installed) is a silent no-op so the core packages never need a nil
// check before logging.
package logging

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Logger is the narrow logging surface used throughout the engine.
type Logger interface {
	Debug(msg string)
	Debugw(msg string, keyValuePairs ...interface{})
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

// LoggerFactory creates a Logger scoped to the named module.
type LoggerFactory func(module string) Logger

type contextKey struct{}

// WithLogger attaches factory to ctx, replacing any previously attached
// factory.
func WithLogger(ctx context.Context, factory LoggerFactory) context.Context {
	return context.WithValue(ctx, contextKey{}, factory)
}

// WithAdditionalLogger attaches factory to ctx so that modules resolved
// from the returned context broadcast to both the existing factory (if
// any) and the new one.
func WithAdditionalLogger(ctx context.Context, factory LoggerFactory) context.Context {
	existing, ok := ctx.Value(contextKey{}).(LoggerFactory)
	if !ok {
		return WithLogger(ctx, factory)
	}

	return WithLogger(ctx, func(module string) Logger {
		return Broadcast(existing(module), factory(module))
	})
}

// Module returns a function that, given a context, resolves the Logger
// for the named module. The typical call site is a package-level
// variable: var log = logging.Module("artid/planner").
func Module(name string) func(ctx context.Context) Logger {
	return func(ctx context.Context) Logger {
		factory, ok := ctx.Value(contextKey{}).(LoggerFactory)
		if !ok {
			return nullLogger{}
		}

		return factory(name)
	}
}

type nullLogger struct{}

func (nullLogger) Debug(string)                  {}
func (nullLogger) Debugw(string, ...interface{}) {}
func (nullLogger) Info(string)                   {}
func (nullLogger) Warn(string)                   {}
func (nullLogger) Error(string)                  {}

// broadcastLogger fans every call out to all of its members, in order.
type broadcastLogger []Logger

// Broadcast combines loggers into a single Logger that forwards every
// call to each of them in order.
func Broadcast(loggers ...Logger) Logger {
	return broadcastLogger(loggers)
}

func (b broadcastLogger) Debug(msg string) {
	for _, l := range b {
		l.Debug(msg)
	}
}

func (b broadcastLogger) Debugw(msg string, kv ...interface{}) {
	for _, l := range b {
		l.Debugw(msg, kv...)
	}
}

func (b broadcastLogger) Info(msg string) {
	for _, l := range b {
		l.Info(msg)
	}
}

func (b broadcastLogger) Warn(msg string) {
	for _, l := range b {
		l.Warn(msg)
	}
}

func (b broadcastLogger) Error(msg string) {
	for _, l := range b {
		l.Error(msg)
	}
}

// writerLogger formats log lines the same way for every level: plain
// messages are written verbatim, Debugw appends a compact JSON-ish
// key/value tail separated by a tab, matching the fixtures in
// kopia's repo/logging/logging_test.go.
type writerLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *writerLogger) Debug(msg string) { l.println(msg) }
func (l *writerLogger) Info(msg string)  { l.println(msg) }
func (l *writerLogger) Warn(msg string)  { l.println(msg) }
func (l *writerLogger) Error(msg string) { l.println(msg) }

func (l *writerLogger) Debugw(msg string, kv ...interface{}) {
	l.println(msg + "\t" + formatKV(kv))
}

func (l *writerLogger) println(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, line)
}

func formatKV(kv []interface{}) string {
	out := "{"
	for i := 0; i+1 < len(kv); i += 2 {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf("%q:%v", kv[i], formatValue(kv[i+1]))
	}
	return out + "}"
}

func formatValue(v interface{}) string {
	switch t := v.(type) {
	case string:
		return fmt.Sprintf("%q", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// ToWriter builds a LoggerFactory whose loggers all write plain text
// lines to w, ignoring the module name. Used by tests asserting on log
// output; the CLI's --dry-run output goes through its own printer.
func ToWriter(w io.Writer) LoggerFactory {
	return func(string) Logger {
		return &writerLogger{w: w}
	}
}
