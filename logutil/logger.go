// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package logutil

import (
	"log/slog"
	"sync/atomic"
)

// ComponentLogger is a logger scoped to one crawlref component, carrying
// context such as the document being processed. It follows later
// SetupLogger, SetOutput and SetLevel calls, so it may be created before the
// global logger is configured.
type ComponentLogger struct {
	component string
	attrs     []any
	bound     atomic.Pointer[boundLogger]
}

type boundLogger struct {
	gen     uint64
	slogger *slog.Logger
}

// NewLogger creates a Logger scoped to a named component.
func NewLogger(component string) *ComponentLogger {
	return &ComponentLogger{
		component: component,
		attrs:     []any{"component", component},
	}
}

func (l *ComponentLogger) with(args ...any) *ComponentLogger {
	attrs := make([]any, 0, len(l.attrs)+len(args))
	attrs = append(attrs, l.attrs...)
	return &ComponentLogger{
		component: l.component,
		attrs:     append(attrs, args...),
	}
}

// logger returns the underlying slog logger, rebuilt when the global one changed.
func (l *ComponentLogger) logger() *slog.Logger {
	gen := generation.Load()
	if b := l.bound.Load(); b != nil && b.gen == gen {
		return b.slogger
	}
	s := Logger().With(l.attrs...)
	l.bound.Store(&boundLogger{gen: gen, slogger: s})
	return s
}

// WithDocument returns a new Logger tagged with the document being processed,
// usually its base URL.
func (l *ComponentLogger) WithDocument(base string) *ComponentLogger {
	return l.with("document", base)
}

// WithOperation returns a new Logger tagged with an operation, such as an
// extraction pass.
func (l *ComponentLogger) WithOperation(name string) *ComponentLogger {
	return l.with("operation", name)
}

// WithFields returns a new Logger with additional alternating key-value
// fields.
func (l *ComponentLogger) WithFields(fields ...any) *ComponentLogger {
	return l.with(fields...)
}

// Component returns the component name for this logger.
func (l *ComponentLogger) Component() string {
	return l.component
}

// Debug logs a message at debug level.
func (l *ComponentLogger) Debug(msg string, args ...any) {
	l.logger().Debug(msg, args...)
}

// Info logs a message at info level.
func (l *ComponentLogger) Info(msg string, args ...any) {
	l.logger().Info(msg, args...)
}

// Warn logs a message at warn level.
func (l *ComponentLogger) Warn(msg string, args ...any) {
	l.logger().Warn(msg, args...)
}

// Error logs a message at error level.
func (l *ComponentLogger) Error(msg string, args ...any) {
	l.logger().Error(msg, args...)
}
