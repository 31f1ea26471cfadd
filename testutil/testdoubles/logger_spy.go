// Package testdoubles provides spy implementations of the shell
// observability interfaces for asserting on pipeline instrumentation.
package testdoubles

import (
	"context"
	"sync"

	"github.com/librarylab/lending-go/shell"
)

// LogRecord is one captured logging call.
type LogRecord struct {
	Level   string
	Message string
	Args    []any
}

// LoggerSpy captures calls to the basic shell.Logger interface.
type LoggerSpy struct {
	mu      sync.Mutex
	records []LogRecord
}

// NewLoggerSpy creates an empty LoggerSpy.
func NewLoggerSpy() *LoggerSpy {
	return &LoggerSpy{}
}

func (s *LoggerSpy) Debug(msg string, args ...any) { s.record("debug", msg, args) }
func (s *LoggerSpy) Info(msg string, args ...any)  { s.record("info", msg, args) }
func (s *LoggerSpy) Warn(msg string, args ...any)  { s.record("warn", msg, args) }
func (s *LoggerSpy) Error(msg string, args ...any) { s.record("error", msg, args) }

func (s *LoggerSpy) record(level string, msg string, args []any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, LogRecord{Level: level, Message: msg, Args: args})
}

// Records returns a copy of all captured log calls in order.
func (s *LoggerSpy) Records() []LogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]LogRecord, len(s.records))
	copy(out, s.records)

	return out
}

// RecordsWithLevel returns the captured calls of one severity.
func (s *LoggerSpy) RecordsWithLevel(level string) []LogRecord {
	out := make([]LogRecord, 0)
	for _, r := range s.Records() {
		if r.Level == level {
			out = append(out, r)
		}
	}

	return out
}

var _ shell.Logger = (*LoggerSpy)(nil)

// ContextualLoggerSpy captures calls to shell.ContextualLogger.
type ContextualLoggerSpy struct {
	mu      sync.Mutex
	records []LogRecord
}

// NewContextualLoggerSpy creates an empty ContextualLoggerSpy.
func NewContextualLoggerSpy() *ContextualLoggerSpy {
	return &ContextualLoggerSpy{}
}

func (s *ContextualLoggerSpy) DebugContext(_ context.Context, msg string, args ...any) {
	s.record("debug", msg, args)
}

func (s *ContextualLoggerSpy) InfoContext(_ context.Context, msg string, args ...any) {
	s.record("info", msg, args)
}

func (s *ContextualLoggerSpy) WarnContext(_ context.Context, msg string, args ...any) {
	s.record("warn", msg, args)
}

func (s *ContextualLoggerSpy) ErrorContext(_ context.Context, msg string, args ...any) {
	s.record("error", msg, args)
}

func (s *ContextualLoggerSpy) record(level string, msg string, args []any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, LogRecord{Level: level, Message: msg, Args: args})
}

// Records returns a copy of all captured log calls in order.
func (s *ContextualLoggerSpy) Records() []LogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]LogRecord, len(s.records))
	copy(out, s.records)

	return out
}

var _ shell.ContextualLogger = (*ContextualLoggerSpy)(nil)
