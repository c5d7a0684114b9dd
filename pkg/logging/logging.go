// SPDX-License-Identifier: Apache-2.0

// Package logging provides the orchestrator's structured logger: every
// entry is redacted, printed through pterm for human operators, and kept
// in an in-memory ring so a run can flush its complete history to
// run_log.ndjson at the end.
package logging

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/pterm/pterm"
)

// Entry is one structured log line, matching the original orchestrator's
// log dict shape (ts/run_id/level/category/message + arbitrary fields).
type Entry struct {
	Timestamp time.Time      `json:"ts"`
	RunID     string         `json:"run_id"`
	Level     string         `json:"level"`
	Category  string         `json:"category"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"-"`
}

// MarshalJSON flattens Fields alongside the named fields, matching the
// original's dict-spread log entry shape rather than nesting them.
func (e Entry) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"ts":       e.Timestamp.Format(time.RFC3339Nano),
		"run_id":   e.RunID,
		"level":    e.Level,
		"category": e.Category,
		"message":  e.Message,
	}
	for k, v := range e.Fields {
		out[k] = v
	}
	return json.Marshal(out)
}

// Logger records every entry in an in-memory ring (for later NDJSON
// export) while also emitting it through pterm for a human operator
// watching the run live.
type Logger struct {
	runID string

	mu      sync.Mutex
	entries []Entry
}

// New creates a Logger scoped to a single run.
func New(runID string) *Logger {
	return &Logger{runID: runID}
}

func (l *Logger) log(level, category, message string, fields map[string]any) {
	redactedMessage := redact(message)
	redactedFields := make(map[string]any, len(fields))
	for k, v := range fields {
		if s, ok := v.(string); ok {
			redactedFields[k] = redact(s)
		} else {
			redactedFields[k] = v
		}
	}

	entry := Entry{
		Timestamp: time.Now().UTC(),
		RunID:     l.runID,
		Level:     level,
		Category:  category,
		Message:   redactedMessage,
		Fields:    redactedFields,
	}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()

	l.emit(level, category, redactedMessage, redactedFields)
}

func (l *Logger) emit(level, category, message string, fields map[string]any) {
	args := make([]any, 0, len(fields)*2+2)
	args = append(args, "category", category)
	for k, v := range fields {
		args = append(args, k, v)
	}

	switch level {
	case "ERROR":
		pterm.DefaultLogger.Error(message, pterm.DefaultLogger.Args(args...))
	case "WARNING":
		pterm.DefaultLogger.Warn(message, pterm.DefaultLogger.Args(args...))
	default:
		pterm.DefaultLogger.Info(message, pterm.DefaultLogger.Args(args...))
	}
}

// Info records an informational log entry.
func (l *Logger) Info(category, message string, fields map[string]any) {
	l.log("INFO", category, message, fields)
}

// Warn records a warning log entry.
func (l *Logger) Warn(category, message string, fields map[string]any) {
	l.log("WARNING", category, message, fields)
}

// Error records an error log entry.
func (l *Logger) Error(category, message string, fields map[string]any) {
	l.log("ERROR", category, message, fields)
}

// Entries returns a copy of every entry recorded so far, in order.
func (l *Logger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// RenderNDJSON serializes every recorded entry as newline-delimited JSON,
// the format written to run_log.ndjson.
func (l *Logger) RenderNDJSON() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []byte
	for _, e := range l.entries {
		b, err := json.Marshal(e)
		if err != nil {
			return "", fmt.Errorf("marshaling log entry: %w", err)
		}
		out = append(out, b...)
		out = append(out, '\n')
	}
	return string(out), nil
}
