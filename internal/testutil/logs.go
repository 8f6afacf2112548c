package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// LogEntry is a log record captured by a LogRecorder.
type LogEntry struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// LogRecorder is a slog.Handler that keeps every record for later assertions.
// Loggers derived with With share the recorder.
type LogRecorder struct {
	mu      *sync.Mutex
	entries *[]LogEntry
	attrs   []slog.Attr
}

// NewLogRecorder returns a logger writing to a fresh recorder. Nothing is
// echoed to the test log, so background goroutines may keep logging after
// the test returns.
func NewLogRecorder() (*slog.Logger, *LogRecorder) {
	rec := &LogRecorder{mu: &sync.Mutex{}, entries: &[]LogEntry{}}
	return slog.New(rec), rec
}

func (r *LogRecorder) Enabled(context.Context, slog.Level) bool { return true }

func (r *LogRecorder) Handle(_ context.Context, record slog.Record) error {
	attrs := make(map[string]any, len(r.attrs)+record.NumAttrs())
	for _, a := range r.attrs {
		attrs[a.Key] = a.Value.Any()
	}
	record.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	r.mu.Lock()
	*r.entries = append(*r.entries, LogEntry{Level: record.Level, Message: record.Message, Attrs: attrs})
	r.mu.Unlock()
	return nil
}

func (r *LogRecorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *r
	next.attrs = append(append([]slog.Attr{}, r.attrs...), attrs...)
	return &next
}

// WithGroup is flat: grouped attributes are recorded under their own keys.
func (r *LogRecorder) WithGroup(string) slog.Handler { return r }

// Entries returns a copy of the captured records.
func (r *LogRecorder) Entries() []LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]LogEntry(nil), *r.entries...)
}

// AtLevel returns the records logged at level.
func (r *LogRecorder) AtLevel(level slog.Level) []LogEntry {
	var out []LogEntry
	for _, e := range r.Entries() {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// Find returns the first record whose message contains msg.
func (r *LogRecorder) Find(msg string) (LogEntry, bool) {
	for _, e := range r.Entries() {
		if strings.Contains(e.Message, msg) {
			return e, true
		}
	}
	return LogEntry{}, false
}

// Reset drops captured records.
func (r *LogRecorder) Reset() {
	r.mu.Lock()
	*r.entries = (*r.entries)[:0]
	r.mu.Unlock()
}
