// Package store holds the record snapshot served to the dashboard views.
//
// A snapshot is immutable once published. Replace builds a new one and swaps
// it in with a single atomic pointer store, so a reader sees either the old
// or the new record set in full.
package store

import (
	"log/slog"
	"sync/atomic"
	"time"

	"slapulse/pkg/contracts/domain"
)

// Snapshot is an immutable record set published by a processing run.
// Callers must not mutate Records.
type Snapshot struct {
	Records  []domain.PackageRecord
	Version  int64
	LoadedAt time.Time
	Source   string
}

// Len returns the number of records in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Records)
}

// Empty reports whether the snapshot holds no records.
func (s *Snapshot) Empty() bool {
	return s.Len() == 0
}

// Store owns the current snapshot
type Store struct {
	current atomic.Pointer[Snapshot]
	version atomic.Int64
	logger  *slog.Logger
}

// New creates a store holding an empty snapshot.
func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{logger: logger.With(slog.String("component", "record_store"))}
	s.current.Store(&Snapshot{Records: []domain.PackageRecord{}, LoadedAt: time.Now()})
	return s
}

// Current returns the snapshot in effect. It never returns nil.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Records is shorthand for Current().Records.
func (s *Store) Records() []domain.PackageRecord {
	return s.Current().Records
}

// Replace publishes records as the new snapshot. The slice is copied so later
// changes by the caller cannot leak into readers.
func (s *Store) Replace(records []domain.PackageRecord, source string) *Snapshot {
	owned := make([]domain.PackageRecord, len(records))
	copy(owned, records)

	snap := &Snapshot{
		Records:  owned,
		Version:  s.version.Add(1),
		LoadedAt: time.Now(),
		Source:   source,
	}
	s.current.Store(snap)

	s.logger.Info("snapshot replaced",
		slog.Int64("version", snap.Version),
		slog.Int("records", len(owned)),
		slog.String("source", source),
	)
	return snap
}

// HasData reports whether the current snapshot has any records.
func (s *Store) HasData() bool {
	return !s.Current().Empty()
}
