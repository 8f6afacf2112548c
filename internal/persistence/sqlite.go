// Package persistence keeps the last published snapshot in an embedded
// sqlite database so the dashboard survives restarts.
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"slapulse/internal/infrastructure"
	"slapulse/internal/store"
	"slapulse/pkg/contracts/domain"
)

// ErrNoSnapshot is returned by LoadSnapshot when nothing has been saved yet
var ErrNoSnapshot = errors.New("no snapshot saved")

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id           INTEGER PRIMARY KEY CHECK (id = 1),
	version      INTEGER NOT NULL,
	source       TEXT    NOT NULL,
	loaded_at    TEXT    NOT NULL,
	saved_at     TEXT    NOT NULL,
	record_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS package_records (
	position    INTEGER PRIMARY KEY,
	id          TEXT NOT NULL,
	pedido      TEXT NOT NULL,
	data_pedido TEXT NOT NULL,
	vendedor    TEXT NOT NULL,
	zona        TEXT NOT NULL,
	sla         TEXT NOT NULL,
	payload     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_package_records_pedido ON package_records (pedido);
`

// SavedSnapshot is a snapshot read back from the database
type SavedSnapshot struct {
	Records  []domain.PackageRecord
	Version  int64
	Source   string
	LoadedAt time.Time
	SavedAt  time.Time
}

// Repository is the sqlite-backed snapshot repository
type Repository struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Repository, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("open snapshot db: create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db %q: %w", path, err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("open snapshot db: verify connection to %q: %w", path, err)
	}

	r := &Repository{db: db, logger: logger.With(slog.String("component", "persistence"))}
	if err := r.InitSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

// InitSchema creates the tables when missing.
func (r *Repository) InitSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// SaveSnapshot replaces the stored snapshot with snap in one transaction.
func (r *Repository) SaveSnapshot(ctx context.Context, snap *store.Snapshot) (err error) {
	if snap == nil {
		return errors.New("save snapshot: nil snapshot")
	}
	start := time.Now()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save snapshot: begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM package_records`); err != nil {
		return fmt.Errorf("save snapshot: clear records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO package_records (position, id, pedido, data_pedido, vendedor, zona, sla, payload)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("save snapshot: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range snap.Records {
		rec := &snap.Records[i]
		payload, mErr := json.Marshal(rec)
		if mErr != nil {
			err = fmt.Errorf("save snapshot: encode record %d: %w", i, mErr)
			return err
		}
		if _, err = stmt.ExecContext(ctx, i, rec.ID, rec.Pedido, rec.DataPedido, rec.Vendedor, rec.Zona, string(rec.SLA), string(payload)); err != nil {
			return fmt.Errorf("save snapshot: insert record %d: %w", i, err)
		}
	}

	if _, err = tx.ExecContext(ctx, `
	INSERT INTO snapshots (id, version, source, loaded_at, saved_at, record_count)
	VALUES (1, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		version = excluded.version,
		source = excluded.source,
		loaded_at = excluded.loaded_at,
		saved_at = excluded.saved_at,
		record_count = excluded.record_count`,
		snap.Version, snap.Source, snap.LoadedAt.UTC().Format(time.RFC3339Nano),
		time.Now().UTC().Format(time.RFC3339Nano), len(snap.Records)); err != nil {
		return fmt.Errorf("save snapshot: write header: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("save snapshot: commit: %w", err)
	}

	r.logger.InfoContext(ctx, "Snapshot saved",
		slog.Int64("version", snap.Version),
		slog.Int("records", len(snap.Records)),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// LoadSnapshot reads the stored snapshot, records in their saved order.
func (r *Repository) LoadSnapshot(ctx context.Context) (*SavedSnapshot, error) {
	var (
		saved             SavedSnapshot
		loadedAt, savedAt string
		count             int
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT version, source, loaded_at, saved_at, record_count FROM snapshots WHERE id = 1`).
		Scan(&saved.Version, &saved.Source, &loadedAt, &savedAt, &count)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: read header: %w", err)
	}
	saved.LoadedAt, _ = time.Parse(time.RFC3339Nano, loadedAt)
	saved.SavedAt, _ = time.Parse(time.RFC3339Nano, savedAt)

	rows, err := r.db.QueryContext(ctx, `SELECT payload FROM package_records ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: query records: %w", err)
	}
	defer rows.Close()

	saved.Records = make([]domain.PackageRecord, 0, count)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("load snapshot: scan row: %w", err)
		}
		var rec domain.PackageRecord
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			return nil, fmt.Errorf("load snapshot: decode record %d: %w", len(saved.Records), err)
		}
		saved.Records = append(saved.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load snapshot: row iteration: %w", err)
	}

	r.logger.InfoContext(ctx, "Snapshot loaded",
		slog.Int64("version", saved.Version),
		slog.Int("records", len(saved.Records)))
	return &saved, nil
}

// Ping verifies the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close releases the database.
func (r *Repository) Close() error {
	return r.db.Close()
}
