// Package manifest provides durable storage for the names a pass
// materialized. The manifest is an audit trail: given a logical id it
// answers which runs named it, with what value, and whether the value was
// synthesized or kept from a prior view.
package manifest

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/cfnamer/cfnamer/internal/engine"
)

//go:embed schema.sql
var schemaSQL string

// Store is a SQLite-backed naming manifest.
type Store struct {
	db *sql.DB
}

// Open creates or opens a manifest database at the given path.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
//
// Idempotent: safe to call against an existing manifest.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to manifest: %w", err)
	}

	// SQLite supports one writer at a time; keep a single connection to
	// avoid SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// BeginRun registers a new pass and returns its run id.
func (s *Store) BeginRun(ctx context.Context, templatePath, prefix string) (string, error) {
	runID := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, template, prefix, created_at)
		VALUES (?, ?, ?, ?)
	`, runID, templatePath, prefix, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("begin run: %w", err)
	}
	return runID, nil
}

// WriteName records one materialized name. ON CONFLICT DO NOTHING keeps
// the write idempotent if the same record is emitted twice within a run.
func (s *Store) WriteName(ctx context.Context, runID string, rec engine.Record) error {
	kept := 0
	if rec.Kept {
		kept = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO names (run_id, logical_id, type_tag, property, value, kept)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`, runID, rec.LogicalID, rec.TypeTag, rec.Property, rec.Value, kept)
	if err != nil {
		return fmt.Errorf("write name: %w", err)
	}
	return nil
}

// ListRun returns the records written by a run, ordered by logical id
// then property for deterministic output.
func (s *Store) ListRun(ctx context.Context, runID string) ([]engine.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT logical_id, type_tag, property, value, kept
		FROM names
		WHERE run_id = ?
		ORDER BY logical_id, property
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("list run: %w", err)
	}
	defer rows.Close()

	var recs []engine.Record
	for rows.Next() {
		var rec engine.Record
		var kept int
		if err := rows.Scan(&rec.LogicalID, &rec.TypeTag, &rec.Property, &rec.Value, &kept); err != nil {
			return nil, fmt.Errorf("list run: %w", err)
		}
		rec.Kept = kept != 0
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list run: %w", err)
	}
	return recs, nil
}

// History returns every record ever written for a logical id, newest run
// first.
func (s *Store) History(ctx context.Context, logicalID string) ([]engine.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT n.logical_id, n.type_tag, n.property, n.value, n.kept
		FROM names n
		JOIN runs r ON r.id = n.run_id
		WHERE n.logical_id = ?
		ORDER BY r.created_at DESC, n.property
	`, logicalID)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	defer rows.Close()

	var recs []engine.Record
	for rows.Next() {
		var rec engine.Record
		var kept int
		if err := rows.Scan(&rec.LogicalID, &rec.TypeTag, &rec.Property, &rec.Value, &kept); err != nil {
			return nil, fmt.Errorf("history: %w", err)
		}
		rec.Kept = kept != 0
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return recs, nil
}
