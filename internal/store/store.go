// Package store implements the embedded persistence shim for the Arcanum
// entity layer, backed by SQLite (modernc.org/sqlite, pure Go).
//
// The store enforces what the schema alone cannot: reference resolution
// before insert, step-order uniqueness per protocol, monotonic counters,
// immutable creation timestamps, and exact round-tripping of open maps and
// ordered lists. The model is single-writer-per-record; the connection pool
// is pinned to one connection, which also keeps ":memory:" databases
// coherent.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"aetherops.io/arcanum/internal/config"
	apperrors "aetherops.io/arcanum/internal/pkg/errors"
)

//go:embed schema.sql
var schemaSQL string

// Store is the SQLite-backed persistence layer.
type Store struct {
	db  *sql.DB
	log *zap.Logger

	// now is swappable for deterministic tests.
	now func() time.Time
}

// Open creates (or opens) the database at cfg.Path, enables foreign keys,
// and applies the embedded schema. ":memory:" keeps the store in-process.
func Open(cfg config.StoreConfig, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open database %q: %w", cfg.Path, err)
	}

	// One connection: single-writer model, and a ":memory:" database is
	// per-connection in SQLite.
	db.SetMaxOpenConns(1)

	busyMillis := cfg.BusyTimeout.Milliseconds()
	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		fmt.Sprintf("PRAGMA busy_timeout = %d", busyMillis),
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	log.Info("store opened", zap.String("path", cfg.Path))

	return &Store{
		db:  db,
		log: log,
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

// Close releases the database connection. Idempotent.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	s.log.Info("store closed")
	return err
}

// rowScanner abstracts *sql.Row and *sql.Rows for the per-entity hydrate
// helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

// exists runs an EXISTS check for a parent-reference lookup.
func (s *Store) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// storage wraps an unexpected database or encoding fault.
func storage(err error, op string) error {
	return apperrors.Wrap(err, apperrors.KindInternal, apperrors.CodeStorageFailure, op)
}
