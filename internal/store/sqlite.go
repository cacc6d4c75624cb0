package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// openSQLite opens (and creates if needed) the SQLite database at path and
// ensures required tables exist.
func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Basic health check + apply a few safe pragmas.
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(pctx, "PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign_keys: %w", err)
	}
	if _, err := db.ExecContext(pctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy_timeout: %w", err)
	}
	if err := bootstrap(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// bootstrap creates tables/indexes if missing.
func bootstrap(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS delivery (
  id          TEXT PRIMARY KEY,
  tenant      TEXT,
  body_hash   TEXT NOT NULL,
  received_at TEXT NOT NULL,
  entries     INTEGER NOT NULL DEFAULT 0
);`,
		`CREATE TABLE IF NOT EXISTS delivery_entry (
  delivery_id TEXT NOT NULL REFERENCES delivery(id),
  idx         INTEGER NOT NULL,
  event       TEXT,
  outcome     TEXT NOT NULL,
  route_key   TEXT,
  error       TEXT,
  PRIMARY KEY (delivery_id, idx)
);`,
		`CREATE INDEX IF NOT EXISTS delivery_received_at_idx ON delivery(received_at);`,
		`CREATE INDEX IF NOT EXISTS delivery_body_hash_idx ON delivery(body_hash);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap sqlite: %w", err)
		}
	}
	return nil
}
