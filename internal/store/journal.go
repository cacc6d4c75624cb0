// Package store persists a journal of received webhook deliveries and their
// per-entry routing outcomes, for operator inspection and dedupe.
package store

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/zeebo/blake3"
)

// Entry outcomes.
const (
	OutcomeOK        = "ok"
	OutcomeUnhandled = "unhandled"
	OutcomeInvalid   = "invalid"
)

// Delivery is one received webhook call.
type Delivery struct {
	ID         string
	Tenant     string
	BodyHash   string
	ReceivedAt time.Time
	Entries    []EntryResult
}

// EntryResult is the routing outcome of one envelope entry.
type EntryResult struct {
	Index    int
	Event    string
	Outcome  string
	RouteKey string
	Error    string
}

// Journal is a SQLite-backed delivery journal.
type Journal struct {
	db *sql.DB
}

// Open opens the journal database at path, creating it if needed.
func Open(ctx context.Context, path string) (*Journal, error) {
	db, err := openSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// HashBody returns the hex BLAKE3 digest of a raw webhook body. Identical
// redelivered bodies hash identically, which makes this usable as a dedupe
// key.
func HashBody(body []byte) string {
	sum := blake3.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// Record writes one delivery and all of its entry results in a single
// transaction.
func (j *Journal) Record(ctx context.Context, d Delivery) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO delivery (id, tenant, body_hash, received_at, entries) VALUES (?, ?, ?, ?, ?)`,
		d.ID, d.Tenant, d.BodyHash, d.ReceivedAt.UTC().Format(time.RFC3339Nano), len(d.Entries),
	)
	if err != nil {
		return fmt.Errorf("insert delivery: %w", err)
	}

	for _, e := range d.Entries {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO delivery_entry (delivery_id, idx, event, outcome, route_key, error) VALUES (?, ?, ?, ?, ?, ?)`,
			d.ID, e.Index, e.Event, e.Outcome, e.RouteKey, e.Error,
		)
		if err != nil {
			return fmt.Errorf("insert delivery entry %d: %w", e.Index, err)
		}
	}

	return tx.Commit()
}

// Recent returns the latest deliveries, newest first, with their entry
// results attached.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Delivery, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, tenant, body_hash, received_at FROM delivery ORDER BY received_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query deliveries: %w", err)
	}
	defer rows.Close()

	var out []Delivery
	for rows.Next() {
		var d Delivery
		var receivedAt string
		if err := rows.Scan(&d.ID, &d.Tenant, &d.BodyHash, &receivedAt); err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, receivedAt); err == nil {
			d.ReceivedAt = ts
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		entries, err := j.entries(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Entries = entries
	}
	return out, nil
}

func (j *Journal) entries(ctx context.Context, deliveryID string) ([]EntryResult, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT idx, event, outcome, route_key, error FROM delivery_entry WHERE delivery_id = ? ORDER BY idx`,
		deliveryID)
	if err != nil {
		return nil, fmt.Errorf("query delivery entries: %w", err)
	}
	defer rows.Close()

	var out []EntryResult
	for rows.Next() {
		var e EntryResult
		if err := rows.Scan(&e.Index, &e.Event, &e.Outcome, &e.RouteKey, &e.Error); err != nil {
			return nil, fmt.Errorf("scan delivery entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
