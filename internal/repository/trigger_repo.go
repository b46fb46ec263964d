package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"plant_monitor/internal/models"
)

// TriggerSQLite stores JSON documents addressed by a slash-separated path,
// the way a realtime database node is addressed.
type TriggerSQLite struct {
	db  *sql.DB
	now func() time.Time
}

func NewTriggerSQLite(db *sql.DB) *TriggerSQLite {
	return &TriggerSQLite{db: db, now: time.Now}
}

const (
	upsertNodeSQL = `
		INSERT INTO realtime_nodes (path, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			value=excluded.value,
			updated_at=excluded.updated_at
	`
	selectNodeSQL = `SELECT value FROM realtime_nodes WHERE path=?`
	deleteNodeSQL = `DELETE FROM realtime_nodes WHERE path=?`
	takeNodeSQL   = `DELETE FROM realtime_nodes WHERE path=? RETURNING value`
)

// normalizePath trims surrounding slashes so "/a/b/" and "a/b" address the same node.
func normalizePath(p string) string {
	return strings.Trim(strings.TrimSpace(p), "/")
}

// decodeNode turns a stored document into a record. A document counts as
// cleared when it has no keys: null, {}, [], "", numbers and booleans.
// Anything else is present. A present document with unknown keys (a worker
// progress note, say) yields a non-nil record with zero fields.
func decodeNode(raw string) (*models.TriggerRecord, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, err
	}
	switch doc := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		if len(doc) == 0 {
			return nil, nil
		}
		// A field of the wrong type leaves it zero; the node is still present.
		var rec models.TriggerRecord
		_ = json.Unmarshal([]byte(raw), &rec)
		return &rec, nil
	case bool, float64:
		return nil, nil
	case string:
		if doc == "" {
			return nil, nil
		}
	case []any:
		if len(doc) == 0 {
			return nil, nil
		}
	}
	return &models.TriggerRecord{}, nil
}

// Set replaces the whole document at path. The timestamp is always assigned
// by the store, any value supplied by the caller is ignored.
func (r *TriggerSQLite) Set(ctx context.Context, path string, rec models.TriggerRecord) (models.TriggerRecord, error) {
	path = normalizePath(path)
	if path == "" {
		return models.TriggerRecord{}, errors.New("empty node path")
	}

	now := r.now().UTC()
	rec.Timestamp = now.UnixMilli()

	b, err := json.Marshal(rec)
	if err != nil {
		return models.TriggerRecord{}, fmt.Errorf("marshal trigger record: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, upsertNodeSQL, path, string(b), now); err != nil {
		return models.TriggerRecord{}, fmt.Errorf("write node %q: %w", path, err)
	}
	return rec, nil
}

// Get loads the document at path; a missing row or an empty document yields (nil, nil).
// Any other document is present, even when it has none of the record's fields.
func (r *TriggerSQLite) Get(ctx context.Context, path string) (*models.TriggerRecord, error) {
	path = normalizePath(path)

	var raw string
	if err := r.db.QueryRowContext(ctx, selectNodeSQL, path).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("read node %q: %w", path, err)
	}
	rec, err := decodeNode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode node %q: %w", path, err)
	}
	return rec, nil
}

// Clear removes the document at path. Clearing an absent node is not an error.
func (r *TriggerSQLite) Clear(ctx context.Context, path string) error {
	path = normalizePath(path)
	if _, err := r.db.ExecContext(ctx, deleteNodeSQL, path); err != nil {
		return fmt.Errorf("clear node %q: %w", path, err)
	}
	return nil
}

// Take deletes the document at path and returns what it held, in one statement,
// so a record written concurrently is never removed unseen.
func (r *TriggerSQLite) Take(ctx context.Context, path string) (*models.TriggerRecord, error) {
	path = normalizePath(path)

	var raw string
	if err := r.db.QueryRowContext(ctx, takeNodeSQL, path).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("take node %q: %w", path, err)
	}
	rec, err := decodeNode(raw)
	if err != nil {
		// the row is gone either way; report it as an unreadable record
		return nil, fmt.Errorf("decode node %q: %w", path, err)
	}
	return rec, nil
}
