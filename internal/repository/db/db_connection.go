package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "modernc.org/sqlite"
)

const sqliteDriverName = "sqlite"

// maxConnectElapsed bounds the total time spent retrying the initial ping.
const maxConnectElapsed = 10 * time.Second

// InitDB opens/creates a SQLite DB file, waits until it answers and ensures tables exist.
// retries is the number of extra ping attempts made with exponential backoff.
func InitDB(path string, retries int) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// One connection gives the realtime node table single-writer semantics
	// and makes every write visible to the next read.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := pingWithBackoff(db, retries); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func pingWithBackoff(db *sql.DB, retries int) error {
	if retries < 0 {
		retries = 0
	}
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = maxConnectElapsed
	return backoff.Retry(db.Ping, backoff.WithMaxRetries(bo, uint64(retries)))
}

const schemaRealtimeNodes = `
CREATE TABLE IF NOT EXISTS realtime_nodes (
    path TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
`

const schemaPlants = `
CREATE TABLE IF NOT EXISTS plants (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    species TEXT,
    sensor_node TEXT NOT NULL,
    status TEXT NOT NULL,
    last_updated TIMESTAMP NOT NULL,
    created_at TIMESTAMP NOT NULL
);
`

const schemaAnalysisEvents = `
CREATE TABLE IF NOT EXISTS analysis_events (
    id TEXT PRIMARY KEY,
    occurred_at TIMESTAMP NOT NULL,
    type TEXT NOT NULL,
    request_id TEXT,
    plant_id TEXT,
    sensor_node TEXT,
    message TEXT NOT NULL,
    meta TEXT,
    requested_by INTEGER
);
`

const schemaUsers = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL
);
`

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaRealtimeNodes,
		schemaPlants,
		schemaAnalysisEvents,
		schemaUsers,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	// analysis_events gained requested_by after the first release.
	if err := addColumnIfMissing(tx, "analysis_events", "requested_by", "INTEGER"); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}

func addColumnIfMissing(tx *sql.Tx, table, column, decl string) error {
	var n int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column).Scan(&n); err != nil {
		return fmt.Errorf("inspect %s: %w", table, err)
	}
	if n > 0 {
		return nil
	}
	if _, err := tx.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, decl)); err != nil {
		return fmt.Errorf("add %s.%s: %w", table, column, err)
	}
	return nil
}
