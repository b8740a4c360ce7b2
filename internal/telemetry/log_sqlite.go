package telemetry

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// EventLog is an append-only mirror of emitted events for offline auditing.
// It grows unbounded for the session; append failures are the caller's to
// swallow.
type EventLog interface {
	Append(ctx context.Context, ev Event) error
	Close() error
}

// SQLiteLog stores events in a local SQLite file, one row per event,
// insert-only. Rows are never updated or deleted.
type SQLiteLog struct {
	db *sql.DB
}

// NewSQLiteLog opens (or creates) the event log at path.
func NewSQLiteLog(path string) (*SQLiteLog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open telemetry log: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS telemetry_events (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		action     TEXT NOT NULL,
		reference  TEXT NOT NULL,
		name       TEXT DEFAULT '',
		serial     TEXT DEFAULT '',
		page_url   TEXT DEFAULT '',
		browser    TEXT DEFAULT '',
		emitted_at DATETIME NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_telemetry_events_reference ON telemetry_events(reference);
	CREATE INDEX IF NOT EXISTS idx_telemetry_events_emitted_at ON telemetry_events(emitted_at);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init telemetry log schema: %w", err)
	}
	return &SQLiteLog{db: db}, nil
}

// Append records one event.
func (l *SQLiteLog) Append(ctx context.Context, ev Event) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO telemetry_events (action, reference, name, serial, page_url, browser, emitted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.Action, ev.Reference, ev.Name, ev.Serial, ev.PageURL, ev.Browser, ev.Timestamp,
	)
	return err
}

// Close releases the underlying database handle.
func (l *SQLiteLog) Close() error {
	return l.db.Close()
}
