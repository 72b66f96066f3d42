package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Added (kind, seq) index
const currentSchemaVersion = 1

// SQLite is the default durable journal, a single-file SQLite database
// in WAL mode.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite creates or opens the journal database at the given path.
// Applies required pragmas and the schema automatically; safe to call
// multiple times against the same file.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect journal: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent table operations.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record appends one event. ON CONFLICT(seq) DO NOTHING makes the
// append idempotent: re-recording a seq after a crash is a no-op.
func (s *SQLite) Record(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("record event %d: marshal: %w", ev.Seq, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO events (seq, kind, table_id, payload, recorded_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(seq) DO NOTHING
	`,
		ev.Seq,
		string(ev.Kind),
		ev.TableID,
		string(payload),
		ev.RecordedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record event %d: %w", ev.Seq, err)
	}
	return nil
}

// LoadAll reads the full log in seq order and replays it into a fresh
// store.
func (s *SQLite) LoadAll(ctx context.Context) (*Load, error) {
	events, err := s.readEvents(ctx)
	if err != nil {
		return nil, err
	}

	st, err := Replay(events)
	if err != nil {
		return nil, err
	}

	var last int64
	if len(events) > 0 {
		last = events[len(events)-1].Seq
	}
	return &Load{Store: st, LastSeq: last, Events: events}, nil
}

func (s *SQLite) readEvents(ctx context.Context) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM events ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		var ev Event
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			return nil, fmt.Errorf("unmarshal event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	return events, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

// applySchema creates the events table if needed and runs migrations.
// Idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		// v1 adds the (kind, seq) index; CREATE INDEX IF NOT EXISTS is a
		// no-op for databases created from the current schema.
		if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind, seq)`); err != nil {
			return fmt.Errorf("migrate to v1: %w", err)
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}
