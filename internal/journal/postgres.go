package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresConfig holds the connection settings for the Postgres journal.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// Postgres is the journal backend for deployments that already run a
// Postgres instance. Same contract as the SQLite backend: append-only
// events keyed by seq, idempotent on conflict.
type Postgres struct {
	db *sql.DB
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS events (
    seq         BIGINT PRIMARY KEY,
    kind        TEXT NOT NULL,
    table_id    TEXT NOT NULL DEFAULT '',
    payload     JSONB NOT NULL,
    recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_events_table ON events(table_id, seq);
`

// OpenPostgres connects to the database with retries and ensures the
// schema exists. Brokered restarts and slow container starts make the
// first connection flaky, hence the retry loop.
func OpenPostgres(ctx context.Context, cfg PostgresConfig) (*Postgres, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database)

	const (
		maxRetries = 10
		retryDelay = 2 * time.Second
		pingTTL    = 5 * time.Second
	)

	var (
		db  *sql.DB
		err error
	)
	for i := 1; i <= maxRetries; i++ {
		db, err = sql.Open("pgx", dsn)
		if err == nil {
			pctx, cancel := context.WithTimeout(ctx, pingTTL)
			err = db.PingContext(pctx)
			cancel()
			if err == nil {
				break
			}
			_ = db.Close()
			db = nil
		}

		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			return nil, fmt.Errorf("journal connect canceled: %w", ctx.Err())
		}
	}
	if db == nil {
		return nil, fmt.Errorf("journal database unreachable after %d attempts: %w", maxRetries, err)
	}

	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}

	return &Postgres{db: db}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() error {
	if p.db == nil {
		return nil
	}
	return p.db.Close()
}

// Record appends one event, idempotent on seq.
func (p *Postgres) Record(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("record event %d: marshal: %w", ev.Seq, err)
	}

	_, err = p.db.ExecContext(ctx, `
		INSERT INTO events (seq, kind, table_id, payload, recorded_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (seq) DO NOTHING
	`,
		ev.Seq,
		string(ev.Kind),
		ev.TableID,
		string(payload),
		ev.RecordedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("record event %d: %w", ev.Seq, err)
	}
	return nil
}

// LoadAll reads the full log in seq order and replays it.
func (p *Postgres) LoadAll(ctx context.Context) (*Load, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT payload FROM events ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		var ev Event
		if err := json.Unmarshal(payload, &ev); err != nil {
			return nil, fmt.Errorf("unmarshal event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read events: %w", err)
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
