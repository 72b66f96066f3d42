// Package journal provides the persistence adapter behind the
// allocation engine: an append-only log of committed events plus the
// replay logic that rebuilds an entity store from it.
//
// The journal is the single durable artifact. LoadAll replays the full
// log into a fresh store at startup; Record appends one committed event
// and is called synchronously after each in-memory commit. Appends are
// idempotent on the event seq, so re-recording after a crash is safe.
package journal

import (
	"context"

	"github.com/maitred-run/maitred/internal/entity"
	"github.com/maitred-run/maitred/internal/store"
)

// Event aliases the committed event type so adapter code reads
// naturally without a second import.
type Event = entity.Event

// Journal is the durable event log consumed by the engine and the CLI.
type Journal interface {
	// LoadAll rebuilds the committed state. Called once at startup.
	LoadAll(ctx context.Context) (*Load, error)

	// Record durably appends one committed event. Called synchronously
	// after the in-memory commit; a failure makes the engine roll the
	// commit back.
	Record(ctx context.Context, ev Event) error

	Close() error
}

// Load is the result of replaying the full journal.
type Load struct {
	// Store holds the reconstructed records.
	Store *store.Store

	// LastSeq is the highest event seq in the log; the engine's clock
	// resumes from it.
	LastSeq int64

	// Events is the log itself in seq order.
	Events []Event
}
