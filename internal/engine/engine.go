// Package engine implements the allocation engine: the single authority
// for every state change across tables, reservations and orders.
//
// Each operation runs as an atomic check-then-apply sequence under a
// per-table lock. Validation happens first against the live store; on
// success the engine commits by applying a journal event to the store
// and recording it durably. A failed durability write rolls the
// in-memory change back, so memory and the journal never disagree.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/maitred-run/maitred/internal/catalog"
	"github.com/maitred-run/maitred/internal/entity"
	"github.com/maitred-run/maitred/internal/journal"
	"github.com/maitred-run/maitred/internal/store"
	"github.com/maitred-run/maitred/internal/validate"
)

// Recorder is the durability side of the journal as the engine sees it.
type Recorder interface {
	Record(ctx context.Context, ev entity.Event) error
}

// Publisher fans a committed event out to subscribers. Returned errors
// are collected per handler; none of them affect the commit.
type Publisher interface {
	Publish(ev entity.Event) []error
}

// Engine owns all mutations of the entity store.
type Engine struct {
	st     *store.Store
	rec    Recorder
	pub    Publisher
	menu   catalog.Catalog
	policy entity.Policy
	clock  *Clock
	ids    IDGenerator
	locks  *tableLocks
	now    func() time.Time
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithPolicy overrides the default service policy.
func WithPolicy(p entity.Policy) Option {
	return func(e *Engine) { e.policy = p }
}

// WithClock sets the logical clock, typically NewClockAt(lastSeq) after
// loading an existing journal.
func WithClock(c *Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithIDGenerator sets the id generator. Tests pass a FixedGenerator.
func WithIDGenerator(g IDGenerator) Option {
	return func(e *Engine) { e.ids = g }
}

// WithNow sets the wall-clock source. Tests pin it.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithNotifier sets the event fan-out target.
func WithNotifier(p Publisher) Option {
	return func(e *Engine) { e.pub = p }
}

// WithCatalog sets the menu used to price order items.
func WithCatalog(c catalog.Catalog) Option {
	return func(e *Engine) { e.menu = c }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an engine over the given store and journal recorder.
func New(st *store.Store, rec Recorder, opts ...Option) *Engine {
	e := &Engine{
		st:     st,
		rec:    rec,
		policy: entity.DefaultPolicy(),
		clock:  NewClock(),
		ids:    UUIDv7Generator{},
		locks:  newTableLocks(),
		now:    time.Now,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store exposes the entity store for read-only access.
func (e *Engine) Store() *store.Store { return e.st }

// Policy returns the active service policy.
func (e *Engine) Policy() entity.Policy { return e.policy }

// opConfig carries per-operation options.
type opConfig struct {
	actorID string
}

// OpOption configures a single operation call.
type OpOption func(*opConfig)

// WithActor attributes the operation to a staff member. Scoping is
// advisory: an actor touching a table outside their assignment is
// logged, never rejected.
func WithActor(staffID string) OpOption {
	return func(c *opConfig) { c.actorID = staffID }
}

func applyOpOptions(opts []OpOption) opConfig {
	var cfg opConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// advise logs when the acting staff member is not assigned to the table.
func (e *Engine) advise(cfg opConfig, tableID string) {
	if cfg.actorID == "" {
		return
	}
	staff, err := e.st.Staff(cfg.actorID)
	if err != nil {
		e.logger.Warn("operation by unknown staff id", "staff", cfg.actorID, "table", tableID)
		return
	}
	if !staff.AssignedTo(tableID) {
		e.logger.Warn("staff member acting outside assigned tables",
			"staff", cfg.actorID, "name", staff.Name, "table", tableID)
	}
}

// preimage is the prior value of a record touched by an event, kept so
// a failed durability write can be undone.
type preimage struct {
	kind    entity.Kind
	id      string
	rec     entity.Record
	existed bool
}

func (e *Engine) capture(ev entity.Event) []preimage {
	refs := []struct {
		kind entity.Kind
		id   string
	}{
		{entity.KindTable, ev.TableID},
		{entity.KindReservation, ev.ReservationID},
		{entity.KindOrder, ev.OrderID},
		{entity.KindCustomer, ev.CustomerID},
		{entity.KindStaff, ev.StaffID},
	}

	var pre []preimage
	for _, ref := range refs {
		if ref.id == "" {
			continue
		}
		rec, err := e.st.Get(ref.kind, ref.id)
		pre = append(pre, preimage{kind: ref.kind, id: ref.id, rec: rec, existed: err == nil})
	}
	return pre
}

func (e *Engine) restore(pre []preimage) {
	for i := len(pre) - 1; i >= 0; i-- {
		p := pre[i]
		if p.existed {
			if err := e.st.Upsert(p.rec); err != nil {
				e.logger.Error("rollback upsert failed", "kind", string(p.kind), "id", p.id, "error", err)
			}
		} else {
			e.st.Discard(p.kind, p.id)
		}
	}
}

// commit stamps the event, applies it to the store, records it durably
// and fans it out. The durable write happens after the in-memory apply;
// when it fails the apply is undone from pre-images and the caller gets
// a PersistenceFailure. Gaps in seq from rolled-back commits are fine,
// the log only needs to be strictly increasing.
func (e *Engine) commit(ctx context.Context, ev entity.Event) error {
	ev.Seq = e.clock.Next()
	ev.RecordedAt = e.now().UTC()

	pre := e.capture(ev)

	if err := journal.Apply(e.st, ev); err != nil {
		e.restore(pre)
		return fmt.Errorf("apply %s: %w", ev.Kind, err)
	}

	if err := e.rec.Record(ctx, ev); err != nil {
		e.restore(pre)
		e.logger.Error("durability write failed, commit rolled back",
			"seq", ev.Seq, "kind", string(ev.Kind), "error", err)
		return &Error{
			Kind:          ErrPersistenceFailure,
			Message:       "durability write failed, nothing changed",
			TableID:       ev.TableID,
			ReservationID: ev.ReservationID,
			OrderID:       ev.OrderID,
			Err:           err,
		}
	}

	e.logger.Info("committed", "seq", ev.Seq, "kind", string(ev.Kind), "table", ev.TableID)

	if e.pub != nil {
		if errs := e.pub.Publish(ev); len(errs) > 0 {
			e.logger.Warn("event fan-out finished with handler errors",
				"seq", ev.Seq, "kind", string(ev.Kind), "failed", len(errs))
		}
	}
	return nil
}

// fromValidation converts a validation failure into an engine Error,
// carrying the ids of the records involved.
func fromValidation(err error, tableID, reservationID, orderID string) error {
	var ve *validate.Error
	if !errors.As(err, &ve) {
		return err
	}
	return &Error{
		Kind:          ErrorKind(ve.Kind),
		Message:       ve.Message,
		TableID:       tableID,
		ReservationID: reservationID,
		OrderID:       orderID,
		Err:           err,
	}
}

// notFound wraps a store miss as a NotFound engine error.
func notFound(kind entity.Kind, id string, err error) error {
	ee := &Error{
		Kind:    ErrNotFound,
		Message: fmt.Sprintf("%s %s does not exist", kind, id),
		Err:     err,
	}
	switch kind {
	case entity.KindTable:
		ee.TableID = id
	case entity.KindReservation:
		ee.ReservationID = id
	case entity.KindOrder:
		ee.OrderID = id
	}
	return ee
}
