package engine

import (
	"context"
	"fmt"

	"github.com/maitred-run/maitred/internal/entity"
	"github.com/maitred-run/maitred/internal/validate"
)

// AddTable registers a new table in Free status. Pass an empty id to
// have one generated.
func (e *Engine) AddTable(ctx context.Context, id string, capacity int) (entity.Table, error) {
	if capacity <= 0 {
		return entity.Table{}, fmt.Errorf("table capacity must be positive, got %d", capacity)
	}
	if id == "" {
		id = e.ids.Generate()
	}

	unlock := e.locks.acquire(id)
	defer unlock()

	if _, err := e.st.Table(id); err == nil {
		return entity.Table{}, &Error{
			Kind:    ErrConflict,
			Message: "table id already exists",
			TableID: id,
		}
	}

	ev := entity.Event{Kind: entity.EventTableAdded, TableID: id, Capacity: capacity}
	if err := e.commit(ctx, ev); err != nil {
		return entity.Table{}, err
	}
	return e.st.Table(id)
}

// ResizeTable changes a table's declared capacity. Shrinking below the
// party size of any active reservation is rejected with Conflict; the
// booking was admitted against the old capacity and must stay seatable.
func (e *Engine) ResizeTable(ctx context.Context, id string, capacity int) (entity.Table, error) {
	if capacity <= 0 {
		return entity.Table{}, fmt.Errorf("table capacity must be positive, got %d", capacity)
	}

	unlock := e.locks.acquire(id)
	defer unlock()

	if _, err := e.st.Table(id); err != nil {
		return entity.Table{}, notFound(entity.KindTable, id, err)
	}

	for _, r := range e.st.ReservationsForTable(id) {
		if r.Status.Active() && r.PartySize > capacity {
			return entity.Table{}, &Error{
				Kind:          ErrConflict,
				Message:       fmt.Sprintf("capacity %d is below the party of %d on reservation %s", capacity, r.PartySize, r.ID),
				TableID:       id,
				ReservationID: r.ID,
			}
		}
	}

	ev := entity.Event{Kind: entity.EventTableResized, TableID: id, Capacity: capacity}
	if err := e.commit(ctx, ev); err != nil {
		return entity.Table{}, err
	}
	return e.st.Table(id)
}

// RemoveTable deletes a table. Rejected with Conflict while the table is
// occupied or any booked reservation or open order still references it.
func (e *Engine) RemoveTable(ctx context.Context, id string) error {
	unlock := e.locks.acquire(id)
	defer unlock()

	t, err := e.st.Table(id)
	if err != nil {
		return notFound(entity.KindTable, id, err)
	}
	if t.Status == entity.TableOccupied {
		return &Error{Kind: ErrConflict, Message: "table is occupied", TableID: id}
	}
	for _, r := range e.st.ReservationsForTable(id) {
		if r.Status == entity.ReservationBooked {
			return &Error{
				Kind:          ErrConflict,
				Message:       "table has a booked reservation",
				TableID:       id,
				ReservationID: r.ID,
			}
		}
	}
	if orders := e.st.OpenOrdersForTable(id); len(orders) > 0 {
		return &Error{
			Kind:    ErrConflict,
			Message: "table has an open order",
			TableID: id,
			OrderID: orders[0].ID,
		}
	}

	return e.commit(ctx, entity.Event{Kind: entity.EventTableRemoved, TableID: id})
}

// SetOutOfService takes a table out of service. Rejected with Conflict
// while the table is occupied or holds a booked reservation; already
// out-of-service is a no-op success.
func (e *Engine) SetOutOfService(ctx context.Context, id string, opts ...OpOption) (entity.Table, error) {
	cfg := applyOpOptions(opts)

	unlock := e.locks.acquire(id)
	defer unlock()

	t, err := e.st.Table(id)
	if err != nil {
		return entity.Table{}, notFound(entity.KindTable, id, err)
	}
	e.advise(cfg, id)

	if t.Status == entity.TableOutOfService {
		return t, nil
	}
	if t.Status == entity.TableOccupied {
		return entity.Table{}, &Error{Kind: ErrConflict, Message: "table is occupied", TableID: id}
	}
	for _, r := range e.st.ReservationsForTable(id) {
		if r.Status == entity.ReservationBooked {
			return entity.Table{}, &Error{
				Kind:          ErrConflict,
				Message:       "table has a booked reservation",
				TableID:       id,
				ReservationID: r.ID,
			}
		}
	}

	ev := entity.Event{Kind: entity.EventTableOutOfService, TableID: id}
	if err := e.commit(ctx, ev); err != nil {
		return entity.Table{}, err
	}
	return e.st.Table(id)
}

// ReturnToService brings an out-of-service table back as Free.
func (e *Engine) ReturnToService(ctx context.Context, id string, opts ...OpOption) (entity.Table, error) {
	cfg := applyOpOptions(opts)

	unlock := e.locks.acquire(id)
	defer unlock()

	t, err := e.st.Table(id)
	if err != nil {
		return entity.Table{}, notFound(entity.KindTable, id, err)
	}
	e.advise(cfg, id)

	if t.Status != entity.TableOutOfService {
		return entity.Table{}, &Error{
			Kind:    ErrIllegalTransition,
			Message: fmt.Sprintf("cannot return a %s table to service", t.Status),
			TableID: id,
		}
	}

	ev := entity.Event{Kind: entity.EventTableReturnedToService, TableID: id}
	if err := e.commit(ctx, ev); err != nil {
		return entity.Table{}, err
	}
	return e.st.Table(id)
}

// SeatWalkIn seats a party without a reservation, moving the table to
// Occupied. A reserved table can still take a walk-in as long as no
// booked reservation's window overlaps the walk-in's expected stay.
func (e *Engine) SeatWalkIn(ctx context.Context, tableID string, partySize int, opts ...OpOption) (entity.Table, error) {
	cfg := applyOpOptions(opts)

	unlock := e.locks.acquire(tableID)
	defer unlock()

	t, err := e.st.Table(tableID)
	if err != nil {
		return entity.Table{}, notFound(entity.KindTable, tableID, err)
	}
	e.advise(cfg, tableID)

	if err := validate.CheckCapacity(t, partySize, e.policy); err != nil {
		return entity.Table{}, fromValidation(err, tableID, "", "")
	}

	switch t.Status {
	case entity.TableFree:
	case entity.TableReserved:
		stay := entity.NewWindow(e.now(), e.policy.DefaultDuration)
		for _, r := range e.st.ReservationsForTable(tableID) {
			if r.Status != entity.ReservationBooked {
				continue
			}
			if r.Window(e.policy).Overlaps(stay) {
				return entity.Table{}, &Error{
					Kind:          ErrConflict,
					Message:       "table is held by a booked reservation",
					TableID:       tableID,
					ReservationID: r.ID,
				}
			}
		}
	default:
		return entity.Table{}, &Error{
			Kind:    ErrTableNotOccupiable,
			Message: fmt.Sprintf("cannot seat a walk-in at a %s table", t.Status),
			TableID: tableID,
		}
	}

	ev := entity.Event{Kind: entity.EventTableOccupied, TableID: tableID, PartySize: partySize}
	if err := e.commit(ctx, ev); err != nil {
		return entity.Table{}, err
	}
	return e.st.Table(tableID)
}

// CloseTable vacates an occupied table back to Free. Closing a table
// that is already Free succeeds without emitting an event; closing one
// with an open order is rejected with Conflict so the bill is settled
// first.
func (e *Engine) CloseTable(ctx context.Context, tableID string, opts ...OpOption) (entity.Table, error) {
	cfg := applyOpOptions(opts)

	unlock := e.locks.acquire(tableID)
	defer unlock()

	t, err := e.st.Table(tableID)
	if err != nil {
		return entity.Table{}, notFound(entity.KindTable, tableID, err)
	}
	e.advise(cfg, tableID)

	if t.Status == entity.TableFree {
		return t, nil
	}
	if t.Status != entity.TableOccupied {
		return entity.Table{}, &Error{
			Kind:    ErrIllegalTransition,
			Message: fmt.Sprintf("cannot close a %s table", t.Status),
			TableID: tableID,
		}
	}
	if orders := e.st.OpenOrdersForTable(tableID); len(orders) > 0 {
		return entity.Table{}, &Error{
			Kind:    ErrConflict,
			Message: fmt.Sprintf("table has %d open order(s)", len(orders)),
			TableID: tableID,
			OrderID: orders[0].ID,
		}
	}

	ev := entity.Event{Kind: entity.EventTableFreed, TableID: tableID}
	if err := e.commit(ctx, ev); err != nil {
		return entity.Table{}, err
	}
	return e.st.Table(tableID)
}
