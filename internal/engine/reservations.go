package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/maitred-run/maitred/internal/entity"
	"github.com/maitred-run/maitred/internal/validate"
)

// ReserveTable books a table for a customer. The whole check sequence
// runs under the table's lock, so two overlapping requests for the same
// table serialize and exactly one wins.
//
// A zero duration means the policy's default service window; a non-zero
// duration must fall inside the policy bounds. The table must not be
// occupied or out of service, the party must fit, and the proposed
// window must not overlap any active reservation on the table.
func (e *Engine) ReserveTable(ctx context.Context, customerID, tableID string, partySize int, start time.Time, duration time.Duration, opts ...OpOption) (entity.Reservation, error) {
	cfg := applyOpOptions(opts)

	unlock := e.locks.acquire(tableID)
	defer unlock()

	t, err := e.st.Table(tableID)
	if err != nil {
		return entity.Reservation{}, notFound(entity.KindTable, tableID, err)
	}
	if _, err := e.st.Customer(customerID); err != nil {
		return entity.Reservation{}, notFound(entity.KindCustomer, customerID, err)
	}
	e.advise(cfg, tableID)

	if t.Status == entity.TableOccupied || t.Status == entity.TableOutOfService {
		return entity.Reservation{}, &Error{
			Kind:    ErrIllegalTransition,
			Message: fmt.Sprintf("cannot reserve a %s table", t.Status),
			TableID: tableID,
		}
	}
	if err := validate.CheckCapacity(t, partySize, e.policy); err != nil {
		return entity.Reservation{}, fromValidation(err, tableID, "", "")
	}
	if err := validate.CheckDuration(duration, e.policy); err != nil {
		return entity.Reservation{}, fromValidation(err, tableID, "", "")
	}

	d := duration
	if d == 0 {
		d = e.policy.DefaultDuration
	}
	proposed := entity.NewWindow(start, d)
	if err := validate.CheckReservationOverlap(tableID, proposed, e.st.ReservationsForTable(tableID), e.policy); err != nil {
		return entity.Reservation{}, fromValidation(err, tableID, "", "")
	}

	ev := entity.Event{
		Kind:          entity.EventReservationCreated,
		ReservationID: e.ids.Generate(),
		CustomerID:    customerID,
		TableID:       tableID,
		PartySize:     partySize,
		StartTime:     start,
		Duration:      duration,
	}
	if err := e.commit(ctx, ev); err != nil {
		return entity.Reservation{}, err
	}
	return e.st.Reservation(ev.ReservationID)
}

// ArriveForReservation fulfills a booked reservation when the party
// shows up, moving the table to Occupied. Pass a zero time to use the
// current wall clock. Arrival outside the policy's arrival window is a
// TimeConflict; a reservation past Booked is an IllegalTransition.
func (e *Engine) ArriveForReservation(ctx context.Context, reservationID string, at time.Time, opts ...OpOption) (entity.Reservation, error) {
	cfg := applyOpOptions(opts)
	if at.IsZero() {
		at = e.now()
	}

	res, err := e.st.Reservation(reservationID)
	if err != nil {
		return entity.Reservation{}, notFound(entity.KindReservation, reservationID, err)
	}

	unlock := e.locks.acquire(res.TableID)
	defer unlock()

	// Re-read under the lock; the status may have moved in the gap.
	res, err = e.st.Reservation(reservationID)
	if err != nil {
		return entity.Reservation{}, notFound(entity.KindReservation, reservationID, err)
	}
	e.advise(cfg, res.TableID)

	if res.Status != entity.ReservationBooked {
		return entity.Reservation{}, &Error{
			Kind:          ErrIllegalTransition,
			Message:       fmt.Sprintf("reservation is %s, not booked", res.Status),
			TableID:       res.TableID,
			ReservationID: reservationID,
		}
	}

	if w := e.policy.ArrivalWindow(res.StartTime); !w.Contains(at) {
		return entity.Reservation{}, &Error{
			Kind:          ErrTimeConflict,
			Message:       fmt.Sprintf("arrival at %s is outside the window %s", at.Format(time.RFC3339), w),
			TableID:       res.TableID,
			ReservationID: reservationID,
		}
	}

	t, err := e.st.Table(res.TableID)
	if err != nil {
		return entity.Reservation{}, notFound(entity.KindTable, res.TableID, err)
	}
	if err := validate.CheckStatusTransition(t.Status, entity.TableOccupied); err != nil {
		return entity.Reservation{}, fromValidation(err, res.TableID, reservationID, "")
	}

	ev := entity.Event{
		Kind:          entity.EventReservationFulfilled,
		ReservationID: reservationID,
		TableID:       res.TableID,
	}
	if err := e.commit(ctx, ev); err != nil {
		return entity.Reservation{}, err
	}
	return e.st.Reservation(reservationID)
}

// CancelReservation cancels a booked reservation. The table reverts to
// Free only when it was Reserved and no other booked reservation still
// holds it; that decision is committed in the event.
func (e *Engine) CancelReservation(ctx context.Context, reservationID string, opts ...OpOption) (entity.Reservation, error) {
	return e.releaseReservation(ctx, reservationID, entity.EventReservationCancelled, opts)
}

// MarkNoShow marks a booked reservation as a no-show once the arrival
// window has lapsed. Pass a zero time to use the current wall clock;
// marking before the late bound is a TimeConflict.
func (e *Engine) MarkNoShow(ctx context.Context, reservationID string, at time.Time, opts ...OpOption) (entity.Reservation, error) {
	if at.IsZero() {
		at = e.now()
	}

	res, err := e.st.Reservation(reservationID)
	if err != nil {
		return entity.Reservation{}, notFound(entity.KindReservation, reservationID, err)
	}
	if deadline := res.StartTime.Add(e.policy.ArriveLate); at.Before(deadline) {
		return entity.Reservation{}, &Error{
			Kind:          ErrTimeConflict,
			Message:       fmt.Sprintf("no-show cannot be declared before %s", deadline.Format(time.RFC3339)),
			TableID:       res.TableID,
			ReservationID: reservationID,
		}
	}

	return e.releaseReservation(ctx, reservationID, entity.EventReservationNoShow, opts)
}

// releaseReservation is the shared terminal path for cancellation and
// no-show: the reservation leaves Booked and the table is freed when
// nothing else holds it.
func (e *Engine) releaseReservation(ctx context.Context, reservationID string, kind entity.EventKind, opts []OpOption) (entity.Reservation, error) {
	cfg := applyOpOptions(opts)

	res, err := e.st.Reservation(reservationID)
	if err != nil {
		return entity.Reservation{}, notFound(entity.KindReservation, reservationID, err)
	}

	unlock := e.locks.acquire(res.TableID)
	defer unlock()

	res, err = e.st.Reservation(reservationID)
	if err != nil {
		return entity.Reservation{}, notFound(entity.KindReservation, reservationID, err)
	}
	e.advise(cfg, res.TableID)

	if res.Status != entity.ReservationBooked {
		return entity.Reservation{}, &Error{
			Kind:          ErrIllegalTransition,
			Message:       fmt.Sprintf("reservation is %s, not booked", res.Status),
			TableID:       res.TableID,
			ReservationID: reservationID,
		}
	}

	t, err := e.st.Table(res.TableID)
	if err != nil {
		return entity.Reservation{}, notFound(entity.KindTable, res.TableID, err)
	}

	freed := t.Status == entity.TableReserved
	if freed {
		for _, other := range e.st.ReservationsForTable(res.TableID) {
			if other.ID != reservationID && other.Status == entity.ReservationBooked {
				freed = false
				break
			}
		}
	}

	ev := entity.Event{
		Kind:          kind,
		ReservationID: reservationID,
		TableID:       res.TableID,
		FreedTable:    freed,
	}
	if err := e.commit(ctx, ev); err != nil {
		return entity.Reservation{}, err
	}
	return e.st.Reservation(reservationID)
}
