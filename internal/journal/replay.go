package journal

import (
	"fmt"

	"github.com/maitred-run/maitred/internal/entity"
	"github.com/maitred-run/maitred/internal/store"
)

// Apply applies one committed event to the store.
//
// This is the single mutation path: the engine commits its in-memory
// state through Apply, and replay reuses it when rebuilding from the
// log. Sharing the path is what makes the round-trip property hold by
// construction; replayed state cannot drift from committed state. Any
// decision that depends on more than the event payload (e.g. whether a
// cancellation freed the table) is recorded in the event itself.
func Apply(st *store.Store, ev entity.Event) error {
	switch ev.Kind {
	case entity.EventTableAdded:
		return st.Upsert(entity.Table{ID: ev.TableID, Capacity: ev.Capacity, Status: entity.TableFree})

	case entity.EventTableResized:
		t, err := st.Table(ev.TableID)
		if err != nil {
			return applyErr(ev, err)
		}
		t.Capacity = ev.Capacity
		return st.Upsert(t)

	case entity.EventTableRemoved:
		return st.Remove(entity.KindTable, ev.TableID)

	case entity.EventTableOccupied:
		return setTableStatus(st, ev, entity.TableOccupied)

	case entity.EventTableFreed:
		return setTableStatus(st, ev, entity.TableFree)

	case entity.EventTableOutOfService:
		return setTableStatus(st, ev, entity.TableOutOfService)

	case entity.EventTableReturnedToService:
		return setTableStatus(st, ev, entity.TableFree)

	case entity.EventReservationCreated:
		res := entity.Reservation{
			ID:         ev.ReservationID,
			CustomerID: ev.CustomerID,
			TableID:    ev.TableID,
			PartySize:  ev.PartySize,
			StartTime:  ev.StartTime,
			Duration:   ev.Duration,
			Status:     entity.ReservationBooked,
		}
		if err := st.Upsert(res); err != nil {
			return err
		}
		t, err := st.Table(ev.TableID)
		if err != nil {
			return applyErr(ev, err)
		}
		if t.Status == entity.TableFree {
			t.Status = entity.TableReserved
			return st.Upsert(t)
		}
		return nil

	case entity.EventReservationFulfilled:
		if err := setReservationStatus(st, ev, entity.ReservationFulfilled); err != nil {
			return err
		}
		return setTableStatus(st, ev, entity.TableOccupied)

	case entity.EventReservationCancelled:
		if err := setReservationStatus(st, ev, entity.ReservationCancelled); err != nil {
			return err
		}
		if ev.FreedTable {
			return setTableStatus(st, ev, entity.TableFree)
		}
		return nil

	case entity.EventReservationNoShow:
		if err := setReservationStatus(st, ev, entity.ReservationNoShow); err != nil {
			return err
		}
		if ev.FreedTable {
			return setTableStatus(st, ev, entity.TableFree)
		}
		return nil

	case entity.EventOrderPlaced:
		return st.Upsert(entity.Order{
			ID:      ev.OrderID,
			TableID: ev.TableID,
			Items:   ev.Items,
			Status:  entity.OrderOpen,
		})

	case entity.EventOrderItemsAdded:
		o, err := st.Order(ev.OrderID)
		if err != nil {
			return applyErr(ev, err)
		}
		o.Items = append(o.Items, ev.Items...)
		return st.Upsert(o)

	case entity.EventOrderClosed:
		return setOrderStatus(st, ev, entity.OrderClosed)

	case entity.EventOrderCancelled:
		return setOrderStatus(st, ev, entity.OrderCancelled)

	case entity.EventCustomerRegistered:
		return st.Upsert(entity.Customer{ID: ev.CustomerID, Name: ev.Name, Phone: ev.Phone})

	case entity.EventStaffRegistered:
		return st.Upsert(entity.Staff{ID: ev.StaffID, Name: ev.Name, AssignedTables: ev.AssignedTables})

	default:
		return fmt.Errorf("apply event seq %d: unknown kind %q", ev.Seq, ev.Kind)
	}
}

// Replay builds a fresh store by applying events in order. Events must
// already be sorted by seq, which is how every adapter returns them.
func Replay(events []entity.Event) (*store.Store, error) {
	st := store.New()
	for _, ev := range events {
		if err := Apply(st, ev); err != nil {
			return nil, fmt.Errorf("replay seq %d (%s): %w", ev.Seq, ev.Kind, err)
		}
	}
	return st, nil
}

func setTableStatus(st *store.Store, ev entity.Event, status entity.TableStatus) error {
	t, err := st.Table(ev.TableID)
	if err != nil {
		return applyErr(ev, err)
	}
	t.Status = status
	return st.Upsert(t)
}

func setReservationStatus(st *store.Store, ev entity.Event, status entity.ReservationStatus) error {
	r, err := st.Reservation(ev.ReservationID)
	if err != nil {
		return applyErr(ev, err)
	}
	r.Status = status
	return st.Upsert(r)
}

func setOrderStatus(st *store.Store, ev entity.Event, status entity.OrderStatus) error {
	o, err := st.Order(ev.OrderID)
	if err != nil {
		return applyErr(ev, err)
	}
	o.Status = status
	return st.Upsert(o)
}

func applyErr(ev entity.Event, err error) error {
	return fmt.Errorf("apply %s (seq %d): %w", ev.Kind, ev.Seq, err)
}
