package entity

import "time"

// EventKind identifies a committed state-change event.
type EventKind string

const (
	EventTableAdded             EventKind = "table.added"
	EventTableResized           EventKind = "table.resized"
	EventTableRemoved           EventKind = "table.removed"
	EventTableOccupied          EventKind = "table.occupied"
	EventTableFreed             EventKind = "table.freed"
	EventTableOutOfService      EventKind = "table.out_of_service"
	EventTableReturnedToService EventKind = "table.returned"

	EventReservationCreated   EventKind = "reservation.created"
	EventReservationFulfilled EventKind = "reservation.fulfilled"
	EventReservationCancelled EventKind = "reservation.cancelled"
	EventReservationNoShow    EventKind = "reservation.no_show"

	EventOrderPlaced     EventKind = "order.placed"
	EventOrderItemsAdded EventKind = "order.items_added"
	EventOrderClosed     EventKind = "order.closed"
	EventOrderCancelled  EventKind = "order.cancelled"

	EventCustomerRegistered EventKind = "customer.registered"
	EventStaffRegistered    EventKind = "staff.registered"
)

// Event is a committed mutation. Events are stamped with a strictly
// increasing Seq from the engine's logical clock; the payload carries
// everything replay needs, so applying the event log in Seq order
// reproduces the committed entity-store snapshot exactly.
//
// RecordedAt is diagnostic wall-clock time. It never participates in
// state reconstruction.
type Event struct {
	Seq  int64     `json:"seq"`
	Kind EventKind `json:"kind"`

	TableID       string `json:"table_id,omitempty"`
	ReservationID string `json:"reservation_id,omitempty"`
	OrderID       string `json:"order_id,omitempty"`
	CustomerID    string `json:"customer_id,omitempty"`
	StaffID       string `json:"staff_id,omitempty"`

	Capacity  int           `json:"capacity,omitempty"`
	PartySize int           `json:"party_size,omitempty"`
	StartTime time.Time     `json:"start_time,omitzero"`
	Duration  time.Duration `json:"duration,omitempty"`

	Items []OrderItem `json:"items,omitempty"`

	Name           string   `json:"name,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	AssignedTables []string `json:"assigned_tables,omitempty"`

	// FreedTable records whether a cancellation or no-show reverted the
	// table to Free. The decision is committed here rather than
	// re-derived so a replayed log cannot disagree with the original.
	FreedTable bool `json:"freed_table,omitempty"`

	RecordedAt time.Time `json:"recorded_at,omitzero"`
}
