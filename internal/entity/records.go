package entity

import "time"

// Kind identifies a record type in the entity store.
// The set is closed: every store operation switches exhaustively over it.
type Kind string

const (
	KindTable       Kind = "table"
	KindReservation Kind = "reservation"
	KindOrder       Kind = "order"
	KindCustomer    Kind = "customer"
	KindStaff       Kind = "staff"
)

// Valid reports whether k is one of the defined record kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindTable, KindReservation, KindOrder, KindCustomer, KindStaff:
		return true
	}
	return false
}

// Record is implemented by every entity stored in the entity store.
type Record interface {
	RecordID() string
	RecordKind() Kind
}

// TableStatus is the allocation state of a physical table.
// Transitions are engine-controlled only.
type TableStatus string

const (
	TableFree         TableStatus = "free"
	TableOccupied     TableStatus = "occupied"
	TableReserved     TableStatus = "reserved"
	TableOutOfService TableStatus = "out_of_service"
)

// Valid reports whether s is one of the four defined statuses.
func (s TableStatus) Valid() bool {
	switch s {
	case TableFree, TableOccupied, TableReserved, TableOutOfService:
		return true
	}
	return false
}

// Table is a physical table. Capacity never changes while the table is
// not Free; resizing an active table is rejected by the engine.
type Table struct {
	ID       string      `json:"id"`
	Capacity int         `json:"capacity"`
	Status   TableStatus `json:"status"`
}

func (t Table) RecordID() string { return t.ID }
func (t Table) RecordKind() Kind { return KindTable }

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	// ReservationBooked is the admitted, not yet realized state.
	ReservationBooked ReservationStatus = "booked"
	// ReservationFulfilled means the party arrived and the table was
	// marked Occupied for this visit. Fulfilled reservations are
	// retained for history.
	ReservationFulfilled ReservationStatus = "fulfilled"
	// ReservationCancelled means the booking was withdrawn before
	// fulfillment.
	ReservationCancelled ReservationStatus = "cancelled"
	// ReservationNoShow means the arrival window passed without the
	// party arriving. The record remains historical.
	ReservationNoShow ReservationStatus = "no_show"
)

// Active reports whether the reservation still holds a claim on its
// table's time: booked and fulfilled reservations block overlapping
// admissions, cancelled and no-show ones do not.
func (s ReservationStatus) Active() bool {
	return s == ReservationBooked || s == ReservationFulfilled
}

// Reservation is a committed claim on a table for a time window.
type Reservation struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	TableID    string    `json:"table_id"`
	PartySize  int       `json:"party_size"`
	StartTime  time.Time `json:"start_time"`
	// Duration is the declared service duration. Zero means the caller
	// gave no hint and the policy default applies for overlap purposes.
	Duration time.Duration     `json:"duration"`
	Status   ReservationStatus `json:"status"`
}

func (r Reservation) RecordID() string { return r.ID }
func (r Reservation) RecordKind() Kind { return KindReservation }

// Window returns the half-open occupancy interval [start, start+d),
// substituting the policy default when no duration was declared.
func (r Reservation) Window(p Policy) Window {
	d := r.Duration
	if d <= 0 {
		d = p.DefaultDuration
	}
	return NewWindow(r.StartTime, d)
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderOpen      OrderStatus = "open"
	OrderClosed    OrderStatus = "closed"
	OrderCancelled OrderStatus = "cancelled"
)

// OrderItem is one line of an order. Price is snapshotted in cents at
// the time the line is added and immutable afterward.
type OrderItem struct {
	DishRef  string `json:"dish_ref"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

// Total returns the line total in cents.
func (i OrderItem) Total() int64 { return int64(i.Quantity) * i.Price }

// Order is a sequence of priced line items linked to a table.
type Order struct {
	ID      string      `json:"id"`
	TableID string      `json:"table_id"`
	Items   []OrderItem `json:"items"`
	Status  OrderStatus `json:"status"`
}

func (o Order) RecordID() string { return o.ID }
func (o Order) RecordKind() Kind { return KindOrder }

// Total returns the order total in cents.
func (o Order) Total() int64 {
	var sum int64
	for _, it := range o.Items {
		sum += it.Total()
	}
	return sum
}

// CloneItems copies the item slice so that store
// reads never alias committed state.
func (o Order) CloneItems() []OrderItem {
	if o.Items == nil {
		return nil
	}
	items := make([]OrderItem, len(o.Items))
	copy(items, o.Items)
	return items
}

// Customer is a reference record. The engine never mutates it, only
// links reservations to it by id.
type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

func (c Customer) RecordID() string { return c.ID }
func (c Customer) RecordKind() Kind { return KindCustomer }

// Staff is a reference record carrying the advisory table assignment
// used for scoping who may act on which table. The assignment is a
// policy hint, not a security boundary.
type Staff struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	AssignedTables []string `json:"assigned_tables,omitempty"`
}

func (s Staff) RecordID() string { return s.ID }
func (s Staff) RecordKind() Kind { return KindStaff }

// AssignedTo reports whether the staff member is assigned to the table.
func (s Staff) AssignedTo(tableID string) bool {
	for _, id := range s.AssignedTables {
		if id == tableID {
			return true
		}
	}
	return false
}

// CloneAssignments copies the assignment slice.
func (s Staff) CloneAssignments() []string {
	if s.AssignedTables == nil {
		return nil
	}
	out := make([]string, len(s.AssignedTables))
	copy(out, s.AssignedTables)
	return out
}
