package store

import (
	"github.com/maitred-run/maitred/internal/entity"
)

// Typed accessors. These are thin wrappers over Get/List so engine code
// reads naturally without type assertions at every call site.

// Table resolves a table by id.
func (s *Store) Table(id string) (entity.Table, error) {
	rec, err := s.Get(entity.KindTable, id)
	if err != nil {
		return entity.Table{}, err
	}
	return rec.(entity.Table), nil
}

// Reservation resolves a reservation by id.
func (s *Store) Reservation(id string) (entity.Reservation, error) {
	rec, err := s.Get(entity.KindReservation, id)
	if err != nil {
		return entity.Reservation{}, err
	}
	return rec.(entity.Reservation), nil
}

// Order resolves an order by id.
func (s *Store) Order(id string) (entity.Order, error) {
	rec, err := s.Get(entity.KindOrder, id)
	if err != nil {
		return entity.Order{}, err
	}
	return rec.(entity.Order), nil
}

// Customer resolves a customer by id.
func (s *Store) Customer(id string) (entity.Customer, error) {
	rec, err := s.Get(entity.KindCustomer, id)
	if err != nil {
		return entity.Customer{}, err
	}
	return rec.(entity.Customer), nil
}

// Staff resolves a staff member by id.
func (s *Store) Staff(id string) (entity.Staff, error) {
	rec, err := s.Get(entity.KindStaff, id)
	if err != nil {
		return entity.Staff{}, err
	}
	return rec.(entity.Staff), nil
}

// Tables returns every table ordered by id.
func (s *Store) Tables() []entity.Table {
	recs, _ := s.List(entity.KindTable, nil)
	out := make([]entity.Table, len(recs))
	for i, r := range recs {
		out[i] = r.(entity.Table)
	}
	return out
}

// ReservationsForTable returns every reservation referencing the table,
// ordered by id.
func (s *Store) ReservationsForTable(tableID string) []entity.Reservation {
	recs, _ := s.List(entity.KindReservation, func(r entity.Record) bool {
		return r.(entity.Reservation).TableID == tableID
	})
	out := make([]entity.Reservation, len(recs))
	for i, r := range recs {
		out[i] = r.(entity.Reservation)
	}
	return out
}

// OpenOrdersForTable returns the open orders linked to the table,
// ordered by id.
func (s *Store) OpenOrdersForTable(tableID string) []entity.Order {
	recs, _ := s.List(entity.KindOrder, func(r entity.Record) bool {
		o := r.(entity.Order)
		return o.TableID == tableID && o.Status == entity.OrderOpen
	})
	out := make([]entity.Order, len(recs))
	for i, r := range recs {
		out[i] = r.(entity.Order)
	}
	return out
}
