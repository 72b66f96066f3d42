package store

import (
	"sort"

	"github.com/maitred-run/maitred/internal/entity"
)

// Snapshot is a full, detached copy of the store's contents with every
// slice ordered by record id. Two snapshots are comparable with
// reflect.DeepEqual, which is how the journal round-trip property is
// checked.
type Snapshot struct {
	Tables       []entity.Table       `json:"tables"`
	Reservations []entity.Reservation `json:"reservations"`
	Orders       []entity.Order       `json:"orders"`
	Customers    []entity.Customer    `json:"customers"`
	Staff        []entity.Staff       `json:"staff"`
}

// Snapshot copies the entire store under a single read lock, so the
// result reflects one consistent point in time.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var snap Snapshot
	for _, t := range s.tables {
		snap.Tables = append(snap.Tables, t)
	}
	for _, r := range s.reservations {
		snap.Reservations = append(snap.Reservations, r)
	}
	for _, o := range s.orders {
		o.Items = o.CloneItems()
		snap.Orders = append(snap.Orders, o)
	}
	for _, c := range s.customers {
		snap.Customers = append(snap.Customers, c)
	}
	for _, st := range s.staff {
		st.AssignedTables = st.CloneAssignments()
		snap.Staff = append(snap.Staff, st)
	}
	sort.Slice(snap.Tables, func(i, j int) bool { return snap.Tables[i].ID < snap.Tables[j].ID })
	sort.Slice(snap.Reservations, func(i, j int) bool { return snap.Reservations[i].ID < snap.Reservations[j].ID })
	sort.Slice(snap.Orders, func(i, j int) bool { return snap.Orders[i].ID < snap.Orders[j].ID })
	sort.Slice(snap.Customers, func(i, j int) bool { return snap.Customers[i].ID < snap.Customers[j].ID })
	sort.Slice(snap.Staff, func(i, j int) bool { return snap.Staff[i].ID < snap.Staff[j].ID })
	return snap
}

// FromSnapshot builds a store preloaded with the snapshot's records.
func FromSnapshot(snap Snapshot) *Store {
	s := New()
	for _, t := range snap.Tables {
		s.tables[t.ID] = t
	}
	for _, r := range snap.Reservations {
		s.reservations[r.ID] = r
	}
	for _, o := range snap.Orders {
		o.Items = o.CloneItems()
		s.orders[o.ID] = o
	}
	for _, c := range snap.Customers {
		s.customers[c.ID] = c
	}
	for _, st := range snap.Staff {
		st.AssignedTables = st.CloneAssignments()
		s.staff[st.ID] = st
	}
	return s
}
