// Package store implements the in-memory authoritative entity store.
//
// The store exclusively owns all records. Reads return copies; callers
// hold identifiers, never references into the store's maps. Writes
// replace whole records, so a concurrent reader observes either the
// pre- or post-mutation record, never a partial one.
//
// The store itself only guards map access. Serializing check-then-apply
// sequences against a table is the allocation engine's job.
package store

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/maitred-run/maitred/internal/entity"
)

// ErrNotFound is returned when a referenced id is absent.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned when a removal would orphan records that
// still reference the target.
var ErrConflict = errors.New("record is referenced")

// Store is the in-memory entity store. Safe for concurrent use.
type Store struct {
	mu           sync.RWMutex
	tables       map[string]entity.Table
	reservations map[string]entity.Reservation
	orders       map[string]entity.Order
	customers    map[string]entity.Customer
	staff        map[string]entity.Staff
}

// New creates an empty store.
func New() *Store {
	return &Store{
		tables:       make(map[string]entity.Table),
		reservations: make(map[string]entity.Reservation),
		orders:       make(map[string]entity.Order),
		customers:    make(map[string]entity.Customer),
		staff:        make(map[string]entity.Staff),
	}
}

// Get resolves a record by kind and id.
func (s *Store) Get(kind entity.Kind, id string) (entity.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch kind {
	case entity.KindTable:
		if t, ok := s.tables[id]; ok {
			return t, nil
		}
	case entity.KindReservation:
		if r, ok := s.reservations[id]; ok {
			return r, nil
		}
	case entity.KindOrder:
		if o, ok := s.orders[id]; ok {
			o.Items = o.CloneItems()
			return o, nil
		}
	case entity.KindCustomer:
		if c, ok := s.customers[id]; ok {
			return c, nil
		}
	case entity.KindStaff:
		if st, ok := s.staff[id]; ok {
			st.AssignedTables = st.CloneAssignments()
			return st, nil
		}
	default:
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}
	return nil, fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}

// Upsert inserts or replaces a record.
func (s *Store) Upsert(rec entity.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch v := rec.(type) {
	case entity.Table:
		s.tables[v.ID] = v
	case entity.Reservation:
		s.reservations[v.ID] = v
	case entity.Order:
		v.Items = v.CloneItems()
		s.orders[v.ID] = v
	case entity.Customer:
		s.customers[v.ID] = v
	case entity.Staff:
		v.AssignedTables = v.CloneAssignments()
		s.staff[v.ID] = v
	default:
		return fmt.Errorf("unknown record type %T", rec)
	}
	return nil
}

// Remove deletes a record. Removing a table fails with ErrConflict while
// any booked reservation or open order still references it; other kinds
// are unreferenced and delete unconditionally.
func (s *Store) Remove(kind entity.Kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case entity.KindTable:
		if _, ok := s.tables[id]; !ok {
			return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
		}
		for _, r := range s.reservations {
			if r.TableID == id && r.Status == entity.ReservationBooked {
				return fmt.Errorf("table %s referenced by reservation %s: %w", id, r.ID, ErrConflict)
			}
		}
		for _, o := range s.orders {
			if o.TableID == id && o.Status == entity.OrderOpen {
				return fmt.Errorf("table %s referenced by order %s: %w", id, o.ID, ErrConflict)
			}
		}
		delete(s.tables, id)
	case entity.KindReservation:
		if _, ok := s.reservations[id]; !ok {
			return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
		}
		delete(s.reservations, id)
	case entity.KindOrder:
		if _, ok := s.orders[id]; !ok {
			return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
		}
		delete(s.orders, id)
	case entity.KindCustomer:
		if _, ok := s.customers[id]; !ok {
			return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
		}
		delete(s.customers, id)
	case entity.KindStaff:
		if _, ok := s.staff[id]; !ok {
			return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
		}
		delete(s.staff, id)
	default:
		return fmt.Errorf("unknown record kind %q", kind)
	}
	return nil
}

// Discard deletes a record without referential checks. It exists so a
// failed durability write can undo a record the engine just created;
// it is not part of the normal mutation path. Absent ids are ignored.
func (s *Store) Discard(kind entity.Kind, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case entity.KindTable:
		delete(s.tables, id)
	case entity.KindReservation:
		delete(s.reservations, id)
	case entity.KindOrder:
		delete(s.orders, id)
	case entity.KindCustomer:
		delete(s.customers, id)
	case entity.KindStaff:
		delete(s.staff, id)
	}
}

// List returns all records of a kind matching pred, ordered by id.
// Pass a nil predicate to list everything. The result is a snapshot
// taken under the read lock; iterating it is restartable and never
// observes later writes.
func (s *Store) List(kind entity.Kind, pred func(entity.Record) bool) ([]entity.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []entity.Record
	appendIf := func(rec entity.Record) {
		if pred == nil || pred(rec) {
			out = append(out, rec)
		}
	}

	switch kind {
	case entity.KindTable:
		for _, t := range s.tables {
			appendIf(t)
		}
	case entity.KindReservation:
		for _, r := range s.reservations {
			appendIf(r)
		}
	case entity.KindOrder:
		for _, o := range s.orders {
			o.Items = o.CloneItems()
			appendIf(o)
		}
	case entity.KindCustomer:
		for _, c := range s.customers {
			appendIf(c)
		}
	case entity.KindStaff:
		for _, st := range s.staff {
			st.AssignedTables = st.CloneAssignments()
			appendIf(st)
		}
	default:
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].RecordID() < out[j].RecordID() })
	return out, nil
}
