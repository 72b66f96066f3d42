// Package catalog resolves dish references to prices and availability.
// Orders store a snapshot of the price at the time the item was added,
// so the catalog is consulted once per line item, never on replay.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrNotFound means the dish reference does not exist in the menu.
	ErrNotFound = errors.New("dish not found")
	// ErrUnavailable means the dish exists but cannot be ordered right now.
	ErrUnavailable = errors.New("dish unavailable")
)

// Price is the resolved menu entry for a dish reference.
type Price struct {
	DishRef   string
	Name      string
	Cents     int64
	Available bool
}

// Catalog answers price lookups for dish references.
type Catalog interface {
	// PriceOf resolves a dish reference. Returns ErrNotFound for an
	// unknown ref and ErrUnavailable for a known but disabled dish.
	PriceOf(dishRef string) (Price, error)
}

// Static is an in-memory menu, loaded from configuration at startup.
type Static struct {
	mu     sync.RWMutex
	dishes map[string]Price
}

// NewStatic builds a menu from the given entries. Later entries with
// the same ref win.
func NewStatic(entries []Price) *Static {
	m := make(map[string]Price, len(entries))
	for _, e := range entries {
		m[e.DishRef] = e
	}
	return &Static{dishes: m}
}

func (s *Static) PriceOf(dishRef string) (Price, error) {
	s.mu.RLock()
	p, ok := s.dishes[dishRef]
	s.mu.RUnlock()
	if !ok {
		return Price{}, fmt.Errorf("%q: %w", dishRef, ErrNotFound)
	}
	if !p.Available {
		return Price{}, fmt.Errorf("%q: %w", dishRef, ErrUnavailable)
	}
	return p, nil
}

// SetAvailable flips a dish on or off without restarting.
func (s *Static) SetAvailable(dishRef string, available bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.dishes[dishRef]
	if !ok {
		return fmt.Errorf("%q: %w", dishRef, ErrNotFound)
	}
	p.Available = available
	s.dishes[dishRef] = p
	return nil
}

// Refs returns all dish references in sorted order.
func (s *Static) Refs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	refs := make([]string, 0, len(s.dishes))
	for ref := range s.dishes {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs
}
