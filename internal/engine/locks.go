package engine

import "sync"

// tableLocks provides one mutex per table id so check-then-apply
// sequences on the same table never interleave while operations on
// different tables proceed fully in parallel. There is no global lock
// around operations, only around the lazily grown lock map itself.
//
// Locks are never removed: the set of tables is small and stable, and
// removal would race with a concurrent acquire.
type tableLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newTableLocks() *tableLocks {
	return &tableLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the mutex for the table id and returns the unlock func.
func (l *tableLocks) acquire(tableID string) func() {
	l.mu.Lock()
	m, ok := l.locks[tableID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[tableID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
