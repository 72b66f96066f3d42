package journal

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// Memory is an in-process journal used by tests and as the backend when
// no durable storage is configured. It keeps the event log in a slice
// and supports injected Record failures so engine rollback paths can be
// exercised.
type Memory struct {
	mu       sync.Mutex
	events   []Event
	failNext error
	closed   bool
}

// NewMemory creates an empty in-memory journal.
func NewMemory() *Memory {
	return &Memory{}
}

// FailNext makes the next Record call return err, then clears itself.
func (m *Memory) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

// LoadAll replays the in-memory log in seq order. Commits on different
// tables may append out of seq order, so the copy is sorted first, the
// same ordering the durable adapters get from ORDER BY seq.
func (m *Memory) LoadAll(ctx context.Context) (*Load, error) {
	m.mu.Lock()
	events := make([]Event, len(m.events))
	copy(events, m.events)
	m.mu.Unlock()

	sort.Slice(events, func(i, j int) bool { return events[i].Seq < events[j].Seq })

	st, err := Replay(events)
	if err != nil {
		return nil, err
	}

	var last int64
	if len(events) > 0 {
		last = events[len(events)-1].Seq
	}
	return &Load{Store: st, LastSeq: last, Events: events}, nil
}

// Record appends the event, or returns the injected failure.
// Duplicate seqs are ignored, mirroring the durable adapters.
func (m *Memory) Record(ctx context.Context, ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return errors.New("journal is closed")
	}
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	for _, existing := range m.events {
		if existing.Seq == ev.Seq {
			return nil
		}
	}
	m.events = append(m.events, ev)
	return nil
}

// Events returns a copy of the recorded log.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// Close marks the journal closed; further Records fail.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
