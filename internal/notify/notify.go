// Package notify fans out committed state-change events to registered
// handlers. Delivery is synchronous and in registration order; handler
// errors are collected and reported, never allowed to affect the
// already-committed state change.
package notify

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/maitred-run/maitred/internal/entity"
)

// Handler consumes one committed event. A non-nil error is reported to
// the caller of Publish but does not stop delivery to later handlers.
type Handler func(ev entity.Event) error

// Notifier is a synchronous fan-out of committed events.
type Notifier struct {
	mu       sync.RWMutex
	nextID   int
	handlers []subscription
	logger   *slog.Logger
}

type subscription struct {
	id      int
	name    string
	handler Handler
}

// New returns an empty notifier. A nil logger disables logging.
func New(logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Notifier{logger: logger}
}

// Subscribe registers a handler under a diagnostic name and returns a
// token for Unsubscribe. Handlers run in registration order.
func (n *Notifier) Subscribe(name string, h Handler) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.nextID++
	n.handlers = append(n.handlers, subscription{id: n.nextID, name: name, handler: h})
	return n.nextID
}

// Unsubscribe removes the handler registered under the given token.
// Unknown tokens are ignored.
func (n *Notifier) Unsubscribe(id int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, s := range n.handlers {
		if s.id == id {
			n.handlers = append(n.handlers[:i], n.handlers[i+1:]...)
			return
		}
	}
}

// Publish delivers ev to every handler in registration order and
// returns the errors from handlers that failed. A panicking handler is
// recovered and reported as an error.
func (n *Notifier) Publish(ev entity.Event) []error {
	n.mu.RLock()
	subs := make([]subscription, len(n.handlers))
	copy(subs, n.handlers)
	n.mu.RUnlock()

	var errs []error
	for _, s := range subs {
		if err := n.deliver(s, ev); err != nil {
			n.logger.Warn("event handler failed",
				"handler", s.name,
				"event", string(ev.Kind),
				"seq", ev.Seq,
				"error", err)
			errs = append(errs, fmt.Errorf("handler %s: %w", s.name, err))
		}
	}
	return errs
}

func (n *Notifier) deliver(s subscription, ev entity.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.handler(ev)
}
