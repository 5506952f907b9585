package cart

import (
	"sync"

	"github.com/andresvelez/golmarket-backend/internal/identity"
)

// RecountEvent announces the new total item count after a cart mutation.
type RecountEvent struct {
	Owner      identity.Identity
	TotalItems int
}

// Notifier fans recount events out to subscribers. The cart service owns the
// single instance; badge consumers subscribe instead of re-polling after
// every mutation call site.
type Notifier struct {
	mu   sync.Mutex
	subs map[int]func(RecountEvent)
	next int
}

func NewNotifier() *Notifier {
	return &Notifier{subs: map[int]func(RecountEvent){}}
}

// Subscribe registers fn and returns a cancel function.
func (n *Notifier) Subscribe(fn func(RecountEvent)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.next
	n.next++
	n.subs[id] = fn

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}
}

func (n *Notifier) publish(event RecountEvent) {
	n.mu.Lock()
	subs := make([]func(RecountEvent), 0, len(n.subs))
	for _, fn := range n.subs {
		subs = append(subs, fn)
	}
	n.mu.Unlock()

	for _, fn := range subs {
		fn(event)
	}
}
