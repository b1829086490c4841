package badge

import "sync"

// Event kinds carried by the notifier. Set always overwrites; Delta
// accumulates against whatever the listener currently displays.
type Kind int

const (
	KindDelta Kind = iota
	KindSet
	KindRefreshRequested
)

type Event struct {
	Kind  Kind
	Delta int // valid for KindDelta (may be negative)
	Count int // valid for KindSet (never negative)
}

// Notifier broadcasts cart count changes to any number of listeners.
// Delivery is synchronous and happens on the publishing goroutine; there is
// no replay, so a listener subscribed after an emit never sees it.
type Notifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(Event)
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]func(Event))}
}

// Subscribe registers fn and returns its unsubscribe function. Listeners
// hold only that registration, never the notifier's internals.
func (n *Notifier) Subscribe(fn func(Event)) (unsubscribe func()) {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.subs[id] = fn
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

func (n *Notifier) PublishDelta(delta int) {
	if delta == 0 {
		return
	}
	n.publish(Event{Kind: KindDelta, Delta: delta})
}

func (n *Notifier) PublishSet(count int) {
	if count < 0 {
		count = 0
	}
	n.publish(Event{Kind: KindSet, Count: count})
}

func (n *Notifier) RequestRefresh() {
	n.publish(Event{Kind: KindRefreshRequested})
}

func (n *Notifier) publish(ev Event) {
	n.mu.Lock()
	fns := make([]func(Event), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	// Iteration order over the map is unspecified; listeners must not rely
	// on delivery order.
	for _, fn := range fns {
		fn(ev)
	}
}
