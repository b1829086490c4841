package badge

import "sync"

// Counter owns the displayed badge count. It is the one listener the web
// layer reads from; everything else publishes through the notifier.
type Counter struct {
	mu    sync.Mutex
	count int
	stop  func()
}

// NewCounter subscribes a counter to n. Close releases the subscription.
func NewCounter(n *Notifier) *Counter {
	c := &Counter{}
	c.stop = n.Subscribe(c.apply)
	return c
}

func (c *Counter) apply(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch ev.Kind {
	case KindDelta:
		c.count += ev.Delta
		if c.count < 0 {
			c.count = 0
		}
	case KindSet:
		// Set is idempotent: overwrite, never accumulate.
		c.count = ev.Count
		if c.count < 0 {
			c.count = 0
		}
	case KindRefreshRequested:
		// The web layer reacts to refresh requests; the counter itself
		// keeps its last known value.
	}
}

func (c *Counter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

func (c *Counter) Close() {
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
}
