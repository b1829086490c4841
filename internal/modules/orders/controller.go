package orders

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// RemoteGateway is what the controller needs from the order API.
type RemoteGateway interface {
	List(ctx context.Context, in ListParams) (ListResult, error)
	UpdateStatus(ctx context.Context, orderID string, target Status, note string) (*Order, error)
	MarkPaid(ctx context.Context, orderID string) (*Order, error)
}

// AdminController owns the cached admin order list and applies status and
// payment updates optimistically: rewrite the cache first, confirm against
// the API, roll the whole cache back to the pre-update snapshot on failure.
// Only the controller mutates the cache.
type AdminController struct {
	gw RemoteGateway

	mu       sync.Mutex
	cache    []Order
	total    int64
	inflight map[string]struct{}
}

func NewAdminController(gw RemoteGateway) *AdminController {
	return &AdminController{gw: gw, inflight: make(map[string]struct{})}
}

// Refresh replaces the cached list from the API.
func (c *AdminController) Refresh(ctx context.Context, in ListParams) error {
	res, err := c.gw.List(ctx, in)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.cache = cloneOrders(res.Items)
	c.total = res.Total
	c.mu.Unlock()
	return nil
}

// Orders returns a copy of the cached list.
func (c *AdminController) Orders() []Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneOrders(c.cache)
}

func (c *AdminController) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// findLocked returns the cache index for orderID, or -1.
func (c *AdminController) findLocked(orderID string) int {
	for i := range c.cache {
		if c.cache[i].ID == orderID {
			return i
		}
	}
	return -1
}

// ChangeStatus moves a cached order to target. Illegal transitions are
// rejected here, before any network call. While a call for this order is in
// flight, further submissions are refused so a stale response can never
// overwrite a newer optimistic state.
func (c *AdminController) ChangeStatus(ctx context.Context, orderID string, target Status, note string) error {
	c.mu.Lock()

	if _, busy := c.inflight[orderID]; busy {
		c.mu.Unlock()
		return ErrUpdateInFlight
	}

	idx := c.findLocked(orderID)
	if idx < 0 {
		c.mu.Unlock()
		return ErrUnknownOrder
	}

	current := c.cache[idx].Status
	if !CanTransition(current, target) {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, target)
	}
	if current == target {
		// re-saving the current status is a no-op
		c.mu.Unlock()
		return nil
	}

	snapshot := cloneOrders(c.cache)
	c.cache[idx].Status = target
	c.inflight[orderID] = struct{}{}
	c.mu.Unlock()

	updated, err := c.gw.UpdateStatus(ctx, orderID, target, note)

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, orderID)

	if err != nil {
		// restore the exact pre-update snapshot, not just this order
		c.cache = snapshot
		log.Printf("ChangeStatus: rolled back optimistic update for order %s: %v", orderID, err)
		return fmt.Errorf("change status of order %s: %w", orderID, err)
	}

	if updated != nil {
		if i := c.findLocked(orderID); i >= 0 {
			c.cache[i] = updated.Clone()
		}
	}
	return nil
}

// MarkPaid flips the payment flag optimistically. A cached order already
// showing paid is an idempotent no-op; the call is not re-issued.
func (c *AdminController) MarkPaid(ctx context.Context, orderID string) error {
	c.mu.Lock()

	if _, busy := c.inflight[orderID]; busy {
		c.mu.Unlock()
		return ErrUpdateInFlight
	}

	idx := c.findLocked(orderID)
	if idx < 0 {
		c.mu.Unlock()
		return ErrUnknownOrder
	}
	if c.cache[idx].IsPaid {
		c.mu.Unlock()
		return nil
	}

	snapshot := cloneOrders(c.cache)
	c.cache[idx].IsPaid = true
	c.inflight[orderID] = struct{}{}
	c.mu.Unlock()

	updated, err := c.gw.MarkPaid(ctx, orderID)

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, orderID)

	if err != nil {
		c.cache = snapshot
		log.Printf("MarkPaid: rolled back optimistic update for order %s: %v", orderID, err)
		return fmt.Errorf("mark order %s paid: %w", orderID, err)
	}

	if updated != nil {
		if i := c.findLocked(orderID); i >= 0 {
			c.cache[i] = updated.Clone()
		}
	}
	return nil
}
