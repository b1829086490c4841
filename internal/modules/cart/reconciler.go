package cart

import (
	"context"
	"fmt"
	"log"

	"github.com/imrfidelz/djk-sub001/internal/modules/badge"
	"github.com/imrfidelz/djk-sub001/internal/modules/products"
)

// RemoteGateway is what the reconciler needs from the cart API.
type RemoteGateway interface {
	FetchCart(ctx context.Context, userID string) (*RemoteCart, error)
	UpsertItems(ctx context.Context, userID string, items []UpsertItem) (*RemoteCart, error)
	DeleteCart(ctx context.Context, cartID string) error
}

// ProductFinder resolves bare product references. Get returns nil, nil for
// products that no longer exist.
type ProductFinder interface {
	Get(ctx context.Context, productID string) (*products.Product, error)
}

// Identity gates authenticated vs guest behavior. An expired session is an
// error, not a silent fall back to the guest cart.
type Identity interface {
	CurrentUserID(ctx context.Context) (userID string, authenticated bool, err error)
}

// Reconciler is the single seam callers use regardless of authentication
// state: it routes cart operations to the guest store or the remote cart and
// owns the one-shot migration that runs at login.
type Reconciler struct {
	local    *LocalStore
	remote   RemoteGateway
	products ProductFinder
	identity Identity
	notifier *badge.Notifier
}

func NewReconciler(local *LocalStore, remote RemoteGateway, finder ProductFinder, identity Identity, notifier *badge.Notifier) *Reconciler {
	return &Reconciler{
		local:    local,
		remote:   remote,
		products: finder,
		identity: identity,
		notifier: notifier,
	}
}

// AddToCart adds qty of one product variant to the active cart, capped at
// available stock across all variants already in the cart. A refused add
// issues no network call and mutates nothing.
func (r *Reconciler) AddToCart(ctx context.Context, p *products.Product, qty int, size, color string) error {
	if p == nil || p.ID == "" {
		return ErrMissingProduct
	}

	userID, authenticated, err := r.identity.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	inCart, err := r.totalForProduct(ctx, userID, authenticated, p.ID)
	if err != nil {
		return err
	}
	remaining := p.Stock - inCart
	if remaining < qty {
		return &OutOfStockError{ProductID: p.ID, Requested: qty, Available: remaining}
	}

	if qty <= 0 {
		// Zero never reaches the gateway; re-read so the caller's view of
		// the cart stays fresh.
		if authenticated {
			if _, err := r.remote.FetchCart(ctx, userID); err != nil {
				return err
			}
		}
		return nil
	}

	if authenticated {
		item := UpsertItem{ProductID: p.ID, Quantity: qty, Size: size, Color: color}
		if _, err := r.remote.UpsertItems(ctx, userID, []UpsertItem{item}); err != nil {
			return err
		}
		r.notifier.PublishDelta(qty)
		return nil
	}

	line := Line{
		ProductID:      p.ID,
		Name:           p.Name,
		UnitPriceCents: p.PriceCents,
		ImageURL:       p.ImageURL,
		Size:           size,
		Color:          color,
	}
	return r.local.Add(ctx, line, qty)
}

// ItemCount is the badge count for the active cart: the sum of non-negative
// quantities, skipping remote items whose product no longer resolves. A
// deleted product must not corrupt the displayed count.
func (r *Reconciler) ItemCount(ctx context.Context) (int, error) {
	userID, authenticated, err := r.identity.CurrentUserID(ctx)
	if err != nil {
		return 0, err
	}
	if !authenticated {
		return r.local.Total(ctx)
	}

	rc, err := r.remote.FetchCart(ctx, userID)
	if err != nil {
		return 0, err
	}
	if rc == nil {
		return 0, nil
	}

	count := 0
	for _, it := range rc.Items {
		if it.Quantity <= 0 {
			continue
		}
		if !it.Product.Populated() {
			if it.Product.ID() == "" {
				continue
			}
			p, err := r.products.Get(ctx, it.Product.ID())
			if err != nil {
				log.Printf("ItemCount: product %s lookup failed, excluding line: %v", it.Product.ID(), err)
				continue
			}
			if p == nil {
				continue
			}
		}
		count += it.Quantity
	}
	return count, nil
}

// TotalQuantityForProduct sums quantities across all variants of one product
// in the active cart. Used to cap additions at available stock.
func (r *Reconciler) TotalQuantityForProduct(ctx context.Context, productID string) (int, error) {
	userID, authenticated, err := r.identity.CurrentUserID(ctx)
	if err != nil {
		return 0, err
	}
	return r.totalForProduct(ctx, userID, authenticated, productID)
}

func (r *Reconciler) totalForProduct(ctx context.Context, userID string, authenticated bool, productID string) (int, error) {
	if !authenticated {
		return r.local.TotalForProduct(ctx, productID)
	}

	rc, err := r.remote.FetchCart(ctx, userID)
	if err != nil {
		return 0, err
	}
	if rc == nil {
		return 0, nil
	}

	sum := 0
	for _, it := range rc.Items {
		if it.Product.ID() == productID && it.Quantity > 0 {
			sum += it.Quantity
		}
	}
	return sum, nil
}

// FetchActiveRemote returns the authenticated user's cart, or nil when
// guest or cart absent.
func (r *Reconciler) FetchActiveRemote(ctx context.Context) (*RemoteCart, error) {
	userID, authenticated, err := r.identity.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if !authenticated {
		return nil, nil
	}
	return r.remote.FetchCart(ctx, userID)
}

// LocalLines exposes the guest cart for rendering.
func (r *Reconciler) LocalLines(ctx context.Context) ([]Line, error) {
	return r.local.List(ctx)
}

// SetLocalQuantity and RemoveLocal pass through to the guest store.
func (r *Reconciler) SetLocalQuantity(ctx context.Context, key Key, qty int) error {
	return r.local.SetQuantity(ctx, key, qty)
}

func (r *Reconciler) RemoveLocal(ctx context.Context, key Key) error {
	return r.local.Remove(ctx, key)
}

// MigrateLocalCartToBackend moves every guest cart line into the user's
// remote cart, one upsert at a time. Upserts run strictly sequentially:
// the server merges by variant, and concurrent upserts for the same cart
// can lose updates. The guest cart is cleared only after every upsert
// succeeded; on any failure the local lines stay put for the next login,
// and server-side merge idempotency absorbs the lines already moved.
func (r *Reconciler) MigrateLocalCartToBackend(ctx context.Context) error {
	userID, authenticated, err := r.identity.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	if !authenticated {
		return nil
	}

	lines, err := r.local.List(ctx)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}

	for i, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		item := UpsertItem{ProductID: l.ProductID, Quantity: l.Quantity, Size: l.Size, Color: l.Color}
		if _, err := r.remote.UpsertItems(ctx, userID, []UpsertItem{item}); err != nil {
			log.Printf("MigrateLocalCartToBackend: upsert %d/%d failed, keeping local cart: %v", i+1, len(lines), err)
			return fmt.Errorf("migrate cart line %d of %d: %w", i+1, len(lines), err)
		}
	}

	// The remote cart is authoritative from here on; clear silently and let
	// the recomputed Set drive the badge.
	if err := r.local.Clear(ctx, true); err != nil {
		return err
	}

	count, err := r.ItemCount(ctx)
	if err != nil {
		return err
	}
	r.notifier.PublishSet(count)
	return nil
}
