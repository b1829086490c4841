package cart

import (
	"context"
	"fmt"

	"github.com/imrfidelz/djk-sub001/internal/rest"
	"github.com/imrfidelz/djk-sub001/internal/shared/apperr"
)

// Gateway is the client for the server-side cart resource.
type Gateway struct {
	rc *rest.Client
}

func NewGateway(rc *rest.Client) *Gateway { return &Gateway{rc: rc} }

// FetchCart returns nil, nil when the user has no cart yet. Absence is an
// expected state, not an error.
func (g *Gateway) FetchCart(ctx context.Context, userID string) (*RemoteCart, error) {
	var c RemoteCart
	err := g.rc.Get(ctx, "/carts/"+userID, &c)
	if err != nil {
		if apperr.IsKind(err, apperr.NotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch cart for user %s: %w", userID, err)
	}
	return &c, nil
}

type upsertRequest struct {
	UserID string       `json:"userId"`
	Items  []UpsertItem `json:"items"`
}

// UpsertItems sends items to be merged into the user's cart by the server's
// (product, size, color) rule. A zero quantity never goes out; callers must
// short-circuit and re-read the cart instead.
func (g *Gateway) UpsertItems(ctx context.Context, userID string, items []UpsertItem) (*RemoteCart, error) {
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, ErrZeroQuantity
		}
	}

	var c RemoteCart
	if err := g.rc.Post(ctx, "/carts", upsertRequest{UserID: userID, Items: items}, &c); err != nil {
		return nil, fmt.Errorf("upsert cart items for user %s: %w", userID, err)
	}
	return &c, nil
}

func (g *Gateway) DeleteCart(ctx context.Context, cartID string) error {
	if err := g.rc.Delete(ctx, "/carts/"+cartID); err != nil {
		return fmt.Errorf("delete cart %s: %w", cartID, err)
	}
	return nil
}
