package cart

import (
	"github.com/imrfidelz/djk-sub001/internal/modules/products"
	"github.com/imrfidelz/djk-sub001/internal/shared/ref"
)

// Key identifies one cart line. Two lines with the same product but a
// different size or color are distinct.
type Key struct {
	ProductID string
	Size      string
	Color     string
}

// Line is one guest cart entry as persisted in the cart blob.
type Line struct {
	ProductID      string `json:"productId"`
	Name           string `json:"name"`
	UnitPriceCents int    `json:"unitPriceCents"`
	Quantity       int    `json:"quantity"`
	ImageURL       string `json:"image,omitempty"`
	Size           string `json:"size,omitempty"`
	Color          string `json:"color,omitempty"`
}

func (l Line) Key() Key {
	return Key{ProductID: l.ProductID, Size: l.Size, Color: l.Color}
}

// RemoteCartItem: the API populates product sometimes, sends a bare id other
// times; ref.Ref absorbs both.
type RemoteCartItem struct {
	Product  ref.Ref[products.Product] `json:"product"`
	Quantity int                       `json:"quantity"`
	Size     string                    `json:"size,omitempty"`
	Color    string                    `json:"color,omitempty"`
}

// RemoteCart is the server-side cart. The server computes TotalPriceCents;
// the client never derives it for authenticated carts.
type RemoteCart struct {
	ID              string           `json:"_id"`
	UserID          string           `json:"user"`
	Items           []RemoteCartItem `json:"items"`
	TotalPriceCents int              `json:"totalPriceCents"`
}

// UpsertItem is the single-variant payload sent to the cart endpoint. The
// server merges it into the existing cart by (product, size, color).
type UpsertItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}
