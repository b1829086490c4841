package orders

import (
	"time"

	"github.com/imrfidelz/djk-sub001/internal/modules/auth"
	"github.com/imrfidelz/djk-sub001/internal/modules/products"
	"github.com/imrfidelz/djk-sub001/internal/shared/ref"
)

type OrderItem struct {
	Product        ref.Ref[products.Product] `json:"product"`
	Name           string                    `json:"name"`
	Quantity       int                       `json:"quantity"`
	UnitPriceCents int                       `json:"unitPriceCents"`
	Size           string                    `json:"size,omitempty"`
	Color          string                    `json:"color,omitempty"`
}

// Order as served by the order API. Status and payment are independent
// axes: a Processing order may be unpaid (pay on delivery).
type Order struct {
	ID              string             `json:"_id"`
	User            ref.Ref[auth.User] `json:"user"`
	Status          Status             `json:"status"`
	IsPaid          bool               `json:"isPaid"`
	PaidAt          *time.Time         `json:"paidAt,omitempty"`
	PaymentMethod   string             `json:"paymentMethod"`
	TotalPriceCents int                `json:"totalPriceCents"`
	Items           []OrderItem        `json:"items"`
	CreatedAt       time.Time          `json:"createdAt"`
}

// Clone deep-copies an order so cached snapshots cannot alias live state.
func (o Order) Clone() Order {
	cp := o
	if o.PaidAt != nil {
		t := *o.PaidAt
		cp.PaidAt = &t
	}
	cp.Items = make([]OrderItem, len(o.Items))
	copy(cp.Items, o.Items)
	return cp
}

func cloneOrders(in []Order) []Order {
	out := make([]Order, len(in))
	for i, o := range in {
		out[i] = o.Clone()
	}
	return out
}
