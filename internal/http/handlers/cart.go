package handlers

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/imrfidelz/djk-sub001/internal/http/middleware"
	"github.com/imrfidelz/djk-sub001/internal/http/render"
	"github.com/imrfidelz/djk-sub001/internal/http/validation"
	"github.com/imrfidelz/djk-sub001/internal/modules/cart"
	"github.com/imrfidelz/djk-sub001/internal/modules/products"
	"github.com/imrfidelz/djk-sub001/internal/shared/apperr"
)

// CartHandler exposes the active cart. All routing between guest and
// authenticated carts happens inside the visitor's reconciler; the handler
// never decides authoritativeness itself.
type CartHandler struct {
	Products *products.Gateway
}

func NewCartHandler(prods *products.Gateway) *CartHandler {
	return &CartHandler{Products: prods}
}

type cartItemView struct {
	ProductID      string `json:"productId"`
	Name           string `json:"name,omitempty"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int    `json:"unitPriceCents,omitempty"`
	Size           string `json:"size,omitempty"`
	Color          string `json:"color,omitempty"`
}

type cartView struct {
	Items           []cartItemView `json:"items"`
	Count           int            `json:"count"`
	TotalPriceCents int            `json:"totalPriceCents,omitempty"`
	Remote          bool           `json:"remote"`
}

// Get handles GET /cart.
func (h *CartHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	rec := middleware.CurrentVisitor(c).Reconciler

	rc, err := rec.FetchActiveRemote(ctx)
	if err != nil {
		render.Fail(c, err)
		return
	}

	if _, authed := middleware.CurrentUser(c); authed {
		vm := cartView{Items: []cartItemView{}, Remote: true}
		if rc != nil {
			vm.TotalPriceCents = rc.TotalPriceCents
			for _, it := range rc.Items {
				item := cartItemView{
					ProductID: it.Product.ID(),
					Quantity:  it.Quantity,
					Size:      it.Size,
					Color:     it.Color,
				}
				if p, ok := it.Product.Object(); ok {
					item.Name = p.Name
					item.UnitPriceCents = p.PriceCents
				}
				vm.Items = append(vm.Items, item)
				if it.Quantity > 0 {
					vm.Count += it.Quantity
				}
			}
		}
		render.OK(c, vm)
		return
	}

	lines, err := rec.LocalLines(ctx)
	if err != nil {
		render.Fail(c, apperr.Wrap(err))
		return
	}
	vm := cartView{Items: make([]cartItemView, 0, len(lines))}
	for _, l := range lines {
		vm.Items = append(vm.Items, cartItemView{
			ProductID:      l.ProductID,
			Name:           l.Name,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
			Size:           l.Size,
			Color:          l.Color,
		})
		if l.Quantity > 0 {
			vm.Count += l.Quantity
			vm.TotalPriceCents += l.UnitPriceCents * l.Quantity
		}
	}
	render.OK(c, vm)
}

type addInput struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// Add handles POST /cart/items.
func (h *CartHandler) Add(c *gin.Context) {
	var in addInput
	if err := c.ShouldBindJSON(&in); err != nil {
		render.Fail(c, apperr.InvalidErr("Invalid cart item.", validation.FromBindError(err, &in)))
		return
	}

	ctx := c.Request.Context()
	p, err := h.Products.Get(ctx, in.ProductID)
	if err != nil {
		render.Fail(c, apperr.Wrap(err))
		return
	}
	if p == nil {
		render.Fail(c, apperr.NotFoundErr("Product not found."))
		return
	}

	if err := middleware.CurrentVisitor(c).Reconciler.AddToCart(ctx, p, in.Quantity, in.Size, in.Color); err != nil {
		var oos *cart.OutOfStockError
		if errors.As(err, &oos) {
			render.Fail(c, apperr.ConflictErr("Not enough stock for this product."))
			return
		}
		render.Fail(c, err)
		return
	}

	log.Printf("CartAdd: product=%s qty=%d size=%q color=%q", in.ProductID, in.Quantity, in.Size, in.Color)
	h.Get(c)
}

type setQuantityInput struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// Update handles PUT /cart/items: an absolute quantity set for one guest
// cart line. Authenticated carts are updated through Add; the server owns
// their merge rules.
func (h *CartHandler) Update(c *gin.Context) {
	var in setQuantityInput
	if err := c.ShouldBindJSON(&in); err != nil {
		render.Fail(c, apperr.InvalidErr("Invalid cart update.", validation.FromBindError(err, &in)))
		return
	}

	key := cart.Key{ProductID: in.ProductID, Size: in.Size, Color: in.Color}
	if err := middleware.CurrentVisitor(c).Reconciler.SetLocalQuantity(c.Request.Context(), key, in.Quantity); err != nil {
		render.Fail(c, apperr.Wrap(err))
		return
	}
	h.Get(c)
}

// Remove handles DELETE /cart/items.
func (h *CartHandler) Remove(c *gin.Context) {
	var in setQuantityInput
	if err := c.ShouldBindJSON(&in); err != nil {
		render.Fail(c, apperr.InvalidErr("Invalid cart item.", validation.FromBindError(err, &in)))
		return
	}

	key := cart.Key{ProductID: in.ProductID, Size: in.Size, Color: in.Color}
	if err := middleware.CurrentVisitor(c).Reconciler.RemoveLocal(c.Request.Context(), key); err != nil {
		render.Fail(c, apperr.Wrap(err))
		return
	}
	h.Get(c)
}
