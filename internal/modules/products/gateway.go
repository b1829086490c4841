package products

import (
	"context"
	"fmt"
	"net/url"

	"github.com/imrfidelz/djk-sub001/internal/rest"
	"github.com/imrfidelz/djk-sub001/internal/shared/apperr"
)

// Gateway reads the catalog over the REST API.
type Gateway struct {
	rc *rest.Client
}

func NewGateway(rc *rest.Client) *Gateway { return &Gateway{rc: rc} }

// Get returns nil, nil when the product no longer exists. A deleted product
// is an expected state for stale cart lines, not an error.
func (g *Gateway) Get(ctx context.Context, productID string) (*Product, error) {
	var p Product
	err := g.rc.Get(ctx, "/products/"+productID, &p)
	if err != nil {
		if apperr.IsKind(err, apperr.NotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch product %s: %w", productID, err)
	}
	return &p, nil
}

type ListParams struct {
	Q        string
	Page     int
	PageSize int
}

type ListResult struct {
	Items []Product `json:"items"`
	Total int64     `json:"total"`
}

func (g *Gateway) List(ctx context.Context, in ListParams) (ListResult, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	size := in.PageSize
	if size < 1 || size > 100 {
		size = 30
	}

	path := fmt.Sprintf("/products?page=%d&pageSize=%d", page, size)
	if in.Q != "" {
		path += "&q=" + url.QueryEscape(in.Q)
	}

	var out ListResult
	if err := g.rc.Get(ctx, path, &out); err != nil {
		return ListResult{}, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}
