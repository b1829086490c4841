package orders

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/imrfidelz/djk-sub001/internal/rest"
)

// Gateway is the client for the order endpoints of the backing API.
type Gateway struct {
	rc *rest.Client
}

func NewGateway(rc *rest.Client) *Gateway { return &Gateway{rc: rc} }

type ListParams struct {
	Q        string
	Status   Status
	Page     int
	PageSize int
}

type ListResult struct {
	Items []Order `json:"items"`
	Total int64   `json:"total"`
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

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(size))
	if in.Status != "" {
		q.Set("status", string(in.Status))
	}
	if in.Q != "" {
		q.Set("q", in.Q)
	}

	var out ListResult
	if err := g.rc.Get(ctx, "/orders?"+q.Encode(), &out); err != nil {
		return ListResult{}, fmt.Errorf("list orders: %w", err)
	}
	return out, nil
}

func (g *Gateway) Get(ctx context.Context, orderID string) (*Order, error) {
	var o Order
	if err := g.rc.Get(ctx, "/orders/"+orderID, &o); err != nil {
		return nil, fmt.Errorf("fetch order %s: %w", orderID, err)
	}
	return &o, nil
}

type statusUpdate struct {
	Status Status `json:"status"`
	Note   string `json:"note,omitempty"`
}

// UpdateStatus asks the API to move the order to target. Legality is
// checked by the controller before this is ever called; the server enforces
// its own rules on top.
func (g *Gateway) UpdateStatus(ctx context.Context, orderID string, target Status, note string) (*Order, error) {
	var o Order
	if err := g.rc.Put(ctx, "/orders/"+orderID+"/status", statusUpdate{Status: target, Note: note}, &o); err != nil {
		return nil, fmt.Errorf("update status of order %s: %w", orderID, err)
	}
	return &o, nil
}

// MarkPaid flips the one-way payment flag. The server records the paid
// timestamp; status is untouched.
func (g *Gateway) MarkPaid(ctx context.Context, orderID string) (*Order, error) {
	var o Order
	if err := g.rc.Put(ctx, "/orders/"+orderID+"/paid", nil, &o); err != nil {
		return nil, fmt.Errorf("mark order %s paid: %w", orderID, err)
	}
	return &o, nil
}
