package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubOrderGateway struct {
	listResult   ListResult
	listErr      error
	statusErr    error
	paidErr      error
	statusCalls  int
	paidCalls    int
	lastTarget   Status
	lastNote     string
	updateResult *Order

	// block lets a test hold a call in flight; started signals entry
	block   chan struct{}
	started chan struct{}
}

func (g *stubOrderGateway) List(context.Context, ListParams) (ListResult, error) {
	return g.listResult, g.listErr
}

func (g *stubOrderGateway) UpdateStatus(_ context.Context, orderID string, target Status, note string) (*Order, error) {
	g.statusCalls++
	g.lastTarget = target
	g.lastNote = note
	if g.started != nil {
		g.started <- struct{}{}
	}
	if g.block != nil {
		<-g.block
	}
	if g.statusErr != nil {
		return nil, g.statusErr
	}
	if g.updateResult != nil {
		return g.updateResult, nil
	}
	return &Order{ID: orderID, Status: target}, nil
}

func (g *stubOrderGateway) MarkPaid(_ context.Context, orderID string) (*Order, error) {
	g.paidCalls++
	if g.block != nil {
		<-g.block
	}
	if g.paidErr != nil {
		return nil, g.paidErr
	}
	now := time.Now()
	return &Order{ID: orderID, Status: StatusProcessing, IsPaid: true, PaidAt: &now}, nil
}

func seedController(t *testing.T, gw *stubOrderGateway, items ...Order) *AdminController {
	t.Helper()
	gw.listResult = ListResult{Items: items, Total: int64(len(items))}
	c := NewAdminController(gw)
	require.NoError(t, c.Refresh(context.Background(), ListParams{}))
	return c
}

func TestChangeStatusOptimisticSuccess(t *testing.T) {
	gw := &stubOrderGateway{}
	c := seedController(t, gw,
		Order{ID: "o1", Status: StatusPending},
		Order{ID: "o2", Status: StatusShipped},
	)

	require.NoError(t, c.ChangeStatus(context.Background(), "o1", StatusProcessing, "picking"))
	require.Equal(t, 1, gw.statusCalls)
	require.Equal(t, "picking", gw.lastNote)

	got := c.Orders()
	require.Equal(t, StatusProcessing, got[0].Status)
	require.Equal(t, StatusShipped, got[1].Status)
}

func TestChangeStatusRollbackRestoresWholeList(t *testing.T) {
	gw := &stubOrderGateway{statusErr: errors.New("server rejected")}
	c := seedController(t, gw,
		Order{ID: "o1", Status: StatusPending, Items: []OrderItem{{Name: "Silk Scarf", Quantity: 1}}},
		Order{ID: "o2", Status: StatusShipped},
	)
	before := c.Orders()

	err := c.ChangeStatus(context.Background(), "o1", StatusProcessing, "")
	require.ErrorContains(t, err, "server rejected")

	// the cache is deep-equal to its pre-update value
	require.Equal(t, before, c.Orders())
}

func TestChangeStatusIllegalRejectedBeforeNetwork(t *testing.T) {
	gw := &stubOrderGateway{}
	c := seedController(t, gw,
		Order{ID: "o1", Status: StatusDelivered},
		Order{ID: "o2", Status: StatusShipped},
	)

	err := c.ChangeStatus(context.Background(), "o1", StatusProcessing, "")
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.Zero(t, gw.statusCalls)

	err = c.ChangeStatus(context.Background(), "o2", StatusPending, "")
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.Zero(t, gw.statusCalls)
}

func TestChangeStatusSelfSaveIsNoOp(t *testing.T) {
	gw := &stubOrderGateway{}
	c := seedController(t, gw, Order{ID: "o1", Status: StatusShipped})

	require.NoError(t, c.ChangeStatus(context.Background(), "o1", StatusShipped, ""))
	require.Zero(t, gw.statusCalls)
}

func TestMarkPaidIdempotentGuard(t *testing.T) {
	gw := &stubOrderGateway{}
	c := seedController(t, gw, Order{ID: "o1", Status: StatusProcessing, IsPaid: true})

	require.NoError(t, c.MarkPaid(context.Background(), "o1"))
	require.Zero(t, gw.paidCalls)
}

func TestMarkPaidRollbackOnFailure(t *testing.T) {
	gw := &stubOrderGateway{paidErr: errors.New("payment service down")}
	c := seedController(t, gw, Order{ID: "o1", Status: StatusProcessing})
	before := c.Orders()

	err := c.MarkPaid(context.Background(), "o1")
	require.ErrorContains(t, err, "payment service down")
	require.Equal(t, before, c.Orders())
	require.False(t, c.Orders()[0].IsPaid)
}

func TestMarkPaidAppliesServerTimestamp(t *testing.T) {
	gw := &stubOrderGateway{}
	c := seedController(t, gw, Order{ID: "o1", Status: StatusProcessing})

	require.NoError(t, c.MarkPaid(context.Background(), "o1"))

	got := c.Orders()[0]
	require.True(t, got.IsPaid)
	require.NotNil(t, got.PaidAt)
	// payment marking never alters status
	require.Equal(t, StatusProcessing, got.Status)
}

func TestInFlightGuardIgnoresDoubleSubmission(t *testing.T) {
	gw := &stubOrderGateway{block: make(chan struct{}), started: make(chan struct{}, 1)}
	c := seedController(t, gw, Order{ID: "o1", Status: StatusPending})

	done := make(chan error, 1)
	go func() {
		done <- c.ChangeStatus(context.Background(), "o1", StatusProcessing, "")
	}()

	// wait for the first call to reach the gateway
	<-gw.started

	err := c.ChangeStatus(context.Background(), "o1", StatusCanceled, "")
	require.ErrorIs(t, err, ErrUpdateInFlight)
	err = c.MarkPaid(context.Background(), "o1")
	require.ErrorIs(t, err, ErrUpdateInFlight)

	close(gw.block)
	require.NoError(t, <-done)
	require.Equal(t, 1, gw.statusCalls)
	require.Equal(t, StatusProcessing, c.Orders()[0].Status)
}

func TestChangeStatusUnknownOrder(t *testing.T) {
	gw := &stubOrderGateway{}
	c := seedController(t, gw, Order{ID: "o1", Status: StatusPending})

	err := c.ChangeStatus(context.Background(), "missing", StatusProcessing, "")
	require.ErrorIs(t, err, ErrUnknownOrder)
	require.Zero(t, gw.statusCalls)
}
