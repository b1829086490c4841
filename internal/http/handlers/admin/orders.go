package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/imrfidelz/djk-sub001/internal/http/middleware"
	"github.com/imrfidelz/djk-sub001/internal/http/render"
	"github.com/imrfidelz/djk-sub001/internal/http/validation"
	"github.com/imrfidelz/djk-sub001/internal/modules/orders"
	"github.com/imrfidelz/djk-sub001/internal/shared/apperr"
)

// OrdersHandler drives the back-office order screens through the
// visitor's optimistic controller. The controller's cache is what the
// screens show; a failed update never leaves it half-applied.
type OrdersHandler struct{}

func NewOrdersHandler() *OrdersHandler {
	return &OrdersHandler{}
}

// List handles GET /admin/orders.
func (h *OrdersHandler) List(c *gin.Context) {
	ctrl := middleware.CurrentVisitor(c).Orders
	params := orders.ListParams{
		Q:        strings.TrimSpace(c.Query("q")),
		Status:   orders.Status(strings.TrimSpace(c.Query("status"))),
		Page:     parseInt(c.Query("page"), 1),
		PageSize: 30,
	}
	if params.Status != "" && !params.Status.Valid() {
		render.Fail(c, apperr.InvalidErr("Unknown order status filter.", nil))
		return
	}

	if err := ctrl.Refresh(c.Request.Context(), params); err != nil {
		render.Fail(c, err)
		return
	}

	render.OK(c, gin.H{
		"items": ctrl.Orders(),
		"total": ctrl.Total(),
		"page":  params.Page,
	})
}

type statusInput struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// ChangeStatus handles POST /admin/orders/:id/status.
func (h *OrdersHandler) ChangeStatus(c *gin.Context) {
	var in statusInput
	if err := c.ShouldBindJSON(&in); err != nil {
		render.Fail(c, apperr.InvalidErr("Invalid status update.", validation.FromBindError(err, &in)))
		return
	}

	target := orders.Status(in.Status)
	if !target.Valid() {
		render.Fail(c, apperr.InvalidErr("Unknown order status.", nil))
		return
	}

	ctrl := middleware.CurrentVisitor(c).Orders
	err := ctrl.ChangeStatus(c.Request.Context(), c.Param("id"), target, in.Note)
	if err != nil {
		render.Fail(c, mapControllerErr(err))
		return
	}
	render.OK(c, gin.H{"items": ctrl.Orders()})
}

// MarkPaid handles POST /admin/orders/:id/paid.
func (h *OrdersHandler) MarkPaid(c *gin.Context) {
	ctrl := middleware.CurrentVisitor(c).Orders
	err := ctrl.MarkPaid(c.Request.Context(), c.Param("id"))
	if err != nil {
		render.Fail(c, mapControllerErr(err))
		return
	}
	render.OK(c, gin.H{"items": ctrl.Orders()})
}

func mapControllerErr(err error) error {
	switch {
	case errors.Is(err, orders.ErrInvalidTransition):
		return apperr.ConflictErr("That status change is not allowed.")
	case errors.Is(err, orders.ErrUpdateInFlight):
		return apperr.ConflictErr("An update for this order is still in progress.")
	case errors.Is(err, orders.ErrUnknownOrder):
		return apperr.NotFoundErr("Order not found.")
	default:
		return err
	}
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}
