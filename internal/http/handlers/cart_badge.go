package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/imrfidelz/djk-sub001/internal/http/middleware"
	"github.com/imrfidelz/djk-sub001/internal/http/render"
)

type CartBadgeHandler struct{}

func NewCartBadgeHandler() *CartBadgeHandler {
	return &CartBadgeHandler{}
}

// Get handles GET /cart/badge - the last count the notifier delivered.
func (h *CartBadgeHandler) Get(c *gin.Context) {
	render.OK(c, gin.H{"count": middleware.GetCartCount(c)})
}

// Refresh handles POST /cart/badge/refresh - recomputes the count from the
// authoritative cart and broadcasts it as an absolute set.
func (h *CartBadgeHandler) Refresh(c *gin.Context) {
	vis := middleware.CurrentVisitor(c)
	vis.Notifier.RequestRefresh()

	count, err := vis.Reconciler.ItemCount(c.Request.Context())
	if err != nil {
		render.Fail(c, err)
		return
	}
	vis.Notifier.PublishSet(count)
	render.OK(c, gin.H{"count": count})
}
