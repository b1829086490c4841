package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/imrfidelz/djk-sub001/internal/http/render"
	"github.com/imrfidelz/djk-sub001/internal/modules/products"
	"github.com/imrfidelz/djk-sub001/internal/shared/apperr"
)

type ProductsHandler struct {
	Gateway *products.Gateway
}

func NewProductsHandler(gw *products.Gateway) *ProductsHandler {
	return &ProductsHandler{Gateway: gw}
}

func (h *ProductsHandler) List(c *gin.Context) {
	res, err := h.Gateway.List(c.Request.Context(), products.ListParams{
		Q:    strings.TrimSpace(c.Query("q")),
		Page: parseInt(c.Query("page"), 1),
	})
	if err != nil {
		render.Fail(c, err)
		return
	}
	render.OK(c, res)
}

func (h *ProductsHandler) Detail(c *gin.Context) {
	p, err := h.Gateway.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		render.Fail(c, err)
		return
	}
	if p == nil {
		render.Fail(c, apperr.NotFoundErr("Product not found."))
		return
	}
	render.OK(c, p)
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
