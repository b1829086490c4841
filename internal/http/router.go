package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/imrfidelz/djk-sub001/internal/http/handlers"
	adminhandlers "github.com/imrfidelz/djk-sub001/internal/http/handlers/admin"
	"github.com/imrfidelz/djk-sub001/internal/http/middleware"
	"github.com/imrfidelz/djk-sub001/internal/modules/products"
)

type Deps struct {
	Logger   *slog.Logger
	Products *products.Gateway
	Visitors *middleware.VisitorRegistry
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.ErrorHandler(d.Logger))
	r.Use(middleware.Visitors(d.Visitors))
	r.Use(middleware.Session())
	r.Use(middleware.CartCount())

	authH := handlers.NewAuthHandler()
	cartH := handlers.NewCartHandler(d.Products)
	badgeH := handlers.NewCartBadgeHandler()
	productsH := handlers.NewProductsHandler(d.Products)

	r.POST("/login", authH.Login)
	r.POST("/logout", middleware.RequireAuth(), authH.Logout)
	r.GET("/me", middleware.RequireAuth(), authH.Me)

	r.GET("/products", productsH.List)
	r.GET("/products/:id", productsH.Detail)

	r.GET("/cart", cartH.Get)
	r.POST("/cart/items", cartH.Add)
	r.PUT("/cart/items", cartH.Update)
	r.DELETE("/cart/items", cartH.Remove)
	r.GET("/cart/badge", badgeH.Get)
	r.POST("/cart/badge/refresh", badgeH.Refresh)

	admin := r.Group("/admin", middleware.RequireAdmin())
	{
		ordersH := adminhandlers.NewOrdersHandler()
		admin.GET("/orders", ordersH.List)
		admin.POST("/orders/:id/status", ordersH.ChangeStatus)
		admin.POST("/orders/:id/paid", ordersH.MarkPaid)
	}

	return r
}
