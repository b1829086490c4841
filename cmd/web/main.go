package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/imrfidelz/djk-sub001/internal/config"
	apphttp "github.com/imrfidelz/djk-sub001/internal/http"
	"github.com/imrfidelz/djk-sub001/internal/http/middleware"
	"github.com/imrfidelz/djk-sub001/internal/modules/auth"
	"github.com/imrfidelz/djk-sub001/internal/modules/badge"
	"github.com/imrfidelz/djk-sub001/internal/modules/cart"
	"github.com/imrfidelz/djk-sub001/internal/modules/orders"
	"github.com/imrfidelz/djk-sub001/internal/modules/products"
	"github.com/imrfidelz/djk-sub001/internal/rest"
	"github.com/imrfidelz/djk-sub001/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	level := slog.LevelInfo
	if cfg.Log.Level == "debug" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))

	ctx := context.Background()
	store, err := storage.FromEnv(ctx)
	if err != nil {
		log.Fatalf("init cart storage: %v", err)
	}
	logger.Info("cart storage ready", "driver", store.Driver)

	timeout := time.Duration(cfg.API.TimeoutSeconds) * time.Second

	// product reads are public; one anonymous client serves every visitor
	productGW := products.NewGateway(rest.NewClient(cfg.API.BaseURL, timeout, nil))

	// everything token-bearing or cart-shaped is built per visitor cookie,
	// so two browsers never share a session, a guest cart, or a badge
	visitors := middleware.NewVisitorRegistry(func(id string) *middleware.Visitor {
		notifier := badge.NewNotifier()
		counter := badge.NewCounter(notifier)

		session := auth.NewSession(nil)
		rc := rest.NewClient(cfg.API.BaseURL, timeout, session)
		authClient := auth.NewClient(rc)
		session.Bind(authClient)

		local := cart.NewLocalStore(store.Blob, cfg.Cart.KeyPrefix+"/"+id, notifier)
		rec := cart.NewReconciler(local, cart.NewGateway(rc), productGW, session, notifier)

		return &middleware.Visitor{
			Session:    session,
			AuthClient: authClient,
			Reconciler: rec,
			Orders:     orders.NewAdminController(orders.NewGateway(rc)),
			Notifier:   notifier,
			Counter:    counter,
		}
	})

	r := apphttp.NewRouter(apphttp.Deps{
		Logger:   logger,
		Products: productGW,
		Visitors: visitors,
	})

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	logger.Info("listening", "addr", addr, "api", cfg.API.BaseURL)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
