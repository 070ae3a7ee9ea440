package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/voltmart/storefront-gateway/internal/backend"
	"github.com/voltmart/storefront-gateway/internal/cart"
	"github.com/voltmart/storefront-gateway/internal/config"
	"github.com/voltmart/storefront-gateway/internal/dashboard"
	"github.com/voltmart/storefront-gateway/internal/httpx"
	"github.com/voltmart/storefront-gateway/internal/session"
)

func newLogger(cfg config.Config) *slog.Logger {
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func main() {
	cfg := config.Load()
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	cancel()

	sessions := session.NewStore(rdb, cfg.SessionTTL)
	carts := cart.NewStore(rdb, cfg.SessionTTL)

	api := backend.New(cfg.BackendBaseURL, cfg.BackendTimeout)
	api.OnUnauthorized = func(ctx context.Context) {
		if sid := session.IDFrom(ctx); sid != "" {
			if err := sessions.Invalidate(ctx, sid); err != nil {
				logger.Warn("session invalidate", slog.Any("error", err))
			}
		}
	}

	orch := dashboard.New(api, dashboard.NewCache(rdb, cfg.SnapshotTTL), logger)

	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(logger))
	registerRoutes(r, api, sessions, carts, orch, []byte(cfg.JWTSecret))

	logger.Info("gateway listening", slog.String("addr", cfg.GatewayAddr))
	if err := r.Run(cfg.GatewayAddr); err != nil {
		logger.Error("server exit", slog.Any("error", err))
		os.Exit(1)
	}
}

func registerRoutes(r *gin.Engine, api *backend.Client, sessions *session.Store, carts *cart.Store, orch *dashboard.Orchestrator, secret []byte) {
	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })

	pub := r.Group("/api", withSession(sessions))
	{
		pub.GET("/products", listProductsHandler(api))
		pub.GET("/products/:id", getProductHandler(api))
		pub.GET("/products/:id/reviews", listReviewsHandler(api))
		pub.GET("/products/:id/reviews/summary", reviewSummaryHandler(api))

		pub.POST("/session/login", loginHandler(api, sessions, secret))
		pub.DELETE("/session", logoutHandler(sessions))

		pub.GET("/cart", getCartHandler(carts))
		pub.PUT("/cart/items", putCartItemHandler(carts))
		pub.DELETE("/cart/items/:product_id", removeCartItemHandler(carts))
		pub.DELETE("/cart", clearCartHandler(carts))
	}

	auth := r.Group("/api", withSession(sessions), authRequired(secret))
	{
		auth.POST("/reviews", submitReviewHandler(api))
		auth.POST("/reviews/:id/vote", voteReviewHandler(api))

		auth.GET("/orders", listOrdersHandler(api))
		auth.GET("/orders/:id/tracking", orderTrackingHandler(api))

		auth.GET("/emi/applications", listEMIApplicationsHandler(api))
		auth.GET("/emi/records", listEMIRecordsHandler(api))
		auth.GET("/emi/records/:id", getEMIRecordHandler(api))
		auth.POST("/emi/records/:id/pay-installment", payInstallmentHandler(api))
		auth.POST("/emi/records/:id/pay-full", payFullHandler(api))
	}

	admin := r.Group("/api/admin", withSession(sessions), authRequired(secret), adminOnly())
	{
		admin.GET("/dashboard", dashboardHandler(orch, 5))
		admin.GET("/analytics", dashboardHandler(orch, 3))
	}
}
