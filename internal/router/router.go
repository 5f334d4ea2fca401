package router

import (
	"time"

	"vendora/config"
	"vendora/internal/handler"
	"vendora/internal/middleware"
	"vendora/internal/repository"
	"vendora/internal/service"
	"vendora/internal/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	// Skip gin.Logger() to reduce log noise; use gin.Default() if you need request logging
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(300, 60*time.Second)))

	// Repositories
	storeRepo := repository.NewStoreRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	configRepo := repository.NewPaymentConfigRepository(db)
	eventRepo := repository.NewWebhookEventRepository(db)

	feedHub := ws.NewHub()

	// Services
	orderSvc := service.NewOrderService(storeRepo, productRepo, orderRepo)
	paymentSvc := service.NewPaymentService(cfg, configRepo, orderRepo)
	reconcileSvc := service.NewReconcileService(orderRepo, orderSvc, feedHub, cfg.Webhook.MinCorrelationIDLen)

	// Handlers
	authHandler := handler.NewAuthHandler(cfg, storeRepo)
	checkoutHandler := handler.NewCheckoutHandler(orderSvc, paymentSvc)
	confirmHandler := handler.NewConfirmHandler(paymentSvc, reconcileSvc)
	webhookHandler := handler.NewWebhookHandler(reconcileSvc, eventRepo)
	orderHandler := handler.NewOrderHandler(orderRepo, orderSvc)
	settingsHandler := handler.NewSettingsHandler(configRepo, eventRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		api.POST("/auth/token", authHandler.Token)

		api.POST("/checkout", checkoutHandler.Create)
		api.POST("/payments/confirm", confirmHandler.Confirm)
		api.POST("/webhooks/payment", webhookHandler.Handle)

		dashboard := api.Group("")
		dashboard.Use(authMw)
		{
			dashboard.GET("/orders", orderHandler.List)
			dashboard.GET("/orders/:id", orderHandler.Get)
			dashboard.POST("/orders/:id/status", orderHandler.Transition)
			dashboard.GET("/settings/payments", settingsHandler.GetPayments)
			dashboard.PUT("/settings/payments", settingsHandler.UpdatePayments)
			dashboard.GET("/settings/webhook-events", settingsHandler.ListWebhookEvents)
		}
	}

	r.GET("/ws/orders", ws.UpgradeOrderFeed(&cfg.JWT, feedHub))

	return r
}
