package handler

import (
	"errors"
	"net/http"
	"strconv"

	"vendora/internal/middleware"
	"vendora/internal/models"
	"vendora/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SettingsHandler struct {
	configs *repository.PaymentConfigRepository
	events  *repository.WebhookEventRepository
}

func NewSettingsHandler(configs *repository.PaymentConfigRepository, events *repository.WebhookEventRepository) *SettingsHandler {
	return &SettingsHandler{configs: configs, events: events}
}

// GetPayments returns the store's provider configuration. Secrets never leave
// the server; the response carries only the public halves plus flags.
func (h *SettingsHandler) GetPayments(c *gin.Context) {
	storeID := middleware.GetStoreID(c)
	cfg, err := h.configs.GetByStoreID(storeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cfg = &models.StorePaymentConfig{StoreID: storeID}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"config": cfg,
		"configured": gin.H{
			"paypal":   cfg.PaypalConfigured(),
			"stripe":   cfg.StripeConfigured(),
			"fedapay":  cfg.FedapayConfigured(),
			"kkiapay":  cfg.KkiapayConfigured(),
			"cinetpay": cfg.CinetpayConfigured(),
		},
	})
}

// UpdatePayments replaces the store's credential bundle. Empty fields disable
// the corresponding provider.
func (h *SettingsHandler) UpdatePayments(c *gin.Context) {
	storeID := middleware.GetStoreID(c)
	var req struct {
		PaypalClientID      string `json:"paypal_client_id"`
		PaypalSecret        string `json:"paypal_secret"`
		PaypalSandbox       bool   `json:"paypal_sandbox"`
		StripeSecretKey     string `json:"stripe_secret_key"`
		StripePublicKey     string `json:"stripe_public_key"`
		StripeWebhookSecret string `json:"stripe_webhook_secret"`
		FedapaySecretKey    string `json:"fedapay_secret_key"`
		FedapaySandbox      bool   `json:"fedapay_sandbox"`
		KkiapayPublicKey    string `json:"kkiapay_public_key"`
		KkiapayPrivateKey   string `json:"kkiapay_private_key"`
		CinetpayAPIKey      string `json:"cinetpay_api_key"`
		CinetpaySiteID      string `json:"cinetpay_site_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cfg := &models.StorePaymentConfig{
		StoreID:             storeID,
		PaypalClientID:      req.PaypalClientID,
		PaypalSecret:        req.PaypalSecret,
		PaypalSandbox:       req.PaypalSandbox,
		StripeSecretKey:     req.StripeSecretKey,
		StripePublicKey:     req.StripePublicKey,
		StripeWebhookSecret: req.StripeWebhookSecret,
		FedapaySecretKey:    req.FedapaySecretKey,
		FedapaySandbox:      req.FedapaySandbox,
		KkiapayPublicKey:    req.KkiapayPublicKey,
		KkiapayPrivateKey:   req.KkiapayPrivateKey,
		CinetpayAPIKey:      req.CinetpayAPIKey,
		CinetpaySiteID:      req.CinetpaySiteID,
	}
	if err := h.configs.Upsert(cfg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

// ListWebhookEvents exposes the webhook audit trail for operator review,
// unidentified and unmatched events included.
func (h *SettingsHandler) ListWebhookEvents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	events, err := h.events.ListRecent(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
