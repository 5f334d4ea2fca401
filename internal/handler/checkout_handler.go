package handler

import (
	"errors"
	"log"
	"net/http"

	"vendora/internal/domain"
	"vendora/internal/service"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	orderSvc   *service.OrderService
	paymentSvc *service.PaymentService
}

func NewCheckoutHandler(orderSvc *service.OrderService, paymentSvc *service.PaymentService) *CheckoutHandler {
	return &CheckoutHandler{orderSvc: orderSvc, paymentSvc: paymentSvc}
}

var supportedMethods = map[string]bool{
	domain.ProviderPaypal:   true,
	domain.ProviderStripe:   true,
	domain.ProviderFedapay:  true,
	domain.ProviderKkiapay:  true,
	domain.ProviderCinetpay: true,
}

// Create builds the order from the store's catalog, then the payment intent
// from the recomputed total. The client never supplies an amount.
func (h *CheckoutHandler) Create(c *gin.Context) {
	var req struct {
		StoreID  uint               `json:"store_id" binding:"required"`
		Method   string             `json:"method" binding:"required"`
		Items    []service.CartItem `json:"items" binding:"required"`
		Customer service.Customer   `json:"customer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Customer.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer email required"})
		return
	}
	if !supportedMethods[req.Method] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported payment method"})
		return
	}
	order, err := h.orderSvc.CreateOrder(req.StoreID, req.Items, req.Customer, req.Method)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrStoreNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "store not found"})
		case errors.Is(err, domain.ErrEmptyCart):
			c.JSON(http.StatusConflict, gin.H{"error": "no valid items in cart"})
		default:
			log.Printf("[Checkout] create order failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "order creation failed"})
		}
		return
	}
	result, err := h.paymentSvc.CreateIntent(c.Request.Context(), req.Method, order, req.Customer)
	if err != nil {
		if errors.Is(err, domain.ErrConfigurationMissing) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "order_id": order.ID})
			return
		}
		log.Printf("[Checkout] create intent failed order=%s: %v", order.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "payment initiation failed", "order_id": order.ID})
		return
	}
	if result.Failed() {
		status := http.StatusUnprocessableEntity
		if result.ErrorKind == domain.ErrKindNetworkFailure {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": result.ErrorMessage, "order_id": order.ID})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order_id":       order.ID,
		"total":          order.Total,
		"currency":       order.Currency,
		"transaction_id": result.TransactionID,
		"status":         result.Status,
		"redirect_url":   result.RedirectURL,
		"client_token":   result.ClientToken,
	})
}
