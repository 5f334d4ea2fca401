package handler

import (
	"errors"
	"log"
	"net/http"

	"vendora/internal/domain"
	"vendora/internal/reconcile"
	"vendora/internal/service"

	"github.com/gin-gonic/gin"
)

// ConfirmHandler serves the pull-based path for client-driven providers: the
// success page reports the widget's transaction id and the server checks it
// against the provider before touching the ledger.
type ConfirmHandler struct {
	paymentSvc *service.PaymentService
	reconciler *service.ReconcileService
}

func NewConfirmHandler(paymentSvc *service.PaymentService, reconciler *service.ReconcileService) *ConfirmHandler {
	return &ConfirmHandler{paymentSvc: paymentSvc, reconciler: reconciler}
}

func (h *ConfirmHandler) Confirm(c *gin.Context) {
	var req struct {
		Method        string `json:"method" binding:"required"`
		TransactionID string `json:"transaction_id" binding:"required"`
		StoreID       uint   `json:"store_id" binding:"required"`
		// OrderID links the widget's transaction id to the order it paid for.
		// Without it only orders already carrying the id can match.
		OrderID string `json:"order_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	paid, err := h.paymentSvc.ConfirmPayment(c.Request.Context(), req.Method, req.TransactionID, req.StoreID)
	if err != nil {
		if errors.Is(err, domain.ErrConfigurationMissing) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		log.Printf("[Confirm] verification failed method=%s tx=%s: %v", req.Method, req.TransactionID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "verification failed"})
		return
	}
	if !paid {
		c.JSON(http.StatusOK, gin.H{"success": false, "paid": false})
		return
	}
	if req.OrderID != "" {
		if err := h.paymentSvc.AttachTransaction(req.OrderID, req.StoreID, req.TransactionID); err != nil {
			if errors.Is(err, domain.ErrOrderNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			log.Printf("[Confirm] attach failed order=%s tx=%s: %v", req.OrderID, req.TransactionID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "confirmation failed"})
			return
		}
	}
	outcome := h.reconciler.Reconcile(reconcile.Classification{
		Provider:      req.Method,
		Kind:          reconcile.EventPaymentSuccess,
		CorrelationID: req.TransactionID,
	})
	success := outcome == service.OutcomeConfirmed || outcome == service.OutcomeDuplicate
	c.JSON(http.StatusOK, gin.H{"success": success, "paid": true})
}
