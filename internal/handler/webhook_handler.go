package handler

import (
	"io"
	"log"
	"net/http"

	"vendora/internal/models"
	"vendora/internal/reconcile"
	"vendora/internal/repository"
	"vendora/internal/service"

	"github.com/gin-gonic/gin"
)

// WebhookHandler is the single inbound endpoint for all providers. The body
// stays raw until classification because provider identity depends on both
// body shape and headers. Acks are liberal on purpose: providers treat any
// non-2xx as "retry forever" and most unmatched cases are terminal.
type WebhookHandler struct {
	reconciler *service.ReconcileService
	events     *repository.WebhookEventRepository
}

func NewWebhookHandler(reconciler *service.ReconcileService, events *repository.WebhookEventRepository) *WebhookHandler {
	return &WebhookHandler{reconciler: reconciler, events: events}
}

func (h *WebhookHandler) Handle(c *gin.Context) {
	if h.reconciler == nil || h.events == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "webhook processing not configured"})
		return
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Printf("[Webhook] read body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	log.Printf("[Webhook] raw body: %s", string(body))

	if reconcile.IsLegacyForm(body) {
		log.Printf("[Webhook] legacy form-encoded notification, acknowledging without processing")
		h.record(&models.WebhookEvent{Outcome: "legacy_form", RawPayload: string(body)})
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	cls, err := reconcile.Classify(body, c.Request.Header)
	if err != nil {
		log.Printf("[Webhook] invalid json: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if cls == nil {
		log.Printf("[Webhook] unidentified payload, acknowledging")
		h.record(&models.WebhookEvent{Outcome: "unidentified", RawPayload: string(body)})
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}
	log.Printf("[Webhook] classified provider=%s kind=%s correlation_id=%s", cls.Provider, cls.Kind, cls.CorrelationID)

	outcome := h.reconciler.Reconcile(*cls)
	h.record(&models.WebhookEvent{
		Provider:      cls.Provider,
		EventKind:     string(cls.Kind),
		CorrelationID: cls.CorrelationID,
		Outcome:       string(outcome),
		RawPayload:    string(body),
	})
	if outcome == service.OutcomeFailed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "processing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *WebhookHandler) record(e *models.WebhookEvent) {
	if err := h.events.Create(e); err != nil {
		log.Printf("[Webhook] audit record failed: %v", err)
	}
}
