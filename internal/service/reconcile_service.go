package service

import (
	"errors"
	"log"

	"vendora/internal/domain"
	"vendora/internal/models"
	"vendora/internal/reconcile"
	"vendora/internal/repository"
	"vendora/internal/ws"

	"gorm.io/gorm"
)

type ReconcileOutcome string

const (
	OutcomeConfirmed     ReconcileOutcome = "confirmed"
	OutcomeDuplicate     ReconcileOutcome = "duplicate"
	OutcomeIgnored       ReconcileOutcome = "ignored"
	OutcomeOrderNotFound ReconcileOutcome = "order_not_found"
	// OutcomeConflict is terminal: the ledger refuses the transition (a paid
	// webhook for a cancelled order). Acked so the provider stops retrying;
	// the audit trail keeps it operator-visible.
	OutcomeConflict ReconcileOutcome = "conflict"
	// OutcomeFailed is transient (storage errors); the provider should retry.
	OutcomeFailed ReconcileOutcome = "failed"
)

// ReconcileService matches a classified payment event to an order and applies
// its effect exactly once. Unmatched events are terminal, not retryable: the
// caller still acks them to the provider.
type ReconcileService struct {
	orders *repository.OrderRepository
	ledger *OrderService
	feed   *ws.Hub
	// minCorrelationLen bounds the ambiguous notes-substring fallback; short
	// transaction ids could coincidentally appear inside unrelated free text.
	minCorrelationLen int
}

func NewReconcileService(orders *repository.OrderRepository, ledger *OrderService, feed *ws.Hub, minCorrelationLen int) *ReconcileService {
	return &ReconcileService{orders: orders, ledger: ledger, feed: feed, minCorrelationLen: minCorrelationLen}
}

// Reconcile resolves the event's correlation id to an order, first against
// provider_order_id, then as a substring of the notes field (legacy orders
// created before provider_order_id existed, oldest match wins), and confirms
// the order through the ledger.
func (s *ReconcileService) Reconcile(cls reconcile.Classification) ReconcileOutcome {
	if cls.Kind != reconcile.EventPaymentSuccess || cls.CorrelationID == "" {
		log.Printf("[Reconcile] ignoring %s event kind=%s", cls.Provider, cls.Kind)
		return OutcomeIgnored
	}
	order, err := s.lookup(cls.CorrelationID)
	if err != nil {
		log.Printf("[Reconcile] lookup failed provider=%s correlation_id=%s: %v", cls.Provider, cls.CorrelationID, err)
		return OutcomeFailed
	}
	if order == nil {
		log.Printf("[Reconcile] no order matches provider=%s correlation_id=%s", cls.Provider, cls.CorrelationID)
		return OutcomeOrderNotFound
	}
	applied, err := s.ledger.TransitionStatus(order.ID, domain.OrderConfirmed)
	if errors.Is(err, domain.ErrInvalidTransition) {
		log.Printf("[Reconcile] payment reported for order=%s but the ledger refuses to confirm it (provider=%s correlation_id=%s)", order.ID, cls.Provider, cls.CorrelationID)
		return OutcomeConflict
	}
	if err != nil {
		// Degraded fallback: a bare status-only write, still guarded by the
		// previous status so a confirmed order can never move backward.
		forced, ferr := s.orders.UpdateStatusOnly(order.ID, domain.OrderPending, domain.OrderConfirmed)
		if ferr != nil || !forced {
			log.Printf("[Reconcile] transition failed order=%s provider=%s: %v (fallback applied=%v %v)", order.ID, cls.Provider, err, forced, ferr)
			return OutcomeFailed
		}
		log.Printf("[Reconcile] degraded status-only confirm order=%s provider=%s after: %v", order.ID, cls.Provider, err)
		applied = true
	}
	if !applied {
		log.Printf("[Reconcile] duplicate confirmation order=%s provider=%s correlation_id=%s", order.ID, cls.Provider, cls.CorrelationID)
		return OutcomeDuplicate
	}
	log.Printf("[Reconcile] order=%s confirmed via %s correlation_id=%s", order.ID, cls.Provider, cls.CorrelationID)
	if s.feed != nil {
		s.feed.BroadcastToStore(order.StoreID, map[string]interface{}{
			"type":     "order_confirmed",
			"order_id": order.ID,
			"provider": cls.Provider,
			"total":    order.Total,
			"currency": order.Currency,
		})
	}
	return OutcomeConfirmed
}

func (s *ReconcileService) lookup(correlationID string) (*models.Order, error) {
	order, err := s.orders.GetByProviderOrderID(correlationID)
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if len(correlationID) < s.minCorrelationLen {
		return nil, nil
	}
	order, err = s.orders.FirstByNotesContaining(correlationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return order, nil
}
