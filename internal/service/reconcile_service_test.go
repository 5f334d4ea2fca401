package service

import (
	"testing"

	"vendora/internal/domain"
	"vendora/internal/reconcile"
	"vendora/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReconcileService(db *gorm.DB) (*ReconcileService, *repository.OrderRepository) {
	orders := repository.NewOrderRepository(db)
	return NewReconcileService(orders, newOrderService(db), nil, 6), orders
}

func successEvent(provider, correlationID string) reconcile.Classification {
	return reconcile.Classification{
		Provider:      provider,
		Kind:          reconcile.EventPaymentSuccess,
		CorrelationID: correlationID,
	}
}

func TestReconcileConfirmsByProviderOrderID(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	order := seedPendingOrder(t, db, store.ID)
	svc, orders := newReconcileService(db)
	require.NoError(t, orders.SetProviderOrderID(order.ID, "CP-123"))

	outcome := svc.Reconcile(successEvent(domain.ProviderCinetpay, "CP-123"))
	assert.Equal(t, OutcomeConfirmed, outcome)

	fresh, err := orders.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderConfirmed, fresh.Status)
	require.NotNil(t, fresh.ConfirmedAt)
}

func TestReconcileReplayIsDuplicate(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	order := seedPendingOrder(t, db, store.ID)
	svc, orders := newReconcileService(db)
	require.NoError(t, orders.SetProviderOrderID(order.ID, "CP-123"))

	assert.Equal(t, OutcomeConfirmed, svc.Reconcile(successEvent(domain.ProviderCinetpay, "CP-123")))
	assert.Equal(t, OutcomeDuplicate, svc.Reconcile(successEvent(domain.ProviderCinetpay, "CP-123")))

	fresh, err := orders.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderConfirmed, fresh.Status)
}

func TestReconcileUnknownCorrelationID(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	order := seedPendingOrder(t, db, store.ID)
	svc, orders := newReconcileService(db)

	outcome := svc.Reconcile(successEvent(domain.ProviderCinetpay, "CP-999"))
	assert.Equal(t, OutcomeOrderNotFound, outcome)

	fresh, err := orders.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPending, fresh.Status)
}

func TestReconcileFallsBackToNotes(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	order := seedPendingOrder(t, db, store.ID)
	svc, orders := newReconcileService(db)
	require.NoError(t, db.Model(order).Update("notes", "paiement mobile ref TXN-999 reçu par tel").Error)

	outcome := svc.Reconcile(successEvent(domain.ProviderFedapay, "TXN-999"))
	assert.Equal(t, OutcomeConfirmed, outcome)

	fresh, err := orders.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderConfirmed, fresh.Status)
}

func TestReconcileNotesFallbackPrefersOldestMatch(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	first := seedPendingOrder(t, db, store.ID)
	second := seedPendingOrder(t, db, store.ID)
	svc, orders := newReconcileService(db)
	require.NoError(t, db.Model(first).Update("notes", "ref TXN-424242").Error)
	require.NoError(t, db.Model(second).Update("notes", "ref TXN-424242 bis").Error)
	// created_at ties break on rowid in sqlite; force distinct timestamps.
	require.NoError(t, db.Exec("UPDATE orders SET created_at = datetime('now','-1 hour') WHERE id = ?", first.ID).Error)

	assert.Equal(t, OutcomeConfirmed, svc.Reconcile(successEvent(domain.ProviderFedapay, "TXN-424242")))

	freshFirst, err := orders.GetByID(first.ID)
	require.NoError(t, err)
	freshSecond, err := orders.GetByID(second.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderConfirmed, freshFirst.Status)
	assert.Equal(t, domain.OrderPending, freshSecond.Status)
}

func TestReconcileShortIDNeverMatchesNotes(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	order := seedPendingOrder(t, db, store.ID)
	svc, orders := newReconcileService(db)
	require.NoError(t, db.Model(order).Update("notes", "ref 12345 reçu").Error)

	// "12345" is under the 6-char floor, so the ambiguous substring path is
	// skipped even though it would match.
	outcome := svc.Reconcile(successEvent(domain.ProviderFedapay, "12345"))
	assert.Equal(t, OutcomeOrderNotFound, outcome)

	fresh, err := orders.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPending, fresh.Status)
}

func TestReconcilePrimaryKeyWinsOverNotes(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	byNotes := seedPendingOrder(t, db, store.ID)
	byRef := seedPendingOrder(t, db, store.ID)
	svc, orders := newReconcileService(db)
	require.NoError(t, db.Model(byNotes).Update("notes", "ref TXN-777777").Error)
	require.NoError(t, orders.SetProviderOrderID(byRef.ID, "TXN-777777"))

	assert.Equal(t, OutcomeConfirmed, svc.Reconcile(successEvent(domain.ProviderFedapay, "TXN-777777")))

	fresh, err := orders.GetByID(byRef.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderConfirmed, fresh.Status)
	other, err := orders.GetByID(byNotes.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPending, other.Status)
}

func TestReconcileIgnoresNonSuccessEvents(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newReconcileService(db)

	outcome := svc.Reconcile(reconcile.Classification{
		Provider: domain.ProviderStripe,
		Kind:     reconcile.EventUnknown,
	})
	assert.Equal(t, OutcomeIgnored, outcome)

	outcome = svc.Reconcile(reconcile.Classification{
		Provider: domain.ProviderStripe,
		Kind:     reconcile.EventPaymentSuccess,
	})
	assert.Equal(t, OutcomeIgnored, outcome, "success with no correlation id has nothing to match")
}

func TestReconcileCancelledOrderIsTerminalConflict(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	order := seedPendingOrder(t, db, store.ID)
	svc, orders := newReconcileService(db)
	require.NoError(t, orders.SetProviderOrderID(order.ID, "CP-555555"))

	ledger := newOrderService(db)
	_, err := ledger.TransitionStatus(order.ID, domain.OrderCancelled)
	require.NoError(t, err)

	// Terminal, not transient: the caller acks so the provider stops retrying.
	outcome := svc.Reconcile(successEvent(domain.ProviderCinetpay, "CP-555555"))
	assert.Equal(t, OutcomeConflict, outcome)

	fresh, err := orders.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCancelled, fresh.Status)
}
