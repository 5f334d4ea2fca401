package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vendora/internal/domain"
	"vendora/internal/models"
	"vendora/internal/repository"
	"vendora/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type webhookFixture struct {
	db     *gorm.DB
	router *gin.Engine
	orders *repository.OrderRepository
	events *repository.WebhookEventRepository
}

func newWebhookFixture(t *testing.T) *webhookFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.Store{}, &models.Product{}, &models.Order{}, &models.OrderItem{},
		&models.StorePaymentConfig{}, &models.WebhookEvent{},
	))

	orders := repository.NewOrderRepository(db)
	events := repository.NewWebhookEventRepository(db)
	ledger := service.NewOrderService(
		repository.NewStoreRepository(db),
		repository.NewProductRepository(db),
		orders,
	)
	reconciler := service.NewReconcileService(orders, ledger, nil, 6)

	r := gin.New()
	r.POST("/api/v1/webhooks/payment", NewWebhookHandler(reconciler, events).Handle)
	return &webhookFixture{db: db, router: r, orders: orders, events: events}
}

func (f *webhookFixture) seedOrder(t *testing.T, providerOrderID, notes string) *models.Order {
	t.Helper()
	store := &models.Store{Name: "Boutique Awa", Slug: "boutique-awa", Currency: "XOF", APIKey: uuid.New().String(), APISecretHash: "x"}
	require.NoError(t, f.db.Create(store).Error)
	order := &models.Order{
		ID:            uuid.New().String(),
		StoreID:       store.ID,
		CustomerEmail: "awa@example.com",
		Subtotal:      15000,
		Total:         15000,
		Currency:      "XOF",
		Status:        domain.OrderPending,
		Notes:         notes,
	}
	if providerOrderID != "" {
		order.ProviderOrderID = &providerOrderID
	}
	require.NoError(t, f.db.Create(order).Error)
	return order
}

func (f *webhookFixture) post(t *testing.T, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payment", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *webhookFixture) orderStatus(t *testing.T, id string) string {
	t.Helper()
	order, err := f.orders.GetByID(id)
	require.NoError(t, err)
	return order.Status
}

func (f *webhookFixture) lastEvent(t *testing.T) *models.WebhookEvent {
	t.Helper()
	var e models.WebhookEvent
	require.NoError(t, f.db.Order("id DESC").First(&e).Error)
	return &e
}

func assertReceived(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp map[string]bool
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp["received"])
}

func TestWebhookCinetpayConfirmsOrder(t *testing.T) {
	f := newWebhookFixture(t)
	order := f.seedOrder(t, "CP-123", "")

	w := f.post(t, `{"cpm_trans_id": "CP-123", "cpm_result": "00"}`, nil)
	assertReceived(t, w)
	assert.Equal(t, domain.OrderConfirmed, f.orderStatus(t, order.ID))

	e := f.lastEvent(t)
	assert.Equal(t, domain.ProviderCinetpay, e.Provider)
	assert.Equal(t, "CP-123", e.CorrelationID)
	assert.Equal(t, "confirmed", e.Outcome)
}

func TestWebhookReplayAcksWithoutChange(t *testing.T) {
	f := newWebhookFixture(t)
	order := f.seedOrder(t, "CP-123", "")
	body := `{"cpm_trans_id": "CP-123", "cpm_result": "00"}`

	assertReceived(t, f.post(t, body, nil))
	assertReceived(t, f.post(t, body, nil))

	assert.Equal(t, domain.OrderConfirmed, f.orderStatus(t, order.ID))
	assert.Equal(t, "duplicate", f.lastEvent(t).Outcome)
}

func TestWebhookUnknownTransactionStillAcked(t *testing.T) {
	f := newWebhookFixture(t)
	order := f.seedOrder(t, "CP-123", "")

	w := f.post(t, `{"cpm_trans_id": "CP-999", "cpm_result": "00"}`, nil)
	assertReceived(t, w)
	assert.Equal(t, domain.OrderPending, f.orderStatus(t, order.ID))
	assert.Equal(t, "order_not_found", f.lastEvent(t).Outcome)
}

func TestWebhookPaymentForCancelledOrderIsAcked(t *testing.T) {
	f := newWebhookFixture(t)
	order := f.seedOrder(t, "CP-123", "")
	require.NoError(t, f.db.Model(order).Update("status", domain.OrderCancelled).Error)

	// Terminal condition: a 4xx here would make the provider retry forever.
	w := f.post(t, `{"cpm_trans_id": "CP-123", "cpm_result": "00"}`, nil)
	assertReceived(t, w)
	assert.Equal(t, domain.OrderCancelled, f.orderStatus(t, order.ID))
	assert.Equal(t, "conflict", f.lastEvent(t).Outcome)
}

func TestWebhookNotesFallback(t *testing.T) {
	f := newWebhookFixture(t)
	order := f.seedOrder(t, "", "client a payé, ref TXN-999 confirmée par SMS")

	w := f.post(t, `{"name": "transaction.approved", "entity": {"id": "TXN-999", "currency": {"iso": "XOF"}}}`, nil)
	assertReceived(t, w)
	assert.Equal(t, domain.OrderConfirmed, f.orderStatus(t, order.ID))
}

func TestWebhookStripeCheckoutCompleted(t *testing.T) {
	f := newWebhookFixture(t)
	order := f.seedOrder(t, "cs_test_a1b2c3", "")

	body := `{"type": "checkout.session.completed", "data": {"object": {"id": "cs_test_a1b2c3"}}}`
	w := f.post(t, body, map[string]string{"Stripe-Signature": "t=1,v1=deadbeef"})
	assertReceived(t, w)
	assert.Equal(t, domain.OrderConfirmed, f.orderStatus(t, order.ID))
}

func TestWebhookNonSuccessEventIgnored(t *testing.T) {
	f := newWebhookFixture(t)
	order := f.seedOrder(t, "CP-123", "")

	w := f.post(t, `{"cpm_trans_id": "CP-123", "cpm_result": "627"}`, nil)
	assertReceived(t, w)
	assert.Equal(t, domain.OrderPending, f.orderStatus(t, order.ID))
	assert.Equal(t, "ignored", f.lastEvent(t).Outcome)
}

func TestWebhookUnidentifiedPayloadAcked(t *testing.T) {
	f := newWebhookFixture(t)

	w := f.post(t, `{"some": "other", "service": true}`, nil)
	assertReceived(t, w)
	assert.Equal(t, "unidentified", f.lastEvent(t).Outcome)
}

func TestWebhookLegacyFormAcked(t *testing.T) {
	f := newWebhookFixture(t)
	order := f.seedOrder(t, "CP-123", "")

	w := f.post(t, "cpm_trans_id=CP-123&cpm_result=00", nil)
	assertReceived(t, w)
	assert.Equal(t, domain.OrderPending, f.orderStatus(t, order.ID))
	assert.Equal(t, "legacy_form", f.lastEvent(t).Outcome)
}

func TestWebhookInvalidJSON(t *testing.T) {
	f := newWebhookFixture(t)

	w := f.post(t, `{broken`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookMisconfiguredHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/webhooks/payment", NewWebhookHandler(nil, nil).Handle)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payment", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
