package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vendora/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cinetpayIntent() Intent {
	return Intent{
		Reference:     "ord-7f3a2b",
		Amount:        15000,
		Currency:      "XOF",
		Description:   "Commande Boutique Awa",
		CustomerEmail: "awa@example.com",
		SuccessURL:    "https://shop.example.com/merci",
		NotifyURL:     "https://shop.example.com/api/v1/webhooks/payment",
	}
}

func TestCinetpayCreateTransaction(t *testing.T) {
	var got cinetpayPaymentReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v2/payment", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"code":"201","message":"CREATED","data":{"payment_token":"tok_abc","payment_url":"https://checkout.cinetpay.com/payment/tok_abc"}}`))
	}))
	defer srv.Close()

	a := NewCinetpayAdapter(srv.URL)
	res := a.CreateTransaction(context.Background(), cinetpayIntent(), CinetpayCredentials{APIKey: "key", SiteID: "101"})

	require.False(t, res.Failed(), res.ErrorMessage)
	assert.Equal(t, "ord-7f3a2b", res.TransactionID, "our order id is the provider transaction id")
	assert.Equal(t, "https://checkout.cinetpay.com/payment/tok_abc", res.RedirectURL)
	assert.Equal(t, "tok_abc", res.ClientToken)

	assert.Equal(t, "key", got.APIKey)
	assert.Equal(t, "101", got.SiteID)
	assert.Equal(t, "ord-7f3a2b", got.TransactionID)
	assert.Equal(t, int64(15000), got.Amount)
	assert.Equal(t, "XOF", got.Currency)
}

func TestCinetpayRejectedCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"code":"608","message":"MINIMUM_REQUIRED_FIELDS"}`))
	}))
	defer srv.Close()

	res := NewCinetpayAdapter(srv.URL).CreateTransaction(context.Background(), cinetpayIntent(), CinetpayCredentials{})
	require.True(t, res.Failed())
	assert.Equal(t, domain.ErrKindProviderRejected, res.ErrorKind)
}

func TestCinetpayNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	res := NewCinetpayAdapter(srv.URL).CreateTransaction(context.Background(), cinetpayIntent(), CinetpayCredentials{})
	require.True(t, res.Failed())
	assert.Equal(t, domain.ErrKindNetworkFailure, res.ErrorKind)
}
