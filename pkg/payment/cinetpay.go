package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
)

// CinetpayCredentials is one tenant's CinetPay integration: API key plus the
// numeric site id, both required on every call.
type CinetpayCredentials struct {
	APIKey string
	SiteID string
}

// CinetpayAdapter creates a hosted payment via the v2 checkout API. The
// transaction id we send becomes cpm_trans_id in the notification, so the
// order's own reference is used and stored as the correlation key.
type CinetpayAdapter struct {
	BaseURL string
	client  *http.Client
}

func NewCinetpayAdapter(baseURL string) *CinetpayAdapter {
	if baseURL == "" {
		baseURL = "https://api-checkout.cinetpay.com"
	}
	return &CinetpayAdapter{BaseURL: baseURL, client: newHTTPClient()}
}

type cinetpayPaymentReq struct {
	APIKey        string `json:"apikey"`
	SiteID        string `json:"site_id"`
	TransactionID string `json:"transaction_id"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Description   string `json:"description"`
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
	NotifyURL     string `json:"notify_url"`
	ReturnURL     string `json:"return_url"`
	Channels      string `json:"channels"`
}

type cinetpayPaymentResp struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		PaymentToken string `json:"payment_token"`
		PaymentURL   string `json:"payment_url"`
	} `json:"data"`
}

func (a *CinetpayAdapter) CreateTransaction(ctx context.Context, intent Intent, creds CinetpayCredentials) Result {
	payload := cinetpayPaymentReq{
		APIKey:        creds.APIKey,
		SiteID:        creds.SiteID,
		TransactionID: intent.Reference,
		Amount:        intent.Amount,
		Currency:      intent.Currency,
		Description:   intent.Description,
		CustomerName:  intent.CustomerName,
		CustomerEmail: intent.CustomerEmail,
		NotifyURL:     intent.NotifyURL,
		ReturnURL:     intent.SuccessURL,
		Channels:      "ALL",
	}
	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+"/v2/payment", bytes.NewReader(body))
	if err != nil {
		return unreachable(err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	log.Printf("[CinetPay] POST %s/v2/payment transaction_id=%s amount=%d %s", a.BaseURL, intent.Reference, intent.Amount, intent.Currency)
	resp, err := a.client.Do(req)
	if err != nil {
		return unreachable(fmt.Sprintf("cinetpay payment: %v", err))
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	log.Printf("[CinetPay] response status=%d body=%s", resp.StatusCode, string(respBody))
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return rejected(fmt.Sprintf("cinetpay payment: %d %s", resp.StatusCode, string(respBody)))
	}
	var out cinetpayPaymentResp
	if err := json.Unmarshal(respBody, &out); err != nil {
		return rejected("cinetpay payment: malformed response")
	}
	if out.Code != "201" {
		return rejected(fmt.Sprintf("cinetpay payment: %s %s", out.Code, out.Message))
	}
	return Result{
		TransactionID: intent.Reference,
		Status:        StatusPending,
		RedirectURL:   out.Data.PaymentURL,
		ClientToken:   out.Data.PaymentToken,
		Raw:           respBody,
	}
}
