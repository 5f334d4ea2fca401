package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// PaypalCredentials is one tenant's PayPal REST app.
type PaypalCredentials struct {
	ClientID string
	Secret   string
	Sandbox  bool
}

// PaypalAdapter creates orders through the PayPal Orders v2 API. Auth is the
// client-credentials exchange (one extra outbound call per transaction).
// PayPal has no XOF support, so XOF intents are converted to USD at the
// configured fixed rate.
type PaypalAdapter struct {
	LiveURL    string
	SandboxURL string
	Fx         *FxTable
	client     *http.Client
}

func NewPaypalAdapter(liveURL, sandboxURL string, fx *FxTable) *PaypalAdapter {
	if liveURL == "" {
		liveURL = "https://api-m.paypal.com"
	}
	if sandboxURL == "" {
		sandboxURL = "https://api-m.sandbox.paypal.com"
	}
	return &PaypalAdapter{LiveURL: liveURL, SandboxURL: sandboxURL, Fx: fx, client: newHTTPClient()}
}

func (a *PaypalAdapter) base(creds PaypalCredentials) string {
	if creds.Sandbox {
		return a.SandboxURL
	}
	return a.LiveURL
}

// Currencies PayPal accepts among the ones stores here actually use.
var paypalCurrencies = map[string]bool{"USD": true, "EUR": true, "GBP": true, "CAD": true}

type paypalAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type paypalPurchaseUnit struct {
	ReferenceID string       `json:"reference_id"`
	CustomID    string       `json:"custom_id"`
	Description string       `json:"description,omitempty"`
	Amount      paypalAmount `json:"amount"`
}

type paypalAppContext struct {
	ReturnURL string `json:"return_url,omitempty"`
	CancelURL string `json:"cancel_url,omitempty"`
}

type paypalOrderReq struct {
	Intent             string               `json:"intent"`
	PurchaseUnits      []paypalPurchaseUnit `json:"purchase_units"`
	ApplicationContext paypalAppContext     `json:"application_context"`
}

type paypalOrderResp struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
}

func (a *PaypalAdapter) CreateTransaction(ctx context.Context, intent Intent, creds PaypalCredentials) Result {
	base := a.base(creds)
	currency := intent.Currency
	value := formatAmount(majorValue(intent.Amount, currency), currency)
	if !paypalCurrencies[currency] {
		converted, rate, ok := a.Fx.Convert(intent.Amount, currency, "USD")
		if !ok {
			return rejected(fmt.Sprintf("paypal: no conversion rate for %s", currency))
		}
		log.Printf("[PayPal] converting %d %s -> %s USD (rate %s)", intent.Amount, currency, converted.String(), rate.String())
		currency = "USD"
		value = converted.StringFixed(2)
	}

	cc := clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.Secret,
		TokenURL:     base + "/v1/oauth2/token",
	}
	tok, err := cc.Token(context.WithValue(ctx, oauth2.HTTPClient, a.client))
	if err != nil {
		log.Printf("[PayPal] token exchange failed: %v", err)
		return unreachable(fmt.Sprintf("paypal auth: %v", err))
	}

	req := paypalOrderReq{
		Intent: "CAPTURE",
		PurchaseUnits: []paypalPurchaseUnit{{
			ReferenceID: intent.Reference,
			CustomID:    intent.Reference,
			Description: intent.Description,
			Amount:      paypalAmount{CurrencyCode: currency, Value: value},
		}},
		ApplicationContext: paypalAppContext{
			ReturnURL: intent.SuccessURL,
			CancelURL: intent.CancelURL,
		},
	}

	body, _ := json.Marshal(req)
	apiReq, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/v2/checkout/orders", bytes.NewReader(body))
	if err != nil {
		return unreachable(err.Error())
	}
	apiReq.Header.Set("Content-Type", "application/json")
	apiReq.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	log.Printf("[PayPal] POST %s/v2/checkout/orders reference=%s amount=%s %s", base, intent.Reference, value, currency)
	resp, err := a.client.Do(apiReq)
	if err != nil {
		return unreachable(fmt.Sprintf("paypal order: %v", err))
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	log.Printf("[PayPal] response status=%d body=%s", resp.StatusCode, string(respBody))
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return rejected(fmt.Sprintf("paypal order: %d %s", resp.StatusCode, string(respBody)))
	}
	var out paypalOrderResp
	if err := json.Unmarshal(respBody, &out); err != nil {
		return rejected(fmt.Sprintf("paypal order: malformed response: %v", err))
	}
	if out.ID == "" {
		return rejected("paypal order: missing order id in response")
	}
	approve := ""
	for _, l := range out.Links {
		if l.Rel == "approve" {
			approve = l.Href
		}
	}
	return Result{
		TransactionID: out.ID,
		Status:        StatusPending,
		RedirectURL:   approve,
		Raw:           respBody,
	}
}
