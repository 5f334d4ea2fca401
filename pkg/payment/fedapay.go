package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
)

// FedapayCredentials is one tenant's FedaPay account.
type FedapayCredentials struct {
	SecretKey string
	Sandbox   bool
}

// FedapayAdapter creates a transaction then fetches its payment token, which
// carries the hosted checkout URL. Auth is a plain bearer secret key.
type FedapayAdapter struct {
	LiveURL    string
	SandboxURL string
	client     *http.Client
}

func NewFedapayAdapter(liveURL, sandboxURL string) *FedapayAdapter {
	if liveURL == "" {
		liveURL = "https://api.fedapay.com"
	}
	if sandboxURL == "" {
		sandboxURL = "https://sandbox-api.fedapay.com"
	}
	return &FedapayAdapter{LiveURL: liveURL, SandboxURL: sandboxURL, client: newHTTPClient()}
}

func (a *FedapayAdapter) base(creds FedapayCredentials) string {
	if creds.Sandbox {
		return a.SandboxURL
	}
	return a.LiveURL
}

type fedapayCurrency struct {
	ISO string `json:"iso"`
}

type fedapayCustomer struct {
	Firstname string `json:"firstname,omitempty"`
	Lastname  string `json:"lastname,omitempty"`
	Email     string `json:"email"`
}

type fedapayTxReq struct {
	Description string          `json:"description"`
	Amount      int64           `json:"amount"`
	Currency    fedapayCurrency `json:"currency"`
	CallbackURL string          `json:"callback_url,omitempty"`
	Customer    fedapayCustomer `json:"customer"`
}

type fedapayTxResp struct {
	Transaction struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	} `json:"v1/transaction"`
}

type fedapayTokenResp struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

func (a *FedapayAdapter) CreateTransaction(ctx context.Context, intent Intent, creds FedapayCredentials) Result {
	base := a.base(creds)
	first, last := splitName(intent.CustomerName)
	payload := fedapayTxReq{
		Description: intent.Description,
		Amount:      intent.Amount,
		Currency:    fedapayCurrency{ISO: intent.Currency},
		CallbackURL: intent.SuccessURL,
		Customer:    fedapayCustomer{Firstname: first, Lastname: last, Email: intent.CustomerEmail},
	}
	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/v1/transactions", bytes.NewReader(body))
	if err != nil {
		return unreachable(err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+creds.SecretKey)
	log.Printf("[FedaPay] POST %s/v1/transactions reference=%s amount=%d %s", base, intent.Reference, intent.Amount, intent.Currency)
	resp, err := a.client.Do(req)
	if err != nil {
		return unreachable(fmt.Sprintf("fedapay transaction: %v", err))
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	log.Printf("[FedaPay] response status=%d body=%s", resp.StatusCode, string(respBody))
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return rejected(fmt.Sprintf("fedapay transaction: %d %s", resp.StatusCode, string(respBody)))
	}
	var out fedapayTxResp
	if err := json.Unmarshal(respBody, &out); err != nil || out.Transaction.ID == 0 {
		return rejected("fedapay transaction: malformed response")
	}
	txID := strconv.FormatInt(out.Transaction.ID, 10)

	tokenReq, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/v1/transactions/"+txID+"/token", nil)
	if err != nil {
		return unreachable(err.Error())
	}
	tokenReq.Header.Set("Authorization", "Bearer "+creds.SecretKey)
	tokenResp, err := a.client.Do(tokenReq)
	if err != nil {
		return unreachable(fmt.Sprintf("fedapay token: %v", err))
	}
	defer tokenResp.Body.Close()
	tokenBody, _ := io.ReadAll(tokenResp.Body)
	if tokenResp.StatusCode != http.StatusOK && tokenResp.StatusCode != http.StatusCreated {
		return rejected(fmt.Sprintf("fedapay token: %d %s", tokenResp.StatusCode, string(tokenBody)))
	}
	var tok fedapayTokenResp
	if err := json.Unmarshal(tokenBody, &tok); err != nil || tok.URL == "" {
		return rejected("fedapay token: malformed response")
	}
	return Result{
		TransactionID: txID,
		Status:        StatusPending,
		RedirectURL:   tok.URL,
		ClientToken:   tok.Token,
		Raw:           respBody,
	}
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
