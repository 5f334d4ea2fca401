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

// KkiapayCredentials is one tenant's KkiaPay key pair. The public key drives
// the client-side widget; the private key authenticates status checks.
type KkiapayCredentials struct {
	PublicKey  string
	PrivateKey string
}

// KkiapayAdapter covers KkiaPay's fully client-driven flow: intent creation
// hands the public key back without any network call, and completion is
// confirmed server-side through VerifyTransaction.
type KkiapayAdapter struct {
	BaseURL string
	client  *http.Client
}

func NewKkiapayAdapter(baseURL string) *KkiapayAdapter {
	if baseURL == "" {
		baseURL = "https://api.kkiapay.me"
	}
	return &KkiapayAdapter{BaseURL: baseURL, client: newHTTPClient()}
}

// CreateTransaction is the deliberate short-circuit: the browser widget does
// the payment, so the server only returns the public key as a client token.
func (a *KkiapayAdapter) CreateTransaction(ctx context.Context, intent Intent, creds KkiapayCredentials) Result {
	raw, _ := json.Marshal(map[string]string{"public_key": creds.PublicKey})
	return Result{
		Status:      StatusPending,
		ClientToken: creds.PublicKey,
		Raw:         raw,
	}
}

type kkiapayStatusReq struct {
	TransactionID string `json:"transactionId"`
}

type kkiapayStatusResp struct {
	Status string `json:"status"`
	Amount int64  `json:"amount"`
}

// VerifyTransaction performs the authoritative server-side status check the
// widget flow requires before any ledger update.
func (a *KkiapayAdapter) VerifyTransaction(ctx context.Context, transactionID string, creds KkiapayCredentials) (bool, error) {
	body, _ := json.Marshal(kkiapayStatusReq{TransactionID: transactionID})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+"/api/v1/transactions/status", bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", creds.PrivateKey)
	resp, err := a.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("kkiapay status: %w", err)
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	log.Printf("[KkiaPay] status check tx=%s status=%d body=%s", transactionID, resp.StatusCode, string(respBody))
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("kkiapay status: %d %s", resp.StatusCode, string(respBody))
	}
	var out kkiapayStatusResp
	if err := json.Unmarshal(respBody, &out); err != nil {
		return false, err
	}
	return out.Status == "SUCCESS", nil
}
