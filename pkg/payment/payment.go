package payment

import (
	"encoding/json"
	"net/http"
	"time"

	"vendora/internal/domain"
)

// Intent is a normalized payment request. Amount is an integer in the
// currency's smallest unit (XOF has none, so francs) and always comes from
// the order ledger's recomputed total, never from the client.
type Intent struct {
	Reference     string // internal order id, passed to the provider where supported
	Amount        int64
	Currency      string
	Description   string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	SuccessURL    string
	CancelURL     string
	NotifyURL     string
}

type Status string

const (
	StatusPending        Status = "pending"
	StatusProcessing     Status = "processing"
	StatusSucceeded      Status = "succeeded"
	StatusFailed         Status = "failed"
	StatusCanceled       Status = "canceled"
	StatusRequiresAction Status = "requires_action"
)

// Result is what every adapter hands back, success or not. Failures are
// encoded in Status/ErrorKind instead of a Go error so callers always get a
// structured result. Raw keeps the provider body for audit logging only.
type Result struct {
	TransactionID string          `json:"transaction_id"`
	Status        Status          `json:"status"`
	RedirectURL   string          `json:"redirect_url,omitempty"`
	ClientToken   string          `json:"client_token,omitempty"`
	ErrorKind     string          `json:"error_kind,omitempty"`
	ErrorMessage  string          `json:"error_message,omitempty"`
	Raw           json.RawMessage `json:"-"`
}

func (r Result) Failed() bool {
	return r.Status == StatusFailed
}

func rejected(msg string) Result {
	return Result{Status: StatusFailed, ErrorKind: domain.ErrKindProviderRejected, ErrorMessage: msg}
}

func unreachable(msg string) Result {
	return Result{Status: StatusFailed, ErrorKind: domain.ErrKindNetworkFailure, ErrorMessage: msg}
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}
