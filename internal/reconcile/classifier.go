package reconcile

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"vendora/internal/domain"
)

type EventKind string

const (
	// EventPaymentSuccess is the only kind that triggers a ledger transition.
	EventPaymentSuccess EventKind = "payment_success"
	// EventUnknown means the provider was identified but the event carries no
	// actionable payment outcome.
	EventUnknown EventKind = "unknown"
)

// Classification names the provider a webhook came from, what it reports,
// and the id used to match it to an order.
type Classification struct {
	Provider      string
	Kind          EventKind
	CorrelationID string
}

// IsLegacyForm sniffs the raw body for the old form-encoded notification
// format before any JSON parsing is attempted. Those are acknowledged without
// processing.
func IsLegacyForm(body []byte) bool {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return false
	}
	return strings.Contains(trimmed, "=")
}

// rule is one entry of the classification table. Rules are evaluated in
// strict priority order so providers whose payloads structurally overlap
// cannot be confused; a new provider is supported by appending a rule.
type rule struct {
	provider string
	match    func(p map[string]interface{}, h http.Header) bool
	extract  func(p map[string]interface{}) (EventKind, string)
}

var rules = []rule{
	{
		provider: domain.ProviderPaypal,
		match: func(p map[string]interface{}, _ http.Header) bool {
			t, _ := p["event_type"].(string)
			return strings.HasPrefix(t, "PAYMENT.") || strings.HasPrefix(t, "CHECKOUT.")
		},
		extract: func(p map[string]interface{}) (EventKind, string) {
			t, _ := p["event_type"].(string)
			if t != "PAYMENT.CAPTURE.COMPLETED" {
				return EventUnknown, ""
			}
			resource, _ := p["resource"].(map[string]interface{})
			// The related order id (set at intent creation) is preferred;
			// the capture id is the fallback correlation key.
			if supp, ok := resource["supplementary_data"].(map[string]interface{}); ok {
				if rel, ok := supp["related_ids"].(map[string]interface{}); ok {
					if id := asString(rel["order_id"]); id != "" {
						return EventPaymentSuccess, id
					}
				}
			}
			return EventPaymentSuccess, asString(resource["id"])
		},
	},
	{
		provider: domain.ProviderStripe,
		match: func(_ map[string]interface{}, h http.Header) bool {
			return h.Get("Stripe-Signature") != ""
		},
		extract: func(p map[string]interface{}) (EventKind, string) {
			t, _ := p["type"].(string)
			if t != "checkout.session.completed" {
				return EventUnknown, ""
			}
			data, _ := p["data"].(map[string]interface{})
			object, _ := data["object"].(map[string]interface{})
			return EventPaymentSuccess, asString(object["id"])
		},
	},
	{
		provider: domain.ProviderFedapay,
		match: func(p map[string]interface{}, h http.Header) bool {
			if h.Get("X-Fedapay-Signature") != "" {
				return true
			}
			entity, ok := p["entity"].(map[string]interface{})
			if !ok {
				return false
			}
			_, hasCurrency := entity["currency"]
			_, hasCurrencyID := entity["currency_id"]
			_, hasName := p["name"]
			return (hasCurrency || hasCurrencyID) && hasName
		},
		extract: func(p map[string]interface{}) (EventKind, string) {
			name, _ := p["name"].(string)
			if name != "transaction.approved" {
				return EventUnknown, ""
			}
			entity, _ := p["entity"].(map[string]interface{})
			return EventPaymentSuccess, asString(entity["id"])
		},
	},
	{
		provider: domain.ProviderKkiapay,
		match: func(p map[string]interface{}, _ http.Header) bool {
			_, hasTx := p["transactionId"]
			_, isBool := p["isPaymentSucces"].(bool)
			return hasTx && isBool
		},
		extract: func(p map[string]interface{}) (EventKind, string) {
			ok, _ := p["isPaymentSucces"].(bool)
			if !ok {
				return EventUnknown, ""
			}
			return EventPaymentSuccess, asString(p["transactionId"])
		},
	},
	{
		provider: domain.ProviderCinetpay,
		match: func(p map[string]interface{}, _ http.Header) bool {
			_, ok := p["cpm_trans_id"]
			return ok
		},
		extract: func(p map[string]interface{}) (EventKind, string) {
			if asString(p["cpm_result"]) != "00" {
				return EventUnknown, ""
			}
			return EventPaymentSuccess, asString(p["cpm_trans_id"])
		},
	},
}

// Classify identifies the sender of a raw webhook. A nil classification with
// nil error means no rule matched (unidentified); the caller still acks. An
// error means the body was not the JSON the endpoint assumes.
func Classify(body []byte, header http.Header) (*Classification, error) {
	// UseNumber keeps numeric transaction ids exact; float64 would mangle
	// ids beyond 2^53.
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var payload map[string]interface{}
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("trailing data after json payload")
	}
	for _, r := range rules {
		if !r.match(payload, header) {
			continue
		}
		kind, correlationID := r.extract(payload)
		return &Classification{Provider: r.provider, Kind: kind, CorrelationID: correlationID}, nil
	}
	return nil, nil
}

// asString coerces string and numeric ids to their canonical string form.
func asString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	}
	return ""
}
