package domain

import "errors"

// Supported payment methods / providers.
const (
	ProviderPaypal   = "paypal"
	ProviderStripe   = "stripe"
	ProviderFedapay  = "fedapay"
	ProviderKkiapay  = "kkiapay"
	ProviderCinetpay = "cinetpay"
)

// Order lifecycle. Transitions only move forward; cancelled is reachable
// from pending and confirmed.
const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

// StatusRank orders the forward statuses so "already confirmed or later"
// checks do not enumerate every state. Cancelled has no rank.
func StatusRank(status string) int {
	switch status {
	case OrderPending:
		return 0
	case OrderConfirmed:
		return 1
	case OrderShipped:
		return 2
	case OrderDelivered:
		return 3
	}
	return -1
}

// Error kinds carried inside payment results (see pkg/payment).
const (
	ErrKindConfigurationMissing = "configuration_missing"
	ErrKindProviderRejected     = "provider_rejected"
	ErrKindNetworkFailure       = "network_failure"
)

var (
	ErrStoreNotFound        = errors.New("store not found")
	ErrEmptyCart            = errors.New("empty cart")
	ErrOrderNotFound        = errors.New("order not found")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrConfigurationMissing = errors.New("provider not configured for this store")
)
