package models

import "time"

// StorePaymentConfig holds one tenant's provider credential sets. An empty
// credential set means the provider is disabled for that store.
type StorePaymentConfig struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	StoreID uint `gorm:"uniqueIndex;not null" json:"store_id"`

	PaypalClientID string `gorm:"size:255" json:"paypal_client_id"`
	PaypalSecret   string `gorm:"size:255" json:"-"`
	PaypalSandbox  bool   `gorm:"default:true" json:"paypal_sandbox"`

	StripeSecretKey     string `gorm:"size:255" json:"-"`
	StripePublicKey     string `gorm:"size:255" json:"stripe_public_key"`
	StripeWebhookSecret string `gorm:"size:255" json:"-"`

	FedapaySecretKey string `gorm:"size:255" json:"-"`
	FedapaySandbox   bool   `gorm:"default:true" json:"fedapay_sandbox"`

	KkiapayPublicKey  string `gorm:"size:255" json:"kkiapay_public_key"`
	KkiapayPrivateKey string `gorm:"size:255" json:"-"`

	CinetpayAPIKey string `gorm:"size:255" json:"-"`
	CinetpaySiteID string `gorm:"size:64" json:"cinetpay_site_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (StorePaymentConfig) TableName() string {
	return "store_payment_configs"
}

func (c *StorePaymentConfig) PaypalConfigured() bool {
	return c != nil && c.PaypalClientID != "" && c.PaypalSecret != ""
}

func (c *StorePaymentConfig) StripeConfigured() bool {
	return c != nil && c.StripeSecretKey != ""
}

func (c *StorePaymentConfig) FedapayConfigured() bool {
	return c != nil && c.FedapaySecretKey != ""
}

func (c *StorePaymentConfig) KkiapayConfigured() bool {
	return c != nil && c.KkiapayPublicKey != ""
}

func (c *StorePaymentConfig) CinetpayConfigured() bool {
	return c != nil && c.CinetpayAPIKey != "" && c.CinetpaySiteID != ""
}
