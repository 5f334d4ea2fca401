package models

import "time"

// Order is the ledger record. ProviderOrderID is the primary correlation key
// to provider transactions; Notes doubles as the legacy correlation key for
// orders created before ProviderOrderID existed.
type Order struct {
	ID              string  `gorm:"primaryKey;size:36" json:"id"`
	StoreID         uint    `gorm:"not null;index" json:"store_id"`
	CustomerName    string  `gorm:"size:255" json:"customer_name"`
	CustomerEmail   string  `gorm:"size:255;not null" json:"customer_email"`
	CustomerPhone   string  `gorm:"size:32" json:"customer_phone"`
	Items           []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	Subtotal        int64   `gorm:"not null" json:"subtotal"`
	Total           int64   `gorm:"not null" json:"total"`
	Currency        string  `gorm:"size:3;default:'XOF'" json:"currency"`
	Status          string  `gorm:"size:20;not null;index;default:'pending'" json:"status"`
	ProviderOrderID *string `gorm:"size:255;index" json:"provider_order_id"`
	PaymentMethod   string  `gorm:"size:20" json:"payment_method"`
	Notes           string  `gorm:"type:text" json:"notes"`
	ConfirmedAt     *time.Time `json:"confirmed_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is a snapshot of the product at creation time so later catalog
// edits never change an issued invoice.
type OrderItem struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	OrderID   string `gorm:"size:36;not null;index" json:"order_id"`
	ProductID uint   `gorm:"not null" json:"product_id"`
	Name      string `gorm:"size:255;not null" json:"name"`
	UnitPrice int64  `gorm:"not null" json:"unit_price"`
	Quantity  int    `gorm:"not null" json:"quantity"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
