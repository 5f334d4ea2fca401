package models

import "time"

// Product carries the authoritative unit price. Order totals are always
// recomputed from these rows, never from client-submitted amounts.
type Product struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	StoreID   uint   `gorm:"not null;index" json:"store_id"`
	Name      string `gorm:"size:255;not null" json:"name"`
	Price     int64  `gorm:"not null" json:"price"`
	Active    bool   `gorm:"default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}
