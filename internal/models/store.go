package models

import "time"

// Store is a tenant. API key + secret authenticate the owner's dashboard;
// the secret is bcrypt-hashed at rest.
type Store struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Name          string `gorm:"size:255;not null" json:"name"`
	Slug          string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Currency      string `gorm:"size:3;default:'XOF'" json:"currency"`
	APIKey        string `gorm:"size:64;uniqueIndex;not null" json:"-"`
	APISecretHash string `gorm:"size:255;not null" json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Store) TableName() string {
	return "stores"
}
