package repository

import (
	"vendora/internal/models"

	"gorm.io/gorm"
)

type PaymentConfigRepository struct {
	db *gorm.DB
}

func NewPaymentConfigRepository(db *gorm.DB) *PaymentConfigRepository {
	return &PaymentConfigRepository{db: db}
}

func (r *PaymentConfigRepository) GetByStoreID(storeID uint) (*models.StorePaymentConfig, error) {
	var c models.StorePaymentConfig
	if err := r.db.Where("store_id = ?", storeID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PaymentConfigRepository) Upsert(c *models.StorePaymentConfig) error {
	var existing models.StorePaymentConfig
	err := r.db.Where("store_id = ?", c.StoreID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.db.Create(c).Error
	}
	if err != nil {
		return err
	}
	c.ID = existing.ID
	return r.db.Save(c).Error
}
