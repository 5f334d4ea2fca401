package repository

import (
	"vendora/internal/models"

	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(p *models.Product) error {
	return r.db.Create(p).Error
}

// GetActiveByIDs returns the store's active products among ids, keyed by id.
// Ids absent from the result simply do not exist in that store's catalog.
func (r *ProductRepository) GetActiveByIDs(storeID uint, ids []uint) (map[uint]*models.Product, error) {
	var products []models.Product
	err := r.db.Where("store_id = ? AND id IN ? AND active = ?", storeID, ids, true).Find(&products).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint]*models.Product, len(products))
	for i := range products {
		out[products[i].ID] = &products[i]
	}
	return out, nil
}
