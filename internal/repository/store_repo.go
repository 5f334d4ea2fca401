package repository

import (
	"vendora/internal/models"

	"gorm.io/gorm"
)

type StoreRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) *StoreRepository {
	return &StoreRepository{db: db}
}

func (r *StoreRepository) Create(s *models.Store) error {
	return r.db.Create(s).Error
}

func (r *StoreRepository) GetByID(id uint) (*models.Store, error) {
	var s models.Store
	if err := r.db.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StoreRepository) GetByAPIKey(key string) (*models.Store, error) {
	var s models.Store
	if err := r.db.Where("api_key = ?", key).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
