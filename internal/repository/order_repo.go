package repository

import (
	"time"

	"vendora/internal/domain"
	"vendora/internal/models"

	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(o *models.Order) error {
	return r.db.Create(o).Error
}

func (r *OrderRepository) GetByID(id string) (*models.Order, error) {
	var o models.Order
	if err := r.db.Preload("Items").Where("id = ?", id).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) GetByProviderOrderID(ref string) (*models.Order, error) {
	var o models.Order
	if err := r.db.Where("provider_order_id = ?", ref).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// FirstByNotesContaining is the legacy correlation path: the oldest order
// whose free-text notes embed the provider transaction id.
func (r *OrderRepository) FirstByNotesContaining(sub string) (*models.Order, error) {
	var o models.Order
	err := r.db.Where("notes LIKE ?", "%"+sub+"%").Order("created_at ASC").First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) ListByStore(storeID uint, limit, offset int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").Where("store_id = ?", storeID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) SetProviderOrderID(id, ref string) error {
	return r.db.Model(&models.Order{}).Where("id = ?", id).Update("provider_order_id", ref).Error
}

// UpdateStatusIf performs the atomic conditional transition: the row is
// updated only if its status still equals from. Exactly one of two concurrent
// duplicate webhooks can win; the loser sees applied=false and re-reads.
func (r *OrderRepository) UpdateStatusIf(id, from, to string) (bool, error) {
	values := map[string]interface{}{"status": to}
	if to == domain.OrderConfirmed {
		now := time.Now()
		values["confirmed_at"] = &now
	}
	res := r.db.Model(&models.Order{}).Where("id = ? AND status = ?", id, from).Updates(values)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// UpdateStatusOnly is the degraded fallback write: a single-column status
// update, still guarded by the previous status so it can never move an order
// backward.
func (r *OrderRepository) UpdateStatusOnly(id, from, to string) (bool, error) {
	res := r.db.Model(&models.Order{}).Where("id = ? AND status = ?", id, from).Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
