package service

import (
	"testing"

	"vendora/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database per test. Pooling is pinned to a
// single connection because each sqlite :memory: connection is its own database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.Store{}, &models.Product{}, &models.Order{}, &models.OrderItem{},
		&models.StorePaymentConfig{}, &models.WebhookEvent{},
	))
	return db
}

func seedStore(t *testing.T, db *gorm.DB) *models.Store {
	t.Helper()
	store := &models.Store{
		Name:          "Boutique Awa",
		Slug:          "boutique-awa",
		Currency:      "XOF",
		APIKey:        "vd_test_key",
		APISecretHash: "$2a$10$unusedhashunusedhashunusedhashunusedhashunu",
	}
	require.NoError(t, db.Create(store).Error)
	return store
}

func seedProduct(t *testing.T, db *gorm.DB, storeID uint, name string, price int64) *models.Product {
	t.Helper()
	p := &models.Product{StoreID: storeID, Name: name, Price: price, Active: true}
	require.NoError(t, db.Create(p).Error)
	return p
}
