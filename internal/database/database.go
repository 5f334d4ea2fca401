package database

import (
	"log"

	"vendora/config"
	"vendora/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error), // Only log errors, not every SQL query
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Store{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.StorePaymentConfig{},
		&models.WebhookEvent{},
	)
}

// SeedDemo creates a demo store with a small catalog when the database is
// empty. The generated API key is printed once so the dashboard can be tried
// locally.
func SeedDemo(db *gorm.DB) {
	var count int64
	db.Model(&models.Store{}).Count(&count)
	if count > 0 {
		return
	}
	apiKey := "vk_" + uuid.New().String()
	secret := uuid.New().String()
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[Seed] bcrypt: %v", err)
		return
	}
	store := &models.Store{
		Name:          "Demo Boutique",
		Slug:          "demo",
		Currency:      "XOF",
		APIKey:        apiKey,
		APISecretHash: string(hash),
	}
	if err := db.Create(store).Error; err != nil {
		log.Printf("[Seed] store: %v", err)
		return
	}
	products := []models.Product{
		{StoreID: store.ID, Name: "Tee-shirt brodé", Price: 12500, Active: true},
		{StoreID: store.ID, Name: "Sac en pagne", Price: 25000, Active: true},
		{StoreID: store.ID, Name: "Sandales cuir", Price: 18000, Active: true},
	}
	if err := db.Create(&products).Error; err != nil {
		log.Printf("[Seed] products: %v", err)
	}
	if err := db.Create(&models.StorePaymentConfig{StoreID: store.ID}).Error; err != nil {
		log.Printf("[Seed] payment config: %v", err)
	}
	log.Printf("[Seed] demo store created: api_key=%s api_secret=%s", apiKey, secret)
}
