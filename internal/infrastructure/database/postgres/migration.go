// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/framecraft/storefront-backend/internal/domain/admin"
	"github.com/framecraft/storefront-backend/internal/domain/inquiry"
	"github.com/framecraft/storefront-backend/internal/domain/order"
	"github.com/framecraft/storefront-backend/internal/domain/pricing"
	"github.com/framecraft/storefront-backend/internal/domain/product"
	"github.com/framecraft/storefront-backend/internal/domain/promo"
	"github.com/framecraft/storefront-backend/internal/domain/settings"
	"github.com/framecraft/storefront-backend/internal/domain/wishlist"
	"github.com/framecraft/storefront-backend/internal/pkg/auth"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{db: db}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	logrus.Info("Running database auto-migrations")

	// Dependency order: catalog first, then everything that references it
	models := []interface{}{
		&product.Product{},
		&product.ProductImage{},
		&product.Review{},

		&promo.PromoCode{},
		&settings.Setting{},

		&order.Order{},
		&order.Item{},
		&order.StatusHistory{},

		&wishlist.Item{},
		&inquiry.ContactInquiry{},
		&inquiry.NewsletterSubscriber{},
		&admin.User{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	logrus.Info("Database auto-migrations completed")
	return nil
}

// CreateIndexes creates additional indexes GORM tags cannot express
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_products_category_active ON products (category, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_orders_email_number ON orders (email, order_number)",
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders (created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_reviews_product_approved ON product_reviews (product_id, is_approved)",
	}

	for _, idx := range indexes {
		if err := m.db.Exec(idx).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

// SeedInitialData loads development fixtures. Safe to run repeatedly;
// each seed checks for existing rows first.
func (m *Migration) SeedInitialData() error {
	if err := m.seedAdminUser(); err != nil {
		return err
	}
	if err := m.seedSettings(); err != nil {
		return err
	}
	if err := m.seedProducts(); err != nil {
		return err
	}
	return m.seedPromoCodes()
}

func (m *Migration) seedAdminUser() error {
	var count int64
	if err := m.db.Model(&admin.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count admin users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword("admin-dev-password")
	if err != nil {
		return err
	}
	user := &admin.User{Username: "admin", PasswordHash: hash, IsActive: true}
	if err := m.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	logrus.Warn("Seeded development admin user 'admin'; change the password before exposing this instance")
	return nil
}

func (m *Migration) seedSettings() error {
	defaults := map[string]string{
		settings.KeyStoreName:             "FrameCraft",
		settings.KeySupportEmail:          "support@framecraft.example",
		settings.KeyCurrencySymbol:        "₹",
		settings.KeyCurrencyCode:          "INR",
		settings.KeyTaxRatePercent:        "5",
		settings.KeyDeliveryType:          "threshold",
		settings.KeyDeliveryCharge:        "5000",
		settings.KeyFreeDeliveryThreshold: "99900",
	}

	for key, value := range defaults {
		setting := settings.Setting{Key: key, Value: value}
		err := m.db.Where("key = ?", key).FirstOrCreate(&setting).Error
		if err != nil {
			return fmt.Errorf("failed to seed setting %s: %w", key, err)
		}
	}
	return nil
}

func (m *Migration) seedProducts() error {
	var count int64
	if err := m.db.Model(&product.Product{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	products := []product.Product{
		{
			Name: "Oak Frame 8x10", Slug: "oak-frame-8x10",
			Description: "Solid oak photo frame with a matte finish",
			Price:       60000, Category: "wood", Material: "oak", FrameSize: "8x10",
			StockQuantity: 25, IsActive: true, IsFeatured: true,
			Images: []product.ProductImage{{URL: "/images/oak-8x10.jpg", AltText: "Oak frame", Position: 0}},
		},
		{
			Name: "Walnut Frame A4", Slug: "walnut-frame-a4",
			Description: "Dark walnut frame for certificates and prints",
			Price:       40000, Category: "wood", Material: "walnut", FrameSize: "A4",
			StockQuantity: 40, IsActive: true,
			Images: []product.ProductImage{{URL: "/images/walnut-a4.jpg", AltText: "Walnut frame", Position: 0}},
		},
		{
			Name: "Brushed Steel Frame 5x7", Slug: "brushed-steel-frame-5x7",
			Description: "Minimalist brushed steel frame",
			Price:       35000, Category: "metal", Material: "steel", FrameSize: "5x7",
			StockQuantity: 60, IsActive: true,
		},
	}

	if err := m.db.Create(&products).Error; err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}
	return nil
}

func (m *Migration) seedPromoCodes() error {
	var count int64
	if err := m.db.Model(&promo.PromoCode{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count promo codes: %w", err)
	}
	if count > 0 {
		return nil
	}

	maxUses := 100
	codes := []promo.PromoCode{
		{
			Code: "SAVE20", DiscountType: pricing.DiscountPercentage, DiscountValue: 20,
			MinOrderAmount: 50000, MaxUses: &maxUses,
			ValidFrom: time.Now(), IsActive: true,
		},
		{
			Code: "FLAT100", DiscountType: pricing.DiscountFixed, DiscountValue: 10000,
			MinOrderAmount: 100000,
			ValidFrom:      time.Now(), IsActive: true,
		},
	}

	if err := m.db.Create(&codes).Error; err != nil {
		return fmt.Errorf("failed to seed promo codes: %w", err)
	}
	return nil
}
