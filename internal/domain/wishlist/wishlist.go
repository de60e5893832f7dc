// internal/domain/wishlist/wishlist.go
package wishlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/framecraft/storefront-backend/internal/domain/product"
)

// Item is a product saved by an anonymous session
type Item struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID string    `gorm:"not null;size:64;uniqueIndex:idx_wishlist_session_product" json:"-"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_wishlist_session_product" json:"product_id"`
	CreatedAt time.Time `json:"created_at"`

	Product product.Product `gorm:"foreignKey:ProductID" json:"product"`
}

// TableName overrides the table name
func (Item) TableName() string {
	return "wishlist_items"
}

// ErrProductNotFound is returned when the product does not exist or is inactive
var ErrProductNotFound = errors.New("product not found")

// Service manages per-session wishlists
type Service struct {
	db       *gorm.DB
	products *product.Service
}

// NewService creates a new wishlist service
func NewService(db *gorm.DB, products *product.Service) *Service {
	return &Service{db: db, products: products}
}

// Add saves a product to the session's wishlist. Adding an already-saved
// product is a no-op.
func (s *Service) Add(ctx context.Context, sessionID string, productID uint) error {
	if _, err := s.products.Get(ctx, productID); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	item := Item{SessionID: sessionID, ProductID: productID}
	err := s.db.WithContext(ctx).Where("session_id = ? AND product_id = ?", sessionID, productID).
		FirstOrCreate(&item).Error
	if err != nil {
		return fmt.Errorf("failed to add wishlist item: %w", err)
	}
	return nil
}

// Remove deletes a product from the session's wishlist. Removing a product
// that is not on the list is a no-op.
func (s *Service) Remove(ctx context.Context, sessionID string, productID uint) error {
	err := s.db.WithContext(ctx).Where("session_id = ? AND product_id = ?", sessionID, productID).
		Delete(&Item{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove wishlist item: %w", err)
	}
	return nil
}

// List returns the session's saved products, newest first. Products that
// have since been deactivated are filtered out.
func (s *Service) List(ctx context.Context, sessionID string) ([]Item, error) {
	var items []Item
	err := s.db.WithContext(ctx).Preload("Product.Images").
		Joins("JOIN products ON products.id = wishlist_items.product_id").
		Where("wishlist_items.session_id = ? AND products.is_active = ? AND products.deleted_at IS NULL", sessionID, true).
		Order("wishlist_items.created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	return items, nil
}
