// internal/domain/promo/entity.go
package promo

import (
	"time"

	"github.com/framecraft/storefront-backend/internal/domain/pricing"
	"gorm.io/gorm"
)

// PromoCode represents a redeemable discount token. Codes are stored
// uppercase and matched case-insensitively. DiscountValue is a percentage
// for percentage promos and a minor-unit amount for fixed promos.
type PromoCode struct {
	ID             uint                 `gorm:"primaryKey" json:"id"`
	Code           string               `gorm:"uniqueIndex;not null;size:50" json:"code"`
	DiscountType   pricing.DiscountType `gorm:"not null;size:20" json:"discount_type"`
	DiscountValue  float64              `gorm:"not null" json:"discount_value"`
	MinOrderAmount int64                `gorm:"not null;default:0" json:"min_order_amount"`
	MaxUses        *int                 `json:"max_uses"` // nil = unlimited
	UsedCount      int                  `gorm:"not null;default:0" json:"used_count"`
	ValidFrom      time.Time            `gorm:"not null" json:"valid_from"`
	ValidUntil     *time.Time           `json:"valid_until"` // nil = no expiry
	IsActive       bool                 `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
	DeletedAt      gorm.DeletedAt       `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (PromoCode) TableName() string {
	return "promo_codes"
}

// AppliedPromo is the session-scoped view of a promo held between the cart
// and checkout pages. DiscountAmount is derived from the current subtotal
// on every read, never stored as a fixed value, so percentage promos track
// cart edits.
type AppliedPromo struct {
	Code           string               `json:"code"`
	DiscountType   pricing.DiscountType `json:"discount_type"`
	DiscountValue  float64              `json:"discount_value"`
	DiscountAmount int64                `json:"discount_amount"`
}
