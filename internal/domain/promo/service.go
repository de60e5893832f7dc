// internal/domain/promo/service.go
package promo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/framecraft/storefront-backend/internal/config"
	"github.com/framecraft/storefront-backend/internal/domain/pricing"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ErrNotFound is returned for admin operations on a missing promo record
var ErrNotFound = errors.New("promo code not found")

// Service handles promo code business logic
type Service struct {
	db          *gorm.DB
	redisClient *redis.Client
	config      *config.Config
	now         func() time.Time
}

// NewService creates a new promo service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Service {
	return &Service{
		db:          db,
		redisClient: redisClient,
		config:      cfg,
		now:         time.Now,
	}
}

// Validate decides whether the code may be applied to the given pre-discount
// order amount. On success it returns the full promo record; the caller
// computes the discount against the current subtotal. Validation never
// mutates anything: usage is consumed only at order submission.
func (s *Service) Validate(ctx context.Context, code string, orderAmount int64) (*PromoCode, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil, &ValidationError{Reason: ReasonNotFound, Message: "invalid promo code"}
	}

	var promo PromoCode
	err := s.db.WithContext(ctx).
		Where("code = ? AND is_active = ?", normalized, true).
		First(&promo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ValidationError{Reason: ReasonNotFound, Message: "invalid promo code"}
		}
		return nil, fmt.Errorf("failed to look up promo code: %w", err)
	}

	if verr := Evaluate(&promo, orderAmount, s.now()); verr != nil {
		return nil, verr
	}
	return &promo, nil
}

// Consume atomically increments the usage counter, refusing the increment
// once the cap is reached. The conditional update closes the window where
// two concurrent checkouts could both pass validation and push usage past
// the cap.
func (s *Service) Consume(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Model(&PromoCode{}).
		Where("id = ? AND (max_uses IS NULL OR used_count < max_uses)", id).
		Update("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to consume promo code: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &ValidationError{
			Reason:  ReasonUsageLimitReached,
			Message: "this promo code has reached its usage limit",
		}
	}
	return nil
}

// ConsumeByCode is Consume keyed by the code itself, for callers that
// carry the code rather than the record id.
func (s *Service) ConsumeByCode(ctx context.Context, code string) error {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	result := s.db.WithContext(ctx).Model(&PromoCode{}).
		Where("code = ? AND (max_uses IS NULL OR used_count < max_uses)", normalized).
		Update("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to consume promo code: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &ValidationError{
			Reason:  ReasonUsageLimitReached,
			Message: "this promo code has reached its usage limit",
		}
	}
	return nil
}

// Apply validates the code against the subtotal and stores it as the
// session's applied promo.
func (s *Service) Apply(ctx context.Context, sessionID, code string, subtotal int64) (*AppliedPromo, error) {
	promo, err := s.Validate(ctx, code, subtotal)
	if err != nil {
		return nil, err
	}

	applied := &AppliedPromo{
		Code:           promo.Code,
		DiscountType:   promo.DiscountType,
		DiscountValue:  promo.DiscountValue,
		DiscountAmount: pricing.DiscountFor(promo.DiscountType, promo.DiscountValue, subtotal),
	}

	data, err := json.Marshal(applied)
	if err != nil {
		return nil, fmt.Errorf("failed to encode applied promo: %w", err)
	}
	err = s.redisClient.Set(ctx, appliedKey(sessionID), data, s.config.Checkout.AppliedPromoTTL).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to store applied promo: %w", err)
	}
	return applied, nil
}

// GetApplied returns the session's applied promo with its discount
// recomputed against the current subtotal, or nil when none is applied.
// Server-side expiry and usage are deliberately NOT re-checked here; that
// happens once more at final order submission.
func (s *Service) GetApplied(ctx context.Context, sessionID string, subtotal int64) (*AppliedPromo, error) {
	data, err := s.redisClient.Get(ctx, appliedKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read applied promo: %w", err)
	}

	var applied AppliedPromo
	if err := json.Unmarshal([]byte(data), &applied); err != nil {
		// Unreadable session state is dropped rather than surfaced.
		s.redisClient.Del(ctx, appliedKey(sessionID))
		return nil, nil
	}

	applied.DiscountAmount = pricing.DiscountFor(applied.DiscountType, applied.DiscountValue, subtotal)
	return &applied, nil
}

// Remove clears the session's applied promo
func (s *Service) Remove(ctx context.Context, sessionID string) error {
	return s.redisClient.Del(ctx, appliedKey(sessionID)).Err()
}

func appliedKey(sessionID string) string {
	return "applied_promo:" + sessionID
}

// --- Admin CRUD ---

// CreateRequest represents admin promo creation data
type CreateRequest struct {
	Code           string     `json:"code" binding:"required,min=3,max=50"`
	DiscountType   string     `json:"discount_type" binding:"required,oneof=percentage fixed"`
	DiscountValue  float64    `json:"discount_value" binding:"required,gt=0"`
	MinOrderAmount int64      `json:"min_order_amount" binding:"gte=0"`
	MaxUses        *int       `json:"max_uses" binding:"omitempty,gt=0"`
	ValidFrom      *time.Time `json:"valid_from"`
	ValidUntil     *time.Time `json:"valid_until"`
	IsActive       *bool      `json:"is_active"`
}

// AdminCreate creates a new promo code
func (s *Service) AdminCreate(ctx context.Context, req *CreateRequest) (*PromoCode, error) {
	if req.DiscountType == string(pricing.DiscountPercentage) && req.DiscountValue > 100 {
		return nil, fmt.Errorf("percentage discount cannot exceed 100")
	}

	promo := PromoCode{
		Code:           strings.ToUpper(strings.TrimSpace(req.Code)),
		DiscountType:   pricing.DiscountType(req.DiscountType),
		DiscountValue:  req.DiscountValue,
		MinOrderAmount: req.MinOrderAmount,
		MaxUses:        req.MaxUses,
		ValidFrom:      s.now(),
		IsActive:       true,
	}
	if req.ValidFrom != nil {
		promo.ValidFrom = *req.ValidFrom
	}
	if req.ValidUntil != nil {
		if req.ValidUntil.Before(promo.ValidFrom) {
			return nil, fmt.Errorf("valid_until must be after valid_from")
		}
		promo.ValidUntil = req.ValidUntil
	}
	if req.IsActive != nil {
		promo.IsActive = *req.IsActive
	}

	if err := s.db.WithContext(ctx).Create(&promo).Error; err != nil {
		return nil, fmt.Errorf("failed to create promo code: %w", err)
	}
	return &promo, nil
}

// UpdateRequest represents admin promo update data
type UpdateRequest struct {
	DiscountType   *string    `json:"discount_type" binding:"omitempty,oneof=percentage fixed"`
	DiscountValue  *float64   `json:"discount_value" binding:"omitempty,gt=0"`
	MinOrderAmount *int64     `json:"min_order_amount" binding:"omitempty,gte=0"`
	MaxUses        *int       `json:"max_uses"`
	ValidFrom      *time.Time `json:"valid_from"`
	ValidUntil     *time.Time `json:"valid_until"`
	IsActive       *bool      `json:"is_active"`
}

// AdminUpdate updates an existing promo code. The code itself is immutable;
// retire a code and create a new one instead of renaming.
func (s *Service) AdminUpdate(ctx context.Context, id uint, req *UpdateRequest) (*PromoCode, error) {
	var promo PromoCode
	if err := s.db.WithContext(ctx).First(&promo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve promo code: %w", err)
	}

	updates := map[string]interface{}{}
	if req.DiscountType != nil {
		updates["discount_type"] = *req.DiscountType
	}
	if req.DiscountValue != nil {
		updates["discount_value"] = *req.DiscountValue
	}
	if req.MinOrderAmount != nil {
		updates["min_order_amount"] = *req.MinOrderAmount
	}
	if req.MaxUses != nil {
		updates["max_uses"] = *req.MaxUses
	}
	if req.ValidFrom != nil {
		updates["valid_from"] = *req.ValidFrom
	}
	if req.ValidUntil != nil {
		updates["valid_until"] = *req.ValidUntil
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&promo).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update promo code: %w", err)
		}
	}
	return &promo, nil
}

// AdminDelete soft-deletes a promo code
func (s *Service) AdminDelete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&PromoCode{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete promo code: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AdminList retrieves all promo codes
func (s *Service) AdminList(ctx context.Context) ([]PromoCode, error) {
	var promos []PromoCode
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&promos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve promo codes: %w", err)
	}
	return promos, nil
}

func belowMinimumMessage(minOrderAmount int64) string {
	return fmt.Sprintf("minimum order amount of %.2f required", float64(minOrderAmount)/100)
}
