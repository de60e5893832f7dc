// internal/domain/settings/service.go
package settings

import (
	"context"
	"fmt"
	"strconv"

	"github.com/framecraft/storefront-backend/internal/domain/pricing"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BusinessSettings is the typed configuration the pricing pipeline
// consumes. Rows are parsed into this struct at the storage boundary so
// business logic never touches loose key/value maps.
type BusinessSettings struct {
	StoreName             string               `json:"store_name"`
	SupportEmail          string               `json:"support_email"`
	CurrencySymbol        string               `json:"currency_symbol"`
	CurrencyCode          string               `json:"currency_code"`
	TaxRatePercent        float64              `json:"tax_rate_percent"`
	DeliveryType          pricing.DeliveryType `json:"delivery_type"`
	DeliveryCharge        int64                `json:"delivery_charge"`
	FreeDeliveryThreshold int64                `json:"free_delivery_threshold"`
}

// Defaults returns the settings used when a key is missing from the table.
func Defaults() BusinessSettings {
	return BusinessSettings{
		StoreName:      "FrameCraft",
		SupportEmail:   "support@framecraft.example",
		CurrencySymbol: "₹",
		CurrencyCode:   "INR",
		TaxRatePercent: 0,
		DeliveryType:   pricing.DeliveryFree,
	}
}

// PricingInput maps the settings onto a pricing engine input for the given
// cart subtotal and discount.
func (b *BusinessSettings) PricingInput(subtotal, discountAmount int64) pricing.Input {
	return pricing.Input{
		Subtotal:              subtotal,
		DiscountAmount:        discountAmount,
		TaxRatePercent:        b.TaxRatePercent,
		DeliveryType:          b.DeliveryType,
		DeliveryCharge:        b.DeliveryCharge,
		FreeDeliveryThreshold: b.FreeDeliveryThreshold,
	}
}

// ParseBusinessSettings validates a raw key/value map into typed settings.
// Missing keys fall back to defaults; malformed or out-of-range values are
// rejected rather than silently coerced.
func ParseBusinessSettings(raw map[string]string) (*BusinessSettings, error) {
	s := Defaults()

	if v, ok := raw[KeyStoreName]; ok && v != "" {
		s.StoreName = v
	}
	if v, ok := raw[KeySupportEmail]; ok && v != "" {
		s.SupportEmail = v
	}
	if v, ok := raw[KeyCurrencySymbol]; ok && v != "" {
		s.CurrencySymbol = v
	}
	if v, ok := raw[KeyCurrencyCode]; ok && v != "" {
		s.CurrencyCode = v
	}

	if v, ok := raw[KeyTaxRatePercent]; ok && v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", KeyTaxRatePercent, v, err)
		}
		if rate < 0 || rate > 100 {
			return nil, fmt.Errorf("invalid %s %q: must be between 0 and 100", KeyTaxRatePercent, v)
		}
		s.TaxRatePercent = rate
	}

	if v, ok := raw[KeyDeliveryType]; ok && v != "" {
		switch pricing.DeliveryType(v) {
		case pricing.DeliveryFree, pricing.DeliveryFixed, pricing.DeliveryThreshold:
			s.DeliveryType = pricing.DeliveryType(v)
		default:
			return nil, fmt.Errorf("invalid %s %q", KeyDeliveryType, v)
		}
	}

	if v, ok := raw[KeyDeliveryCharge]; ok && v != "" {
		charge, err := strconv.ParseInt(v, 10, 64)
		if err != nil || charge < 0 {
			return nil, fmt.Errorf("invalid %s %q", KeyDeliveryCharge, v)
		}
		s.DeliveryCharge = charge
	}

	if v, ok := raw[KeyFreeDeliveryThreshold]; ok && v != "" {
		threshold, err := strconv.ParseInt(v, 10, 64)
		if err != nil || threshold < 0 {
			return nil, fmt.Errorf("invalid %s %q", KeyFreeDeliveryThreshold, v)
		}
		s.FreeDeliveryThreshold = threshold
	}

	return &s, nil
}

// Service reads and writes business settings
type Service struct {
	db *gorm.DB
}

// NewService creates a new settings service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Map returns all settings rows as a key/value map
func (s *Service) Map(ctx context.Context) (map[string]string, error) {
	var rows []Setting
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	raw := make(map[string]string, len(rows))
	for _, row := range rows {
		raw[row.Key] = row.Value
	}
	return raw, nil
}

// Get loads and parses the business settings
func (s *Service) Get(ctx context.Context) (*BusinessSettings, error) {
	raw, err := s.Map(ctx)
	if err != nil {
		return nil, err
	}
	return ParseBusinessSettings(raw)
}

// UpdateRequest carries an admin settings update
type UpdateRequest struct {
	StoreName             *string  `json:"store_name,omitempty"`
	SupportEmail          *string  `json:"support_email,omitempty"`
	CurrencySymbol        *string  `json:"currency_symbol,omitempty"`
	CurrencyCode          *string  `json:"currency_code,omitempty"`
	TaxRatePercent        *float64 `json:"tax_rate_percent,omitempty"`
	DeliveryType          *string  `json:"delivery_type,omitempty"`
	DeliveryCharge        *int64   `json:"delivery_charge,omitempty"`
	FreeDeliveryThreshold *int64   `json:"free_delivery_threshold,omitempty"`
}

// Update writes the provided settings back as key/value rows. Values are
// validated by round-tripping the merged map through ParseBusinessSettings
// before anything is persisted.
func (s *Service) Update(ctx context.Context, req *UpdateRequest) (*BusinessSettings, error) {
	raw, err := s.Map(ctx)
	if err != nil {
		return nil, err
	}

	merge := func(key string, value *string) {
		if value != nil {
			raw[key] = *value
		}
	}
	merge(KeyStoreName, req.StoreName)
	merge(KeySupportEmail, req.SupportEmail)
	merge(KeyCurrencySymbol, req.CurrencySymbol)
	merge(KeyCurrencyCode, req.CurrencyCode)
	merge(KeyDeliveryType, req.DeliveryType)
	if req.TaxRatePercent != nil {
		raw[KeyTaxRatePercent] = strconv.FormatFloat(*req.TaxRatePercent, 'f', -1, 64)
	}
	if req.DeliveryCharge != nil {
		raw[KeyDeliveryCharge] = strconv.FormatInt(*req.DeliveryCharge, 10)
	}
	if req.FreeDeliveryThreshold != nil {
		raw[KeyFreeDeliveryThreshold] = strconv.FormatInt(*req.FreeDeliveryThreshold, 10)
	}

	parsed, err := ParseBusinessSettings(raw)
	if err != nil {
		return nil, err
	}

	rows := make([]Setting, 0, len(raw))
	for key, value := range raw {
		rows = append(rows, Setting{Key: key, Value: value})
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	return parsed, nil
}
