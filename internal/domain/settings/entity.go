// internal/domain/settings/entity.go
package settings

import "time"

// Setting is a single key/value configuration row. The table is a flat
// key/value map; ParseBusinessSettings converts it into the typed struct
// the rest of the application consumes.
type Setting struct {
	Key       string    `gorm:"primaryKey;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Setting) TableName() string {
	return "business_settings"
}

// Well-known setting keys.
const (
	KeyCurrencySymbol        = "currency_symbol"
	KeyCurrencyCode          = "currency_code"
	KeyTaxRatePercent        = "tax_rate_percent"
	KeyDeliveryType          = "delivery_type"
	KeyDeliveryCharge        = "delivery_charge"
	KeyFreeDeliveryThreshold = "free_delivery_threshold"
	KeyStoreName             = "store_name"
	KeySupportEmail          = "support_email"
)
