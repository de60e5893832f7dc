// internal/domain/order/entity.go
package order

import (
	"time"

	"gorm.io/gorm"
)

// Status represents the order lifecycle status
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// PaymentMethod selects how the order is paid
type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "cod"
	PaymentOnline PaymentMethod = "online"
)

// Order represents a placed order. The financial fields and item snapshots
// are frozen at creation time; only Status (and its timestamps) changes
// afterwards, via admin action or the payment webhook.
type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderNumber string `gorm:"uniqueIndex;not null;size:30" json:"order_number"`

	CustomerName string `gorm:"not null;size:200" json:"customer_name"`
	Email        string `gorm:"not null;size:255;index" json:"email"`
	Phone        string `gorm:"size:20" json:"phone"`

	ShippingAddress Address `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`

	// Amounts in minor currency units
	SubtotalAmount int64 `gorm:"not null" json:"subtotal_amount"` // pre-discount
	DiscountAmount int64 `gorm:"default:0" json:"discount_amount"`
	TaxAmount      int64 `gorm:"default:0" json:"tax_amount"`
	ShippingAmount int64 `gorm:"default:0" json:"shipping_amount"`
	TotalAmount    int64 `gorm:"not null" json:"total_amount"`

	Currency  string `gorm:"size:3;default:'INR'" json:"currency"`
	PromoCode string `gorm:"size:50" json:"promo_code,omitempty"`

	PaymentMethod    PaymentMethod `gorm:"not null;size:10" json:"payment_method"`
	PaymentReference string        `gorm:"size:100;index" json:"payment_reference,omitempty"` // gateway intent id
	PaymentID        string        `gorm:"size:100" json:"payment_id,omitempty"`              // gateway payment id

	Status Status `gorm:"not null;default:'pending';index" json:"status"`
	Notes  string `gorm:"type:text" json:"notes,omitempty"`

	ProcessedAt *time.Time     `json:"processed_at,omitempty"`
	ShippedAt   *time.Time     `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time     `json:"delivered_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Items         []Item          `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	StatusHistory []StatusHistory `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"status_history,omitempty"`
}

// Item is the immutable snapshot of a product line at order time. It is
// the authoritative historical record even if the catalog product is later
// edited or deleted, so there is deliberately no foreign key to products.
type Item struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    uint      `gorm:"not null;index" json:"order_id"`
	ProductID  uint      `gorm:"not null" json:"product_id"`
	Name       string    `gorm:"not null;size:255" json:"name"`
	Price      int64     `gorm:"not null" json:"price"` // per unit at order time
	Quantity   int       `gorm:"not null" json:"quantity"`
	TotalPrice int64     `gorm:"not null" json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
}

// StatusHistory tracks order status changes
type StatusHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	Status    Status    `gorm:"not null" json:"status"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// Address represents the shipping address (embedded in Order). The binding
// tags apply when it arrives inside a checkout form.
type Address struct {
	AddressLine1 string `gorm:"size:255" json:"address_line1" binding:"required,max=255"`
	AddressLine2 string `gorm:"size:255" json:"address_line2" binding:"max=255"`
	City         string `gorm:"size:100" json:"city" binding:"required,max=100"`
	State        string `gorm:"size:100" json:"state" binding:"required,max=100"`
	PostalCode   string `gorm:"size:20" json:"postal_code" binding:"required,max=20"`
	Country      string `gorm:"size:2" json:"country" binding:"required,len=2"`
}

// TableName overrides
func (Order) TableName() string         { return "orders" }
func (Item) TableName() string          { return "order_items" }
func (StatusHistory) TableName() string { return "order_status_history" }

// CanBeCancelled checks if the order can still be cancelled
func (o *Order) CanBeCancelled() bool {
	return o.Status == StatusPending || o.Status == StatusProcessing
}

// ValidTransition reports whether an order may move from one status to
// another. Idempotent same-status updates are handled by the caller.
func ValidTransition(from, to Status) bool {
	transitions := map[Status][]Status{
		StatusPending:    {StatusProcessing, StatusCancelled},
		StatusProcessing: {StatusShipped, StatusCancelled},
		StatusShipped:    {StatusDelivered},
	}
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
