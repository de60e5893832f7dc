// internal/domain/order/service.go
package order

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"gorm.io/gorm"

	"github.com/framecraft/storefront-backend/internal/config"
)

var (
	// ErrNotFound is returned when no order matches the lookup
	ErrNotFound = errors.New("order not found")
	// ErrInvalidTransition is returned for disallowed status changes
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrInsufficientStock is returned when stock ran out between cart and checkout
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Service handles order persistence and lifecycle
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{db: db, config: cfg}
}

// CreateRequest carries everything needed to persist an order. Amounts are
// already computed; this layer only writes rows and adjusts stock.
type CreateRequest struct {
	OrderNumber      string
	CustomerName     string
	Email            string
	Phone            string
	ShippingAddress  Address
	SubtotalAmount   int64
	DiscountAmount   int64
	TaxAmount        int64
	ShippingAmount   int64
	TotalAmount      int64
	Currency         string
	PromoCode        string
	PaymentMethod    PaymentMethod
	PaymentReference string
	PaymentID        string
	Status           Status
	Items            []Item
}

// Create persists an order with its items and initial status history in a
// single transaction, decrementing product stock as it goes. A conditional
// update guards each decrement so two concurrent checkouts cannot both
// claim the last unit.
func (s *Service) Create(req *CreateRequest) (*Order, error) {
	status := req.Status
	if status == "" {
		status = StatusPending
	}
	order := &Order{
		OrderNumber:      req.OrderNumber,
		CustomerName:     req.CustomerName,
		Email:            req.Email,
		Phone:            req.Phone,
		ShippingAddress:  req.ShippingAddress,
		SubtotalAmount:   req.SubtotalAmount,
		DiscountAmount:   req.DiscountAmount,
		TaxAmount:        req.TaxAmount,
		ShippingAmount:   req.ShippingAmount,
		TotalAmount:      req.TotalAmount,
		Currency:         req.Currency,
		PromoCode:        req.PromoCode,
		PaymentMethod:    req.PaymentMethod,
		PaymentReference: req.PaymentReference,
		PaymentID:        req.PaymentID,
		Status:           status,
		Items:            req.Items,
	}
	if status == StatusProcessing {
		now := time.Now()
		order.ProcessedAt = &now
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range req.Items {
			result := tx.Table("products").
				Where("id = ? AND stock_quantity >= ?", item.ProductID, item.Quantity).
				Update("stock_quantity", gorm.Expr("stock_quantity - ?", item.Quantity))
			if result.Error != nil {
				return fmt.Errorf("failed to update stock for product %d: %w", item.ProductID, result.Error)
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("%w: product %d", ErrInsufficientStock, item.ProductID)
			}
		}

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		history := &StatusHistory{
			OrderID: order.ID,
			Status:  status,
			Comment: "Order placed",
		}
		if err := tx.Create(history).Error; err != nil {
			return fmt.Errorf("failed to create status history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetByID retrieves an order with items and history
func (s *Service) GetByID(id uint) (*Order, error) {
	var order Order
	err := s.db.Preload("Items").Preload("StatusHistory").First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

// GetByNumber retrieves an order by its order number
func (s *Service) GetByNumber(number string) (*Order, error) {
	var order Order
	err := s.db.Preload("Items").Preload("StatusHistory").
		Where("order_number = ?", number).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

// GetByPaymentReference retrieves an order by the gateway intent id.
// Used by the webhook and confirm paths to detect already-finalized payments.
func (s *Service) GetByPaymentReference(ref string) (*Order, error) {
	var order Order
	err := s.db.Preload("Items").
		Where("payment_reference = ?", ref).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

// Lookup finds an order by number and email for unauthenticated customer
// self-service. Both must match exactly; a wrong email behaves the same as
// a missing order so the endpoint cannot be used to probe order numbers.
func (s *Service) Lookup(number, email string) (*Order, error) {
	var order Order
	err := s.db.Preload("Items").Preload("StatusHistory").
		Where("order_number = ? AND email = ?", number, email).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up order: %w", err)
	}
	return &order, nil
}

// ListFilter narrows the admin order listing
type ListFilter struct {
	Status        Status
	PaymentMethod PaymentMethod
	Email         string
	Page          int
	Limit         int
}

// ListResult is a paginated order listing
type ListResult struct {
	Orders     []Order `json:"orders"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	TotalPages int     `json:"total_pages"`
}

// List returns orders for the admin panel, newest first
func (s *Service) List(filter ListFilter) (*ListResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	query := s.db.Model(&Order{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentMethod != "" {
		query = query.Where("payment_method = ?", filter.PaymentMethod)
	}
	if filter.Email != "" {
		query = query.Where("email = ?", filter.Email)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []Order
	offset := (filter.Page - 1) * filter.Limit
	err := query.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &ListResult{
		Orders:     orders,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// UpdateStatus moves an order to a new status, recording history. Setting
// the current status again is a no-op rather than an error so retried admin
// requests stay safe.
func (s *Service) UpdateStatus(id uint, status Status, comment string) (*Order, error) {
	order, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if order.Status == status {
		return order, nil
	}
	if !ValidTransition(order.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, status)
	}

	now := time.Now()
	updates := map[string]interface{}{"status": status}
	switch status {
	case StatusProcessing:
		updates["processed_at"] = &now
	case StatusShipped:
		updates["shipped_at"] = &now
	case StatusDelivered:
		updates["delivered_at"] = &now
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(order).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		history := &StatusHistory{OrderID: order.ID, Status: status, Comment: comment}
		if err := tx.Create(history).Error; err != nil {
			return fmt.Errorf("failed to record status history: %w", err)
		}
		if status == StatusCancelled {
			// Return reserved stock to the catalog
			for _, item := range order.Items {
				if err := tx.Table("products").
					Where("id = ?", item.ProductID).
					Update("stock_quantity", gorm.Expr("stock_quantity + ?", item.Quantity)).Error; err != nil {
					return fmt.Errorf("failed to restore stock for product %d: %w", item.ProductID, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// NextOrderNumber generates a unique order number of the form
// FC-YYYYMMDD-XXXXXX and verifies it against existing orders. The random
// suffix keeps order volume unguessable from the number alone.
func (s *Service) NextOrderNumber() (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		number, err := generateOrderNumber(time.Now())
		if err != nil {
			return "", err
		}
		var count int64
		if err := s.db.Model(&Order{}).Where("order_number = ?", number).Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check order number: %w", err)
		}
		if count == 0 {
			return number, nil
		}
	}
	return "", errors.New("failed to generate unique order number")
}

func generateOrderNumber(now time.Time) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate order number: %w", err)
	}
	return fmt.Sprintf("FC-%s-%06d", now.Format("20060102"), n.Int64()), nil
}
