// internal/domain/analytics/analytics.go
package analytics

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/framecraft/storefront-backend/internal/domain/order"
)

// Service aggregates dashboard statistics from order and catalog data
type Service struct {
	db *gorm.DB
}

// NewService creates a new analytics service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// DashboardStats is the admin dashboard summary
type DashboardStats struct {
	TotalOrders     int64 `json:"total_orders"`
	PendingOrders   int64 `json:"pending_orders"`
	TotalRevenue    int64 `json:"total_revenue"`
	RevenueToday    int64 `json:"revenue_today"`
	OrdersToday     int64 `json:"orders_today"`
	ActiveProducts  int64 `json:"active_products"`
	LowStockCount   int64 `json:"low_stock_count"`
	PendingReviews  int64 `json:"pending_reviews"`
	OpenInquiries   int64 `json:"open_inquiries"`
	PromoRedemption int64 `json:"promo_redemptions"`
}

// Dashboard computes the current dashboard snapshot. Revenue counts all
// non-cancelled orders; a cancelled order's money was or will be refunded.
func (s *Service) Dashboard() (*DashboardStats, error) {
	stats := &DashboardStats{}
	startOfDay := time.Now().Truncate(24 * time.Hour)

	orders := s.db.Model(&order.Order{}).Where("status <> ?", order.StatusCancelled)
	if err := orders.Count(&stats.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	err := s.db.Model(&order.Order{}).
		Where("status = ?", order.StatusPending).
		Count(&stats.PendingOrders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count pending orders: %w", err)
	}

	type revenueRow struct{ Total int64 }
	var rev revenueRow
	err = s.db.Model(&order.Order{}).
		Select("COALESCE(SUM(total_amount), 0) AS total").
		Where("status <> ?", order.StatusCancelled).
		Scan(&rev).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	stats.TotalRevenue = rev.Total

	err = s.db.Model(&order.Order{}).
		Select("COALESCE(SUM(total_amount), 0) AS total").
		Where("status <> ? AND created_at >= ?", order.StatusCancelled, startOfDay).
		Scan(&rev).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum today's revenue: %w", err)
	}
	stats.RevenueToday = rev.Total

	err = s.db.Model(&order.Order{}).
		Where("status <> ? AND created_at >= ?", order.StatusCancelled, startOfDay).
		Count(&stats.OrdersToday).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count today's orders: %w", err)
	}

	err = s.db.Table("products").
		Where("is_active = ? AND deleted_at IS NULL", true).
		Count(&stats.ActiveProducts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	err = s.db.Table("products").
		Where("is_active = ? AND deleted_at IS NULL AND stock_quantity <= ?", true, 5).
		Count(&stats.LowStockCount).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count low stock: %w", err)
	}

	err = s.db.Table("product_reviews").
		Where("is_approved = ?", false).
		Count(&stats.PendingReviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count pending reviews: %w", err)
	}

	err = s.db.Table("contact_inquiries").
		Where("is_resolved = ?", false).
		Count(&stats.OpenInquiries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count inquiries: %w", err)
	}

	type usageRow struct{ Total int64 }
	var usage usageRow
	err = s.db.Table("promo_codes").
		Select("COALESCE(SUM(used_count), 0) AS total").
		Scan(&usage).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum promo usage: %w", err)
	}
	stats.PromoRedemption = usage.Total

	return stats, nil
}

// RecentOrders returns the latest orders for the dashboard feed
func (s *Service) RecentOrders(limit int) ([]order.Order, error) {
	if limit < 1 || limit > 50 {
		limit = 5
	}
	var rows []order.Order
	err := s.db.Order("created_at DESC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent orders: %w", err)
	}
	return rows, nil
}

// TopProduct is a best-seller row
type TopProduct struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Sold      int64  `json:"sold"`
	Revenue   int64  `json:"revenue"`
}

// TopProducts returns the best sellers over a trailing window
func (s *Service) TopProducts(days, limit int) ([]TopProduct, error) {
	if days < 1 {
		days = 30
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	since := time.Now().AddDate(0, 0, -days)

	var rows []TopProduct
	err := s.db.Table("order_items").
		Select("order_items.product_id, order_items.name, SUM(order_items.quantity) AS sold, SUM(order_items.total_price) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status <> ? AND orders.created_at >= ?", order.StatusCancelled, since).
		Group("order_items.product_id, order_items.name").
		Order("sold DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute top products: %w", err)
	}
	return rows, nil
}
