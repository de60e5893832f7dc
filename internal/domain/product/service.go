// internal/domain/product/service.go
package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a product does not exist or is inactive
var ErrNotFound = errors.New("product not found")

// Service handles catalog business logic
type Service struct {
	db *gorm.DB
}

// NewService creates a new product service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ListRequest represents catalog list query parameters
type ListRequest struct {
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=20"`
	Category  string `form:"category"`
	Search    string `form:"search"`
	Featured  bool   `form:"featured"`
	SortBy    string `form:"sort_by,default=created_at"`
	SortOrder string `form:"sort_order,default=desc"`
}

// ListResponse represents a paginated catalog page
type ListResponse struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// List retrieves active products with filtering and pagination
func (s *Service) List(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	query := s.db.WithContext(ctx).Model(&Product{}).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("is_active = ?", true)

	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}
	if req.Featured {
		query = query.Where("is_featured = ?", true)
	}
	if req.Search != "" {
		term := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", term, term)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	var products []Product
	offset := (req.Page - 1) * req.Limit
	err := query.Order(buildOrderClause(req.SortBy, req.SortOrder)).
		Offset(offset).Limit(req.Limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &ListResponse{
		Products: products,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// Get retrieves a single active product by ID
func (s *Service) Get(ctx context.Context, id uint) (*Product, error) {
	return s.getOne(ctx, "id = ? AND is_active = ?", id, true)
}

// GetBySlug retrieves a single active product by slug
func (s *Service) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	return s.getOne(ctx, "slug = ? AND is_active = ?", slug, true)
}

// GetAny retrieves a product regardless of active flag (admin surface)
func (s *Service) GetAny(ctx context.Context, id uint) (*Product, error) {
	return s.getOne(ctx, "id = ?", id)
}

func (s *Service) getOne(ctx context.Context, query string, args ...interface{}) (*Product, error) {
	var p Product
	err := s.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where(query, args...).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	return &p, nil
}

// FindByIDs loads products for the given IDs keyed by ID. Inactive and
// deleted products are omitted; callers decide how to treat the gaps.
func (s *Service) FindByIDs(ctx context.Context, ids []uint) (map[uint]Product, error) {
	if len(ids) == 0 {
		return map[uint]Product{}, nil
	}

	var products []Product
	err := s.db.WithContext(ctx).
		Where("id IN ? AND is_active = ?", ids, true).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	byID := make(map[uint]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

// CreateRequest represents admin product creation data
type CreateRequest struct {
	Name           string   `json:"name" binding:"required,max=255"`
	Slug           string   `json:"slug" binding:"required,max=255"`
	Description    string   `json:"description"`
	Price          int64    `json:"price" binding:"required,gt=0"`
	CompareAtPrice *int64   `json:"compare_at_price"`
	Category       string   `json:"category" binding:"required,max=100"`
	Material       string   `json:"material"`
	FrameSize      string   `json:"frame_size"`
	StockQuantity  int      `json:"stock_quantity" binding:"gte=0"`
	IsActive       *bool    `json:"is_active"`
	IsFeatured     bool     `json:"is_featured"`
	ImageURLs      []string `json:"image_urls"`
}

// AdminCreate creates a new product
func (s *Service) AdminCreate(ctx context.Context, req *CreateRequest) (*Product, error) {
	p := Product{
		Name:           req.Name,
		Slug:           strings.ToLower(strings.TrimSpace(req.Slug)),
		Description:    req.Description,
		Price:          req.Price,
		CompareAtPrice: req.CompareAtPrice,
		Category:       req.Category,
		Material:       req.Material,
		FrameSize:      req.FrameSize,
		StockQuantity:  req.StockQuantity,
		IsActive:       true,
		IsFeatured:     req.IsFeatured,
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	for i, url := range req.ImageURLs {
		p.Images = append(p.Images, ProductImage{URL: url, Position: i})
	}

	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &p, nil
}

// UpdateRequest represents admin product update data
type UpdateRequest struct {
	Name           *string  `json:"name"`
	Slug           *string  `json:"slug"`
	Description    *string  `json:"description"`
	Price          *int64   `json:"price"`
	CompareAtPrice *int64   `json:"compare_at_price"`
	Category       *string  `json:"category"`
	Material       *string  `json:"material"`
	FrameSize      *string  `json:"frame_size"`
	StockQuantity  *int     `json:"stock_quantity"`
	IsActive       *bool    `json:"is_active"`
	IsFeatured     *bool    `json:"is_featured"`
	ImageURLs      []string `json:"image_urls"`
}

// AdminUpdate updates an existing product
func (s *Service) AdminUpdate(ctx context.Context, id uint, req *UpdateRequest) (*Product, error) {
	p, err := s.GetAny(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Slug != nil {
		updates["slug"] = strings.ToLower(strings.TrimSpace(*req.Slug))
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, fmt.Errorf("price must be greater than 0")
		}
		updates["price"] = *req.Price
	}
	if req.CompareAtPrice != nil {
		updates["compare_at_price"] = *req.CompareAtPrice
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Material != nil {
		updates["material"] = *req.Material
	}
	if req.FrameSize != nil {
		updates["frame_size"] = *req.FrameSize
	}
	if req.StockQuantity != nil {
		if *req.StockQuantity < 0 {
			return nil, fmt.Errorf("stock quantity cannot be negative")
		}
		updates["stock_quantity"] = *req.StockQuantity
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(p).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update product: %w", err)
			}
		}
		if req.ImageURLs != nil {
			if err := tx.Where("product_id = ?", p.ID).Delete(&ProductImage{}).Error; err != nil {
				return fmt.Errorf("failed to replace product images: %w", err)
			}
			for i, url := range req.ImageURLs {
				img := ProductImage{ProductID: p.ID, URL: url, Position: i}
				if err := tx.Create(&img).Error; err != nil {
					return fmt.Errorf("failed to create product image: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetAny(ctx, id)
}

// AdminDelete soft-deletes a product. Order item snapshots keep their copy
// of the product data, so history is unaffected.
func (s *Service) AdminDelete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&Product{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AdminList retrieves all products including inactive ones
func (s *Service) AdminList(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	query := s.db.WithContext(ctx).Model(&Product{}).Preload("Images")
	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}
	if req.Search != "" {
		term := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ?", term)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	var products []Product
	offset := (req.Page - 1) * req.Limit
	err := query.Order(buildOrderClause(req.SortBy, req.SortOrder)).
		Offset(offset).Limit(req.Limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &ListResponse{
		Products: products,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

func buildOrderClause(sortBy, sortOrder string) string {
	validSortFields := map[string]bool{
		"created_at": true,
		"updated_at": true,
		"price":      true,
		"name":       true,
	}

	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}
	return fmt.Sprintf("%s %s", sortBy, sortOrder)
}
