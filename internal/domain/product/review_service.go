// internal/domain/product/review_service.go
package product

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrReviewNotFound is returned when a review does not exist
var ErrReviewNotFound = errors.New("review not found")

// ReviewService handles product review logic
type ReviewService struct {
	db *gorm.DB
}

// NewReviewService creates a new review service
func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// CreateReviewRequest represents a guest review submission
type CreateReviewRequest struct {
	AuthorName string `json:"author_name" binding:"required,max=100"`
	Email      string `json:"email" binding:"required,email"`
	Rating     int    `json:"rating" binding:"required,min=1,max=5"`
	Comment    string `json:"comment" binding:"max=4000"`
}

// ReviewSummary is the public review listing for a product
type ReviewSummary struct {
	Reviews       []Review `json:"reviews"`
	AverageRating float64  `json:"average_rating"`
	ReviewCount   int64    `json:"review_count"`
}

// Create submits a review for moderation
func (s *ReviewService) Create(ctx context.Context, productID uint, req *CreateReviewRequest) (*Review, error) {
	var exists int64
	err := s.db.WithContext(ctx).Model(&Product{}).
		Where("id = ? AND is_active = ?", productID, true).
		Count(&exists).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check product: %w", err)
	}
	if exists == 0 {
		return nil, ErrNotFound
	}

	review := Review{
		ProductID:  productID,
		AuthorName: req.AuthorName,
		Email:      req.Email,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := s.db.WithContext(ctx).Create(&review).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return &review, nil
}

// ListApproved returns approved reviews for a product with the aggregate rating
func (s *ReviewService) ListApproved(ctx context.Context, productID uint) (*ReviewSummary, error) {
	var reviews []Review
	err := s.db.WithContext(ctx).
		Where("product_id = ? AND is_approved = ?", productID, true).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve reviews: %w", err)
	}

	summary := &ReviewSummary{
		Reviews:     reviews,
		ReviewCount: int64(len(reviews)),
	}
	if len(reviews) > 0 {
		var sum int
		for _, r := range reviews {
			sum += r.Rating
		}
		summary.AverageRating = float64(sum) / float64(len(reviews))
	}
	return summary, nil
}

// AdminList returns all reviews, optionally filtered to pending ones
func (s *ReviewService) AdminList(ctx context.Context, pendingOnly bool) ([]Review, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if pendingOnly {
		query = query.Where("is_approved = ?", false)
	}

	var reviews []Review
	if err := query.Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve reviews: %w", err)
	}
	return reviews, nil
}

// AdminApprove marks a review as approved
func (s *ReviewService) AdminApprove(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Model(&Review{}).
		Where("id = ?", id).
		Update("is_approved", true)
	if result.Error != nil {
		return fmt.Errorf("failed to approve review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

// AdminDelete removes a review
func (s *ReviewService) AdminDelete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&Review{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}
