// internal/domain/inquiry/inquiry.go
package inquiry

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ContactInquiry is a message sent through the contact form
type ContactInquiry struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Name       string     `gorm:"not null;size:200" json:"name"`
	Email      string     `gorm:"not null;size:255" json:"email"`
	Subject    string     `gorm:"size:255" json:"subject"`
	Message    string     `gorm:"type:text;not null" json:"message"`
	IsResolved bool       `gorm:"default:false" json:"is_resolved"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NewsletterSubscriber is an email address opted in to the newsletter
type NewsletterSubscriber struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"not null;uniqueIndex;size:255" json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides
func (ContactInquiry) TableName() string       { return "contact_inquiries" }
func (NewsletterSubscriber) TableName() string { return "newsletter_subscribers" }

// ErrNotFound is returned when an inquiry does not exist
var ErrNotFound = errors.New("inquiry not found")

// Service handles contact inquiries and newsletter signups
type Service struct {
	db *gorm.DB
}

// NewService creates a new inquiry service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateRequest is a contact form submission
type CreateRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"max=255"`
	Message string `json:"message" binding:"required,max=5000"`
}

// Create records a contact inquiry
func (s *Service) Create(req *CreateRequest) (*ContactInquiry, error) {
	inquiry := &ContactInquiry{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Subject: strings.TrimSpace(req.Subject),
		Message: req.Message,
	}
	if err := s.db.Create(inquiry).Error; err != nil {
		return nil, fmt.Errorf("failed to create inquiry: %w", err)
	}
	return inquiry, nil
}

// Subscribe adds an email to the newsletter list. Re-subscribing an
// existing address is a no-op rather than an error, so the form never
// leaks whether an address is already subscribed.
func (s *Service) Subscribe(email string) error {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sub := NewsletterSubscriber{Email: normalized}
	err := s.db.Where("email = ?", normalized).FirstOrCreate(&sub).Error
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	return nil
}

// List returns inquiries for the admin panel, unresolved first
func (s *Service) List(unresolvedOnly bool) ([]ContactInquiry, error) {
	query := s.db.Model(&ContactInquiry{})
	if unresolvedOnly {
		query = query.Where("is_resolved = ?", false)
	}
	var inquiries []ContactInquiry
	err := query.Order("is_resolved ASC, created_at DESC").Find(&inquiries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list inquiries: %w", err)
	}
	return inquiries, nil
}

// Resolve marks an inquiry handled
func (s *Service) Resolve(id uint) (*ContactInquiry, error) {
	var inquiry ContactInquiry
	if err := s.db.First(&inquiry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get inquiry: %w", err)
	}

	now := time.Now()
	updates := map[string]interface{}{"is_resolved": true, "resolved_at": &now}
	if err := s.db.Model(&inquiry).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve inquiry: %w", err)
	}
	return &inquiry, nil
}

// Subscribers returns the newsletter list for export
func (s *Service) Subscribers() ([]NewsletterSubscriber, error) {
	var subs []NewsletterSubscriber
	if err := s.db.Order("created_at DESC").Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	return subs, nil
}
