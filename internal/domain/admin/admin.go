// internal/domain/admin/admin.go
package admin

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/framecraft/storefront-backend/internal/config"
	"github.com/framecraft/storefront-backend/internal/pkg/auth"
)

// User is a back-office account. There is no self-signup; accounts are
// created by migration seed or the admintool.
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"uniqueIndex;not null;size:50" json:"username"`
	PasswordHash string     `gorm:"not null" json:"-"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "admin_users"
}

// ErrInvalidCredentials is returned for a failed login. Unknown username
// and wrong password are indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service handles admin authentication
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new admin service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{db: db, config: cfg}
}

// LoginResult is a successful authentication
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
}

// Authenticate verifies credentials and issues a session token
func (s *Service) Authenticate(username, password string) (*LoginResult, error) {
	var user User
	err := s.db.Where("username = ? AND is_active = ?", username, true).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Burn a bcrypt comparison anyway to keep timing flat
			auth.CheckPassword(password, "$2a$10$000000000000000000000uGm1/MproaaFp0000000000000000000000.")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up admin user: %w", err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	expiry := s.config.JWT.AccessTokenExpiry
	token, err := auth.GenerateToken(user.ID, user.Username, s.config.JWT.Secret, expiry)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.db.Model(&user).Update("last_login_at", &now).Error; err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: now.Add(expiry),
		Username:  user.Username,
	}, nil
}

// ChangePassword updates an admin's password after verifying the current one
func (s *Service) ChangePassword(adminID uint, current, next string) error {
	var user User
	if err := s.db.First(&user, adminID).Error; err != nil {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}
	if !auth.CheckPassword(current, user.PasswordHash) {
		return ErrInvalidCredentials
	}
	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	if err := s.db.Model(&user).Update("password_hash", hash).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
