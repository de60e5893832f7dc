// internal/domain/product/entity.go
package product

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a photo frame in the catalog
type Product struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null;size:255" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description string `gorm:"type:text" json:"description"`

	// Price in minor currency units (paise)
	Price          int64  `gorm:"not null" json:"price"`
	CompareAtPrice *int64 `json:"compare_at_price,omitempty"`

	Category  string `gorm:"size:100;index" json:"category"` // wall, tabletop, collage, ...
	Material  string `gorm:"size:100" json:"material"`
	FrameSize string `gorm:"size:50" json:"frame_size"` // e.g. 8x10

	StockQuantity int  `gorm:"not null;default:0" json:"stock_quantity"`
	IsActive      bool `gorm:"not null;default:true" json:"is_active"`
	IsFeatured    bool `gorm:"not null;default:false" json:"is_featured"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Images  []ProductImage `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"images,omitempty"`
	Reviews []Review       `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// ProductImage represents a product gallery image
type ProductImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	URL       string    `gorm:"not null;size:512" json:"url"`
	AltText   string    `gorm:"size:255" json:"alt_text"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// Review represents a customer review of a product. Reviews are guest
// submissions held for moderation; only approved reviews are public.
type Review struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	ProductID  uint           `gorm:"not null;index" json:"product_id"`
	AuthorName string         `gorm:"not null;size:100" json:"author_name"`
	Email      string         `gorm:"not null;size:255" json:"-"`
	Rating     int            `gorm:"not null" json:"rating"` // 1..5
	Comment    string         `gorm:"type:text" json:"comment"`
	IsApproved bool           `gorm:"not null;default:false" json:"is_approved"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides
func (Product) TableName() string      { return "products" }
func (ProductImage) TableName() string { return "product_images" }
func (Review) TableName() string       { return "product_reviews" }

// InStock reports whether the product can currently be added to a cart
func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}
