// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/framecraft/storefront-backend/internal/domain/product"
)

// SessionCart is the stored cart for a browser session (kept in Redis).
// Two tabs of the same browser share the session and therefore the cart;
// concurrent writes are last-write-wins, which is acceptable for a
// single-user shopping cart.
type SessionCart struct {
	SessionID string            `json:"session_id"`
	Items     []SessionCartItem `json:"items"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// SessionCartItem is one product line in a stored cart
type SessionCartItem struct {
	ProductID uint      `json:"product_id"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// ItemView is a cart line enriched with live product data
type ItemView struct {
	ProductID     uint   `json:"product_id"`
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	Price         int64  `json:"price"`
	Quantity      int    `json:"quantity"`
	LineTotal     int64  `json:"line_total"`
	StockQuantity int    `json:"stock_quantity"`
	ImageURL      string `json:"image_url,omitempty"`
}

// View is the cart as the storefront sees it
type View struct {
	SessionID     string     `json:"session_id"`
	Items         []ItemView `json:"items"`
	ItemCount     int        `json:"item_count"`
	TotalQuantity int        `json:"total_quantity"`
	Subtotal      int64      `json:"subtotal"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// buildView overlays live product data on stored cart lines. Lines whose
// product vanished or went inactive are dropped; quantities are clamped to
// current stock, and a line whose product ran out of stock entirely is
// removed. The second return reports whether the stored cart needs to be
// rewritten to match.
func buildView(c *SessionCart, products map[uint]product.Product) (*View, bool) {
	view := &View{
		SessionID: c.SessionID,
		Items:     make([]ItemView, 0, len(c.Items)),
		UpdatedAt: c.UpdatedAt,
	}

	kept := make([]SessionCartItem, 0, len(c.Items))
	changed := false

	for _, item := range c.Items {
		p, ok := products[item.ProductID]
		if !ok || p.StockQuantity <= 0 {
			changed = true
			continue
		}

		quantity := item.Quantity
		if quantity > p.StockQuantity {
			quantity = p.StockQuantity
			changed = true
		}
		if quantity <= 0 {
			changed = true
			continue
		}

		item.Quantity = quantity
		kept = append(kept, item)

		imageURL := ""
		if len(p.Images) > 0 {
			imageURL = p.Images[0].URL
		}

		view.Items = append(view.Items, ItemView{
			ProductID:     p.ID,
			Name:          p.Name,
			Slug:          p.Slug,
			Price:         p.Price,
			Quantity:      quantity,
			LineTotal:     p.Price * int64(quantity),
			StockQuantity: p.StockQuantity,
			ImageURL:      imageURL,
		})

		view.ItemCount++
		view.TotalQuantity += quantity
		view.Subtotal += p.Price * int64(quantity)
	}

	c.Items = kept
	return view, changed
}
