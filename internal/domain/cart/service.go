// internal/domain/cart/service.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/framecraft/storefront-backend/internal/config"
	"github.com/framecraft/storefront-backend/internal/domain/product"
	"github.com/redis/go-redis/v9"
)

// Cart errors surfaced to the storefront
var (
	ErrProductNotFound = errors.New("product not found or unavailable")
	ErrOutOfStock      = errors.New("product is out of stock")
)

// Service handles session cart business logic
type Service struct {
	redisClient *redis.Client
	products    *product.Service
	config      *config.Config
}

// NewService creates a new cart service
func NewService(redisClient *redis.Client, products *product.Service, cfg *config.Config) *Service {
	return &Service{
		redisClient: redisClient,
		products:    products,
		config:      cfg,
	}
}

// Get retrieves the session cart, reconciled against the live catalog.
// Quantities are re-clamped to current stock on every read so the cart can
// never hold more of a product than exists.
func (s *Service) Get(ctx context.Context, sessionID string) (*View, error) {
	stored, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(stored.Items))
	for _, item := range stored.Items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	view, changed := buildView(stored, products)
	if changed {
		if err := s.save(ctx, stored); err != nil {
			return nil, err
		}
	}
	return view, nil
}

// AddItem adds quantity of a product to the cart, clamped to stock
func (s *Service) AddItem(ctx context.Context, sessionID string, productID uint, quantity int) (*View, error) {
	if quantity < 1 {
		quantity = 1
	}

	p, err := s.products.Get(ctx, productID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !p.InStock() {
		return nil, ErrOutOfStock
	}

	stored, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range stored.Items {
		if stored.Items[i].ProductID == productID {
			stored.Items[i].Quantity += quantity
			if stored.Items[i].Quantity > p.StockQuantity {
				stored.Items[i].Quantity = p.StockQuantity
			}
			found = true
			break
		}
	}
	if !found {
		if quantity > p.StockQuantity {
			quantity = p.StockQuantity
		}
		stored.Items = append(stored.Items, SessionCartItem{
			ProductID: productID,
			Quantity:  quantity,
			AddedAt:   time.Now().UTC(),
		})
	}

	if err := s.save(ctx, stored); err != nil {
		return nil, err
	}
	return s.Get(ctx, sessionID)
}

// UpdateItem sets the quantity for a product; zero removes the line
func (s *Service) UpdateItem(ctx context.Context, sessionID string, productID uint, quantity int) (*View, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, sessionID, productID)
	}

	p, err := s.products.Get(ctx, productID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if quantity > p.StockQuantity {
		quantity = p.StockQuantity
	}

	stored, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	for i := range stored.Items {
		if stored.Items[i].ProductID == productID {
			stored.Items[i].Quantity = quantity
			if err := s.save(ctx, stored); err != nil {
				return nil, err
			}
			return s.Get(ctx, sessionID)
		}
	}
	return nil, ErrProductNotFound
}

// RemoveItem deletes a product line from the cart
func (s *Service) RemoveItem(ctx context.Context, sessionID string, productID uint) (*View, error) {
	stored, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	kept := stored.Items[:0]
	for _, item := range stored.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	stored.Items = kept

	if err := s.save(ctx, stored); err != nil {
		return nil, err
	}
	return s.Get(ctx, sessionID)
}

// Clear empties the session cart
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.redisClient.Del(ctx, cartKey(sessionID)).Err()
}

func (s *Service) load(ctx context.Context, sessionID string) (*SessionCart, error) {
	data, err := s.redisClient.Get(ctx, cartKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			now := time.Now().UTC()
			return &SessionCart{SessionID: sessionID, CreatedAt: now, UpdatedAt: now}, nil
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var stored SessionCart
	if err := json.Unmarshal([]byte(data), &stored); err != nil {
		// Corrupt session state starts a fresh cart.
		now := time.Now().UTC()
		return &SessionCart{SessionID: sessionID, CreatedAt: now, UpdatedAt: now}, nil
	}
	stored.SessionID = sessionID
	return &stored, nil
}

func (s *Service) save(ctx context.Context, stored *SessionCart) error {
	stored.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	err = s.redisClient.Set(ctx, cartKey(stored.SessionID), data, s.config.Checkout.SessionCartTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to store cart: %w", err)
	}
	return nil
}

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}
