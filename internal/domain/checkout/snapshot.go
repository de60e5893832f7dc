// internal/domain/checkout/snapshot.go
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/framecraft/storefront-backend/internal/domain/order"
)

// Snapshot freezes everything needed to create an order once a payment
// succeeds. No order row exists while a snapshot is pending; if the
// customer abandons the gateway widget the snapshot simply expires and
// their cart and promo stay untouched.
type Snapshot struct {
	SessionID       string        `json:"session_id"`
	OrderNumber     string        `json:"order_number"`
	CustomerName    string        `json:"customer_name"`
	Email           string        `json:"email"`
	Phone           string        `json:"phone"`
	ShippingAddress order.Address `json:"shipping_address"`

	SubtotalAmount int64  `json:"subtotal_amount"`
	DiscountAmount int64  `json:"discount_amount"`
	TaxAmount      int64  `json:"tax_amount"`
	ShippingAmount int64  `json:"shipping_amount"`
	TotalAmount    int64  `json:"total_amount"`
	Currency       string `json:"currency"`
	PromoCode      string `json:"promo_code,omitempty"`

	Items     []order.Item `json:"items"`
	CreatedAt time.Time    `json:"created_at"`
}

// SnapshotStore persists pending checkout snapshots keyed by the gateway
// intent id
type SnapshotStore interface {
	Save(ctx context.Context, intentID string, snap *Snapshot) error
	Get(ctx context.Context, intentID string) (*Snapshot, error)
	Delete(ctx context.Context, intentID string) error
}

// RedisSnapshotStore keeps snapshots in Redis with a TTL so abandoned
// payments clean themselves up
type RedisSnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSnapshotStore creates a snapshot store backed by Redis
func NewRedisSnapshotStore(client *redis.Client, ttl time.Duration) *RedisSnapshotStore {
	return &RedisSnapshotStore{client: client, ttl: ttl}
}

func snapshotKey(intentID string) string {
	return fmt.Sprintf("checkout_snapshot:%s", intentID)
}

// Save stores a snapshot under the intent id
func (s *RedisSnapshotStore) Save(ctx context.Context, intentID string, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal checkout snapshot: %w", err)
	}
	if err := s.client.Set(ctx, snapshotKey(intentID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store checkout snapshot: %w", err)
	}
	return nil
}

// Get retrieves a snapshot, returning (nil, nil) when none exists
func (s *RedisSnapshotStore) Get(ctx context.Context, intentID string) (*Snapshot, error) {
	data, err := s.client.Get(ctx, snapshotKey(intentID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load checkout snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		// Corrupt snapshot is unrecoverable; treat as missing
		s.client.Del(ctx, snapshotKey(intentID))
		return nil, nil
	}
	return &snap, nil
}

// Delete removes a snapshot
func (s *RedisSnapshotStore) Delete(ctx context.Context, intentID string) error {
	if err := s.client.Del(ctx, snapshotKey(intentID)).Err(); err != nil {
		return fmt.Errorf("failed to delete checkout snapshot: %w", err)
	}
	return nil
}
