package cart

import (
	"testing"
	"time"

	"github.com/framecraft/storefront-backend/internal/domain/product"
	"github.com/stretchr/testify/assert"
)

func storedCart(items ...SessionCartItem) *SessionCart {
	return &SessionCart{
		SessionID: "sess-1",
		Items:     items,
		UpdatedAt: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestBuildViewComputesTotals(t *testing.T) {
	products := map[uint]product.Product{
		1: {ID: 1, Name: "Oak Wall Frame", Slug: "oak-wall-frame", Price: 49900, StockQuantity: 10},
		2: {ID: 2, Name: "Collage Frame", Slug: "collage-frame", Price: 89900, StockQuantity: 3},
	}

	view, changed := buildView(storedCart(
		SessionCartItem{ProductID: 1, Quantity: 2},
		SessionCartItem{ProductID: 2, Quantity: 1},
	), products)

	assert.False(t, changed)
	assert.Equal(t, 2, view.ItemCount)
	assert.Equal(t, 3, view.TotalQuantity)
	assert.Equal(t, int64(2*49900+89900), view.Subtotal)
	assert.Equal(t, int64(99800), view.Items[0].LineTotal)
}

func TestBuildViewClampsQuantityToStock(t *testing.T) {
	products := map[uint]product.Product{
		1: {ID: 1, Name: "Oak Wall Frame", Price: 49900, StockQuantity: 2},
	}

	stored := storedCart(SessionCartItem{ProductID: 1, Quantity: 5})
	view, changed := buildView(stored, products)

	assert.True(t, changed)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.Equal(t, 2, stored.Items[0].Quantity) // stored cart rewritten too
}

func TestBuildViewDropsOutOfStockAndVanishedProducts(t *testing.T) {
	products := map[uint]product.Product{
		1: {ID: 1, Name: "Oak Wall Frame", Price: 49900, StockQuantity: 0},
		// product 2 missing entirely (deleted or inactive)
	}

	stored := storedCart(
		SessionCartItem{ProductID: 1, Quantity: 1},
		SessionCartItem{ProductID: 2, Quantity: 1},
	)
	view, changed := buildView(stored, products)

	assert.True(t, changed)
	assert.Empty(t, view.Items)
	assert.Empty(t, stored.Items)
	assert.Equal(t, int64(0), view.Subtotal)
}

func TestBuildViewUsesLiveProductPrice(t *testing.T) {
	// Cart lines hold no price of their own; the catalog is authoritative
	// until the order snapshot is taken.
	products := map[uint]product.Product{
		1: {ID: 1, Name: "Oak Wall Frame", Price: 52900, StockQuantity: 5},
	}

	view, _ := buildView(storedCart(SessionCartItem{ProductID: 1, Quantity: 1}), products)
	assert.Equal(t, int64(52900), view.Items[0].Price)
}
