package cart

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjod/storefront-checkout/domain"
)

func product(id int64, price string, stock int) domain.Product {
	return domain.Product{
		ID:       id,
		Name:     "product",
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		Category: "test",
	}
}

func TestStore_AddItem_NewLine(t *testing.T) {
	store := NewStore()

	require.NoError(t, store.AddItem(product(1, "30", 10), 2))

	snap := store.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, int64(1), snap.Items[0].ProductID)
	assert.Equal(t, 2, snap.Items[0].Quantity)
	assert.Equal(t, 10, snap.Items[0].StockLimit)
	assert.True(t, decimal.NewFromInt(30).Equal(snap.Items[0].UnitPrice))
	assert.True(t, decimal.NewFromInt(60).Equal(store.Subtotal()))
	assert.Equal(t, 2, store.ItemCount())
}

func TestStore_AddItem_IncrementsExisting(t *testing.T) {
	store := NewStore()
	p := product(1, "5.50", 10)

	require.NoError(t, store.AddItem(p, 1))
	require.NoError(t, store.AddItem(p, 3))

	snap := store.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 4, snap.Items[0].Quantity)
}

func TestStore_AddItem_CapsAtStockLimit(t *testing.T) {
	store := NewStore()
	p := product(1, "1", 3)

	require.NoError(t, store.AddItem(p, 2))
	require.NoError(t, store.AddItem(p, 5))
	assert.Equal(t, 3, store.Snapshot().Items[0].Quantity)

	other := product(2, "1", 2)
	require.NoError(t, store.AddItem(other, 10))
	assert.Equal(t, 2, store.Snapshot().Items[1].Quantity)
}

func TestStore_AddItem_HugeQuantityOnExistingLine(t *testing.T) {
	store := NewStore()
	p := product(1, "1", 4)

	require.NoError(t, store.AddItem(p, 1))
	require.NoError(t, store.AddItem(p, math.MaxInt))

	snap := store.Snapshot()
	assert.Equal(t, 4, snap.Items[0].Quantity)
	assert.Equal(t, 4, snap.ItemCount())
	assert.True(t, decimal.RequireFromString("4").Equal(snap.Subtotal()))

	require.NoError(t, store.AddItem(p, math.MaxInt))
	assert.Equal(t, 4, store.Snapshot().Items[0].Quantity)
}

func TestStore_AddItem_HugeQuantityOnNewLine(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.AddItem(product(1, "999", 2), math.MaxInt))
	assert.Equal(t, 2, store.Snapshot().Items[0].Quantity)
}

func TestStore_AddItem_KeepsCapturedPrice(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.AddItem(product(1, "10", 5), 1))

	// catalog price changes after the item is in the cart
	require.NoError(t, store.AddItem(product(1, "99", 5), 1))

	item := store.Snapshot().Items[0]
	assert.True(t, decimal.NewFromInt(10).Equal(item.UnitPrice))
	assert.Equal(t, 2, item.Quantity)
}

func TestStore_AddItem_OutOfStock(t *testing.T) {
	store := NewStore()

	err := store.AddItem(product(1, "10", 0), 1)
	assert.ErrorIs(t, err, domain.ErrOutOfStock)
	assert.Equal(t, 0, store.Len())
}

func TestStore_AddItem_ExistingLineIgnoresCurrentStock(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.AddItem(product(1, "10", 5), 1))

	// stock ran out in the catalog, but the line already exists
	require.NoError(t, store.AddItem(product(1, "10", 0), 1))
	assert.Equal(t, 2, store.Snapshot().Items[0].Quantity)
}

func TestStore_AddItem_InvalidQuantity(t *testing.T) {
	store := NewStore()

	assert.ErrorIs(t, store.AddItem(product(1, "10", 5), 0), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, store.AddItem(product(1, "10", 5), -2), domain.ErrInvalidQuantity)
	assert.Equal(t, 0, store.Len())
}

func TestStore_RemoveItem(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.AddItem(product(1, "10", 5), 1))
	require.NoError(t, store.AddItem(product(2, "20", 5), 1))
	require.NoError(t, store.AddItem(product(3, "30", 5), 1))

	store.RemoveItem(2)

	snap := store.Snapshot()
	require.Len(t, snap.Items, 2)
	assert.Equal(t, int64(1), snap.Items[0].ProductID)
	assert.Equal(t, int64(3), snap.Items[1].ProductID)
}

func TestStore_RemoveItem_AbsentIsNoop(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.AddItem(product(1, "10", 5), 2))

	before, err := json.Marshal(store.Snapshot())
	require.NoError(t, err)

	store.RemoveItem(42)

	after, err := json.Marshal(store.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestStore_UpdateQuantity(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.AddItem(product(1, "10", 5), 1))

	require.NoError(t, store.UpdateQuantity(1, 5))
	assert.Equal(t, 5, store.ItemCount())
}

func TestStore_UpdateQuantity_Rejected(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.AddItem(product(1, "10", 5), 2))

	assert.ErrorIs(t, store.UpdateQuantity(1, 0), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, store.UpdateQuantity(1, 6), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, store.UpdateQuantity(7, 1), domain.ErrItemNotInCart)

	// nothing changed
	assert.Equal(t, 2, store.Snapshot().Items[0].Quantity)
}

func TestStore_Clear(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.AddItem(product(1, "10", 5), 2))

	store.Clear()

	assert.True(t, store.Snapshot().IsEmpty())
	assert.True(t, store.Subtotal().IsZero())
	assert.Equal(t, 0, store.ItemCount())
}

func TestStore_Snapshot_IsIsolated(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.AddItem(product(1, "10", 5), 2))

	snap := store.Snapshot()

	// later store mutations do not leak into the snapshot
	require.NoError(t, store.UpdateQuantity(1, 4))
	require.NoError(t, store.AddItem(product(2, "3", 5), 1))
	assert.Len(t, snap.Items, 1)
	assert.Equal(t, 2, snap.Items[0].Quantity)

	// snapshot mutations do not leak into the store
	snap.Items[0].Quantity = 100
	assert.Equal(t, 4, store.Snapshot().Items[0].Quantity)
}

func TestStore_DerivedTotalsHoldAfterEveryOperation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	store := NewStore()
	catalog := []domain.Product{
		product(1, "30", 4),
		product(2, "19.99", 10),
		product(3, "0.25", 1),
		product(4, "120", 3),
	}

	for i := 0; i < 500; i++ {
		p := catalog[rng.Intn(len(catalog))]
		switch rng.Intn(3) {
		case 0:
			_ = store.AddItem(p, rng.Intn(4))
		case 1:
			store.RemoveItem(p.ID)
		case 2:
			_ = store.UpdateQuantity(p.ID, rng.Intn(6))
		}

		snap := store.Snapshot()
		wantSubtotal := decimal.Zero
		wantCount := 0
		for _, item := range snap.Items {
			require.GreaterOrEqual(t, item.Quantity, 1)
			require.LessOrEqual(t, item.Quantity, item.StockLimit)
			wantSubtotal = wantSubtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
			wantCount += item.Quantity
		}
		require.True(t, wantSubtotal.Equal(store.Subtotal()), "step %d", i)
		require.Equal(t, wantCount, store.ItemCount(), "step %d", i)
	}
}
