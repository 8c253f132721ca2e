package cart

import (
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/fjod/storefront-checkout/domain"
)

// Store is the only mutator of a cart. Line items live in a map keyed by product id
// and an order slice keeps display order. Every method either applies fully or
// returns an error without touching state.
type Store struct {
	mu    sync.RWMutex
	items map[int64]*domain.LineItem // productID -> line item
	order []int64
}

// NewStore creates an empty cart
func NewStore() *Store {
	return &Store{
		items: make(map[int64]*domain.LineItem),
	}
}

// AddItem puts quantity units of product into the cart. An existing line is
// incremented and capped at its stock limit; units over the limit are dropped.
func (s *Store) AddItem(product domain.Product, quantity int) error {
	if quantity < 1 {
		return errors.Wrapf(domain.ErrInvalidQuantity, "add %d of product %d", quantity, product.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.items[product.ID]; ok {
		// headroom first so a huge quantity cannot overflow the sum
		existing.Quantity += min(quantity, max(existing.StockLimit-existing.Quantity, 0))
		return nil
	}

	if product.Stock <= 0 {
		return errors.Wrapf(domain.ErrOutOfStock, "product %d", product.ID)
	}
	if product.Price.IsNegative() {
		return errors.Errorf("product %d has negative price %s", product.ID, product.Price)
	}

	s.items[product.ID] = &domain.LineItem{
		ProductID:  product.ID,
		Name:       product.Name,
		UnitPrice:  product.Price,
		Quantity:   min(quantity, product.Stock),
		StockLimit: product.Stock,
	}
	s.order = append(s.order, product.ID)
	return nil
}

// RemoveItem deletes the line for productID; absent ids are ignored.
func (s *Store) RemoveItem(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[productID]; !ok {
		return
	}
	delete(s.items, productID)
	for i, id := range s.order {
		if id == productID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// UpdateQuantity replaces the quantity of an existing line. Removal goes
// through RemoveItem, so quantity must be at least 1.
func (s *Store) UpdateQuantity(productID int64, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[productID]
	if !ok {
		return errors.Wrapf(domain.ErrItemNotInCart, "product %d", productID)
	}
	if quantity < 1 || quantity > item.StockLimit {
		return errors.Wrapf(domain.ErrInvalidQuantity, "quantity %d for product %d must be between 1 and %d",
			quantity, productID, item.StockLimit)
	}

	item.Quantity = quantity
	return nil
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[int64]*domain.LineItem)
	s.order = nil
}

// Snapshot returns a deep copy; callers may mutate it freely.
func (s *Store) Snapshot() domain.CartSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.LineItem, 0, len(s.order))
	for _, id := range s.order {
		items = append(items, *s.items[id])
	}
	return domain.CartSnapshot{Items: items}
}

func (s *Store) ItemCount() int {
	return s.Snapshot().ItemCount()
}

func (s *Store) Subtotal() decimal.Decimal {
	return s.Snapshot().Subtotal()
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
