package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/go-faster/errors"

	"github.com/fjod/storefront-checkout/domain"
)

// MemoryStore is the in-memory catalog: a Source for carts and the stock
// keeper for placed orders.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[int64]*domain.Product // productID -> product
}

// NewMemoryStore creates a catalog seeded with products.
func NewMemoryStore(products ...domain.Product) (*MemoryStore, error) {
	s := &MemoryStore{products: make(map[int64]*domain.Product)}
	for _, p := range products {
		if err := s.SetProduct(p); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *MemoryStore) GetProduct(_ context.Context, id int64) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.products[id]
	if !exists {
		return domain.Product{}, errors.Wrapf(domain.ErrProductNotFound, "product %d", id)
	}
	return *p, nil
}

// List returns every product ordered by id.
func (s *MemoryStore) List(_ context.Context) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (s *MemoryStore) SetProduct(product domain.Product) error {
	if product.ID <= 0 {
		return errors.Errorf("product id %d must be positive", product.ID)
	}
	if product.Price.IsNegative() {
		return errors.Errorf("product %d has negative price %s", product.ID, product.Price)
	}
	if product.Stock < 0 {
		return errors.Errorf("product %d has negative stock %d", product.ID, product.Stock)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p := product
	s.products[product.ID] = &p
	return nil
}

// Deduct removes sold quantities after an order is placed. Stock never
// drops below zero.
func (s *MemoryStore) Deduct(items []domain.LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// First pass: every product must still exist
	for _, item := range items {
		if _, exists := s.products[item.ProductID]; !exists {
			return errors.Wrapf(domain.ErrProductNotFound, "product %d", item.ProductID)
		}
	}

	for _, item := range items {
		p := s.products[item.ProductID]
		p.Stock = max(p.Stock-item.Quantity, 0)
	}
	return nil
}
