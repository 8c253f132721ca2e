package catalog

import (
	"context"

	"github.com/fjod/storefront-checkout/domain"
)

// Source supplies product records to the cart. Consumers define this
// interface, not the store implementation.
type Source interface {
	// GetProduct returns the current record for id or domain.ErrProductNotFound.
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
}
