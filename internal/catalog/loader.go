package catalog

import (
	"context"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/fjod/storefront-checkout/domain"
)

// Loader fronts a Source so that concurrent requests for the same product
// share one lookup.
type Loader struct {
	source Source
	sfg    singleflight.Group // Prevents duplicate lookups for the same id
	log    *zap.Logger
}

func NewLoader(source Source, log *zap.Logger) *Loader {
	return &Loader{source: source, log: log}
}

func (l *Loader) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	v, err, shared := l.sfg.Do(strconv.FormatInt(id, 10), func() (interface{}, error) {
		return l.source.GetProduct(ctx, id)
	})
	if err != nil {
		return domain.Product{}, err
	}
	if shared {
		l.log.Debug("product lookup shared", zap.Int64("product_id", id))
	}
	return v.(domain.Product), nil
}
