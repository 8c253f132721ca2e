package promotion

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/fjod/storefront-checkout/domain"
)

// Validator checks user supplied codes against a Registry.
type Validator struct {
	registry Registry
}

func NewValidator(registry Registry) *Validator {
	return &Validator{registry: registry}
}

// Validate resolves code case-insensitively. Unknown or blank codes fail with
// domain.ErrInvalidPromoCode; registry failures are returned wrapped.
func (v *Validator) Validate(ctx context.Context, code string) (domain.PromotionCode, error) {
	normalized := Normalize(code)
	if normalized == "" {
		return domain.PromotionCode{}, errors.Wrap(domain.ErrInvalidPromoCode, "code is required")
	}

	promo, err := v.registry.Lookup(ctx, normalized)
	if errors.Is(err, ErrCodeNotFound) {
		return domain.PromotionCode{}, errors.Wrapf(domain.ErrInvalidPromoCode, "%q", normalized)
	}
	if err != nil {
		return domain.PromotionCode{}, errors.Wrap(err, "lookup promo code")
	}
	return promo, nil
}
