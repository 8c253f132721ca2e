package checkout

import (
	"context"

	"go.uber.org/zap"

	"github.com/fjod/storefront-checkout/domain"
)

// ApplyPromotion validates code and makes it the session's only promotion.
// On failure the previously applied promotion stays in place.
func (s *Session) ApplyPromotion(ctx context.Context, code string) (domain.PriceBreakdown, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureOpenLocked(); err != nil {
		return domain.PriceBreakdown{}, err
	}

	promo, err := s.svc.promos.Validate(ctx, code)
	if err != nil {
		return domain.PriceBreakdown{}, err
	}

	prev := s.promotion
	s.promotion = &promo
	breakdown, err := s.breakdownLocked()
	if err != nil {
		s.promotion = prev
		return domain.PriceBreakdown{}, err
	}

	s.svc.log.Info("promotion applied",
		zap.String("checkout_id", s.id),
		zap.String("code", promo.Code),
		zap.Int("percent", promo.DiscountPercent))
	return breakdown, nil
}

func (s *Session) RemovePromotion() (domain.PriceBreakdown, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureOpenLocked(); err != nil {
		return domain.PriceBreakdown{}, err
	}
	s.promotion = nil
	return s.breakdownLocked()
}
