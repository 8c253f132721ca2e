package checkout

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/fjod/storefront-checkout/domain"
	"github.com/fjod/storefront-checkout/internal/payment"
)

// ConfirmOrder places the order. It re-validates the promotion, reprices the
// frozen snapshot, charges the payment capability once and, on success, moves
// to COMPLETE and clears the live cart. Any failure leaves the session in
// REVIEW so the caller can retry. A completed session answers
// domain.ErrAlreadyCompleted and never produces a second order.
func (s *Session) ConfirmOrder(ctx context.Context) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStepLocked(domain.CheckoutStepReview); err != nil {
		return domain.Order{}, err
	}
	if s.shipping == nil || s.payment == nil {
		return domain.Order{}, errors.Wrap(domain.ErrIllegalTransition, "review reached without shipping and payment")
	}

	if err := s.revalidatePromotionLocked(ctx); err != nil {
		return domain.Order{}, err
	}

	breakdown, err := s.breakdownLocked()
	if err != nil {
		return domain.Order{}, err
	}

	orderID := s.svc.ids.Generate()
	result, err := s.svc.payments.Charge(ctx, payment.ChargeRequest{
		CheckoutID: s.id,
		OrderID:    orderID,
		Amount:     breakdown.Total,
		Method:     s.payment.Method,
		Card:       s.payment.Card,
	})
	if err != nil {
		s.svc.log.Warn("payment capability failed", zap.String("checkout_id", s.id), zap.Error(err))
		return domain.Order{}, &domain.CapabilityFailureError{
			Capability: "payment",
			Reason:     "payment could not be processed",
			Err:        err,
		}
	}
	if !result.Succeeded() {
		s.svc.log.Info("payment refused",
			zap.String("checkout_id", s.id),
			zap.String("reason", result.FailureReason()))
		return domain.Order{}, &domain.CapabilityFailureError{
			Capability: "payment",
			Reason:     result.FailureReason(),
		}
	}

	order := domain.Order{
		ID:                orderID,
		CheckoutID:        s.id,
		LineItems:         s.snapshot.Clone().Items,
		Breakdown:         breakdown,
		Shipping:          *s.shipping,
		Payment:           s.payment.Redacted(),
		TransactionID:     result.TransactionID,
		EstimatedDelivery: s.shipping.Method.DeliveryEstimate(),
		CreatedAt:         s.svc.now().UTC(),
	}
	if s.promotion != nil {
		order.PromotionCode = s.promotion.Code
	}

	if err := s.transitionLocked(domain.CheckoutStepComplete); err != nil {
		return domain.Order{}, err
	}
	s.order = &order
	// card data is not kept past completion
	s.payment = &order.Payment
	s.cart.Clear()

	s.svc.log.Info("order placed",
		zap.String("checkout_id", s.id),
		zap.String("order_id", order.ID),
		zap.String("total", breakdown.Total.StringFixed(2)))
	return order.Copy(), nil
}

// revalidatePromotionLocked checks the applied promotion against the registry
// again. A revoked code is dropped and a changed discount is refreshed; both
// return an error so the buyer reviews the new total before confirming.
func (s *Session) revalidatePromotionLocked(ctx context.Context) error {
	if s.promotion == nil {
		return nil
	}

	current, err := s.svc.promos.Validate(ctx, s.promotion.Code)
	if errors.Is(err, domain.ErrInvalidPromoCode) {
		s.svc.log.Info("promotion no longer valid",
			zap.String("checkout_id", s.id),
			zap.String("code", s.promotion.Code))
		s.promotion = nil
		return err
	}
	if err != nil {
		return err
	}

	if current.DiscountPercent != s.promotion.DiscountPercent {
		s.promotion = &current
		return errors.Wrapf(domain.ErrPriceChanged, "promotion %s is now %d%%", current.Code, current.DiscountPercent)
	}
	return nil
}
