package checkout

import (
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fjod/storefront-checkout/domain"
)

// SubmitPayment validates the method-specific fields and, on success, stores
// the selection and moves to the review step. Redirect methods carry no fields.
func (s *Session) SubmitPayment(sel domain.PaymentSelection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStepLocked(domain.CheckoutStepPayment); err != nil {
		return err
	}

	sel = normalizePayment(sel)
	if err := s.validatePayment(sel); err != nil {
		s.svc.log.Info("payment rejected", zap.String("checkout_id", s.id), zap.Error(err))
		return err
	}

	if err := s.transitionLocked(domain.CheckoutStepReview); err != nil {
		return err
	}
	s.payment = &sel
	return nil
}

// normalizePayment trims input and returns a selection that shares no memory
// with the caller's. Card fields sent with a redirect method are dropped.
func normalizePayment(sel domain.PaymentSelection) domain.PaymentSelection {
	sel.Method = domain.PaymentMethod(strings.ToLower(strings.TrimSpace(string(sel.Method))))
	if sel.Card == nil || sel.Method.IsRedirect() {
		sel.Card = nil
		return sel
	}
	card := *sel.Card
	card.Number = strings.TrimSpace(card.Number)
	card.Expiry = strings.TrimSpace(card.Expiry)
	card.CVV = strings.TrimSpace(card.CVV)
	card.HolderName = strings.TrimSpace(card.HolderName)
	sel.Card = &card
	return sel
}

func (s *Session) validatePayment(sel domain.PaymentSelection) error {
	if !sel.Method.IsValid() {
		return domain.NewValidationError(map[string]string{
			"method": "please choose a payment method",
		})
	}
	if sel.Method.IsRedirect() {
		return nil
	}

	if sel.Card == nil {
		return domain.NewValidationError(map[string]string{
			"card": "please enter your card details",
		})
	}
	if err := s.svc.validate.Struct(*sel.Card); err != nil {
		return err
	}
	if cardExpired(sel.Card.Expiry, s.svc.now()) {
		return domain.NewValidationError(map[string]string{
			"expiry_date": "card has expired",
		})
	}
	return nil
}

// cardExpired reports whether an MM/YY expiry lies in the past. A card is
// valid through the last day of its expiry month.
func cardExpired(expiry string, now time.Time) bool {
	mm, yy, ok := strings.Cut(expiry, "/")
	if !ok {
		return true
	}
	month, err := strconv.Atoi(mm)
	if err != nil {
		return true
	}
	year, err := strconv.Atoi(yy)
	if err != nil {
		return true
	}
	validUntil := time.Date(2000+year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
	return !now.UTC().Before(validUntil)
}
