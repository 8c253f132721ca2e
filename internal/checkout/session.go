package checkout

import (
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/fjod/storefront-checkout/domain"
)

// Session is one attempt to turn a cart into an order. Its transition methods
// are the only way the step changes; a failed call never moves it.
type Session struct {
	mu sync.Mutex

	id       string
	svc      *Service
	cart     Cart
	snapshot domain.CartSnapshot

	step      domain.CheckoutStep
	shipping  *domain.ShippingInfo
	payment   *domain.PaymentSelection
	promotion *domain.PromotionCode
	order     *domain.Order
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Step() domain.CheckoutStep {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Snapshot returns the cart contents frozen at checkout start.
func (s *Session) Snapshot() domain.CartSnapshot {
	return s.snapshot.Clone()
}

func (s *Session) Shipping() (domain.ShippingInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shipping == nil {
		return domain.ShippingInfo{}, false
	}
	return *s.shipping, true
}

// Payment returns the stored selection with card data redacted.
func (s *Session) Payment() (domain.PaymentSelection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.payment == nil {
		return domain.PaymentSelection{}, false
	}
	return s.payment.Redacted(), true
}

func (s *Session) Promotion() (domain.PromotionCode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.promotion == nil {
		return domain.PromotionCode{}, false
	}
	return *s.promotion, true
}

// Order returns the placed order once the session is complete.
func (s *Session) Order() (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.order == nil {
		return domain.Order{}, false
	}
	return s.order.Copy(), true
}

// CurrentBreakdown prices the frozen snapshot with the chosen shipping method
// (standard until shipping is submitted) and the applied promotion.
func (s *Session) CurrentBreakdown() (domain.PriceBreakdown, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.breakdownLocked()
}

func (s *Session) ShippingOptions() []domain.ShippingOption {
	return s.svc.pricing.ShippingOptions(s.snapshot)
}

// Back returns to the previous step, keeping everything entered so far.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureOpenLocked(); err != nil {
		return err
	}
	prev, ok := s.step.Previous()
	if !ok {
		return errors.Wrapf(domain.ErrIllegalTransition, "no step before %s", s.step)
	}
	return s.transitionLocked(prev)
}

// Cancel abandons the session. The live cart is left as it is.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureOpenLocked(); err != nil {
		return err
	}
	return s.transitionLocked(domain.CheckoutStepCancelled)
}

func (s *Session) breakdownLocked() (domain.PriceBreakdown, error) {
	method := domain.ShippingStandard
	if s.shipping != nil {
		method = s.shipping.Method
	}
	return s.svc.pricing.ComputeBreakdown(s.snapshot, method, s.promotion)
}

// ensureOpenLocked reports the terminal-state error for a closed session.
func (s *Session) ensureOpenLocked() error {
	switch s.step {
	case domain.CheckoutStepComplete:
		return domain.ErrAlreadyCompleted
	case domain.CheckoutStepCancelled:
		return domain.ErrSessionCancelled
	}
	return nil
}

// requireStepLocked fails unless the session is open and at want.
func (s *Session) requireStepLocked(want domain.CheckoutStep) error {
	if err := s.ensureOpenLocked(); err != nil {
		return err
	}
	if s.step != want {
		return errors.Wrapf(domain.ErrIllegalTransition, "expected step %s, session is at %s", want, s.step)
	}
	return nil
}

func (s *Session) transitionLocked(to domain.CheckoutStep) error {
	if !domain.CanTransitionTo(s.step, to) {
		return errors.Wrapf(domain.ErrIllegalTransition, "%s -> %s", s.step, to)
	}
	s.svc.log.Info("checkout step changed",
		zap.String("checkout_id", s.id),
		zap.String("from", s.step.String()),
		zap.String("to", to.String()))
	s.step = to
	return nil
}
