package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fjod/storefront-checkout/domain"
	"github.com/fjod/storefront-checkout/internal/payment"
	"github.com/fjod/storefront-checkout/internal/pricing"
	"github.com/fjod/storefront-checkout/internal/promotion"
)

// Cart is the live cart a checkout is started from.
// Consumers define this interface, not the store implementation.
type Cart interface {
	Snapshot() domain.CartSnapshot
	Clear()
}

// PaymentCapability authorizes the order total. It is called once per
// confirmation attempt.
type PaymentCapability interface {
	Charge(ctx context.Context, req payment.ChargeRequest) (payment.ChargeResult, error)
}

type IDGenerator interface {
	Generate() string
}

// Service holds the collaborators shared by every checkout session.
type Service struct {
	pricing  *pricing.Policy
	promos   *promotion.Validator
	ids      IDGenerator
	payments PaymentCapability
	validate *formValidator
	log      *zap.Logger
	now      func() time.Time
}

func NewService(
	policy *pricing.Policy,
	promos *promotion.Validator,
	ids IDGenerator,
	payments PaymentCapability,
	log *zap.Logger) *Service {
	return &Service{
		pricing:  policy,
		promos:   promos,
		ids:      ids,
		payments: payments,
		validate: newFormValidator(),
		log:      log,
		now:      time.Now,
	}
}

// WithClock replaces the wall clock used for card expiry checks and order
// timestamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// InitiateCheckout freezes the cart contents and opens a session at the
// shipping step. Later cart changes do not reach the session.
func (s *Service) InitiateCheckout(cart Cart) (*Session, error) {
	snapshot := cart.Snapshot()
	if snapshot.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}

	session := &Session{
		id:       uuid.NewString(),
		svc:      s,
		cart:     cart,
		snapshot: snapshot.Clone(),
		step:     domain.CheckoutStepShipping,
	}
	s.log.Info("checkout initiated",
		zap.String("checkout_id", session.id),
		zap.Int("items", snapshot.ItemCount()),
		zap.String("subtotal", snapshot.Subtotal().StringFixed(2)))
	return session, nil
}
