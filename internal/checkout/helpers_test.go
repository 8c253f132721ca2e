package checkout

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fjod/storefront-checkout/domain"
	"github.com/fjod/storefront-checkout/internal/cart"
	"github.com/fjod/storefront-checkout/internal/orderid"
	"github.com/fjod/storefront-checkout/internal/payment"
	"github.com/fjod/storefront-checkout/internal/pricing"
	"github.com/fjod/storefront-checkout/internal/promotion"
)

var fixedNow = time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)

// mockPayments records every charge and answers with result/err.
type mockPayments struct {
	m        sync.Mutex
	requests []payment.ChargeRequest
	result   payment.ChargeResult
	err      error
}

func (m *mockPayments) Charge(_ context.Context, req payment.ChargeRequest) (payment.ChargeResult, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.requests = append(m.requests, req)
	if m.err != nil {
		return payment.ChargeResult{}, m.err
	}
	return m.result, nil
}

func (m *mockPayments) set(result payment.ChargeResult, err error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.result = result
	m.err = err
}

func (m *mockPayments) calls() []payment.ChargeRequest {
	m.m.Lock()
	defer m.m.Unlock()
	return append([]payment.ChargeRequest(nil), m.requests...)
}

func approved() payment.ChargeResult {
	return payment.ChargeResult{TransactionID: "TXN-TEST", Status: payment.ChargeStatusSuccess}
}

type fixture struct {
	svc      *Service
	cart     *cart.Store
	registry *promotion.MemoryRegistry
	payments *mockPayments
}

func newFixture(t testing.TB) *fixture {
	policy, err := pricing.NewPolicy(pricing.DefaultConfig())
	require.NoError(t, err)
	registry, err := promotion.NewMemoryRegistry(
		domain.PromotionCode{Code: "SAVE10", DiscountPercent: 10},
		domain.PromotionCode{Code: "WELCOME15", DiscountPercent: 15},
		domain.PromotionCode{Code: "FIRST20", DiscountPercent: 20},
	)
	require.NoError(t, err)
	payments := &mockPayments{result: approved()}

	svc := NewService(policy, promotion.NewValidator(registry), orderid.NewGenerator(), payments, zap.NewNop()).
		WithClock(func() time.Time { return fixedNow })

	return &fixture{
		svc:      svc,
		cart:     cart.NewStore(),
		registry: registry,
		payments: payments,
	}
}

func (f *fixture) add(t testing.TB, id int64, price string, quantity int) {
	require.NoError(t, f.cart.AddItem(domain.Product{
		ID:    id,
		Name:  "product",
		Price: decimal.RequireFromString(price),
		Stock: 10,
	}, quantity))
}

func validShipping() domain.ShippingInfo {
	return domain.ShippingInfo{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "+1 555 0100",
		Address:   "12 Analytical Row",
		City:      "London",
		State:     "LDN",
		ZipCode:   "10001",
		Method:    domain.ShippingStandard,
	}
}

func validCard() domain.PaymentSelection {
	return domain.PaymentSelection{
		Method: domain.PaymentCard,
		Card: &domain.CardDetails{
			Number:     "4242 4242 4242 4242",
			Expiry:     "12/28",
			CVV:        "123",
			HolderName: "Ada Lovelace",
		},
	}
}

// sessionAtReview starts a checkout for a $30 x 2 cart and walks it to REVIEW.
func (f *fixture) sessionAtReview(t testing.TB) *Session {
	f.add(t, 1, "30", 2)
	s, err := f.svc.InitiateCheckout(f.cart)
	require.NoError(t, err)
	require.NoError(t, s.SubmitShipping(validShipping()))
	require.NoError(t, s.SubmitPayment(validCard()))
	require.Equal(t, domain.CheckoutStepReview, s.Step())
	return s
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
