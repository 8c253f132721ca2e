package payment

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// Charger is anything that can charge a payment.
type Charger interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
}

type BreakerSettings struct {
	Name                string
	MaxHalfOpenRequests uint32
	// Timeout is how long the breaker stays open before probing again.
	Timeout             time.Duration
	ConsecutiveFailures uint32
}

func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:                "payment-gateway",
		MaxHalfOpenRequests: 1,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 5,
	}
}

// BreakerGateway fails fast once the wrapped processor keeps erroring.
// Refused charges count as successful calls and never trip the breaker.
type BreakerGateway struct {
	next Charger
	cb   *gobreaker.CircuitBreaker[ChargeResult]
}

func NewBreakerGateway(next Charger, s BreakerSettings, log *zap.Logger) *BreakerGateway {
	cb := gobreaker.NewCircuitBreaker[ChargeResult](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxHalfOpenRequests,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.ConsecutiveFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("payment breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return &BreakerGateway{next: next, cb: cb}
}

func (b *BreakerGateway) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	return b.cb.Execute(func() (ChargeResult, error) {
		return b.next.Charge(ctx, req)
	})
}

func (b *BreakerGateway) State() gobreaker.State {
	return b.cb.State()
}
