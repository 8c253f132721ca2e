package payment

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type StatusSource interface {
	GetStatus() (ChargeStatus, RefusalReason, string)
}

// RandomStatus approves about 95% of charges and refuses the rest.
type RandomStatus struct{}

func (RandomStatus) GetStatus() (ChargeStatus, RefusalReason, string) {
	randomInt := rand.Intn(101) // 0..100 inclusive
	return calcStatus(randomInt)
}

func calcStatus(randomInt int) (ChargeStatus, RefusalReason, string) {
	if randomInt < 95 {
		return ChargeStatusSuccess, RefusalUnknown, ""
	}
	otherReason := randomInt - 95
	if otherReason == 0 || otherReason > 5 {
		return ChargeStatusFailed, RefusalUnknown, "unknown reason"
	}

	return ChargeStatusFailed, RefusalReason(otherReason), ""
}

// FixedStatus always answers with the same outcome.
type FixedStatus struct {
	Status  ChargeStatus
	Refusal RefusalReason
	Other   string
}

func (f FixedStatus) GetStatus() (ChargeStatus, RefusalReason, string) {
	return f.Status, f.Refusal, f.Other
}

// MockGateway simulates a payment processor. It performs no I/O.
type MockGateway struct {
	status  StatusSource
	latency time.Duration
	log     *zap.Logger
}

func NewMockGateway(s StatusSource, latency time.Duration, log *zap.Logger) *MockGateway {
	return &MockGateway{
		status:  s,
		latency: latency,
		log:     log,
	}
}

func (g *MockGateway) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	if g.latency > 0 {
		select {
		case <-time.After(g.latency):
		case <-ctx.Done():
			return ChargeResult{}, ctx.Err()
		}
	}

	status, refusal, other := g.status.GetStatus()
	result := ChargeResult{
		TransactionID: fmt.Sprintf("TXN-%s", uuid.NewString()),
		Status:        status,
		Refusal:       refusal,
		OtherReason:   other,
	}

	g.log.Info("charge processed",
		zap.String("checkout_id", req.CheckoutID),
		zap.String("order_id", req.OrderID),
		zap.String("method", req.Method.String()),
		zap.String("amount", req.Amount.StringFixed(2)),
		zap.String("status", string(status)))
	return result, nil
}
