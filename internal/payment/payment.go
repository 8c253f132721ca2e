package payment

import (
	"github.com/shopspring/decimal"

	"github.com/fjod/storefront-checkout/domain"
)

type ChargeStatus string

const (
	ChargeStatusSuccess ChargeStatus = "SUCCESS"
	ChargeStatusFailed  ChargeStatus = "FAILED"
)

type RefusalReason int

const (
	RefusalUnknown RefusalReason = iota
	RefusalInsufficientFunds
	RefusalCardDeclined
	RefusalCardExpired
	RefusalSuspectedFraud
	RefusalLimitExceeded
)

func (r RefusalReason) String() string {
	switch r {
	case RefusalInsufficientFunds:
		return "insufficient funds"
	case RefusalCardDeclined:
		return "card declined"
	case RefusalCardExpired:
		return "card expired"
	case RefusalSuspectedFraud:
		return "suspected fraud"
	case RefusalLimitExceeded:
		return "limit exceeded"
	default:
		return "unknown"
	}
}

type ChargeRequest struct {
	CheckoutID string
	OrderID    string
	Amount     decimal.Decimal
	Method     domain.PaymentMethod
	Card       *domain.CardDetails
}

// ChargeResult describes a processed charge. A refused charge is a result, not
// an error; errors mean the processor could not be reached.
type ChargeResult struct {
	TransactionID string
	Status        ChargeStatus
	Refusal       RefusalReason
	OtherReason   string
}

func (r ChargeResult) Succeeded() bool {
	return r.Status == ChargeStatusSuccess
}

// FailureReason renders a refusal for display.
func (r ChargeResult) FailureReason() string {
	if r.OtherReason != "" {
		return r.OtherReason
	}
	return r.Refusal.String()
}
