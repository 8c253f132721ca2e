package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-faster/errors"
)

var (
	ErrOutOfStock            = errors.New("product is out of stock")
	ErrInvalidQuantity       = errors.New("invalid quantity")
	ErrItemNotInCart         = errors.New("item not in cart")
	ErrInvalidPromoCode      = errors.New("invalid promo code")
	ErrUnknownShippingMethod = errors.New("unknown shipping method")
	ErrEmptyCart             = errors.New("cart is empty, nothing to checkout")
	ErrAlreadyCompleted      = errors.New("order already processed")
	ErrIllegalTransition     = errors.New("illegal transition of checkout step")
	ErrSessionCancelled      = errors.New("checkout session was cancelled")
	ErrNoActiveCheckout      = errors.New("no active checkout")
	ErrCheckoutInProgress    = errors.New("checkout already in progress")
	ErrProductNotFound       = errors.New("product not found")
	ErrPriceChanged          = errors.New("price changed since review")
)

// ValidationError carries per-field messages for a rejected form.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// CapabilityFailureError reports that an external capability (payment
// authorization, order submission) refused or failed the request.
type CapabilityFailureError struct {
	Capability string
	Reason     string
	Err        error
}

func (e *CapabilityFailureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Capability, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Capability, e.Reason)
}

func (e *CapabilityFailureError) Unwrap() error {
	return e.Err
}
