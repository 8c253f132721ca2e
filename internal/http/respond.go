package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/fjod/storefront-checkout/domain"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Warn("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleError converts a domain error to its HTTP status and code.
func handleError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:  "validation failed",
			Code:   "validation_failed",
			Fields: verr.Fields,
		})
		return
	}

	// a charge cut short by the request deadline is a timeout, not a refusal
	if errors.Is(err, context.DeadlineExceeded) {
		respondError(w, http.StatusGatewayTimeout, "timeout", rootMessage(err))
		return
	}

	var cerr *domain.CapabilityFailureError
	if errors.As(err, &cerr) {
		code := "payment_failed"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			code = "payment_unavailable"
		}
		respondJSON(w, http.StatusPaymentRequired, ErrorResponse{
			Error:   cerr.Reason,
			Code:    code,
			Details: cerr.Capability,
		})
		return
	}

	var (
		httpStatus int
		code       string
	)
	switch {
	case errors.Is(err, domain.ErrAlreadyCompleted):
		httpStatus, code = http.StatusConflict, "already_processed"
	case errors.Is(err, domain.ErrOutOfStock):
		httpStatus, code = http.StatusConflict, "out_of_stock"
	case errors.Is(err, domain.ErrEmptyCart):
		httpStatus, code = http.StatusConflict, "empty_cart"
	case errors.Is(err, domain.ErrIllegalTransition):
		httpStatus, code = http.StatusConflict, "illegal_transition"
	case errors.Is(err, domain.ErrSessionCancelled):
		httpStatus, code = http.StatusConflict, "checkout_cancelled"
	case errors.Is(err, domain.ErrCheckoutInProgress):
		httpStatus, code = http.StatusConflict, "checkout_in_progress"
	case errors.Is(err, domain.ErrPriceChanged):
		httpStatus, code = http.StatusConflict, "price_changed"
	case errors.Is(err, domain.ErrInvalidQuantity):
		httpStatus, code = http.StatusBadRequest, "invalid_quantity"
	case errors.Is(err, domain.ErrInvalidPromoCode):
		httpStatus, code = http.StatusBadRequest, "invalid_promo_code"
	case errors.Is(err, domain.ErrUnknownShippingMethod):
		httpStatus, code = http.StatusBadRequest, "invalid_shipping_method"
	case errors.Is(err, domain.ErrItemNotInCart):
		httpStatus, code = http.StatusNotFound, "item_not_in_cart"
	case errors.Is(err, domain.ErrProductNotFound):
		httpStatus, code = http.StatusNotFound, "product_not_found"
	case errors.Is(err, domain.ErrNoActiveCheckout):
		httpStatus, code = http.StatusNotFound, "no_active_checkout"
	default:
		zap.L().Error("unhandled error", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	// sentinel text is user facing; wrapping context is for logs only
	respondError(w, httpStatus, code, rootMessage(err))
}

func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
