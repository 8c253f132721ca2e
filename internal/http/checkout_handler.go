package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fjod/storefront-checkout/domain"
	"github.com/fjod/storefront-checkout/internal/checkout"
)

// CheckoutService is the part of the storefront the checkout endpoints use.
type CheckoutService interface {
	StartCheckout(userID string) (*checkout.Session, error)
	Checkout(userID string) (*checkout.Session, error)
	CancelCheckout(userID string) error
	ConfirmOrder(ctx context.Context, userID string) (domain.Order, error)
}

// IdempotencyStore deduplicates confirmation requests.
type IdempotencyStore interface {
	Key(operation, userID, key string) string
	Seen(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

type CheckoutHandler struct {
	svc     CheckoutService
	idem    IdempotencyStore
	timeout time.Duration
	log     *zap.Logger
}

func NewCheckoutHandler(svc CheckoutService, idem IdempotencyStore, timeout time.Duration, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		svc:     svc,
		idem:    idem,
		timeout: timeout,
		log:     log,
	}
}

type PromotionRequestDTO struct {
	Code string `json:"code"`
}

type CheckoutResponseDTO struct {
	CheckoutID      string                   `json:"checkout_id"`
	Step            domain.CheckoutStep      `json:"step"`
	Items           []domain.LineItem        `json:"items"`
	PriceBreakdown  domain.PriceBreakdown    `json:"price_breakdown"`
	ShippingOptions []domain.ShippingOption  `json:"shipping_options"`
	Shipping        *domain.ShippingInfo     `json:"shipping,omitempty"`
	Payment         *domain.PaymentSelection `json:"payment,omitempty"`
	Promotion       *domain.PromotionCode    `json:"promotion,omitempty"`
	Order           *domain.Order            `json:"order,omitempty"`
}

func toCheckoutDTO(s *checkout.Session) (CheckoutResponseDTO, error) {
	breakdown, err := s.CurrentBreakdown()
	if err != nil {
		return CheckoutResponseDTO{}, err
	}
	dto := CheckoutResponseDTO{
		CheckoutID:      s.ID(),
		Step:            s.Step(),
		Items:           s.Snapshot().Items,
		PriceBreakdown:  breakdown,
		ShippingOptions: s.ShippingOptions(),
	}
	if info, ok := s.Shipping(); ok {
		dto.Shipping = &info
	}
	if sel, ok := s.Payment(); ok {
		dto.Payment = &sel
	}
	if promo, ok := s.Promotion(); ok {
		dto.Promotion = &promo
	}
	if order, ok := s.Order(); ok {
		dto.Order = &order
	}
	return dto, nil
}

func (h *CheckoutHandler) respondSession(w http.ResponseWriter, status int, s *checkout.Session) {
	dto, err := toCheckoutDTO(s)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, status, dto)
}

// session resolves the caller's checkout, answering the request itself when
// that fails.
func (h *CheckoutHandler) session(w http.ResponseWriter, r *http.Request) (*checkout.Session, bool) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return nil, false
	}
	s, err := h.svc.Checkout(userID)
	if err != nil {
		handleError(w, err)
		return nil, false
	}
	return s, true
}

// POST /api/v1/checkout
func (h *CheckoutHandler) InitiateCheckout(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	s, err := h.svc.StartCheckout(userID)
	if err != nil {
		handleError(w, err)
		return
	}
	h.respondSession(w, http.StatusCreated, s)
}

// GET /api/v1/checkout
func (h *CheckoutHandler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.respondSession(w, http.StatusOK, s)
}

// DELETE /api/v1/checkout
func (h *CheckoutHandler) CancelCheckout(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.Cancel(); err != nil {
		handleError(w, err)
		return
	}
	h.respondSession(w, http.StatusOK, s)
}

// POST /api/v1/checkout/shipping
func (h *CheckoutHandler) SubmitShipping(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req domain.ShippingInfo
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := s.SubmitShipping(req); err != nil {
		handleError(w, err)
		return
	}
	h.respondSession(w, http.StatusOK, s)
}

// POST /api/v1/checkout/payment
func (h *CheckoutHandler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req domain.PaymentSelection
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := s.SubmitPayment(req); err != nil {
		handleError(w, err)
		return
	}
	h.respondSession(w, http.StatusOK, s)
}

// POST /api/v1/checkout/back
func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.Back(); err != nil {
		handleError(w, err)
		return
	}
	h.respondSession(w, http.StatusOK, s)
}

// POST /api/v1/checkout/promotion
func (h *CheckoutHandler) ApplyPromotion(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req PromotionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if _, err := s.ApplyPromotion(ctx, req.Code); err != nil {
		handleError(w, err)
		return
	}
	h.respondSession(w, http.StatusOK, s)
}

// DELETE /api/v1/checkout/promotion
func (h *CheckoutHandler) RemovePromotion(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if _, err := s.RemovePromotion(); err != nil {
		handleError(w, err)
		return
	}
	h.respondSession(w, http.StatusOK, s)
}

// POST /api/v1/checkout/confirm
func (h *CheckoutHandler) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	idemKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if idemKey == "" {
		respondError(w, http.StatusBadRequest, "missing_idempotency_key", "Idempotency-Key header is required")
		return
	}
	key := h.idem.Key("confirm", userID, idemKey)

	seen, err := h.idem.Seen(ctx, key)
	if err != nil {
		h.log.Error("idempotency check failed", zap.String("user_id", userID), zap.Error(err))
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", "please try again")
		return
	}
	if seen {
		respondError(w, http.StatusConflict, "already_processed", domain.ErrAlreadyCompleted.Error())
		return
	}

	order, err := h.svc.ConfirmOrder(ctx, userID)
	if err != nil {
		// nothing was placed, so the same key may be retried
		if errRelease := h.idem.Release(context.WithoutCancel(ctx), key); errRelease != nil {
			h.log.Warn("failed to release idempotency key", zap.String("key", key), zap.Error(errRelease))
		}
		handleError(w, err)
		return
	}

	h.log.Info("order confirmed",
		zap.String("user_id", userID),
		zap.String("order_id", order.ID),
		zap.String("request_id", getRequestID(r.Context())))
	respondJSON(w, http.StatusCreated, order)
}
