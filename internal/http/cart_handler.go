package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/fjod/storefront-checkout/domain"
)

// CartService is the part of the storefront the cart endpoints use.
type CartService interface {
	GetCart(userID string) domain.CartSnapshot
	AddItem(ctx context.Context, userID string, productID int64, quantity int) (domain.CartSnapshot, error)
	UpdateQuantity(userID string, productID int64, quantity int) (domain.CartSnapshot, error)
	RemoveItem(userID string, productID int64) domain.CartSnapshot
	ClearCart(userID string)
}

type CartHandler struct {
	svc     CartService
	timeout time.Duration
}

func NewCartHandler(svc CartService, timeout time.Duration) *CartHandler {
	return &CartHandler{
		svc:     svc,
		timeout: timeout,
	}
}

// AddItemRequestDTO defaults Quantity to one when the field is absent.
type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponseDTO struct {
	Items     []domain.LineItem `json:"items"`
	ItemCount int               `json:"item_count"`
	Subtotal  decimal.Decimal   `json:"subtotal"`
}

func toCartDTO(snap domain.CartSnapshot) CartResponseDTO {
	items := snap.Items
	if items == nil {
		items = []domain.LineItem{}
	}
	return CartResponseDTO{
		Items:     items,
		ItemCount: snap.ItemCount(),
		Subtotal:  snap.Subtotal(),
	}
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	respondJSON(w, http.StatusOK, toCartDTO(h.svc.GetCart(userID)))
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	req := AddItemRequestDTO{Quantity: 1}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	snap, err := h.svc.AddItem(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toCartDTO(snap))
}

// PUT /api/v1/cart/items/{product_id}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	snap, err := h.svc.UpdateQuantity(userID, productID, req.Quantity)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toCartDTO(snap))
}

// DELETE /api/v1/cart/items/{product_id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, toCartDTO(h.svc.RemoveItem(userID, productID)))
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	h.svc.ClearCart(userID)
	respondJSON(w, http.StatusOK, toCartDTO(domain.CartSnapshot{}))
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return 0, false
	}
	return productID, true
}
