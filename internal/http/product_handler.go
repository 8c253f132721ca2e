package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fjod/storefront-checkout/domain"
)

// ProductLister is the catalog read side the product endpoint uses.
type ProductLister interface {
	List(ctx context.Context) []domain.Product
}

type ProductHandler struct {
	catalog ProductLister
}

func NewProductHandler(catalog ProductLister) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

type ProductResponse struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	Stock    int             `json:"stock"`
	InStock  bool            `json:"in_stock"`
}

type ProductsResponse struct {
	Products []ProductResponse `json:"products"`
}

// Get lists the catalog, optionally narrowed with ?category=.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	products := make([]ProductResponse, 0)
	for _, p := range h.catalog.List(r.Context()) {
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		products = append(products, ProductResponse{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Category: p.Category,
			Stock:    p.Stock,
			InStock:  p.InStock(),
		})
	}

	respondJSON(w, http.StatusOK, &ProductsResponse{Products: products})
}
