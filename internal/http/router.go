package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter mounts the storefront API on a chi router.
func NewRouter(products *ProductHandler, cart *CartHandler, checkout *CheckoutHandler, requestTimeout time.Duration, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(LoggerMiddleware(log))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(MockAuthMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", products.Get)
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cart.GetCart)
			r.Delete("/", cart.ClearCart)
			r.Post("/items", cart.AddItem)
			r.Put("/items/{product_id}", cart.UpdateQuantity)
			r.Delete("/items/{product_id}", cart.RemoveItem)
		})
		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", checkout.InitiateCheckout)
			r.Get("/", checkout.GetCheckout)
			r.Delete("/", checkout.CancelCheckout)
			r.Post("/shipping", checkout.SubmitShipping)
			r.Post("/payment", checkout.SubmitPayment)
			r.Post("/back", checkout.Back)
			r.Post("/promotion", checkout.ApplyPromotion)
			r.Delete("/promotion", checkout.RemovePromotion)
			r.Post("/confirm", checkout.ConfirmOrder)
		})
	})

	return r
}
