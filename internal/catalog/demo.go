package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/fjod/storefront-checkout/domain"
)

// DemoProducts is the catalog served when no other source is configured.
func DemoProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Wireless Headphones", Price: decimal.RequireFromString("79.99"), Stock: 25, Category: "electronics"},
		{ID: 2, Name: "Smart Watch", Price: decimal.RequireFromString("199.00"), Stock: 10, Category: "electronics"},
		{ID: 3, Name: "Cotton T-Shirt", Price: decimal.RequireFromString("19.99"), Stock: 100, Category: "clothing"},
		{ID: 4, Name: "Running Shoes", Price: decimal.RequireFromString("89.50"), Stock: 30, Category: "clothing"},
		{ID: 5, Name: "Coffee Mug", Price: decimal.RequireFromString("12.00"), Stock: 60, Category: "home"},
		{ID: 6, Name: "Desk Lamp", Price: decimal.RequireFromString("34.95"), Stock: 0, Category: "home"},
	}
}
