package domain

import "github.com/shopspring/decimal"

type ShippingMethod string

const (
	ShippingStandard ShippingMethod = "standard"
	ShippingExpress  ShippingMethod = "express"
)

func (m ShippingMethod) IsValid() bool {
	return m == ShippingStandard || m == ShippingExpress
}

func (m ShippingMethod) DeliveryEstimate() string {
	switch m {
	case ShippingExpress:
		return "2-3 business days"
	case ShippingStandard:
		return "5-7 business days"
	default:
		return ""
	}
}

func (m ShippingMethod) String() string {
	return string(m)
}

// PriceBreakdown is derived from a cart snapshot on demand and never cached
// across cart mutations.
type PriceBreakdown struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	ShippingCost   decimal.Decimal `json:"shipping_cost"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
}

// ShippingOption is one selectable shipping method priced for a given cart.
type ShippingOption struct {
	Method           ShippingMethod  `json:"method"`
	Cost             decimal.Decimal `json:"cost"`
	DeliveryEstimate string          `json:"delivery_estimate"`
}
