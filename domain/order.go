package domain

import "time"

// Order is produced once by a successful checkout and never mutated afterwards.
type Order struct {
	ID                string           `json:"order_id"`
	CheckoutID        string           `json:"checkout_id"`
	LineItems         []LineItem       `json:"line_items"`
	Breakdown         PriceBreakdown   `json:"price_breakdown"`
	Shipping          ShippingInfo     `json:"shipping"`
	Payment           PaymentSelection `json:"payment"`
	PromotionCode     string           `json:"promotion_code,omitempty"`
	TransactionID     string           `json:"transaction_id"`
	EstimatedDelivery string           `json:"estimated_delivery"`
	CreatedAt         time.Time        `json:"created_at"`
}

// Copy returns an Order sharing no mutable state with o.
func (o Order) Copy() Order {
	items := make([]LineItem, len(o.LineItems))
	copy(items, o.LineItems)
	o.LineItems = items
	if o.Payment.Card != nil {
		card := *o.Payment.Card
		o.Payment.Card = &card
	}
	return o
}
