package domain

import "github.com/shopspring/decimal"

// LineItem is one product entry in a cart. UnitPrice and StockLimit are captured
// when the product is first added and never change afterwards.
type LineItem struct {
	ProductID  int64           `json:"product_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	StockLimit int             `json:"stock_limit"`
}

func (i LineItem) Total() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartSnapshot is a point-in-time copy of a cart. Items keep insertion order.
// Counts and sums are always derived from Items.
type CartSnapshot struct {
	Items []LineItem `json:"items"`
}

func (s CartSnapshot) ItemCount() int {
	count := 0
	for _, item := range s.Items {
		count += item.Quantity
	}
	return count
}

func (s CartSnapshot) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range s.Items {
		subtotal = subtotal.Add(item.Total())
	}
	return subtotal
}

func (s CartSnapshot) IsEmpty() bool {
	return len(s.Items) == 0
}

// Clone returns a copy that shares no backing array with s.
func (s CartSnapshot) Clone() CartSnapshot {
	if s.Items == nil {
		return CartSnapshot{}
	}
	items := make([]LineItem, len(s.Items))
	copy(items, s.Items)
	return CartSnapshot{Items: items}
}
