package publisher

import (
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/fjod/storefront-checkout/domain"
)

const EventTypeOrderPlaced = "order.placed"

// OutboxEvent is one pending message. AggregateID becomes the Kafka key so
// events for the same order stay ordered.
type OutboxEvent struct {
	ID          int
	AggregateID string
	EventType   string
	Payload     json.RawMessage
	CreatedAt   time.Time
	Attempts    int
	Processed   bool
}

type orderPlacedItem struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderPlaced is the payload of an order.placed event. Card data never
// appears here, only the payment method.
type OrderPlaced struct {
	OrderID       string                `json:"order_id"`
	CheckoutID    string                `json:"checkout_id"`
	UserID        string                `json:"user_id"`
	Items         []orderPlacedItem     `json:"items"`
	Breakdown     domain.PriceBreakdown `json:"price_breakdown"`
	PaymentMethod domain.PaymentMethod  `json:"payment_method"`
	PromotionCode string                `json:"promotion_code,omitempty"`
	TransactionID string                `json:"transaction_id"`
	CustomerName  string                `json:"customer_name"`
	Email         string                `json:"email"`
	CreatedAt     time.Time             `json:"created_at"`
}

func newOrderPlaced(userID string, order domain.Order) OrderPlaced {
	items := make([]orderPlacedItem, 0, len(order.LineItems))
	for _, li := range order.LineItems {
		items = append(items, orderPlacedItem{
			ProductID: li.ProductID,
			Name:      li.Name,
			Quantity:  li.Quantity,
			UnitPrice: li.UnitPrice,
		})
	}
	return OrderPlaced{
		OrderID:       order.ID,
		CheckoutID:    order.CheckoutID,
		UserID:        userID,
		Items:         items,
		Breakdown:     order.Breakdown,
		PaymentMethod: order.Payment.Method,
		PromotionCode: order.PromotionCode,
		TransactionID: order.TransactionID,
		CustomerName:  order.Shipping.FullName(),
		Email:         order.Shipping.Email,
		CreatedAt:     order.CreatedAt,
	}
}

func marshalOrderPlaced(userID string, order domain.Order) (json.RawMessage, error) {
	payload, err := json.Marshal(newOrderPlaced(userID, order))
	if err != nil {
		return nil, errors.Wrap(err, "marshal order placed")
	}
	return payload, nil
}
