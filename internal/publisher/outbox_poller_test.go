package publisher

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fjod/storefront-checkout/domain"
)

type mockWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
}

func (w *mockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *mockWriter) written() []kafka.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]kafka.Message(nil), w.messages...)
}

func (w *mockWriter) fail(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.err = err
}

type failingOutbox struct{ MemoryOutbox }

func (*failingOutbox) GetUnprocessedEvents(context.Context, int) ([]*OutboxEvent, error) {
	return nil, errors.New("outbox unavailable")
}

func testOrder(id string) domain.Order {
	return domain.Order{
		ID:         id,
		CheckoutID: "checkout-123",
		LineItems: []domain.LineItem{
			{ProductID: 1, Name: "Mug", UnitPrice: decimal.RequireFromString("30"), Quantity: 2},
		},
		Breakdown: domain.PriceBreakdown{Total: decimal.RequireFromString("64.80")},
		Shipping:  domain.ShippingInfo{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		Payment: domain.PaymentSelection{
			Method: domain.PaymentCard,
			Card:   &domain.CardDetails{Number: "**** **** **** 4242"},
		},
		TransactionID: "TXN-1",
		CreatedAt:     time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC),
	}
}

func TestOutboxPoller_PublishesEventsToKafka(t *testing.T) {
	outbox := NewMemoryOutbox()
	require.NoError(t, outbox.PublishOrderPlaced(context.Background(), "user-456", testOrder("ORD-1")))
	writer := &mockWriter{}
	poller := NewOutboxPoller(outbox, writer, zap.NewNop())

	poller.processUnpublishedEvents(context.Background())

	msgs := writer.written()
	require.Len(t, msgs, 1)
	msg := msgs[0]
	assert.Equal(t, "ORD-1", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, EventTypeOrderPlaced, string(msg.Headers[0].Value))

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Value, &payload))
	assert.Equal(t, "ORD-1", payload["order_id"])
	assert.Equal(t, "checkout-123", payload["checkout_id"])
	assert.Equal(t, "user-456", payload["user_id"])
	assert.Equal(t, "card", payload["payment_method"])
	assert.Equal(t, "Ada Lovelace", payload["customer_name"])
	assert.NotContains(t, string(msg.Value), "4242")

	assert.Equal(t, 0, outbox.Pending())
}

func TestOutboxPoller_FailedPublishIsRetried(t *testing.T) {
	outbox := NewMemoryOutbox()
	require.NoError(t, outbox.PublishOrderPlaced(context.Background(), "u", testOrder("ORD-1")))
	writer := &mockWriter{}
	writer.fail(errors.New("broker down"))
	poller := NewOutboxPoller(outbox, writer, zap.NewNop())

	poller.processUnpublishedEvents(context.Background())
	assert.Equal(t, 1, outbox.Pending())

	events, err := outbox.GetUnprocessedEvents(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, events[0].Attempts)

	writer.fail(nil)
	poller.processUnpublishedEvents(context.Background())
	assert.Equal(t, 0, outbox.Pending())
	assert.Len(t, writer.written(), 1)
}

func TestOutboxPoller_FetchError(t *testing.T) {
	writer := &mockWriter{}
	poller := NewOutboxPoller(&failingOutbox{}, writer, zap.NewNop())

	poller.processUnpublishedEvents(context.Background())
	assert.Empty(t, writer.written())
}

func TestOutboxPoller_RunStopsOnCancel(t *testing.T) {
	outbox := NewMemoryOutbox()
	writer := &mockWriter{}
	poller := NewOutboxPoller(outbox, writer, zap.NewNop())
	poller.eventTick = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	require.NoError(t, outbox.PublishOrderPlaced(ctx, "u", testOrder("ORD-2")))
	assert.Eventually(t, func() bool { return len(writer.written()) == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
}

func TestMemoryOutbox_BatchLimitAndOrder(t *testing.T) {
	outbox := NewMemoryOutbox()
	ctx := context.Background()
	for _, id := range []string{"ORD-A", "ORD-B", "ORD-C"} {
		require.NoError(t, outbox.PublishOrderPlaced(ctx, "u", testOrder(id)))
	}

	events, err := outbox.GetUnprocessedEvents(ctx, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "ORD-A", events[0].AggregateID)
	assert.Equal(t, "ORD-B", events[1].AggregateID)

	require.NoError(t, outbox.MarkEventAsProcessed(ctx, events[0].ID))
	events, err = outbox.GetUnprocessedEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "ORD-B", events[0].AggregateID)
}
