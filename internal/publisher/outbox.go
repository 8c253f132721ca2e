package publisher

import (
	"context"
	"sync"
	"time"

	"github.com/fjod/storefront-checkout/domain"
)

// Outbox keeps placed-order events until the poller has delivered them.
type Outbox interface {
	GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventAsProcessed(ctx context.Context, id int) error
	MarkEventAsFailed(ctx context.Context, id int) error
}

// MemoryOutbox implements Outbox in memory. Processed events are dropped.
type MemoryOutbox struct {
	mu     sync.Mutex
	nextID int
	events []*OutboxEvent
	now    func() time.Time
}

func NewMemoryOutbox() *MemoryOutbox {
	return &MemoryOutbox{nextID: 1, now: time.Now}
}

// PublishOrderPlaced records an order.placed event for delivery.
func (o *MemoryOutbox) PublishOrderPlaced(_ context.Context, userID string, order domain.Order) error {
	payload, err := marshalOrderPlaced(userID, order)
	if err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, &OutboxEvent{
		ID:          o.nextID,
		AggregateID: order.ID,
		EventType:   EventTypeOrderPlaced,
		Payload:     payload,
		CreatedAt:   o.now(),
	})
	o.nextID++
	return nil
}

// GetUnprocessedEvents returns copies of the oldest pending events.
func (o *MemoryOutbox) GetUnprocessedEvents(_ context.Context, limit int) ([]*OutboxEvent, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	n := min(limit, len(o.events))
	result := make([]*OutboxEvent, 0, n)
	for _, ev := range o.events[:n] {
		cp := *ev
		result = append(result, &cp)
	}
	return result, nil
}

func (o *MemoryOutbox) MarkEventAsProcessed(_ context.Context, id int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i, ev := range o.events {
		if ev.ID == id {
			o.events = append(o.events[:i], o.events[i+1:]...)
			return nil
		}
	}
	return nil
}

func (o *MemoryOutbox) MarkEventAsFailed(_ context.Context, id int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, ev := range o.events {
		if ev.ID == id {
			ev.Attempts++
			return nil
		}
	}
	return nil
}

// Pending reports how many events still wait for delivery.
func (o *MemoryOutbox) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.events)
}
