package publisher

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageWriter is the part of *kafka.Writer the poller needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// NewKafkaWriter builds the writer for the order topic.
func NewKafkaWriter(topic string, brokers ...string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}

type OutboxPoller struct {
	timeout   time.Duration
	eventTick time.Duration
	batchSize int
	repo      Outbox
	writer    MessageWriter
	log       *zap.Logger
}

func NewOutboxPoller(repo Outbox, writer MessageWriter, log *zap.Logger) *OutboxPoller {
	return &OutboxPoller{
		timeout:   5 * time.Second,
		eventTick: time.Second,
		batchSize: 100,
		repo:      repo,
		writer:    writer,
		log:       log,
	}
}

// Run delivers pending events every tick until ctx is cancelled.
func (p *OutboxPoller) Run(ctx context.Context) {
	eventTicker := time.NewTicker(p.eventTick)
	defer eventTicker.Stop()
	for {
		select {
		case <-eventTicker.C:
			p.processUnpublishedEvents(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *OutboxPoller) processUnpublishedEvents(ctx context.Context) {
	events, err := p.repo.GetUnprocessedEvents(ctx, p.batchSize)
	if err != nil {
		p.log.Error("failed to fetch outbox events", zap.Error(err))
		return
	}

	for _, event := range events {
		if err := p.publishToKafka(ctx, event); err != nil {
			p.log.Warn("failed to publish event",
				zap.Int("event_id", event.ID),
				zap.String("order_id", event.AggregateID),
				zap.Int("attempts", event.Attempts+1),
				zap.Error(err))
			if errMark := p.repo.MarkEventAsFailed(ctx, event.ID); errMark != nil {
				p.log.Error("failed to record publish attempt", zap.Int("event_id", event.ID), zap.Error(errMark))
			}
			continue
		}

		if err := p.repo.MarkEventAsProcessed(ctx, event.ID); err != nil {
			p.log.Error("failed to mark event as processed", zap.Int("event_id", event.ID), zap.Error(err))
			continue
		}
		p.log.Debug("event published", zap.Int("event_id", event.ID), zap.String("order_id", event.AggregateID))
	}
}

func (p *OutboxPoller) publishToKafka(ctx context.Context, event *OutboxEvent) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(event.AggregateID), // order_id for ordering
		Value: event.Payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}
	return p.writer.WriteMessages(ctx, msg)
}
