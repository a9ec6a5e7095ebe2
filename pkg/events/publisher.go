package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"venuebook/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, ev BookingEvent) error
	Close() error
}

// KafkaPublisher writes booking events to a single topic, keyed by venue so
// consumers see each venue's lifecycle in order.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    *logger.Logger
}

func NewKafkaPublisher(brokers []string, topic string, log *logger.Logger) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}

	return &KafkaPublisher{
		writer: writer,
		log:    log,
	}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev BookingEvent) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal booking event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(ev.VenueID),
		Value: value,
		Time:  ev.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ev.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write booking event: %w", err)
	}

	p.log.Debug("booking event published",
		"event_id", ev.ID,
		"event_type", ev.Type,
		"booking_id", ev.BookingID,
		"venue_id", ev.VenueID,
	)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher stands in when no brokers are configured: events are logged
// and dropped.
type LogPublisher struct {
	log *logger.Logger
}

func NewLogPublisher(log *logger.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, ev BookingEvent) error {
	p.log.Info("booking event (no broker configured)",
		"event_id", ev.ID,
		"event_type", ev.Type,
		"booking_id", ev.BookingID,
		"venue_id", ev.VenueID,
		"status", ev.Status,
	)
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
