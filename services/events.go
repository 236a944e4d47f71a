package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
)

// Portal event routing keys.
const (
	EventApplicationReceived = "application.received"
	EventTimesheetSubmitted  = "timesheet.submitted"
	EventMessageCreated      = "message.created"
)

// EventEnvelope wraps a portal event for the bus.
type EventEnvelope struct {
	EventID    string          `json:"event_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Kind       string          `json:"kind"`
	Payload    json.RawMessage `json:"payload"`
}

// EventPublisher pushes portal events to whatever is listening (reporting,
// downstream HR systems). Publishing is best effort; nothing in the
// request path depends on it.
type EventPublisher interface {
	Publish(ctx context.Context, key string, payload any) error
	Close() error
}

type rmqPublisher struct {
	conn     *amqp091.Connection
	exchange string
	log      *slog.Logger
}

// NewEventPublisher connects to RabbitMQ when RABBITMQ_URL is set and
// returns a no-op fallback otherwise, so local runs need no broker.
func NewEventPublisher(logger *slog.Logger) EventPublisher {
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		logger.Info("RABBITMQ_URL not set, events will be skipped")
		return &fallbackPublisher{log: logger}
	}

	exchange := os.Getenv("RABBITMQ_EXCHANGE")
	if exchange == "" {
		exchange = "brainhr.events"
	}

	conn, err := amqp091.Dial(url)
	if err != nil {
		logger.Warn("rabbit dial failed, falling back to no-op publisher", slog.Any("error", err))
		return &fallbackPublisher{log: logger}
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		logger.Warn("rabbit channel failed, falling back to no-op publisher", slog.Any("error", err))
		return &fallbackPublisher{log: logger}
	}
	defer ch.Close()
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		logger.Warn("exchange declare failed, falling back to no-op publisher", slog.Any("error", err))
		return &fallbackPublisher{log: logger}
	}

	return &rmqPublisher{conn: conn, exchange: exchange, log: logger}
}

func (r *rmqPublisher) Publish(ctx context.Context, key string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	env := EventEnvelope{
		EventID:    uuid.NewString(),
		OccurredAt: time.Now().UTC(),
		Kind:       key,
		Payload:    raw,
	}
	body, err := json.Marshal(env)
	if err != nil {
		return err
	}

	ch, err := r.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	return ch.PublishWithContext(ctx, r.exchange, key, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		MessageId:    env.EventID,
		Timestamp:    env.OccurredAt,
		DeliveryMode: amqp091.Persistent,
		Body:         body,
	})
}

func (r *rmqPublisher) Close() error {
	return r.conn.Close()
}

type fallbackPublisher struct {
	log *slog.Logger
}

func (p *fallbackPublisher) Publish(ctx context.Context, key string, payload any) error {
	p.log.Debug("event skipped, no broker configured", slog.String("key", key))
	return nil
}

func (p *fallbackPublisher) Close() error { return nil }
