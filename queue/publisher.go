package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

// ReservationEventMessage adalah payload yang dikirim ke queue.
type ReservationEventMessage struct {
	EventID       uint   `json:"event_id"`
	Type          string `json:"type"`
	ReservationID uint   `json:"reservation_id"`
	RestaurantID  uint   `json:"restaurant_id"`
	TableCount    int    `json:"table_count"`
	StartsAt      string `json:"starts_at"`
	Status        string `json:"status"`
	OccurredAt    string `json:"occurred_at"`
}

func NewReservationEventMessage(event models.ReservationEvent) ReservationEventMessage {
	return ReservationEventMessage{
		EventID:       event.ID,
		Type:          event.Type,
		ReservationID: event.ReservationID,
		RestaurantID:  event.RestaurantID,
		TableCount:    event.TableCount,
		StartsAt:      event.StartsAt.UTC().Format(time.RFC3339),
		Status:        string(event.Status),
		OccurredAt:    event.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Publisher keeps one AMQP channel open and redials after a failure.
type Publisher struct {
	url   string
	queue string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewPublisher(url, queue string) *Publisher {
	return &Publisher{url: url, queue: queue}
}

func (p *Publisher) Name() string { return "amqp" }

func (p *Publisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.closeLocked()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	// durable, non auto-delete
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("amqp queue declare: %w", err)
	}

	p.conn, p.ch = conn, ch
	utils.InfoLogger.WithField("queue", p.queue).Info("Connected to RabbitMQ")
	return ch, nil
}

func (p *Publisher) Publish(ctx context.Context, event models.ReservationEvent) error {
	body, err := json.Marshal(NewReservationEventMessage(event))
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}
	err = ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    fmt.Sprintf("reservation-event-%d", event.ID),
		Type:         event.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		p.closeLocked()
		return fmt.Errorf("amqp publish: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
	return nil
}

func (p *Publisher) closeLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}
