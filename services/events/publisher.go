// Package events publishes booking domain events to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"beautybook/models"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const BookingCompletedQueue = "booking.completed"

// BookingCompletedEvent is the message body published for each confirmed
// booking.
type BookingCompletedEvent struct {
	BookingID      string    `json:"bookingId"`
	CustomerID     string    `json:"customerId"`
	ProfessionalID string    `json:"professionalId"`
	ServiceID      string    `json:"serviceId"`
	Date           string    `json:"date"`
	Time           string    `json:"time"`
	TotalAmount    float64   `json:"totalAmount"`
	PaymentMethod  string    `json:"paymentMethod"`
	PaymentID      string    `json:"paymentId"`
	ConfirmedAt    time.Time `json:"confirmedAt"`
}

func NewBookingCompletedEvent(b models.Booking) BookingCompletedEvent {
	return BookingCompletedEvent{
		BookingID:      b.ID,
		CustomerID:     b.CustomerID,
		ProfessionalID: b.ProfessionalID,
		ServiceID:      b.ServiceID,
		Date:           b.Date,
		Time:           b.Time,
		TotalAmount:    b.TotalAmount,
		PaymentMethod:  b.PaymentMethod,
		PaymentID:      b.PaymentIntentID,
		ConfirmedAt:    b.CreatedAt,
	}
}

// NewPublishing encodes an event as a persistent JSON message.
func NewPublishing(event any, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal event: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    now.UTC(),
		Body:         body,
	}, nil
}

// AMQPPublisher dials the broker for each event.
type AMQPPublisher struct {
	url    string
	logger *zap.Logger
}

func NewAMQPPublisher(url string, logger *zap.Logger) *AMQPPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AMQPPublisher{url: url, logger: logger}
}

func (p *AMQPPublisher) PublishBookingCompleted(ctx context.Context, b models.Booking) error {
	msg, err := NewPublishing(NewBookingCompletedEvent(b), time.Now())
	if err != nil {
		return err
	}
	return p.publish(ctx, BookingCompletedQueue, msg)
}

func (p *AMQPPublisher) publish(ctx context.Context, queue string, msg amqp.Publishing) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq: dial failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq: channel open failed: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: queue declare failed: %w", err)
	}
	if err := ch.PublishWithContext(ctx, "", queue, false, false, msg); err != nil {
		return fmt.Errorf("rabbitmq: publish failed: %w", err)
	}
	p.logger.Debug("Event published", zap.String("queue", queue), zap.Int("bytes", len(msg.Body)))
	return nil
}
