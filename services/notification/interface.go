package notification

import (
	"context"
	"errors"
	"fmt"

	"beautybook/models"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// Notifier is the port the core uses to reach customers and professionals.
type Notifier interface {
	Notify(ctx context.Context, n models.Notice) error
}

// Sender is the part of the FCM messaging client a FCMNotifier needs.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// ProfessionalTopic and CustomerTopic are the FCM topics devices subscribe to.
func ProfessionalTopic(professionalID string) string { return "professional_" + professionalID }
func CustomerTopic(customerID string) string         { return "customer_" + customerID }

// FCMNotifier pushes notices to the recipients' topics.
type FCMNotifier struct {
	client Sender
	logger *zap.Logger
}

func NewFCMNotifier(client Sender, logger *zap.Logger) (*FCMNotifier, error) {
	if client == nil {
		return nil, fmt.Errorf("notification service initialization error: messaging client is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FCMNotifier{client: client, logger: logger}, nil
}

// Notify sends n to the professional and the customer it names. Errors from
// both sends are joined.
func (s *FCMNotifier) Notify(ctx context.Context, n models.Notice) error {
	var errs []error
	if n.ProfessionalID != "" {
		if err := s.send(ctx, ProfessionalTopic(n.ProfessionalID), "professional", n); err != nil {
			errs = append(errs, err)
		}
	}
	if n.CustomerID != "" {
		if err := s.send(ctx, CustomerTopic(n.CustomerID), "customer", n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *FCMNotifier) send(ctx context.Context, topic, role string, n models.Notice) error {
	data := make(map[string]string, len(n.Data)+2)
	for k, v := range n.Data {
		data[k] = v
	}
	data["type"] = n.Type
	if _, ok := data["role"]; !ok {
		data["role"] = role
	}

	msg := &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}

	id, err := s.client.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to send FCM message to %s: %w", topic, err)
	}
	s.logger.Debug("Push sent", zap.String("topic", topic), zap.String("type", n.Type), zap.String("messageID", id))
	return nil
}

// LogNotifier only records notices. It is used when push is disabled.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Notify(ctx context.Context, n models.Notice) error {
	l.logger.Info("Notification",
		zap.String("type", n.Type),
		zap.String("professionalID", n.ProfessionalID),
		zap.String("customerID", n.CustomerID),
		zap.String("title", n.Title),
		zap.String("body", n.Body),
	)
	return nil
}
