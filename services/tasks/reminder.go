package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"beautybook/models"
	"beautybook/services/notification"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeSendReminder = "reminder:send"

func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.MaxRetry(3),
	}
	if payload.BookingID != "" {
		opts = append(opts, asynq.TaskID("reminder:"+payload.BookingID))
	}
	return task, opts, nil
}

// Enqueuer is the part of *asynq.Client the scheduler uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ReminderScheduler queues appointment reminders on asynq.
type ReminderScheduler struct {
	client Enqueuer
	logger *zap.Logger
}

func NewReminderScheduler(client Enqueuer, logger *zap.Logger) *ReminderScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderScheduler{client: client, logger: logger}
}

func (s *ReminderScheduler) ScheduleReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error {
	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("failed to build reminder task: %w", err)
	}
	info, err := s.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue reminder: %w", err)
	}
	s.logger.Info("Reminder scheduled",
		zap.String("taskID", info.ID),
		zap.String("bookingID", payload.BookingID),
		zap.Time("fireAt", fireAt),
	)
	return nil
}

// HandleReminderTask delivers a due reminder through notifier.
func HandleReminderTask(notifier notification.Notifier, logger *zap.Logger) asynq.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid reminder payload", zap.Error(err))
			return fmt.Errorf("invalid reminder payload: %v: %w", err, asynq.SkipRetry)
		}

		logger.Info("Triggering reminder", zap.String("bookingID", p.BookingID), zap.String("title", p.Title))
		err := notifier.Notify(ctx, models.Notice{
			Type:       models.NoticeBookingReminder,
			CustomerID: p.CustomerID,
			Title:      p.Title,
			Body:       p.Body,
			Data: map[string]string{
				"bookingId":      p.BookingID,
				"professionalId": p.ProfessionalID,
				"fireDate":       p.FireDate,
			},
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			logger.Warn("Failed to send reminder", zap.String("bookingID", p.BookingID), zap.Error(err))
		}
		return err
	}
}
