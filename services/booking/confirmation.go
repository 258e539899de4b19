package booking

import (
	"context"
	"fmt"
	"time"

	"beautybook/models"
	"beautybook/services/notification"

	"go.uber.org/zap"
)

// BookingRepository persists confirmed bookings.
type BookingRepository interface {
	CreateBooking(ctx context.Context, b *models.Booking) error
}

// EventPublisher announces confirmed bookings to other systems.
type EventPublisher interface {
	PublishBookingCompleted(ctx context.Context, b models.Booking) error
}

// ReminderScheduler queues a reminder to fire at a given time.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error
}

// BookingConfirmation turns a confirmed session into a stored booking and
// its follow-ups.
type BookingConfirmation interface {
	Confirm(ctx context.Context, s models.BookingSession) (*models.Booking, error)
}

// DefaultBookingConfirmation runs the follow-ups in order. Any nil
// collaborator is skipped. Only a failure to persist is returned; the other
// steps log and continue.
type DefaultBookingConfirmation struct {
	Repo      BookingRepository
	Events    EventPublisher
	Reminders ReminderScheduler
	Notifier  notification.Notifier
	LeadTime  time.Duration
	Logger    *zap.Logger
	Now       func() time.Time
}

const confirmationTimeout = 10 * time.Second

func (bc *DefaultBookingConfirmation) Confirm(ctx context.Context, s models.BookingSession) (*models.Booking, error) {
	logger := bc.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := time.Now
	if bc.Now != nil {
		now = bc.Now
	}
	ctx, cancel := context.WithTimeout(ctx, confirmationTimeout)
	defer cancel()

	b := models.Booking{
		ID:              s.BookingID,
		CustomerID:      s.CustomerID,
		ProfessionalID:  s.Professional.ID,
		ServiceID:       s.Service.ID,
		Date:            s.SelectedDate,
		Time:            s.SelectedTime,
		Status:          models.BookingStatusConfirmed,
		Notes:           s.Notes,
		TotalAmount:     Breakdown(s.Service.Price).Total,
		PaymentMethod:   string(s.Payment.Method),
		PaymentStatus:   models.PaymentStatusPaid,
		PaymentIntentID: s.PaymentID,
		CreatedAt:       now().UTC(),
	}
	log := logger.With(zap.String("bookingID", b.ID), zap.String("sessionID", s.SessionID))

	if bc.Repo != nil {
		if err := bc.Repo.CreateBooking(ctx, &b); err != nil {
			log.Error("Failed to persist booking", zap.Error(err))
			return nil, fmt.Errorf("failed to create booking: %w", err)
		}
	}

	if bc.Events != nil {
		if err := bc.Events.PublishBookingCompleted(ctx, b); err != nil {
			log.Warn("Failed to publish booking event", zap.Error(err))
		}
	}

	if bc.Reminders != nil {
		bc.scheduleReminder(ctx, log, s, b, now())
	}

	if bc.Notifier != nil {
		notice := models.Notice{
			Type:           models.NoticeBookingConfirmed,
			ProfessionalID: b.ProfessionalID,
			CustomerID:     b.CustomerID,
			Title:          "New booking confirmed",
			Body:           fmt.Sprintf("%s on %s at %s", s.Service.Name, b.Date, b.Time),
			Data:           map[string]string{"bookingId": b.ID},
			CreatedAt:      b.CreatedAt,
		}
		if err := bc.Notifier.Notify(ctx, notice); err != nil {
			log.Warn("Failed to send booking notification", zap.Error(err))
		}
	}

	log.Info("Booking finalized", zap.Float64("total", b.TotalAmount))
	return &b, nil
}

func (bc *DefaultBookingConfirmation) scheduleReminder(ctx context.Context, log *zap.Logger, s models.BookingSession, b models.Booking, now time.Time) {
	appt, err := AppointmentTime(b.Date, b.Time, now.Location())
	if err != nil {
		log.Warn("Cannot schedule reminder", zap.Error(err))
		return
	}
	fireAt := appt.Add(-bc.LeadTime)
	if fireAt.Before(now) {
		log.Debug("Reminder time already passed", zap.Time("fireAt", fireAt))
		return
	}
	payload := models.ReminderPayload{
		BookingID:      b.ID,
		CustomerID:     b.CustomerID,
		ProfessionalID: b.ProfessionalID,
		Title:          "Upcoming appointment",
		Body:           fmt.Sprintf("%s with %s at %s", s.Service.Name, s.Professional.BusinessName, b.Time),
		FireDate:       fireAt.Format(time.RFC3339),
	}
	if err := bc.Reminders.ScheduleReminder(ctx, payload, fireAt); err != nil {
		log.Warn("Failed to schedule reminder", zap.Error(err))
	}
}

// AppointmentTime combines a YYYY-MM-DD date and a slot label such as
// "10:00 AM".
func AppointmentTime(date, slot string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 3:04 PM", date+" "+slot, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid appointment %q %q: %w", date, slot, err)
	}
	return t, nil
}
