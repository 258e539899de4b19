package tasks_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"beautybook/models"
	"beautybook/services/tasks"

	"github.com/hibiken/asynq"
)

type captureEnqueuer struct {
	task *asynq.Task
	opts []asynq.Option
}

func (c *captureEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	c.task, c.opts = task, opts
	return &asynq.TaskInfo{ID: "t1"}, nil
}

type captureNotifier struct{ got []models.Notice }

func (c *captureNotifier) Notify(ctx context.Context, n models.Notice) error {
	c.got = append(c.got, n)
	return nil
}

func TestScheduleReminder(t *testing.T) {
	enq := &captureEnqueuer{}
	s := tasks.NewReminderScheduler(enq, nil)
	fireAt := time.Date(2030, 6, 1, 9, 0, 0, 0, time.UTC)

	err := s.ScheduleReminder(context.Background(), models.ReminderPayload{BookingID: "booking_1", Title: "Soon"}, fireAt)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if enq.task.Type() != tasks.TypeSendReminder {
		t.Fatalf("task type = %s", enq.task.Type())
	}
	var p models.ReminderPayload
	if err := json.Unmarshal(enq.task.Payload(), &p); err != nil || p.BookingID != "booking_1" {
		t.Fatalf("payload = %s, %v", enq.task.Payload(), err)
	}
	var sawProcessAt bool
	for _, o := range enq.opts {
		if o.Type() == asynq.ProcessAtOpt && o.Value().(time.Time).Equal(fireAt) {
			sawProcessAt = true
		}
	}
	if !sawProcessAt {
		t.Fatal("expected ProcessAt option at fire time")
	}
}

func TestHandleReminderTask(t *testing.T) {
	n := &captureNotifier{}
	h := tasks.HandleReminderTask(n, nil)
	payload, _ := json.Marshal(models.ReminderPayload{BookingID: "booking_1", CustomerID: "cust_1", Title: "Soon", Body: "Tomorrow"})

	if err := h.ProcessTask(context.Background(), asynq.NewTask(tasks.TypeSendReminder, payload)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(n.got) != 1 || n.got[0].Type != models.NoticeBookingReminder || n.got[0].CustomerID != "cust_1" {
		t.Fatalf("notices = %+v", n.got)
	}
}

func TestHandleReminderTask_BadPayloadSkipsRetry(t *testing.T) {
	h := tasks.HandleReminderTask(&captureNotifier{}, nil)
	err := h.ProcessTask(context.Background(), asynq.NewTask(tasks.TypeSendReminder, []byte("{")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
}
