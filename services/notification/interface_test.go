package notification_test

import (
	"context"
	"errors"
	"testing"

	"beautybook/models"
	"beautybook/services/notification"

	"firebase.google.com/go/v4/messaging"
)

type fakeSender struct {
	sent []*messaging.Message
	fail map[string]error
}

func (f *fakeSender) Send(ctx context.Context, m *messaging.Message) (string, error) {
	if err := f.fail[m.Topic]; err != nil {
		return "", err
	}
	f.sent = append(f.sent, m)
	return "msg-1", nil
}

func TestFCMNotifier_SendsToEachRecipientTopic(t *testing.T) {
	sender := &fakeSender{}
	n, err := notification.NewFCMNotifier(sender, nil)
	if err != nil {
		t.Fatalf("new notifier: %v", err)
	}
	err = n.Notify(context.Background(), models.Notice{
		Type:           models.NoticeBookingConfirmed,
		ProfessionalID: "prof_1",
		CustomerID:     "cust_1",
		Title:          "New booking",
		Data:           map[string]string{"bookingId": "booking_1"},
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(sender.sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(sender.sent))
	}
	pro, cust := sender.sent[0], sender.sent[1]
	if pro.Topic != "professional_prof_1" || pro.Data["role"] != "professional" {
		t.Fatalf("professional message = %+v", pro)
	}
	if cust.Topic != "customer_cust_1" || cust.Data["role"] != "customer" {
		t.Fatalf("customer message = %+v", cust)
	}
	if pro.Data["type"] != models.NoticeBookingConfirmed || pro.Data["bookingId"] != "booking_1" {
		t.Fatalf("data = %v", pro.Data)
	}
}

func TestFCMNotifier_JoinsErrors(t *testing.T) {
	boom := errors.New("unavailable")
	sender := &fakeSender{fail: map[string]error{"customer_c": boom}}
	n, _ := notification.NewFCMNotifier(sender, nil)

	err := n.Notify(context.Background(), models.Notice{ProfessionalID: "p", CustomerID: "c"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("professional send should still happen, sent %d", len(sender.sent))
	}
}

func TestNewFCMNotifier_RequiresClient(t *testing.T) {
	if _, err := notification.NewFCMNotifier(nil, nil); err == nil {
		t.Fatal("expected error for nil client")
	}
}
