package notification

import (
	"context"
	"testing"
	"time"

	"TapaalTracker/internal/config"
	"TapaalTracker/internal/mail"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

func TestSchedulerStopDrainsReceivedMail(t *testing.T) {
	for _, interval := range []time.Duration{0, time.Hour} {
		t.Run(interval.String(), func(t *testing.T) {
			sender := &fakeSender{delay: 100 * time.Millisecond}
			svc := newTestService(newMemoryStore(), &overdueMails{}, sender)
			sched := NewReminderScheduler(svc, &config.ReminderConfig{Interval: interval}, zap.NewNop())

			lc := fxtest.NewLifecycle(t)
			sched.StartScheduler(lc)
			lc.RequireStart()

			svc.MailReceived(context.Background(), &mail.Mail{ID: primitive.NewObjectID(), Department: "Accounts"})
			lc.RequireStop()

			if n := sender.count(); n != 1 {
				t.Errorf("emails sent before stop returned = %d, want 1", n)
			}
		})
	}
}

func TestDrainGivesUpAtDeadline(t *testing.T) {
	sender := &fakeSender{delay: time.Second}
	svc := newTestService(newMemoryStore(), &overdueMails{}, sender)
	svc.MailReceived(context.Background(), &mail.Mail{ID: primitive.NewObjectID(), Department: "Accounts"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := svc.Drain(ctx); err == nil {
		t.Error("Drain returned nil with a send still in flight")
	}
	svc.Wait()
}
