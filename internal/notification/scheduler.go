package notification

import (
	"context"
	"time"

	"TapaalTracker/internal/config"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ReminderScheduler periodically sends overdue outward mail reminders.
type ReminderScheduler struct {
	service  *NotificationService
	interval time.Duration
	logger   *zap.Logger
}

func NewReminderScheduler(service *NotificationService, cfg *config.ReminderConfig, logger *zap.Logger) *ReminderScheduler {
	return &ReminderScheduler{service: service, interval: cfg.Interval, logger: logger.Named("reminders")}
}

// StartScheduler ties the ticker to the fx lifecycle. A non-positive interval
// disables the ticker; background emails are drained on stop either way.
func (s *ReminderScheduler) StartScheduler(lc fx.Lifecycle) {
	// appended first so it runs after the ticker has stopped
	lc.Append(fx.Hook{
		OnStop: func(stopCtx context.Context) error {
			return s.service.Drain(stopCtx)
		},
	})
	if s.interval <= 0 {
		s.logger.Info("reminder scheduler disabled")
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			s.logger.Info("starting reminder scheduler", zap.Duration("interval", s.interval))
			go func() {
				defer close(done)
				ticker := time.NewTicker(s.interval)
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						s.tick(ctx)
					case <-ctx.Done():
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			s.logger.Info("stopping reminder scheduler")
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}

func (s *ReminderScheduler) tick(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()
	if _, err := s.service.SendOverdueReminders(ctx); err != nil {
		s.logger.Error("reminder run failed", zap.Error(err))
	}
}
