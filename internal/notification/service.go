package notification

import (
	"context"
	"fmt"
	"html"
	"sync"
	"time"

	"TapaalTracker/internal/department"
	"TapaalTracker/internal/mail"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const sendTimeout = 30 * time.Second

type Store interface {
	Find(ctx context.Context, mailID primitive.ObjectID, kind string) (*Notification, error)
	Save(ctx context.Context, n *Notification) error
	List(ctx context.Context, kind string, page, limit int64) ([]Notification, int64, error)
}

type OverdueSource interface {
	Overdue(ctx context.Context, now time.Time) ([]mail.Mail, error)
}

type DepartmentFinder interface {
	FindByName(ctx context.Context, name string) (*department.Department, error)
}

type EmailSender interface {
	Enabled() bool
	SendEmail(ctx context.Context, to, subject, body string) error
}

// NotificationService emails department contacts about new inward mail and
// overdue outward mail, recording each attempt.
type NotificationService struct {
	store       Store
	mails       OverdueSource
	departments DepartmentFinder
	email       EmailSender
	logger      *zap.Logger
	now         func() time.Time
	wg          sync.WaitGroup
}

func NewNotificationService(store Store, mails OverdueSource, departments DepartmentFinder, email EmailSender, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		store:       store,
		mails:       mails,
		departments: departments,
		email:       email,
		logger:      logger.Named("notification"),
		now:         time.Now,
	}
}

// MailReceived notifies the department of a new inward mail in the background.
func (s *NotificationService) MailReceived(ctx context.Context, m *mail.Mail) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
		defer cancel()
		if _, err := s.notify(ctx, KindReceived, m); err != nil {
			s.logger.Warn("received-mail notification failed", zap.String("tracking_code", m.TrackingCode), zap.Error(err))
		}
	}()
}

// Wait blocks until background notifications have finished.
func (s *NotificationService) Wait() { s.wg.Wait() }

// Drain is Wait bounded by ctx.
func (s *NotificationService) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("notifications still in flight: %w", ctx.Err())
	}
}

// SendOverdueReminders emails a reminder for every overdue outward mail that has
// not been reminded yet and returns how many were sent.
func (s *NotificationService) SendOverdueReminders(ctx context.Context) (int, error) {
	overdue, err := s.mails.Overdue(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("find overdue mail: %w", err)
	}
	sent := 0
	for i := range overdue {
		m := &overdue[i]
		prev, err := s.store.Find(ctx, m.ID, KindOverdue)
		if err != nil {
			s.logger.Warn("reminder lookup failed", zap.String("tracking_code", m.TrackingCode), zap.Error(err))
			continue
		}
		if prev != nil && prev.Done() {
			continue
		}
		n, err := s.notify(ctx, KindOverdue, m)
		if err != nil {
			s.logger.Warn("overdue reminder failed", zap.String("tracking_code", m.TrackingCode), zap.Error(err))
			continue
		}
		if n.Status == StatusSent {
			sent++
		}
	}
	if len(overdue) > 0 {
		s.logger.Info("overdue reminders processed", zap.Int("overdue", len(overdue)), zap.Int("sent", sent))
	}
	return sent, nil
}

func (s *NotificationService) notify(ctx context.Context, kind string, m *mail.Mail) (*Notification, error) {
	now := s.now().UTC()
	n := &Notification{
		Kind:         kind,
		MailID:       m.ID,
		TrackingCode: m.TrackingCode,
		Reference:    m.Reference,
		Department:   m.Department,
		Subject:      subjectFor(kind, m),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	dep, err := s.departments.FindByName(ctx, m.Department)
	if err != nil {
		return nil, fmt.Errorf("find department %q: %w", m.Department, err)
	}
	switch {
	case dep == nil || dep.ContactEmail == "":
		n.Status = StatusSkipped
		n.Error = "department has no contact email"
	case !s.email.Enabled():
		n.Recipient = dep.ContactEmail
		n.Status = StatusSkipped
		n.Error = "email delivery disabled"
	default:
		n.Recipient = dep.ContactEmail
		if err := s.email.SendEmail(ctx, dep.ContactEmail, n.Subject, bodyFor(kind, m, now)); err != nil {
			n.Status = StatusFailed
			n.Error = err.Error()
		} else {
			n.Status = StatusSent
		}
	}

	if err := s.store.Save(ctx, n); err != nil {
		return nil, fmt.Errorf("record notification: %w", err)
	}
	return n, nil
}

func (s *NotificationService) List(ctx context.Context, kind string, page, limit int64) ([]Notification, int64, error) {
	return s.store.List(ctx, kind, page, limit)
}

func subjectFor(kind string, m *mail.Mail) string {
	if kind == KindOverdue {
		return fmt.Sprintf("Overdue: outward mail %s (%s) not yet delivered", m.Reference, m.TrackingCode)
	}
	return fmt.Sprintf("New inward mail %s (%s) for %s", m.Reference, m.TrackingCode, m.Department)
}

func bodyFor(kind string, m *mail.Mail, now time.Time) string {
	esc := html.EscapeString
	rows := fmt.Sprintf(
		"<tr><td>Tracking code</td><td>%s</td></tr><tr><td>Reference</td><td>%s</td></tr>"+
			"<tr><td>Counterpart</td><td>%s</td></tr><tr><td>Priority</td><td>%s</td></tr><tr><td>Status</td><td>%s</td></tr>",
		esc(m.TrackingCode), esc(m.Reference), esc(m.Counterpart), esc(m.Priority), esc(string(m.Status)))

	intro := fmt.Sprintf("<p>A new inward mail has been recorded for the %s department.</p>", esc(m.Department))
	if kind == KindOverdue && m.DueDate != nil {
		days := int(now.Sub(*m.DueDate).Hours() / 24)
		intro = fmt.Sprintf("<p>This outward mail was due on %s and is %d day(s) overdue.</p>", m.DueDate.Format("2006-01-02"), days)
	}
	return intro + "<table>" + rows + "</table>"
}
