package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"TapaalTracker/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const createAttempts = 5

var (
	ErrNotFound          = errors.New("Mail not found")
	ErrDuplicateCode     = errors.New("tracking code or reference already in use")
	ErrInvalidDirection  = errors.New("unknown mail direction")
	ErrInvalidStatus     = errors.New("status does not belong to this mail direction")
	ErrIllegalTransition = errors.New("status change not allowed")
	ErrStatusConflict    = errors.New("mail status was changed by another request")
)

// Store is the persistence MailService needs; *MailRepository implements it.
type Store interface {
	Create(ctx context.Context, m *Mail) error
	FindByID(ctx context.Context, d Direction, id primitive.ObjectID) (*Mail, error)
	FindByKey(ctx context.Context, d Direction, key string) (*Mail, error)
	FindByTrackingCode(ctx context.Context, code string) (*Mail, error)
	List(ctx context.Context, d Direction, f Filter) ([]Mail, int64, error)
	Update(ctx context.Context, d Direction, id primitive.ObjectID, expect Status, fields bson.M) (*Mail, error)
	Delete(ctx context.Context, d Direction, id primitive.ObjectID) (*Mail, error)
	Count(ctx context.Context, d Direction, status Status) (int64, error)
}

// Notifier is told about newly received inward mail. It must not block.
type Notifier interface {
	MailReceived(ctx context.Context, m *Mail)
}

type MailService struct {
	repo         Store
	notifier     Notifier
	logger       *zap.Logger
	now          func() time.Time
	trackingCode func(time.Time) string
}

func NewMailService(repo Store, notifier Notifier, logger *zap.Logger) *MailService {
	return &MailService{
		repo:         repo,
		notifier:     notifier,
		logger:       logger.Named("mail"),
		now:          time.Now,
		trackingCode: NewTrackingCode,
	}
}

func (s *MailService) List(ctx context.Context, d Direction, f Filter) ([]Mail, int64, error) {
	if !d.Valid() {
		return nil, 0, ErrInvalidDirection
	}
	return s.repo.List(ctx, d, f)
}

// Get resolves key as an ObjectID hex first, then as a reference or tracking code.
func (s *MailService) Get(ctx context.Context, d Direction, key string) (*Mail, error) {
	var (
		m   *Mail
		err error
	)
	if id, idErr := primitive.ObjectIDFromHex(key); idErr == nil {
		m, err = s.repo.FindByID(ctx, d, id)
	}
	if err == nil && m == nil {
		m, err = s.repo.FindByKey(ctx, d, strings.ToUpper(strings.TrimSpace(key)))
	}
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotFound
	}
	return m, nil
}

func (s *MailService) Track(ctx context.Context, code string) (*Mail, error) {
	m, err := s.repo.FindByTrackingCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotFound
	}
	return m, nil
}

// Create stores a new record with server-generated reference and tracking code,
// regenerating both when they collide with an existing record.
func (s *MailService) Create(ctx context.Context, d Direction, req CreateRequest, attachments []storage.Attachment) (*Mail, error) {
	if !d.Valid() {
		return nil, ErrInvalidDirection
	}
	m, err := s.newMail(d, req, attachments)
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		m.Reference = NewReference(d, m.CreatedAt)
		m.TrackingCode = s.trackingCode(m.CreatedAt)
		err = s.repo.Create(ctx, m)
		if !errors.Is(err, ErrDuplicateCode) || attempt == createAttempts {
			break
		}
		s.logger.Debug("tracking code collision, retrying", zap.String("code", m.TrackingCode), zap.Int("attempt", attempt))
	}
	if err != nil {
		return nil, fmt.Errorf("create %s mail: %w", d, err)
	}

	s.logger.Info("mail recorded",
		zap.String("direction", string(d)),
		zap.String("reference", m.Reference),
		zap.String("tracking_code", m.TrackingCode),
		zap.String("department", m.Department))
	if d == Inward && s.notifier != nil {
		s.notifier.MailReceived(ctx, m)
	}
	return m, nil
}

func (s *MailService) newMail(d Direction, req CreateRequest, attachments []storage.Attachment) (*Mail, error) {
	now := s.now().UTC()
	m := &Mail{
		ID:               primitive.NewObjectID(),
		Direction:        d,
		HandoverTo:       strings.TrimSpace(req.HandoverTo),
		DeliveryMode:     orDefault(req.DeliveryMode, "Courier"),
		Subject:          strings.TrimSpace(req.Subject),
		Details:          strings.TrimSpace(req.Details),
		ReferenceDetails: strings.TrimSpace(req.ReferenceDetails),
		Priority:         strings.ToLower(orDefault(req.Priority, PriorityNormal)),
		Department:       orDefault(req.Department, "Administration"),
		Status:           d.InitialStatus(),
		Date:             now,
		Cost:             req.Cost,
		Attachments:      attachments,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if m.Attachments == nil {
		m.Attachments = []storage.Attachment{}
	}
	if d == Inward {
		m.Counterpart = orDefault(req.Sender, "Unknown")
		m.HandledBy = orDefault(req.ReceivedBy, "System Admin")
		if m.HandoverTo == "" {
			m.HandoverTo = "System Admin"
		}
	} else {
		m.Counterpart = orDefault(req.Receiver, "Unknown")
		m.CounterpartAddress = strings.TrimSpace(req.ReceiverAddress)
		m.HandledBy = orDefault(req.SentBy, "System Admin")
	}

	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			return nil, err
		}
		m.Date = date
	}
	if req.DueDate != "" {
		due, err := parseDate(req.DueDate)
		if err != nil {
			return nil, err
		}
		m.DueDate = &due
	}
	return m, nil
}

// Update applies a partial update. A status change must follow the direction's
// lifecycle and only succeeds if no concurrent write changed the status first.
func (s *MailService) Update(ctx context.Context, d Direction, key string, req UpdateRequest) (*Mail, error) {
	current, err := s.Get(ctx, d, key)
	if err != nil {
		return nil, err
	}

	fields := bson.M{"updated_at": s.now().UTC()}
	setString := func(name string, v *string) {
		if v != nil {
			fields[name] = strings.TrimSpace(*v)
		}
	}
	setString("counterpart", req.Counterpart)
	setString("counterpart_address", req.CounterpartAddress)
	setString("handled_by", req.HandledBy)
	setString("handover_to", req.HandoverTo)
	setString("delivery_mode", req.DeliveryMode)
	setString("subject", req.Subject)
	setString("details", req.Details)
	setString("reference_details", req.ReferenceDetails)
	setString("department", req.Department)
	if req.Priority != nil {
		fields["priority"] = strings.ToLower(*req.Priority)
	}
	if req.Cost != nil {
		fields["cost"] = *req.Cost
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		fields["date"] = date
	}
	if req.DueDate != nil {
		due, err := parseDate(*req.DueDate)
		if err != nil {
			return nil, err
		}
		fields["due_date"] = due
	}

	var expect Status
	if req.Status != nil {
		next := Status(strings.ToLower(*req.Status))
		if !d.HasStatus(next) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, next)
		}
		if !CanTransition(d, current.Status, next) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, current.Status, next)
		}
		if next != current.Status {
			fields["status"] = next
			expect = current.Status
		}
	}

	updated, err := s.repo.Update(ctx, d, current.ID, expect, fields)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		if expect != "" {
			return nil, ErrStatusConflict
		}
		return nil, ErrNotFound
	}
	if expect != "" {
		s.logger.Info("mail status changed",
			zap.String("tracking_code", updated.TrackingCode),
			zap.String("from", string(expect)),
			zap.String("to", string(updated.Status)))
	}
	return updated, nil
}

// Delete removes the record and returns it so callers can clean up attachments.
func (s *MailService) Delete(ctx context.Context, d Direction, key string) (*Mail, error) {
	current, err := s.Get(ctx, d, key)
	if err != nil {
		return nil, err
	}
	deleted, err := s.repo.Delete(ctx, d, current.ID)
	if err != nil {
		return nil, err
	}
	if deleted == nil {
		return nil, ErrNotFound
	}
	return deleted, nil
}

func (s *MailService) Summary(ctx context.Context, d Direction) (*Summary, error) {
	if !d.Valid() {
		return nil, ErrInvalidDirection
	}
	total, err := s.repo.Count(ctx, d, "")
	if err != nil {
		return nil, err
	}
	sum := &Summary{Total: total, ByStatus: make(map[Status]int64, len(d.Statuses()))}
	for _, st := range d.Statuses() {
		n, err := s.repo.Count(ctx, d, st)
		if err != nil {
			return nil, err
		}
		sum.ByStatus[st] = n
	}
	return sum, nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
