package department

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	ErrNameTaken = errors.New("Department with this name already exists")
	ErrNotFound  = errors.New("Department not found")
)

// Store is the persistence DepartmentService needs.
type Store interface {
	Create(ctx context.Context, d *Department) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Department, error)
	FindByName(ctx context.Context, name string) (*Department, error)
	List(ctx context.Context) ([]Department, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*Department, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type DepartmentService struct {
	repo   Store
	logger *zap.Logger
}

func NewDepartmentService(repo Store, logger *zap.Logger) *DepartmentService {
	return &DepartmentService{repo: repo, logger: logger.Named("department")}
}

func (s *DepartmentService) List(ctx context.Context) ([]Department, error) {
	return s.repo.List(ctx)
}

func (s *DepartmentService) Get(ctx context.Context, id primitive.ObjectID) (*Department, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrNotFound
	}
	return d, nil
}

// FindByName returns nil without error when no department carries the name.
func (s *DepartmentService) FindByName(ctx context.Context, name string) (*Department, error) {
	return s.repo.FindByName(ctx, strings.TrimSpace(name))
}

func (s *DepartmentService) Create(ctx context.Context, req CreateRequest) (*Department, error) {
	name := strings.TrimSpace(req.Name)
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrNameTaken
	}

	status := req.Status
	if status == "" {
		status = StatusActive
	}
	now := time.Now().UTC()
	d := &Department{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Code:         strings.ToUpper(strings.TrimSpace(req.Code)),
		Description:  strings.TrimSpace(req.Description),
		Head:         strings.TrimSpace(req.Head),
		ContactEmail: strings.ToLower(strings.TrimSpace(req.ContactEmail)),
		Phone:        strings.TrimSpace(req.Phone),
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	s.logger.Info("department created", zap.String("name", d.Name))
	return d, nil
}

func (s *DepartmentService) Update(ctx context.Context, id primitive.ObjectID, req UpdateRequest) (*Department, error) {
	fields := bson.M{"updated_at": time.Now().UTC()}
	set := func(key string, v *string, transform func(string) string) {
		if v != nil {
			fields[key] = transform(strings.TrimSpace(*v))
		}
	}
	keep := func(s string) string { return s }
	set("name", req.Name, keep)
	set("code", req.Code, strings.ToUpper)
	set("description", req.Description, keep)
	set("head", req.Head, keep)
	set("contact_email", req.ContactEmail, strings.ToLower)
	set("phone", req.Phone, keep)
	set("status", req.Status, keep)

	d, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrNotFound
	}
	return d, nil
}

func (s *DepartmentService) Delete(ctx context.Context, id primitive.ObjectID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
