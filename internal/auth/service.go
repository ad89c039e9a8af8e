package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"TapaalTracker/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	ErrEmailTaken         = errors.New("Email already registered")
	ErrUserNotFound       = errors.New("User not found")
	ErrInvalidCredentials = errors.New("Invalid Credentials")
	ErrInactive           = errors.New("Account is deactivated")
)

// UserStore is the persistence UserService needs; *UserRepository implements it.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	CreateUser(ctx context.Context, user *User) error
	UpdateUser(ctx context.Context, id primitive.ObjectID, fields bson.M) (*User, error)
	DeleteUser(ctx context.Context, id primitive.ObjectID) (bool, error)
	ListUsers(ctx context.Context, f UserFilter) ([]User, int64, error)
	TouchLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

type UserService struct {
	repo   UserStore
	config *config.AuthConfig
	logger *zap.Logger
}

func NewUserService(repo UserStore, cfg *config.AuthConfig, logger *zap.Logger) *UserService {
	return &UserService{repo: repo, config: cfg, logger: logger.Named("auth")}
}

// RegisterUser creates an active viewer account.
func (s *UserService) RegisterUser(ctx context.Context, req RegisterRequest) (*User, error) {
	return s.createUser(ctx, req, RoleViewer)
}

// CreateAdmin creates an active administrator; used by the create-admin command.
func (s *UserService) CreateAdmin(ctx context.Context, req RegisterRequest) (*User, error) {
	return s.createUser(ctx, req, RoleAdmin)
}

func (s *UserService) createUser(ctx context.Context, req RegisterRequest, role string) (*User, error) {
	email := normalizeEmail(req.Email)

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &User{
		ID:           primitive.NewObjectID(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Department:   strings.TrimSpace(req.Department),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user created", zap.String("email", user.Email), zap.String("role", role))
	return user, nil
}

// AuthenticateUser checks the credential and returns a signed token for the user.
func (s *UserService) AuthenticateUser(ctx context.Context, cred Credential) (string, *User, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(cred.Email))
	if err != nil {
		return "", nil, err
	}
	if user == nil || !CheckPasswordHash(cred.Password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}
	if !user.Active {
		return "", nil, ErrInactive
	}

	token, err := GenerateJWT(s.config.JWTKey, user, s.config.TokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	if err := s.repo.TouchLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		s.logger.Warn("failed to record last login", zap.String("email", user.Email), zap.Error(err))
	}
	return token, user, nil
}

func (s *UserService) ListUsers(ctx context.Context, f UserFilter) ([]User, int64, error) {
	return s.repo.ListUsers(ctx, f)
}

func (s *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id primitive.ObjectID, req UpdateUserRequest) (*User, error) {
	fields := bson.M{"updated_at": time.Now().UTC()}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		fields["role"] = *req.Role
	}
	if req.Department != nil {
		fields["department"] = strings.TrimSpace(*req.Department)
	}
	if req.Active != nil {
		fields["active"] = *req.Active
	}
	user, err := s.repo.UpdateUser(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	deleted, err := s.repo.DeleteUser(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrUserNotFound
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
