package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"kyc-gateway/internal/identity/models"
	"kyc-gateway/internal/platform/metrics"
	"kyc-gateway/internal/sentinel"
	id "kyc-gateway/pkg/domain"
	dErrors "kyc-gateway/pkg/domain-errors"
	"kyc-gateway/pkg/secrets"
)

// Store defines the persistence interface for user records.
// Error Contract:
// - GetByID/GetByEmail return sentinel.ErrNotFound when no record exists
// - Create returns sentinel.ErrDuplicateEmail / ErrDuplicatePhone on index hits
type Store interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, userID id.UserID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateKYCStatus(ctx context.Context, userID id.UserID, status models.KYCStatus, verifiedAt *time.Time) error
}

// Service owns user registration and lookups. KYC status mutations live in
// the verification workflow, not here.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

// WithMetrics sets the metrics instance for the service
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func NewService(store Store, logger *slog.Logger, opts ...Option) *Service {
	svc := &Service{
		store:  store,
		logger: logger,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Register creates a new user with a hashed password and an empty KYC state.
// Duplicate email or phone surfaces as a conflict with a field-specific message.
func (s *Service) Register(ctx context.Context, email, password, phone string) (*models.User, error) {
	hash, err := secrets.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           id.NewUserID(),
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		KYCStatus:    models.KYCStatusNoDocuments,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrDuplicateEmail):
			return nil, dErrors.New(dErrors.CodeConflict, "User with this email already exists")
		case errors.Is(err, sentinel.ErrDuplicatePhone):
			return nil, dErrors.New(dErrors.CodeConflict, "Phone number is already registered by another user")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID.String())
	s.metrics.IncrementUsersCreated()

	return user, nil
}

// GetByID resolves a user or reports NotFound.
func (s *Service) GetByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "User not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read user")
	}
	return user, nil
}
