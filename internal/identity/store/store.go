package store

import (
	"context"
	"time"

	"kyc-gateway/internal/identity/models"
	id "kyc-gateway/pkg/domain"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return sentinel.ErrNotFound when the requested entity does not exist
// - Return sentinel.ErrDuplicateEmail / ErrDuplicatePhone when a uniqueness
//   index is hit on Create
// - Return sentinel.ErrInvalidState when a status update violates the
//   transition table
// - Return nil for successful operations

// Store defines the persistence interface for user records.
type Store interface {
	// Create persists a new user. Both uniqueness checks (email, phone) are
	// atomic with respect to concurrent creates.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, userID id.UserID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// UpdateKYCStatus atomically writes status and verification timestamp so
	// readers never observe a half-updated record.
	UpdateKYCStatus(ctx context.Context, userID id.UserID, status models.KYCStatus, verifiedAt *time.Time) error
}
