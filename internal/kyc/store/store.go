package store

import (
	"context"

	"kyc-gateway/internal/kyc/models"
	id "kyc-gateway/pkg/domain"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return sentinel.ErrNotFound when the requested document does not exist
// - Return sentinel.ErrInvalidState when UpdateStatus is called on a document
//   already in a terminal state (the workflow treats this as its
//   duplicate-completion no-op guard)
// - Return nil for successful operations

// Store defines the persistence interface for submitted documents.
type Store interface {
	// Create persists a new document. Documents always start validating.
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, docID id.DocumentID) (*models.Document, error)
	// ListByUser returns the user's documents in insertion order.
	ListByUser(ctx context.Context, userID id.UserID) ([]*models.Document, error)
	// UpdateStatus applies a single monotone transition.
	UpdateStatus(ctx context.Context, docID id.DocumentID, status models.DocumentStatus) error
}
