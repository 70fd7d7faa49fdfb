// Package verifier abstracts the external document verification backend.
// The production wiring uses a deterministic mock; a real backend drops in
// behind the same interface without touching the workflow engine.
package verifier

import (
	"context"

	"kyc-gateway/internal/kyc/models"
	id "kyc-gateway/pkg/domain"
)

// Outcome is the verdict for a single document.
type Outcome struct {
	Accepted       bool
	Reason         string
	VerificationID id.VerificationID
}

// Verifier judges document authenticity. Verify may block for the duration
// of the external call; the workflow engine owns asynchrony and invokes it
// from a background goroutine. Implementations should honor ctx cancellation.
type Verifier interface {
	Verify(ctx context.Context, doc *models.Document) (Outcome, error)
}
