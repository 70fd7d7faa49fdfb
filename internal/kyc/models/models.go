package models

import (
	"time"

	id "kyc-gateway/pkg/domain"
)

// DocumentStatus is the verification state of a single submitted document.
// It is monotone: validating moves to exactly one terminal verdict and never
// leaves it.
type DocumentStatus string

const (
	DocumentStatusValidating DocumentStatus = "validating"
	DocumentStatusValid      DocumentStatus = "valid"
	DocumentStatusInvalid    DocumentStatus = "invalid"
)

// IsTerminal reports whether the status admits no further transition.
func (s DocumentStatus) IsTerminal() bool {
	return s == DocumentStatusValid || s == DocumentStatusInvalid
}

// CanTransitionTo enforces monotonicity: only validating -> terminal is allowed.
func (s DocumentStatus) CanTransitionTo(next DocumentStatus) bool {
	return s == DocumentStatusValidating && next.IsTerminal()
}

// Document is a submitted identity document. Status is mutated exactly once,
// by the verification workflow's completion handler.
type Document struct {
	ID           id.DocumentID
	UserID       id.UserID
	OriginalName string
	// StoredName is the object store key holding the binary payload.
	StoredName  string
	ContentType string
	Size        int64
	Status      DocumentStatus
	UploadedAt  time.Time
}
