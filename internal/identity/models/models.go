package models

import (
	"time"

	id "kyc-gateway/pkg/domain"
)

// KYCStatus is the aggregate verification state of a user.
type KYCStatus string

const (
	KYCStatusNoDocuments KYCStatus = "no_documents"
	KYCStatusValidating  KYCStatus = "validating"
	KYCStatusValid       KYCStatus = "valid"
	KYCStatusInvalid     KYCStatus = "invalid"
)

// kycTransitions is the explicit state machine for a user's KYC status.
// A completed KYC (valid) is terminal; a rejected one (invalid) allows
// re-submission.
var kycTransitions = map[KYCStatus][]KYCStatus{
	KYCStatusNoDocuments: {KYCStatusValidating},
	KYCStatusValidating:  {KYCStatusValid, KYCStatusInvalid},
	KYCStatusInvalid:     {KYCStatusValidating},
	KYCStatusValid:       {},
}

// IsValid reports whether the status is one of the known values.
func (s KYCStatus) IsValid() bool {
	switch s {
	case KYCStatusNoDocuments, KYCStatusValidating, KYCStatusValid, KYCStatusInvalid:
		return true
	}
	return false
}

// CanTransitionTo reports whether the transition table allows moving to next.
func (s KYCStatus) CanTransitionTo(next KYCStatus) bool {
	for _, allowed := range kycTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further automatic transition occurs.
func (s KYCStatus) IsTerminal() bool {
	return s == KYCStatusValid
}

// User is the identity aggregate. Email and Phone are unique across all
// users; KYCStatus and KYCVerifiedAt are mutated only by the verification
// workflow.
type User struct {
	ID            id.UserID
	Email         string
	Phone         string
	PasswordHash  string
	KYCStatus     KYCStatus
	KYCVerifiedAt *time.Time
	CreatedAt     time.Time
}
