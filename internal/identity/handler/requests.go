package handler

import (
	"strings"

	dErrors "kyc-gateway/pkg/domain-errors"
	strutil "kyc-gateway/pkg/string"
	"kyc-gateway/pkg/validation"
)

const minPasswordLength = 6

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

func (r *RegisterRequest) Sanitize() {
	if r == nil {
		return
	}
	strutil.TrimStrings(&r.Email, &r.Phone)
	r.Email = strings.ToLower(r.Email)
}

// Validate checks required fields first, then per-field formats, in the order
// clients of the legacy API expect the messages.
func (r *RegisterRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Email == "" || r.Password == "" || r.Phone == "" {
		return dErrors.New(dErrors.CodeValidation, "Email, password, and phone number are required")
	}
	if !validation.IsEmail(r.Email) {
		return dErrors.New(dErrors.CodeValidation, "Invalid email format")
	}
	if len(r.Password) < minPasswordLength {
		return dErrors.New(dErrors.CodeValidation, "Password must be at least 6 characters long")
	}
	if !validation.IsPhone(r.Phone) {
		return dErrors.New(dErrors.CodeValidation, "Invalid phone number format")
	}
	return nil
}
