package handler

import (
	"time"

	"kyc-gateway/internal/identity/models"
)

type RegisterResponse struct {
	UserID        string     `json:"userId"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	CreatedAt     time.Time  `json:"createdAt"`
	KYCStatus     string     `json:"kycStatus"`
	KYCVerifiedAt *time.Time `json:"kycVerifiedAt"`
}

type UserResponse struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	KYCStatus     string     `json:"kycStatus"`
	KYCVerifiedAt *time.Time `json:"kycVerifiedAt"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func toRegisterResponse(u *models.User) *RegisterResponse {
	return &RegisterResponse{
		UserID:        u.ID.String(),
		Email:         u.Email,
		Phone:         u.Phone,
		CreatedAt:     u.CreatedAt,
		KYCStatus:     string(u.KYCStatus),
		KYCVerifiedAt: u.KYCVerifiedAt,
	}
}

func toUserResponse(u *models.User) *UserResponse {
	return &UserResponse{
		ID:            u.ID.String(),
		Email:         u.Email,
		Phone:         u.Phone,
		KYCStatus:     string(u.KYCStatus),
		KYCVerifiedAt: u.KYCVerifiedAt,
		CreatedAt:     u.CreatedAt,
	}
}
