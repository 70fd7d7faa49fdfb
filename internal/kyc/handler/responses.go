package handler

import (
	"time"

	identity "kyc-gateway/internal/identity/models"
	"kyc-gateway/internal/kyc/models"
)

type SubmitResponse struct {
	DocumentID string    `json:"documentId"`
	Filename   string    `json:"filename"`
	Status     string    `json:"status"`
	UploadedAt time.Time `json:"uploadedAt"`
}

type DocumentResponse struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	Status       string    `json:"status"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

type KYCResponse struct {
	KYCStatus     string             `json:"kycStatus"`
	KYCVerifiedAt *time.Time         `json:"kycVerifiedAt"`
	Documents     []DocumentResponse `json:"documents"`
}

func toSubmitResponse(doc *models.Document) *SubmitResponse {
	return &SubmitResponse{
		DocumentID: doc.ID.String(),
		Filename:   doc.StoredName,
		Status:     string(doc.Status),
		UploadedAt: doc.UploadedAt,
	}
}

func toKYCResponse(status identity.KYCStatus, verifiedAt *time.Time, docs []*models.Document) *KYCResponse {
	out := make([]DocumentResponse, len(docs))
	for i, doc := range docs {
		out[i] = DocumentResponse{
			ID:           doc.ID.String(),
			Filename:     doc.StoredName,
			OriginalName: doc.OriginalName,
			Status:       string(doc.Status),
			UploadedAt:   doc.UploadedAt,
		}
	}
	return &KYCResponse{
		KYCStatus:     string(status),
		KYCVerifiedAt: verifiedAt,
		Documents:     out,
	}
}
