package handler

import (
	"context"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	identity "kyc-gateway/internal/identity/models"
	"kyc-gateway/internal/kyc/models"
	"kyc-gateway/internal/kyc/service"
	"kyc-gateway/internal/platform/middleware"
	"kyc-gateway/internal/transport/http/shared"
	id "kyc-gateway/pkg/domain"
	dErrors "kyc-gateway/pkg/domain-errors"
)

const (
	// maxUploadBytes caps the document payload. Requests above it are
	// rejected before any state is touched.
	maxUploadBytes = 5 << 20
	// multipart framing allowance on top of the payload cap.
	multipartOverhead = 10 << 10

	documentField = "document"
)

// allowedContentTypes mirrors the upload filter of the legacy API.
var allowedContentTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/jpg":       {},
	"image/png":       {},
	"application/pdf": {},
}

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".pdf":  {},
}

// Service defines the interface for KYC workflow operations.
type Service interface {
	SubmitDocument(ctx context.Context, userID id.UserID, upload service.Upload) (*models.Document, error)
	Status(ctx context.Context, userID id.UserID) (identity.KYCStatus, *time.Time, error)
	Documents(ctx context.Context, userID id.UserID) ([]*models.Document, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/kyc/{userID}", h.HandleSubmitDocument)
	r.Get("/kyc/{userID}", h.HandleGetKYC)
}

// HandleSubmitDocument accepts one multipart document and starts its
// verification. File constraints are enforced here, before the workflow sees
// the submission, so an oversized or mistyped upload never creates state.
func (h *Handler) HandleSubmitDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeNotFound, "User not found"))
		return
	}

	if r.ContentLength > maxUploadBytes+multipartOverhead {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "File too large. Maximum size is 5MB."))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "File too large. Maximum size is 5MB."))
			return
		}
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Document file is required"))
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll() //nolint:errcheck
	}()

	file, header, err := r.FormFile(documentField)
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Document file is required"))
		return
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "File too large. Maximum size is 5MB."))
		return
	}
	contentType := partContentType(header.Header.Get("Content-Type"), header.Filename)
	if !allowedDocumentType(contentType, header.Filename) {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest,
			"Invalid file type. Only JPEG, PNG, JPG, and PDF files are allowed."))
		return
	}

	doc, err := h.service.SubmitDocument(ctx, userID, service.Upload{
		OriginalName: filepath.Base(header.Filename),
		ContentType:  contentType,
		Size:         header.Size,
		Payload:      file,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "submit document failed", "error", err, "request_id", requestID, "user_id", userID)
		shared.WriteError(w, err)
		return
	}

	shared.WriteSuccess(w, http.StatusOK,
		"Document uploaded successfully. Verification in progress.",
		toSubmitResponse(doc))
}

// HandleGetKYC returns the user's aggregate KYC state with every submitted
// document. The two reads are not transactional: a commit racing this
// handler can at worst make the aggregate look still-validating.
func (h *Handler) HandleGetKYC(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeNotFound, "User not found"))
		return
	}

	status, verifiedAt, err := h.service.Status(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get kyc status failed", "error", err, "request_id", requestID, "user_id", userID)
		shared.WriteError(w, err)
		return
	}
	docs, err := h.service.Documents(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "list documents failed", "error", err, "request_id", requestID, "user_id", userID)
		shared.WriteError(w, err)
		return
	}

	shared.WriteSuccess(w, http.StatusOK, "", toKYCResponse(status, verifiedAt, docs))
}

// partContentType resolves the declared type of the upload, falling back to
// the filename extension when the client sent none.
func partContentType(declared, filename string) string {
	if declared != "" && declared != "application/octet-stream" {
		if parsed, _, err := mime.ParseMediaType(declared); err == nil {
			return parsed
		}
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); byExt != "" {
		if parsed, _, err := mime.ParseMediaType(byExt); err == nil {
			return parsed
		}
	}
	return declared
}

func allowedDocumentType(contentType, filename string) bool {
	if _, ok := allowedContentTypes[contentType]; ok {
		return true
	}
	_, ok := allowedExtensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}
