package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kyc-gateway/internal/identity/models"
	"kyc-gateway/internal/platform/middleware"
	"kyc-gateway/internal/transport/http/shared"
	id "kyc-gateway/pkg/domain"
	dErrors "kyc-gateway/pkg/domain-errors"
)

// Service defines the interface for user operations.
// Returns domain objects, not HTTP response DTOs.
type Service interface {
	Register(ctx context.Context, email, password, phone string) (*models.User, error)
	GetByID(ctx context.Context, userID id.UserID) (*models.User, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/users", h.HandleRegister)
	r.Get("/users/{userID}", h.HandleGetUser)
}

// HandleRegister creates a user with an empty KYC state.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := shared.DecodeAndPrepare[RegisterRequest](w, r, h.logger)
	if !ok {
		return
	}

	user, err := h.service.Register(ctx, req.Email, req.Password, req.Phone)
	if err != nil {
		h.logger.ErrorContext(ctx, "register user failed", "error", err, "request_id", requestID)
		shared.WriteError(w, err)
		return
	}

	shared.WriteSuccess(w, http.StatusCreated, "User registered successfully", toRegisterResponse(user))
}

// HandleGetUser returns a user's profile and KYC state.
func (h *Handler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeNotFound, "User not found"))
		return
	}

	user, err := h.service.GetByID(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get user failed", "error", err, "request_id", requestID, "user_id", userID)
		shared.WriteError(w, err)
		return
	}

	shared.WriteSuccess(w, http.StatusOK, "", toUserResponse(user))
}
