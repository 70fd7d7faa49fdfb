package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	identity "kyc-gateway/internal/identity/models"
	"kyc-gateway/internal/kyc/models"
	"kyc-gateway/internal/kyc/objectstore"
	"kyc-gateway/internal/kyc/verifier"
	"kyc-gateway/internal/platform/metrics"
	"kyc-gateway/internal/sentinel"
	id "kyc-gateway/pkg/domain"
	dErrors "kyc-gateway/pkg/domain-errors"
)

// UserStore is the slice of the identity store the workflow needs.
// Error Contract: GetByID returns sentinel.ErrNotFound for unknown users;
// UpdateKYCStatus returns sentinel.ErrInvalidState for transitions the user
// state machine forbids.
type UserStore interface {
	GetByID(ctx context.Context, userID id.UserID) (*identity.User, error)
	UpdateKYCStatus(ctx context.Context, userID id.UserID, status identity.KYCStatus, verifiedAt *time.Time) error
}

// DocumentStore defines the persistence interface for documents.
// Error Contract: UpdateStatus returns sentinel.ErrInvalidState when the
// document is already terminal, which the completion path treats as a
// duplicate delivery and ignores.
type DocumentStore interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, docID id.DocumentID) (*models.Document, error)
	ListByUser(ctx context.Context, userID id.UserID) ([]*models.Document, error)
	UpdateStatus(ctx context.Context, docID id.DocumentID, status models.DocumentStatus) error
}

// Upload carries a validated file submission into the workflow. Transport
// level constraints (size cap, content type) are enforced before it is built.
type Upload struct {
	OriginalName string
	ContentType  string
	Size         int64
	Payload      io.Reader
}

// Service is the verification workflow engine plus the read side used by
// status polling. It owns every KYC status mutation in the system.
type Service struct {
	users    UserStore
	docs     DocumentStore
	objects  objectstore.Store
	verifier verifier.Verifier
	logger   *slog.Logger
	metrics  *metrics.Metrics

	// inflight tracks spawned verification goroutines so shutdown can drain
	// them instead of dropping outcomes on the floor.
	inflight sync.WaitGroup
}

type Option func(*Service)

// WithMetrics sets the metrics instance for the service
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func NewService(users UserStore, docs DocumentStore, objects objectstore.Store, v verifier.Verifier, logger *slog.Logger, opts ...Option) *Service {
	svc := &Service{
		users:    users,
		docs:     docs,
		objects:  objects,
		verifier: v,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// SubmitDocument admits a document into the verification pipeline and
// returns immediately; the verdict is committed later by the background
// verification task. The returned document is always in the validating state.
//
// Preconditions are reported synchronously: unknown user, completed KYC
// (terminal, per the user state machine), or a verification already in
// flight for this user.
func (s *Service) SubmitDocument(ctx context.Context, userID id.UserID, upload Upload) (*models.Document, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "User not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read user")
	}

	switch user.KYCStatus {
	case identity.KYCStatusValid:
		return nil, dErrors.New(dErrors.CodeBadRequest, "KYC is already completed for this user")
	case identity.KYCStatusValidating:
		return nil, dErrors.New(dErrors.CodeConflict, "A document is already being verified for this user")
	}

	key := objectstore.StorageKey(upload.OriginalName)
	if err := s.objects.Put(ctx, key, upload.ContentType, upload.Payload); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store document payload")
	}

	// The user status flip is the admission point: of two racing submissions
	// that both passed the precondition reads, only one lands the
	// validating transition.
	if err := s.users.UpdateKYCStatus(ctx, userID, identity.KYCStatusValidating, nil); err != nil {
		_ = s.objects.Delete(context.WithoutCancel(ctx), key) //nolint:errcheck // best-effort cleanup
		if errors.Is(err, sentinel.ErrInvalidState) {
			return nil, dErrors.New(dErrors.CodeConflict, "A document is already being verified for this user")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update user status")
	}

	doc := &models.Document{
		ID:           id.NewDocumentID(),
		UserID:       userID,
		OriginalName: upload.OriginalName,
		StoredName:   key,
		ContentType:  upload.ContentType,
		Size:         upload.Size,
		Status:       models.DocumentStatusValidating,
		UploadedAt:   time.Now().UTC(),
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		// Roll the user back to a state that accepts re-submission.
		_ = s.users.UpdateKYCStatus(context.WithoutCancel(ctx), userID, identity.KYCStatusInvalid, nil) //nolint:errcheck
		_ = s.objects.Delete(context.WithoutCancel(ctx), key)                                           //nolint:errcheck
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create document")
	}

	s.logger.InfoContext(ctx, "document submitted",
		"user_id", userID.String(),
		"document_id", doc.ID.String(),
		"original_name", doc.OriginalName,
	)
	s.metrics.IncrementDocumentsSubmitted()

	s.inflight.Add(1)
	go s.runVerification(doc)

	return doc, nil
}

// Status is the point-in-time read used by pollers.
func (s *Service) Status(ctx context.Context, userID id.UserID) (identity.KYCStatus, *time.Time, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", nil, dErrors.New(dErrors.CodeNotFound, "User not found")
		}
		return "", nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read user")
	}
	return user.KYCStatus, user.KYCVerifiedAt, nil
}

// Documents lists a user's submissions in insertion order.
func (s *Service) Documents(ctx context.Context, userID id.UserID) ([]*models.Document, error) {
	docs, err := s.docs.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list documents")
	}
	return docs, nil
}

// Wait blocks until every in-flight verification has committed its outcome.
// Called on shutdown after the HTTP server has stopped accepting requests.
func (s *Service) Wait() {
	s.inflight.Wait()
}

// runVerification drives one document through the verifier and commits the
// outcome. It runs detached from any request context: pollers observe
// progress only through the stores.
func (s *Service) runVerification(doc *models.Document) {
	defer s.inflight.Done()

	start := time.Now()
	outcome := s.verify(context.Background(), doc)
	s.commit(context.Background(), doc, outcome, start)
}

// verify invokes the pluggable verifier and normalizes every failure mode
// (error return or panic) into a rejected outcome, so a verification never
// leaves a document stuck in validating.
func (s *Service) verify(ctx context.Context, doc *models.Document) (outcome verifier.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("verifier panicked",
				"document_id", doc.ID.String(),
				"panic", r,
			)
			outcome = verifier.Outcome{Accepted: false, Reason: "verification backend failure"}
		}
	}()

	outcome, err := s.verifier.Verify(ctx, doc)
	if err != nil {
		s.logger.Error("verifier failed",
			"document_id", doc.ID.String(),
			"error", err,
		)
		return verifier.Outcome{Accepted: false, Reason: "verification backend failure"}
	}
	return outcome
}

// commit is the completion handler: it applies the verdict to the document
// first and the user last, so a poller racing the commit sees at worst a
// conservative "still validating" aggregate, never a verified user without
// a verified document.
func (s *Service) commit(ctx context.Context, doc *models.Document, outcome verifier.Outcome, start time.Time) {
	docStatus := models.DocumentStatusInvalid
	userStatus := identity.KYCStatusInvalid
	var verifiedAt *time.Time
	if outcome.Accepted {
		docStatus = models.DocumentStatusValid
		userStatus = identity.KYCStatusValid
		now := time.Now().UTC()
		verifiedAt = &now
	}

	if err := s.docs.UpdateStatus(ctx, doc.ID, docStatus); err != nil {
		if errors.Is(err, sentinel.ErrInvalidState) {
			// Document already terminal: duplicate delivery, nothing to do.
			s.logger.WarnContext(ctx, "duplicate verification outcome ignored",
				"document_id", doc.ID.String(),
			)
			return
		}
		s.logger.ErrorContext(ctx, "failed to commit document status",
			"document_id", doc.ID.String(),
			"error", err,
		)
		return
	}

	if err := s.users.UpdateKYCStatus(ctx, doc.UserID, userStatus, verifiedAt); err != nil {
		s.logger.ErrorContext(ctx, "failed to commit user status",
			"user_id", doc.UserID.String(),
			"error", err,
		)
		return
	}

	s.metrics.ObserveVerification(string(docStatus), time.Since(start).Seconds())
	s.logger.InfoContext(ctx, "verification completed",
		"user_id", doc.UserID.String(),
		"document_id", doc.ID.String(),
		"outcome", string(docStatus),
		"reason", outcome.Reason,
		"verification_id", outcome.VerificationID.String(),
	)
}
