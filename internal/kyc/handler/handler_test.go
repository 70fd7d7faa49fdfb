package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	identity "kyc-gateway/internal/identity/models"
	identitystore "kyc-gateway/internal/identity/store"
	"kyc-gateway/internal/kyc/objectstore"
	"kyc-gateway/internal/kyc/service"
	kycstore "kyc-gateway/internal/kyc/store"
	"kyc-gateway/internal/kyc/verifier"
	"kyc-gateway/internal/platform/logger"
	id "kyc-gateway/pkg/domain"
)

type HandlerSuite struct {
	suite.Suite
	users   *identitystore.InMemoryStore
	objects *objectstore.InMemoryStore
	service *service.Service
	router  http.Handler
}

func (s *HandlerSuite) SetupTest() {
	s.users = identitystore.New()
	s.objects = objectstore.NewMemory()
	s.service = service.NewService(
		s.users,
		kycstore.New(),
		s.objects,
		verifier.NewMock(time.Millisecond, 5*time.Millisecond),
		logger.NewDiscard(),
	)

	h := New(s.service, logger.NewDiscard())
	r := chi.NewRouter()
	h.Register(r)
	s.router = r
}

func (s *HandlerSuite) TearDownTest() {
	s.service.Wait()
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) seedUser(status identity.KYCStatus) *identity.User {
	u := &identity.User{
		ID:        id.NewUserID(),
		Email:     fmt.Sprintf("%s@example.com", id.NewUserID()),
		Phone:     fmt.Sprintf("+1555%s", id.NewUserID()),
		KYCStatus: status,
		CreatedAt: time.Now().UTC(),
	}
	s.Require().NoError(s.users.Create(context.Background(), u))
	return u
}

// multipartBody builds a single-file form under the given field name.
func (s *HandlerSuite) multipartBody(field, filename, contentType string, size int) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	s.Require().NoError(err)
	_, err = part.Write(bytes.Repeat([]byte{0x42}, size))
	s.Require().NoError(err)
	s.Require().NoError(mw.Close())

	return &buf, mw.FormDataContentType()
}

func (s *HandlerSuite) submit(userID string, field, filename, contentType string, size int) *httptest.ResponseRecorder {
	body, formContentType := s.multipartBody(field, filename, contentType, size)
	req := httptest.NewRequest(http.MethodPost, "/kyc/"+userID, body)
	req.Header.Set("Content-Type", formContentType)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) decode(rec *httptest.ResponseRecorder) map[string]any {
	var payload map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func (s *HandlerSuite) TestSubmitDocument() {
	u := s.seedUser(identity.KYCStatusNoDocuments)

	rec := s.submit(u.ID.String(), documentField, "passport_valid.png", "image/png", 128)
	s.Require().Equal(http.StatusOK, rec.Code)

	payload := s.decode(rec)
	s.Equal(true, payload["success"])
	s.Equal("Document uploaded successfully. Verification in progress.", payload["message"])

	data := payload["data"].(map[string]any)
	s.Equal("validating", data["status"])
	s.NotEmpty(data["documentId"])
	s.NotEmpty(data["filename"])

	// Poll the aggregate view until the verification lands.
	s.Require().Eventually(func() bool {
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/kyc/"+u.ID.String(), nil))
		s.Require().Equal(http.StatusOK, rec.Code)
		return s.decode(rec)["data"].(map[string]any)["kycStatus"] == "valid"
	}, 2*time.Second, 2*time.Millisecond)

	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/kyc/"+u.ID.String(), nil))
	data = s.decode(rec)["data"].(map[string]any)
	s.NotNil(data["kycVerifiedAt"])
	docs := data["documents"].([]any)
	s.Require().Len(docs, 1)
	doc := docs[0].(map[string]any)
	s.Equal("passport_valid.png", doc["originalName"])
	s.Equal("valid", doc["status"])
}

func (s *HandlerSuite) TestSubmitMissingFile() {
	u := s.seedUser(identity.KYCStatusNoDocuments)

	rec := s.submit(u.ID.String(), "attachment", "passport_valid.png", "image/png", 128)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Document file is required", s.decode(rec)["message"])
	s.Zero(s.objects.Len())
}

func (s *HandlerSuite) TestSubmitInvalidType() {
	u := s.seedUser(identity.KYCStatusNoDocuments)

	rec := s.submit(u.ID.String(), documentField, "notes.txt", "text/plain", 128)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Invalid file type. Only JPEG, PNG, JPG, and PDF files are allowed.", s.decode(rec)["message"])
	s.Zero(s.objects.Len())

	got, err := s.users.GetByID(context.Background(), u.ID)
	s.Require().NoError(err)
	s.Equal(identity.KYCStatusNoDocuments, got.KYCStatus, "rejected upload must not move the user")
}

func (s *HandlerSuite) TestSubmitTooLarge() {
	u := s.seedUser(identity.KYCStatusNoDocuments)

	rec := s.submit(u.ID.String(), documentField, "huge_valid.png", "image/png", 6<<20)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("File too large. Maximum size is 5MB.", s.decode(rec)["message"])
	s.Zero(s.objects.Len())

	got, err := s.users.GetByID(context.Background(), u.ID)
	s.Require().NoError(err)
	s.Equal(identity.KYCStatusNoDocuments, got.KYCStatus)
}

func (s *HandlerSuite) TestSubmitUnknownUser() {
	rec := s.submit(uuid.NewString(), documentField, "passport_valid.png", "image/png", 128)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("User not found", s.decode(rec)["message"])
}

func (s *HandlerSuite) TestSubmitAlreadyVerified() {
	u := s.seedUser(identity.KYCStatusValid)

	rec := s.submit(u.ID.String(), documentField, "passport_valid.png", "image/png", 128)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("KYC is already completed for this user", s.decode(rec)["message"])
}

func (s *HandlerSuite) TestSubmitWhileValidating() {
	u := s.seedUser(identity.KYCStatusValidating)

	rec := s.submit(u.ID.String(), documentField, "passport_valid.png", "image/png", 128)
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("A document is already being verified for this user", s.decode(rec)["message"])
}

func (s *HandlerSuite) TestGetKYCUnknownUser() {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/kyc/"+uuid.NewString(), nil))
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("User not found", s.decode(rec)["message"])
}
