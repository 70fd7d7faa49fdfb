package httptransport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	identityservice "kyc-gateway/internal/identity/service"
	identitystore "kyc-gateway/internal/identity/store"
	"kyc-gateway/internal/kyc/objectstore"
	kycservice "kyc-gateway/internal/kyc/service"
	kycstore "kyc-gateway/internal/kyc/store"
	"kyc-gateway/internal/kyc/verifier"
	"kyc-gateway/internal/platform/health"
	"kyc-gateway/internal/platform/logger"
)

func newTestRouter(t *testing.T) (http.Handler, *kycservice.Service) {
	t.Helper()

	log := logger.NewDiscard()
	users := identitystore.New()
	kycSvc := kycservice.NewService(
		users,
		kycstore.New(),
		objectstore.NewMemory(),
		verifier.NewMock(time.Millisecond, 5*time.Millisecond),
		log,
	)

	router := NewRouter(Dependencies{
		Identity: identityservice.NewService(users, log),
		KYC:      kycSvc,
		Health:   health.New("test"),
		Logger:   log,
	})
	return router, kycSvc
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var payload map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	}
	return rec, payload
}

// TestVerificationFlow walks the whole happy path the way a client would:
// register, upload a document, poll until the verification lands.
func TestVerificationFlow(t *testing.T) {
	router, kycSvc := newTestRouter(t)
	defer kycSvc.Wait()

	rec, payload := doJSON(t, router, http.MethodPost, "/users", map[string]string{
		"email":    "flow@example.com",
		"password": "hunter22",
		"phone":    "+1 555 010 0123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	userID := payload["data"].(map[string]any)["userId"].(string)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("document", "passport_valid.png")
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte{0x42}, 256))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/kyc/"+userID, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Eventually(t, func() bool {
		rec, payload := doJSON(t, router, http.MethodGet, fmt.Sprintf("/kyc/%s", userID), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		return payload["data"].(map[string]any)["kycStatus"] == "valid"
	}, 2*time.Second, 2*time.Millisecond)

	rec, payload = doJSON(t, router, http.MethodGet, "/users/"+userID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := payload["data"].(map[string]any)
	require.Equal(t, "valid", data["kycStatus"])
	require.NotNil(t, data["kycVerifiedAt"])
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	router, kycSvc := newTestRouter(t)
	defer kycSvc.Wait()

	for _, path := range []string{"/health", "/health/live", "/health/ready", "/metrics"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code, path)
	}
}
