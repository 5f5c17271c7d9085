package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abernathy-clinic/medilabo-ui/config"
	"github.com/abernathy-clinic/medilabo-ui/internal/gateway"
	"github.com/abernathy-clinic/medilabo-ui/internal/service"
	"github.com/abernathy-clinic/medilabo-ui/internal/session"
)

// fakeBackend plays the remote gateway and records the Cookie header of
// every call it receives.
type fakeBackend struct {
	mux     *http.ServeMux
	cookies []string
}

func newFakeBackend() *fakeBackend {
	b := &fakeBackend{mux: http.NewServeMux()}
	return b
}

func (b *fakeBackend) handle(pattern string, status int, body string) {
	b.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		b.cookies = append(b.cookies, r.Header.Get("Cookie"))
		w.WriteHeader(status)
		w.Write([]byte(body))
	})
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mux.ServeHTTP(w, r)
}

func newTestHandler(t *testing.T, backend *fakeBackend) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	log := zap.NewNop()
	gw := gateway.NewClient(config.GatewayConfig{
		BaseURL:           srv.URL,
		CallTimeout:       5 * time.Second,
		SessionCookieName: "JSESSIONID",
	}, log, nil)
	svc := service.NewPatientViewService(gw, log, nil)
	h := NewPatientHandler(svc, session.NewExtractor("JSESSIONID"), log)

	r := gin.New()
	api := r.Group("/api/v1")
	h.Register(api)
	return r
}

func TestEditViewPropagatesSessionCookieToEveryOutboundCall(t *testing.T) {
	backend := newFakeBackend()
	backend.handle("/api/proxy/patients", http.StatusOK, `{"patientId":1,"firstName":"Test"}`)
	backend.handle("/api/proxy/notes/history", http.StatusOK, `[{"patientId":1,"physician":"Dr. Kenny","note":"smoker"}]`)
	backend.handle("/api/proxy/risk/check", http.StatusOK, `{"patientId":1,"riskLevel":"In Danger"}`)
	router := newTestHandler(t, backend)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/1/edit-view", nil)
	req.AddCookie(&http.Cookie{Name: "JSESSIONID", Value: "abc"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, backend.cookies, 3, "patient fetch, note fetch, risk call")
	for _, cookie := range backend.cookies {
		assert.Equal(t, "JSESSIONID=abc", cookie)
	}
}

func TestEditViewZeroNotesReturnsNoRiskAndRecordsNoRiskCall(t *testing.T) {
	backend := newFakeBackend()
	backend.handle("/api/proxy/patients", http.StatusOK, `{"patientId":1,"firstName":"Test"}`)
	backend.handle("/api/proxy/notes/history", http.StatusOK, `[]`)
	riskCalled := false
	backend.mux.HandleFunc("/api/proxy/risk/check", func(w http.ResponseWriter, r *http.Request) {
		riskCalled = true
	})
	router := newTestHandler(t, backend)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/1/edit-view", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, riskCalled)

	var resp struct {
		Data service.EditView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Nil(t, resp.Data.RiskResult)
	assert.Empty(t, resp.Data.RiskError)
}

func TestEditViewRiskBackendFailureStillSucceeds(t *testing.T) {
	backend := newFakeBackend()
	backend.handle("/api/proxy/patients", http.StatusOK, `{"patientId":1,"firstName":"Test"}`)
	backend.handle("/api/proxy/notes/history", http.StatusOK, `[{"patientId":1,"note":"smoker"}]`)
	backend.handle("/api/proxy/risk/check", http.StatusInternalServerError, `risk scorer down`)
	router := newTestHandler(t, backend)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/1/edit-view", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, "risk failure must not fail the view")

	var resp struct {
		Data service.EditView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Test", resp.Data.Patient.FirstName)
	require.Len(t, resp.Data.Notes, 1)
	assert.Nil(t, resp.Data.RiskResult)
	assert.NotEmpty(t, resp.Data.RiskError)
}

func TestListFailureIdentifiesCapabilityAndStatus(t *testing.T) {
	backend := newFakeBackend()
	backend.handle("/api/proxy/patients/all", http.StatusServiceUnavailable, `maintenance`)
	router := newTestHandler(t, backend)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "patients", resp.Details["capability"])
	assert.Equal(t, "503", resp.Details["backend_status"])
	assert.Contains(t, resp.Error, "patients")
}

func TestUpdateWithNotePartialFailureIsDistinguishable(t *testing.T) {
	backend := newFakeBackend()
	backend.handle("/api/proxy/patients", http.StatusOK, `{"patientId":3,"firstName":"Test"}`)
	backend.handle("/api/proxy/notes/history", http.StatusBadGateway, `note store down`)
	router := newTestHandler(t, backend)

	body := `{"patientId":3,"firstName":"Test","lastName":"None","physician":"Dr. Kenny","note":"follow up"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/patients/3", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, "the update itself succeeded")

	var resp struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Message, "note not recorded")
}

func TestCreateForwardsSubmissionAndReturnsAssignedID(t *testing.T) {
	backend := newFakeBackend()
	backend.handle("/api/proxy/patients", http.StatusOK, `{"patientId":42,"firstName":"New","lastName":"Patient"}`)
	router := newTestHandler(t, backend)

	body := `{"firstName":"New","lastName":"Patient","dob":"1990-01-15","gender":"M"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/patients", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"patientId":42`)
}

func TestInvalidPatientIDRejectedBeforeAnyCall(t *testing.T) {
	backend := newFakeBackend()
	router := newTestHandler(t, backend)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/abc/edit-view", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, backend.cookies)
}
