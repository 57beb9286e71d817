package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paycove/payroll-backend-go/internal/domain/payroll"
	"github.com/paycove/payroll-backend-go/internal/handler/http/response"
	"github.com/paycove/payroll-backend-go/internal/pkg/jwt"
)

// stubPayrollService records the last call and returns canned results.
type stubPayrollService struct {
	lastActorID string
	result      payroll.PayrollResponse
	err         error
}

func (s *stubPayrollService) Create(ctx context.Context, req payroll.CreatePayrollRequest, actorID string) (payroll.PayrollResponse, error) {
	s.lastActorID = actorID
	return s.result, s.err
}

func (s *stubPayrollService) Calculate(ctx context.Context, id string, req payroll.CalculatePayrollRequest, actorID string) (payroll.CalculateResponse, error) {
	s.lastActorID = actorID
	return payroll.CalculateResponse{Payroll: s.result}, s.err
}

func (s *stubPayrollService) Approve(ctx context.Context, id string, req payroll.TransitionRequest, actorID string) (payroll.PayrollResponse, error) {
	s.lastActorID = actorID
	return s.result, s.err
}

func (s *stubPayrollService) Process(ctx context.Context, id string, req payroll.TransitionRequest, actorID string) (payroll.PayrollResponse, error) {
	s.lastActorID = actorID
	return s.result, s.err
}

func (s *stubPayrollService) MarkPaid(ctx context.Context, id string, req payroll.MarkPaidRequest, actorID string) (payroll.PayrollResponse, error) {
	s.lastActorID = actorID
	return s.result, s.err
}

func (s *stubPayrollService) Cancel(ctx context.Context, id string, req payroll.TransitionRequest, actorID string) (payroll.PayrollResponse, error) {
	s.lastActorID = actorID
	return s.result, s.err
}

func (s *stubPayrollService) GetByID(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	return s.result, s.err
}

func (s *stubPayrollService) List(ctx context.Context, filter payroll.ListFilter) (payroll.ListPayrollResponse, error) {
	return payroll.ListPayrollResponse{Data: []payroll.PayrollResponse{s.result}, TotalCount: 1, Page: 1, Limit: 20}, s.err
}

// authedRequest builds a request whose context carries a verified token with a
// user_id claim, the way jwtauth.Verifier leaves it for the handler.
func authedRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(method, target, &buf)

	jwtSvc := jwt.NewJWTService("handler-test-secret", "1h")
	tokenString, _, err := jwtSvc.GenerateAccessToken("user-42", "user-42@example.com", "admin")
	require.NoError(t, err)
	token, err := jwtSvc.JWTAuth().Decode(tokenString)
	require.NoError(t, err)

	return req.WithContext(jwtauth.NewContext(req.Context(), token, nil))
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var env response.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func TestPayrollHandler_Create_Success(t *testing.T) {
	t.Parallel()

	svc := &stubPayrollService{result: payroll.PayrollResponse{ID: "pr-1", Status: "draft", Version: 1}}
	handler := NewPayrollHandler(svc)

	req := authedRequest(t, http.MethodPost, "/api/v1/payrolls", payroll.CreatePayrollRequest{
		EmployeeID:  "emp-1",
		PeriodStart: "2025-01-01",
		PeriodEnd:   "2025-01-31",
	})
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, "user-42", svc.lastActorID)
}

func TestPayrollHandler_Create_MissingActorClaim(t *testing.T) {
	t.Parallel()

	svc := &stubPayrollService{}
	handler := NewPayrollHandler(svc)

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(payroll.CreatePayrollRequest{EmployeeID: "emp-1"}))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payrolls", &buf)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, svc.lastActorID)
}

func TestPayrollHandler_Create_InvalidBody(t *testing.T) {
	t.Parallel()

	handler := NewPayrollHandler(&stubPayrollService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payrolls", bytes.NewBufferString("{not json"))
	jwtSvc := jwt.NewJWTService("handler-test-secret", "1h")
	tokenString, _, err := jwtSvc.GenerateAccessToken("user-42", "user-42@example.com", "admin")
	require.NoError(t, err)
	token, err := jwtSvc.JWTAuth().Decode(tokenString)
	require.NoError(t, err)
	req = req.WithContext(jwtauth.NewContext(req.Context(), token, nil))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPayrollHandler_GetByID_NotFound(t *testing.T) {
	t.Parallel()

	svc := &stubPayrollService{err: payroll.ErrPayrollNotFound}
	handler := NewPayrollHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payrolls/nope", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "nope")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()

	handler.GetByID(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
}

func TestPayrollHandler_Approve_VersionConflict(t *testing.T) {
	t.Parallel()

	svc := &stubPayrollService{err: payroll.ErrConcurrencyConflict}
	handler := NewPayrollHandler(svc)

	req := authedRequest(t, http.MethodPost, "/api/v1/payrolls/pr-1/approve", payroll.TransitionRequest{Version: 1})
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "pr-1")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()

	handler.Approve(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}
