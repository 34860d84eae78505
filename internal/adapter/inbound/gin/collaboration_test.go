package gin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/collabhub/server/internal/adapter/outbound/memory"
	"github.com/collabhub/server/internal/adapter/outbound/token"
	"github.com/collabhub/server/internal/domain/collaboration"
	"github.com/collabhub/server/internal/model"
	"github.com/collabhub/server/internal/port/outbound"
	apperrors "github.com/collabhub/server/internal/utils/errors"
	"github.com/collabhub/server/internal/utils/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, outbound.NotificationEvent, *model.Collaboration) {}

type account struct {
	id    uuid.UUID
	role  model.Role
	name  string
	token string
}

type testServer struct {
	router  *gin.Engine
	brand   account
	creator account
	staff   account
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	tokens := token.NewJWTManager(&token.JWTConfig{Secret: "test-secret", Issuer: "collabhub"})
	mint := func(role model.Role, name string) account {
		a := account{id: uuid.New(), role: role, name: name}
		tok, _, err := tokens.GenerateAccessToken(outbound.TokenClaims{UserID: a.id, Role: role, Name: name})
		require.NoError(t, err)
		a.token = tok
		return a
	}

	domain := collaboration.NewCollaborationDomain(memory.NewCollaborationStore(), noopNotifier{}, nil, nil, nil, nil, zap.NewNop())
	settings := collaboration.PlatformSettings{CommissionBps: 1000, GSTBps: 1800, ProcessingBps: 200, Currency: "INR"}
	h := NewCollaborationHandler(domain, settings, zap.NewNop())

	router := gin.New()
	api := router.Group("/api/v1", middleware.RequireAuth(tokens, middleware.NewStaffList(nil)))
	RegisterCollaborationRoutes(api, h)

	return &testServer{
		router:  router,
		brand:   mint(model.RoleBrand, "Acme"),
		creator: mint(model.RoleInfluencer, "Riya"),
		staff:   mint(model.RoleStaff, "Ops"),
	}
}

func (s *testServer) do(t *testing.T, as account, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, "/api/v1"+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if as.token != "" {
		req.Header.Set("Authorization", "Bearer "+as.token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeCollab(t *testing.T, w *httptest.ResponseRecorder) model.CollaborationResponse {
	t.Helper()
	var resp model.CollaborationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp.Error.Code
}

func (s *testServer) createDirect(t *testing.T) model.CollaborationResponse {
	t.Helper()
	w := s.do(t, s.brand, http.MethodPost, "/collaborations", map[string]any{
		"kind":         "direct",
		"counterparty": map[string]any{"id": s.creator.id, "name": s.creator.name},
		"message":      "hello",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeCollab(t, w)
}

func TestCollaborationHandler_HappyPath(t *testing.T) {
	s := newTestServer(t)
	created := s.createDirect(t)
	assert.Equal(t, model.StatusPending, created.Status)
	assert.Regexp(t, `^COL-\d{8}-[A-Z0-9]{5}$`, created.CollabID)

	path := func(action string) string { return fmt.Sprintf("/collaborations/%s/%s", created.ID, action) }

	steps := []struct {
		as     account
		action string
		body   any
		status model.CollaborationStatus
	}{
		{s.creator, "counter-offer", map[string]any{"amount": "₹5000"}, model.StatusInfluencerOffer},
		{s.brand, "accept", nil, model.StatusAgreementReached},
		{s.brand, "confirm-payment", map[string]any{"confirmed": true, "reference": "pi_1"}, model.StatusInProgress},
		{s.creator, "start", nil, model.StatusInProgress},
		{s.creator, "submit", nil, model.StatusWorkSubmitted},
		{s.brand, "confirm-completion", nil, model.StatusCompleted},
		{s.creator, "request-payout", nil, model.StatusCompleted},
		{s.staff, "complete-payout", nil, model.StatusCompleted},
	}

	for _, st := range steps {
		w := s.do(t, st.as, http.MethodPost, path(st.action), st.body)
		require.Equal(t, http.StatusOK, w.Code, "%s: %s", st.action, w.Body.String())
		assert.Equal(t, st.status, decodeCollab(t, w).Status, st.action)
	}

	w := s.do(t, s.brand, http.MethodGet, "/collaborations/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	final := decodeCollab(t, w)
	assert.Equal(t, model.PaymentStatusPayoutComplete, final.PaymentStatus)
	require.NotNil(t, final.FinalAmount)
	assert.Equal(t, "₹5000", final.FinalAmount.String())
	require.NotNil(t, final.Payout)
	assert.Equal(t, int64(431000), final.Payout.Payout.Minor)
}

func TestCollaborationHandler_Errors(t *testing.T) {
	s := newTestServer(t)
	created := s.createDirect(t)
	base := "/collaborations/" + created.ID.String()

	tests := []struct {
		name   string
		as     account
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"unauthenticated", account{}, http.MethodGet, base, nil, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"bad id", s.brand, http.MethodGet, "/collaborations/nope", nil, http.StatusBadRequest, "BAD_REQUEST"},
		{"not found", s.brand, http.MethodGet, "/collaborations/" + uuid.NewString(), nil, http.StatusNotFound, "NOT_FOUND"},
		{"start from pending", s.creator, http.MethodPost, base + "/start", nil, http.StatusConflict, "INVALID_TRANSITION"},
		{"accept without offer", s.creator, http.MethodPost, base + "/accept", nil, http.StatusConflict, "MISSING_OFFER"},
		{"staff cannot negotiate", s.staff, http.MethodPost, base + "/counter-offer", map[string]any{"amount": "₹10"}, http.StatusForbidden, "FORBIDDEN"},
		{"malformed amount", s.creator, http.MethodPost, base + "/counter-offer", map[string]any{"amount": "-5"}, http.StatusBadRequest, "BAD_REQUEST"},
		{"zero amount", s.creator, http.MethodPost, base + "/counter-offer", map[string]any{"amount": "0"}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"staff route for a brand", s.brand, http.MethodPost, "/collaborations/" + uuid.NewString() + "/review-dispute", nil, http.StatusForbidden, "FORBIDDEN"},
		{"payout completion for the creator", s.creator, http.MethodPost, base + "/complete-payout", nil, http.StatusForbidden, "FORBIDDEN"},
		{"refund resolution for a brand", s.brand, http.MethodPost, base + "/resolve-refund", map[string]any{"approve": true}, http.StatusForbidden, "FORBIDDEN"},
		{"offer in another currency", s.creator, http.MethodPost, base + "/counter-offer", map[string]any{"amount": "$10"}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"amount beyond range", s.creator, http.MethodPost, base + "/counter-offer", map[string]any{"amount": "₹200000000000000000"}, http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown kind filter", s.brand, http.MethodGet, "/collaborations?kind=poster", nil, http.StatusBadRequest, "BAD_REQUEST"},
		{"creator cannot open direct", s.creator, http.MethodPost, "/collaborations", map[string]any{
			"kind": "direct", "counterparty": map[string]any{"id": s.brand.id},
		}, http.StatusForbidden, "FORBIDDEN"},
		{"campaign needs subject", s.creator, http.MethodPost, "/collaborations", map[string]any{
			"kind": "campaign", "counterparty": map[string]any{"id": s.brand.id},
		}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, tt.as, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}
}

func TestCollaborationHandler_RejectRequiresReason(t *testing.T) {
	s := newTestServer(t)
	created := s.createDirect(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/collaborations/"+created.ID.String()+"/reject", nil)
	req.Header.Set("Authorization", "Bearer "+s.creator.token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))

	w = s.do(t, s.creator, http.MethodPost, "/collaborations/"+created.ID.String()+"/reject", map[string]any{"reason": "busy"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, model.StatusRejected, decodeCollab(t, w).Status)
}

func TestCollaborationHandler_ListAndDashboard(t *testing.T) {
	s := newTestServer(t)
	first := s.createDirect(t)
	s.createDirect(t)

	w := s.do(t, s.creator, http.MethodPost, "/collaborations/"+first.ID.String()+"/reject", map[string]any{"reason": "busy"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, s.brand, http.MethodGet, "/collaborations?status=pending", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list model.CollaborationListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)

	w = s.do(t, s.creator, http.MethodGet, "/collaborations/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var dash model.DashboardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dash))
	assert.Len(t, dash.Pending, 1)
	assert.Len(t, dash.Active, 0)
	require.Len(t, dash.Archived, 1)
	assert.Equal(t, "Acme", dash.Archived[0].PartnerName)
}

func TestToAppError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{collaboration.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("%w: x", collaboration.ErrInvalidTransition), http.StatusConflict, "INVALID_TRANSITION"},
		{collaboration.ErrMissingOffer, http.StatusConflict, "MISSING_OFFER"},
		{collaboration.ErrConcurrentModification, http.StatusConflict, "CONFLICT"},
		{collaboration.ErrPaymentNotConfirmed, http.StatusUnprocessableEntity, "PAYMENT_NOT_CONFIRMED"},
		{fmt.Errorf("%w: title", collaboration.ErrValidation), http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{collaboration.ErrUnauthorized, http.StatusForbidden, "FORBIDDEN"},
		{fmt.Errorf("confirm: %w", outbound.ErrPaymentGatewayUnavailable), http.StatusServiceUnavailable, "PAYMENT_GATEWAY_UNAVAILABLE"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			appErr := toAppError(tt.err)
			assert.Equal(t, tt.status, appErr.StatusCode)
			assert.Equal(t, tt.code, appErr.Code)
		})
	}
}

func TestHealth(t *testing.T) {
	router := gin.New()
	router.GET("/health", NewHealthHandler("test").Health)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok"`)
}
