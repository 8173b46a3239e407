package order_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/commerce-ops/opsboard/internal/auth"
	"github.com/commerce-ops/opsboard/internal/backend"
	"github.com/commerce-ops/opsboard/internal/config"
	"github.com/commerce-ops/opsboard/internal/enrich"
	"github.com/commerce-ops/opsboard/internal/entity"
	ordersvc "github.com/commerce-ops/opsboard/internal/service/order"
	transport "github.com/commerce-ops/opsboard/internal/transport/http/order"
)

type fakeBackend struct {
	summaries []entity.OrderSummary
	details   map[string]*entity.OrderDetail
}

func (f *fakeBackend) OrderSummaries(ctx context.Context) ([]entity.OrderSummary, error) {
	return f.summaries, nil
}

func (f *fakeBackend) OrderDetail(ctx context.Context, orderID string) (*entity.OrderDetail, error) {
	if d, ok := f.details[orderID]; ok {
		return d, nil
	}
	return nil, errors.New("no detail")
}

func (f *fakeBackend) SendOTP(ctx context.Context) error { return nil }

func (f *fakeBackend) VerifyOTP(ctx context.Context, email, otp string) (*backend.OTPResult, error) {
	return &backend.OTPResult{Status: "success"}, nil
}

type envelope struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data"`
	Error   struct {
		Kind string `json:"kind"`
	} `json:"error"`
	Meta map[string]any `json:"meta"`
}

func setup(t *testing.T) (*echo.Echo, string) {
	t.Helper()

	be := &fakeBackend{
		summaries: []entity.OrderSummary{
			{OrderID: "ORD-1", Placed: true, Delivered: true, CustomerUID: "cust-1"},
			{OrderID: "ORD-2", Placed: true, CustomerUID: "cust-2"},
		},
		details: map[string]*entity.OrderDetail{
			"ORD-1": {SubOrderID: "ORD-1", SubOrderCost: decimal.NewFromInt(250)},
			"ORD-2": {SubOrderID: "ORD-2", SubOrderCost: decimal.NewFromInt(90)},
		},
	}

	pipeline := enrich.New(be, zap.NewNop(), 4)
	svc := ordersvc.New(be, pipeline, nil, time.Minute, zap.NewNop())

	authSvc := auth.New(be, config.Session{
		JWTSecret:   "test-secret",
		TTL:         time.Hour,
		AdminEmails: []string{"admin@example.com"},
	}, zap.NewNop())
	session, err := authSvc.Login(context.Background(), "admin@example.com", "123456")
	require.NoError(t, err)

	cfg := config.Config{}
	cfg.Enrichment.DefaultPageSize = 10

	e := echo.New()
	transport.Register(e, transport.NewHandler(svc, cfg), auth.NewGuard(authSvc))
	return e, session.Token
}

func doRequest(t *testing.T, e *echo.Echo, target, token string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func TestListRequiresSession(t *testing.T) {
	e, _ := setup(t)

	code, env := doRequest(t, e, "/api/orders", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, env.Success)
	assert.Equal(t, "unauthorized", env.Error.Kind)
}

func TestListRendersOrderTable(t *testing.T) {
	e, token := setup(t)

	code, env := doRequest(t, e, "/api/orders", token)
	require.Equal(t, http.StatusOK, code)
	require.True(t, env.Success)

	rows, ok := env.Data["rows"].([]any)
	require.True(t, ok)
	require.Len(t, rows, 2)
	assert.Equal(t, float64(2), env.Meta["totalFiltered"])

	first, ok := rows[0].(map[string]any)
	require.True(t, ok)
	cells, ok := first["cells"].([]any)
	require.True(t, ok)
	require.Len(t, cells, 6)
	amount := cells[3].(map[string]any)
	assert.Equal(t, "amount", amount["key"])
	assert.Equal(t, "₹250.00", amount["value"])
}

func TestListFiltersBySearchTerm(t *testing.T) {
	e, token := setup(t)

	code, env := doRequest(t, e, "/api/orders?search=ord-2", token)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), env.Meta["totalFiltered"])

	code, env = doRequest(t, e, "/api/orders?search=nothing", token)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), env.Meta["totalFiltered"])
	assert.Equal(t, true, env.Data["noResults"])
}

func TestMetricsEndpoint(t *testing.T) {
	e, token := setup(t)

	code, env := doRequest(t, e, "/api/orders/metrics", token)
	require.Equal(t, http.StatusOK, code)
	require.True(t, env.Success)

	assert.Equal(t, float64(2), env.Data["total"])
	assert.Equal(t, float64(1), env.Data["completed"])
	// ORD-1 is placed but never confirmed, so it counts as pending even
	// though it is already delivered.
	assert.Equal(t, float64(2), env.Data["pending"])
	assert.Equal(t, float64(50), env.Data["completionRate"])
}

func TestGetOrderWithProgress(t *testing.T) {
	e, token := setup(t)

	code, env := doRequest(t, e, "/api/orders/ORD-2", token)
	require.Equal(t, http.StatusOK, code)
	require.True(t, env.Success)

	progress, ok := env.Data["progress"].([]any)
	require.True(t, ok)
	require.Len(t, progress, 5)

	code, env = doRequest(t, e, "/api/orders/missing", token)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not_found", env.Error.Kind)
}
