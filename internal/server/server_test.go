package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	authdomain "github.com/edupay/feereport/internal/auth/domain"
	"github.com/edupay/feereport/internal/config"
	"github.com/edupay/feereport/internal/guard"
	obsmetrics "github.com/edupay/feereport/internal/observability/metrics"
	"github.com/edupay/feereport/internal/policy"
	reportsdomain "github.com/edupay/feereport/internal/reports/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type fakeAuthService struct {
	tokens map[string]guard.Claims
}

func (f *fakeAuthService) CreateUser(ctx context.Context, req authdomain.CreateUserRequest) (*authdomain.User, error) {
	return nil, authdomain.ErrInvalidRole
}

func (f *fakeAuthService) Login(ctx context.Context, req authdomain.LoginRequest) (*authdomain.LoginResult, error) {
	if req.Username == "admin" && req.Password == "super-secret-1" {
		return &authdomain.LoginResult{AccessToken: "admin-token", ExpiresIn: 3600}, nil
	}
	return nil, authdomain.ErrInvalidCredentials
}

func (f *fakeAuthService) Authenticate(ctx context.Context, rawToken string) (guard.Claims, error) {
	claims, ok := f.tokens[rawToken]
	if !ok {
		return guard.Claims{}, authdomain.ErrInvalidToken
	}
	return claims, nil
}

type fakeReportsService struct {
	dashboardCalls int
	failureCalls   int
	lastQuery      reportsdomain.PendingPaymentsQuery
}

func (f *fakeReportsService) GetDashboard(ctx context.Context, filters reportsdomain.DashboardFilters, fieldMasks []string) (reportsdomain.DashboardMetrics, error) {
	f.dashboardCalls++
	return reportsdomain.DashboardMetrics{
		Totals:             reportsdomain.Totals{AmountDue: 2500, AmountCollected: 900, Outstanding: 1600, CollectionRate: 0.36},
		OutstandingSamples: []guard.Record{},
		GeneratedAt:        time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
	}, nil
}

func (f *fakeReportsService) GetPendingPayments(ctx context.Context, query reportsdomain.PendingPaymentsQuery, fieldMasks []string) (reportsdomain.PendingPaymentsPage, error) {
	f.lastQuery = query
	return reportsdomain.PendingPaymentsPage{Total: 0, Page: 1, Limit: reportsdomain.DefaultPageLimit, Data: []guard.Record{}}, nil
}

func (f *fakeReportsService) ExportPendingPayments(ctx context.Context, query reportsdomain.PendingPaymentsQuery, fieldMasks []string) ([]byte, error) {
	f.lastQuery = query
	return []byte("referenceCode,status\n"), nil
}

func (f *fakeReportsService) GetTransactionFailures(ctx context.Context, query reportsdomain.FailureQuery) ([]reportsdomain.FailureRecord, error) {
	f.failureCalls++
	return []reportsdomain.FailureRecord{}, nil
}

func setupTestServer(t *testing.T) (*Server, *fakeReportsService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	auth := &fakeAuthService{
		tokens: map[string]guard.Claims{
			"admin-token": {
				UserID:      "1",
				Username:    "admin",
				Role:        policy.RoleSuperAdmin,
				Permissions: policy.ForRole(policy.RoleSuperAdmin).Permissions,
			},
			"dev-token": {
				UserID:      "2",
				Username:    "dev",
				Role:        policy.RoleDeveloper,
				Permissions: policy.ForRole(policy.RoleDeveloper).Permissions,
				FieldMasks:  policy.ForRole(policy.RoleDeveloper).FieldMasks,
			},
		},
	}
	reports := &fakeReportsService{}

	engine := NewEngine(zap.NewNop(), newTestHTTPMetrics())
	svc := NewServer(ServerParams{
		Gin:        engine,
		Cfg:        config.Config{},
		Authsvc:    auth,
		ReportsSvc: reports,
	})
	return svc, reports
}

func newTestHTTPMetrics() *obsmetrics.HTTPMetrics {
	return obsmetrics.NewHTTPMetricsWithRegisterer(prometheus.NewRegistry())
}

func doRequest(t *testing.T, svc *Server, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	svc.Engine().ServeHTTP(rec, req)
	return rec
}

func TestDashboardRequiresAuth(t *testing.T) {
	svc, reports := setupTestServer(t)

	rec := doRequest(t, svc, http.MethodGet, "/reports/dashboard", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	rec = doRequest(t, svc, http.MethodGet, "/reports/dashboard", "garbage", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", rec.Code)
	}

	if reports.dashboardCalls != 0 {
		t.Fatalf("service must not run for unauthenticated requests")
	}
}

func TestDashboardForbiddenBeforeServiceRuns(t *testing.T) {
	svc, reports := setupTestServer(t)

	rec := doRequest(t, svc, http.MethodGet, "/reports/dashboard", "dev-token", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for developer role, got %d", rec.Code)
	}
	if reports.dashboardCalls != 0 {
		t.Fatalf("service must not run when permission is missing")
	}

	var payload struct {
		Error struct {
			Type string `json:"type"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse error body: %v", err)
	}
	if payload.Error.Type != "forbidden" {
		t.Fatalf("expected forbidden error payload, got %+v", payload)
	}
}

func TestDashboardOK(t *testing.T) {
	svc, reports := setupTestServer(t)

	rec := doRequest(t, svc, http.MethodGet, "/reports/dashboard?schoolId=sch-001&from=2026-01-01&to=2026-01-31", "admin-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if reports.dashboardCalls != 1 {
		t.Fatalf("expected exactly one service call, got %d", reports.dashboardCalls)
	}

	var metrics reportsdomain.DashboardMetrics
	if err := json.Unmarshal(rec.Body.Bytes(), &metrics); err != nil {
		t.Fatalf("parse body: %v", err)
	}
	if metrics.Totals.AmountDue != 2500 {
		t.Fatalf("expected totals in response, got %+v", metrics.Totals)
	}
}

func TestDashboardRejectsBadDate(t *testing.T) {
	svc, reports := setupTestServer(t)

	rec := doRequest(t, svc, http.MethodGet, "/reports/dashboard?from=yesterday", "admin-token", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad date, got %d", rec.Code)
	}
	if reports.dashboardCalls != 0 {
		t.Fatalf("service must not run for invalid input")
	}
}

func TestPendingPaymentsPassesWindow(t *testing.T) {
	svc, reports := setupTestServer(t)

	rec := doRequest(t, svc, http.MethodGet, "/reports/pending-payments?page=3&limit=10&paymentMethod=CASH", "admin-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if reports.lastQuery.Page != 3 || reports.lastQuery.Limit != 10 {
		t.Fatalf("expected window 3/10, got %d/%d", reports.lastQuery.Page, reports.lastQuery.Limit)
	}
	if reports.lastQuery.PaymentMethod != "CASH" {
		t.Fatalf("expected paymentMethod CASH, got %s", reports.lastQuery.PaymentMethod)
	}
}

func TestExportSetsCSVHeaders(t *testing.T) {
	svc, _ := setupTestServer(t)

	rec := doRequest(t, svc, http.MethodGet, "/reports/pending-payments/export?limit=100000", "admin-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("expected text/csv content type, got %s", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "pending-payments.csv") {
		t.Fatalf("expected attachment filename, got %s", cd)
	}
}

func TestTransactionFailuresValidation(t *testing.T) {
	svc, reports := setupTestServer(t)

	rec := doRequest(t, svc, http.MethodGet, "/reports/transactions/failures?lastHours=abc", "admin-token", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad lastHours, got %d", rec.Code)
	}
	if reports.failureCalls != 0 {
		t.Fatalf("service must not run for invalid input")
	}

	rec = doRequest(t, svc, http.MethodGet, "/reports/transactions/failures?lastHours=1&gateways=midtrans,xendit", "admin-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "[]" {
		t.Fatalf("expected empty array body, got %s", rec.Body.String())
	}
}

func TestLoginHandler(t *testing.T) {
	svc, _ := setupTestServer(t)

	rec := doRequest(t, svc, http.MethodPost, "/auth/login", "", `{"username":"admin","password":"super-secret-1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result authdomain.LoginResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("parse body: %v", err)
	}
	if result.AccessToken != "admin-token" || result.ExpiresIn != 3600 {
		t.Fatalf("unexpected login result %+v", result)
	}

	rec = doRequest(t, svc, http.MethodPost, "/auth/login", "", `{"username":"admin","password":"nope"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad credentials, got %d", rec.Code)
	}

	rec = doRequest(t, svc, http.MethodPost, "/auth/login", "", `{`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	svc, _ := setupTestServer(t)

	rec := doRequest(t, svc, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
