package analyticshttp

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/crewplan/crewplan/internal/analytics"
	"github.com/crewplan/crewplan/internal/schedule"
	"github.com/crewplan/crewplan/internal/shared"
	"github.com/crewplan/crewplan/internal/users"
)

type mockService struct {
	lastManagerID int64
	lastUserID    int64
	lastWeeks     int
	calls         int

	capacity   analytics.TeamUtilizationResult
	trend      []analytics.UtilizationTrendPoint
	projects   []analytics.ProjectAnalytics
	individual *analytics.IndividualAnalytics
	series     analytics.ForecastVsActualsData
	summary    analytics.AnalyticsMetrics
}

func (m *mockService) TeamCapacity(ctx context.Context, managerID int64, weeks int) analytics.TeamUtilizationResult {
	m.calls++
	m.lastManagerID, m.lastWeeks = managerID, weeks
	return m.capacity
}

func (m *mockService) TeamUtilizationTrend(ctx context.Context, managerID int64, weeks int) []analytics.UtilizationTrendPoint {
	m.calls++
	m.lastManagerID, m.lastWeeks = managerID, weeks
	return m.trend
}

func (m *mockService) ProjectAnalyticsList(ctx context.Context, managerID int64, weeks int) []analytics.ProjectAnalytics {
	m.calls++
	m.lastManagerID, m.lastWeeks = managerID, weeks
	return m.projects
}

func (m *mockService) Individual(ctx context.Context, managerID, userID int64, weeks int) *analytics.IndividualAnalytics {
	m.calls++
	m.lastManagerID, m.lastUserID, m.lastWeeks = managerID, userID, weeks
	return m.individual
}

func (m *mockService) ForecastVsActuals(ctx context.Context, managerID int64, weeks int) analytics.ForecastVsActualsData {
	m.calls++
	m.lastManagerID, m.lastWeeks = managerID, weeks
	return m.series
}

func (m *mockService) Summary(ctx context.Context, managerID int64, weeks int) analytics.AnalyticsMetrics {
	m.calls++
	m.lastManagerID, m.lastWeeks = managerID, weeks
	return m.summary
}

func newTestHandler(service Service) *Handler {
	return NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), service)
}

func authenticated(req *http.Request, userID string) *http.Request {
	sess := &shared.Session{}
	sess.SetUser(userID)
	return req.WithContext(shared.ContextWithSession(req.Context(), sess))
}

func mountedRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	h.MountRoutes(r)
	return r
}

func TestTeamCapacityWithoutSessionReturnsEmpty(t *testing.T) {
	svc := &mockService{}
	h := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/analytics/team/capacity", nil)
	rr := httptest.NewRecorder()
	h.handleTeamCapacity(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"team_members":[]`) {
		t.Fatalf("expected empty team members, got %s", rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"week_endings":[]`) {
		t.Fatalf("expected empty week endings array, got %s", rr.Body.String())
	}
	if svc.calls != 0 {
		t.Fatalf("service called %d times for anonymous request", svc.calls)
	}
}

// The anonymous fallback must serialize the same empty arrays the service
// emits on a degraded read, never null.
func TestForecastVsActualsWithoutSessionSerializesEmptyArrays(t *testing.T) {
	svc := &mockService{}
	h := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/analytics/forecast-vs-actuals", nil)
	rr := httptest.NewRecorder()
	h.handleForecastVsActuals(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	for _, field := range []string{`"week_endings":[]`, `"forecast_hours":[]`, `"actual_hours":[]`, `"variance":[]`} {
		if !strings.Contains(body, field) {
			t.Fatalf("expected %s in body, got %s", field, body)
		}
	}
	if strings.Contains(body, "null") {
		t.Fatalf("anonymous fallback serialized null: %s", body)
	}
	if svc.calls != 0 {
		t.Fatalf("service called %d times for anonymous request", svc.calls)
	}
}

func TestTeamCapacityClampsWeeksParam(t *testing.T) {
	cases := []struct {
		query string
		want  int
	}{
		{"", analytics.DefaultWeeks},
		{"?weeks=4", 4},
		{"?weeks=500", analytics.MaxWeeks},
		{"?weeks=abc", analytics.DefaultWeeks},
		{"?weeks=-1", analytics.DefaultWeeks},
	}
	for _, tc := range cases {
		svc := &mockService{}
		h := newTestHandler(svc)
		req := authenticated(httptest.NewRequest(http.MethodGet, "/analytics/team/capacity"+tc.query, nil), "42")
		rr := httptest.NewRecorder()
		h.handleTeamCapacity(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("query %q: expected 200, got %d", tc.query, rr.Code)
		}
		if svc.lastWeeks != tc.want {
			t.Fatalf("query %q: weeks = %d, want %d", tc.query, svc.lastWeeks, tc.want)
		}
		if svc.lastManagerID != 42 {
			t.Fatalf("query %q: manager id = %d, want 42", tc.query, svc.lastManagerID)
		}
	}
}

func TestIndividualNotFoundForUnmanagedUser(t *testing.T) {
	svc := &mockService{individual: nil}
	h := newTestHandler(svc)
	router := mountedRouter(h)

	req := authenticated(httptest.NewRequest(http.MethodGet, "/analytics/individual/7", nil), "42")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if svc.lastUserID != 7 {
		t.Fatalf("user id = %d, want 7", svc.lastUserID)
	}
}

func TestIndividualSuccess(t *testing.T) {
	svc := &mockService{individual: &analytics.IndividualAnalytics{
		User: users.User{ID: 7, Name: "Ana"},
		Summary: analytics.IndividualSummary{
			ForecastHours: 40, ActualHours: 38, ForecastCompliance: 95,
		},
	}}
	h := newTestHandler(svc)
	router := mountedRouter(h)

	req := authenticated(httptest.NewRequest(http.MethodGet, "/analytics/individual/7?weeks=8", nil), "42")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `"name":"Ana"`) || !strings.Contains(body, `"forecast_compliance":95`) {
		t.Fatalf("unexpected body %s", body)
	}
	if svc.lastWeeks != 8 || svc.lastManagerID != 42 {
		t.Fatalf("unexpected args: weeks=%d manager=%d", svc.lastWeeks, svc.lastManagerID)
	}
}

func TestIndividualMalformedIDIsNotFound(t *testing.T) {
	svc := &mockService{}
	h := newTestHandler(svc)
	router := mountedRouter(h)

	req := authenticated(httptest.NewRequest(http.MethodGet, "/analytics/individual/abc", nil), "42")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if svc.calls != 0 {
		t.Fatalf("service called for malformed id")
	}
}

func TestTeamCSVRequiresSession(t *testing.T) {
	svc := &mockService{}
	h := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/analytics/team/export.csv", nil)
	rr := httptest.NewRecorder()
	h.handleTeamCSV(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestTeamCSVResponse(t *testing.T) {
	svc := &mockService{capacity: analytics.TeamUtilizationResult{
		WeekEndings: []schedule.LabeledWeek{
			{ID: 101, Date: time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC), Label: "W1"},
		},
		TeamMembers: []analytics.TeamMemberCapacity{
			{UserID: 1, Name: "Ana", Email: "ana@crewplan.test", WeeklyHours: map[int64]float64{101: 32}, TotalHours: 32, AvgUtilization: 80},
		},
	}}
	h := newTestHandler(svc)

	req := authenticated(httptest.NewRequest(http.MethodGet, "/analytics/team/export.csv", nil), "42")
	rr := httptest.NewRecorder()
	h.handleTeamCSV(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type = %q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "team-capacity.csv") {
		t.Fatalf("content disposition = %q", cd)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Week 1 (Jan 7)") || !strings.Contains(body, "Ana") {
		t.Fatalf("unexpected csv body %s", body)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	svc := &mockService{summary: analytics.AnalyticsMetrics{
		TeamUtilization:    50,
		TotalBillableHours: 38,
		ActiveAssignments:  2,
		ForecastCompliance: 95,
	}}
	h := newTestHandler(svc)
	router := mountedRouter(h)

	req := authenticated(httptest.NewRequest(http.MethodGet, "/analytics/summary", nil), "42")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"active_assignments":2`) {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}
}
