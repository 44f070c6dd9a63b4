package analyticshttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/crewplan/crewplan/internal/analytics"
	"github.com/crewplan/crewplan/internal/analytics/export"
	"github.com/crewplan/crewplan/internal/shared"
)

const requestTimeout = 5 * time.Second

// Service defines the analytics data contract used by the handler.
type Service interface {
	TeamCapacity(ctx context.Context, managerID int64, weeks int) analytics.TeamUtilizationResult
	TeamUtilizationTrend(ctx context.Context, managerID int64, weeks int) []analytics.UtilizationTrendPoint
	ProjectAnalyticsList(ctx context.Context, managerID int64, weeks int) []analytics.ProjectAnalytics
	Individual(ctx context.Context, managerID, userID int64, weeks int) *analytics.IndividualAnalytics
	ForecastVsActuals(ctx context.Context, managerID int64, weeks int) analytics.ForecastVsActualsData
	Summary(ctx context.Context, managerID int64, weeks int) analytics.AnalyticsMetrics
}

// Handler coordinates HTTP requests for the workforce analytics views.
type Handler struct {
	logger  *slog.Logger
	service Service
	csvPool sync.Pool
}

// NewHandler constructs the analytics HTTP handler.
func NewHandler(logger *slog.Logger, service Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{logger: logger, service: service}
	h.csvPool.New = func() interface{} { return new(bytes.Buffer) }
	return h
}

// managerID resolves the authenticated user from the session. A missing or
// malformed session yields false; callers degrade to their neutral shape.
func managerID(r *http.Request) (int64, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(sess.User(), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func weeksParam(r *http.Request) int {
	raw := r.URL.Query().Get("weeks")
	if raw == "" {
		return analytics.DefaultWeeks
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return analytics.DefaultWeeks
	}
	return analytics.ClampWeeks(n)
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("encode analytics response", "error", err)
	}
}

func (h *Handler) handleTeamCapacity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id, ok := managerID(r)
	if !ok {
		h.respondJSON(w, http.StatusOK, analytics.EmptyTeamCapacity())
		return
	}
	h.respondJSON(w, http.StatusOK, h.service.TeamCapacity(ctx, id, weeksParam(r)))
}

func (h *Handler) handleTeamUtilization(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id, ok := managerID(r)
	if !ok {
		h.respondJSON(w, http.StatusOK, []analytics.UtilizationTrendPoint{})
		return
	}
	h.respondJSON(w, http.StatusOK, h.service.TeamUtilizationTrend(ctx, id, weeksParam(r)))
}

func (h *Handler) handleProjects(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id, ok := managerID(r)
	if !ok {
		h.respondJSON(w, http.StatusOK, []analytics.ProjectAnalytics{})
		return
	}
	h.respondJSON(w, http.StatusOK, h.service.ProjectAnalyticsList(ctx, id, weeksParam(r)))
}

func (h *Handler) handleIndividual(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id, ok := managerID(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || userID <= 0 {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}
	result := h.service.Individual(ctx, id, userID, weeksParam(r))
	if result == nil {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleForecastVsActuals(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id, ok := managerID(r)
	if !ok {
		h.respondJSON(w, http.StatusOK, analytics.EmptyForecastVsActuals())
		return
	}
	h.respondJSON(w, http.StatusOK, h.service.ForecastVsActuals(ctx, id, weeksParam(r)))
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id, ok := managerID(r)
	if !ok {
		h.respondJSON(w, http.StatusOK, analytics.AnalyticsMetrics{})
		return
	}
	h.respondJSON(w, http.StatusOK, h.service.Summary(ctx, id, weeksParam(r)))
}

func (h *Handler) serveCSV(w http.ResponseWriter, filename string, write func(*bytes.Buffer) error) {
	buf := h.csvPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer h.csvPool.Put(buf)

	if err := write(buf); err != nil {
		h.logger.Error("render analytics csv", "file", filename, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) handleTeamCSV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id, ok := managerID(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	result := h.service.TeamCapacity(ctx, id, weeksParam(r))
	h.serveCSV(w, "team-capacity.csv", func(buf *bytes.Buffer) error {
		return export.WriteTeamCSV(buf, result)
	})
}

func (h *Handler) handleProjectsCSV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id, ok := managerID(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	projects := h.service.ProjectAnalyticsList(ctx, id, weeksParam(r))
	h.serveCSV(w, "project-analytics.csv", func(buf *bytes.Buffer) error {
		return export.WriteProjectsCSV(buf, projects)
	})
}

func (h *Handler) handleForecastActualsCSV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id, ok := managerID(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	data := h.service.ForecastVsActuals(ctx, id, weeksParam(r))
	h.serveCSV(w, "forecast-vs-actuals.csv", func(buf *bytes.Buffer) error {
		return export.WriteForecastActualsCSV(buf, data)
	})
}
