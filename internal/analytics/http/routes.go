package analyticshttp

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/crewplan/crewplan/internal/shared"
)

// MountRoutes registers the analytics endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(rateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Get("/analytics/team/capacity", h.handleTeamCapacity)
	r.Get("/analytics/team/utilization", h.handleTeamUtilization)
	r.Get("/analytics/projects", h.handleProjects)
	r.Get("/analytics/individual/{userID}", h.handleIndividual)
	r.Get("/analytics/forecast-vs-actuals", h.handleForecastVsActuals)
	r.Get("/analytics/summary", h.handleSummary)
	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Get("/analytics/team/export.csv", h.handleTeamCSV)
		gr.Get("/analytics/projects/export.csv", h.handleProjectsCSV)
		gr.Get("/analytics/forecast-vs-actuals/export.csv", h.handleForecastActualsCSV)
	})
}

func rateLimitKey(r *http.Request) (string, error) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		if user := strings.TrimSpace(sess.User()); user != "" {
			return "user:" + user, nil
		}
	}
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}
