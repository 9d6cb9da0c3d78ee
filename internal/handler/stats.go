package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/skypeek/skypeek/internal/handler/dto"
	"github.com/skypeek/skypeek/internal/middleware"
	"github.com/skypeek/skypeek/internal/service"
)

// StatsHandler serves the read-only statistics endpoints.
type StatsHandler struct {
	service *service.StatsService
	logger  *slog.Logger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(svc *service.StatsService, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		service: svc,
		logger:  logger.With("component", "handler.stats"),
	}
}

// GetStats returns the global statistics summary.
//
// GET /api/stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.logger.Error("failed to compute stats summary",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		writeError(w, http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
		return
	}

	writeJSON(w, http.StatusOK, dto.FromStatsSummary(summary))
}

// GetCityStats returns per-city statistics for history entries whose
// city name contains the path segment as a case-insensitive substring.
//
// GET /api/stats/city/{city}
func (h *StatsHandler) GetCityStats(w http.ResponseWriter, r *http.Request) {
	city := chi.URLParam(r, "city")
	if decoded, err := url.PathUnescape(city); err == nil {
		city = decoded
	}

	stats, err := h.service.CityDetail(r.Context(), city)
	if err != nil {
		if errors.Is(err, service.ErrCityStatsNotFound) {
			writeError(w, http.StatusNotFound, "no statistics for this city", "CITY_STATS_NOT_FOUND")
			return
		}
		h.logger.Error("failed to compute city stats",
			slog.String("city", city),
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		writeError(w, http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
		return
	}

	writeJSON(w, http.StatusOK, dto.FromCityStats(stats))
}
