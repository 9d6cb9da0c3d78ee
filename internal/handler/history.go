package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/skypeek/skypeek/internal/handler/dto"
	"github.com/skypeek/skypeek/internal/middleware"
	"github.com/skypeek/skypeek/internal/service"
)

// HistoryHandler serves the per-user search history endpoints.
type HistoryHandler struct {
	service *service.WeatherService
	logger  *slog.Logger
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(svc *service.WeatherService, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{
		service: svc,
		logger:  logger.With("component", "handler.history"),
	}
}

// GetHistory returns the session user's recent searches, newest first.
// An absent or invalid limit falls back to the default page size.
//
// GET /api/history?limit={n}
func (h *HistoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "session not established", "NO_SESSION")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer", "INVALID_LIMIT")
			return
		}
		limit = n
	}

	entries, err := h.service.History(r.Context(), user.ID, limit)
	if err != nil {
		h.logger.Error("failed to load history",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		writeError(w, http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
		return
	}

	writeJSON(w, http.StatusOK, dto.FromHistoryEntries(entries))
}

// GetLastCity returns the session user's most recently searched city,
// or null when the user has no history yet.
//
// GET /api/last-city
func (h *HistoryHandler) GetLastCity(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "session not established", "NO_SESSION")
		return
	}

	entry, err := h.service.LastCity(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, service.ErrNoHistory) {
			writeJSON(w, http.StatusOK, dto.LastCityResponse{LastCity: nil})
			return
		}
		h.logger.Error("failed to load last city",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		writeError(w, http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
		return
	}

	writeJSON(w, http.StatusOK, dto.LastCityResponse{LastCity: &entry.City})
}
