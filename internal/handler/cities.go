package handler

import (
	"log/slog"
	"net/http"

	"github.com/skypeek/skypeek/internal/handler/dto"
	"github.com/skypeek/skypeek/internal/middleware"
	"github.com/skypeek/skypeek/internal/service"
)

// CitiesHandler serves city name autocomplete.
type CitiesHandler struct {
	service *service.SuggestService
	logger  *slog.Logger
}

// NewCitiesHandler creates a new CitiesHandler.
func NewCitiesHandler(svc *service.SuggestService, logger *slog.Logger) *CitiesHandler {
	return &CitiesHandler{
		service: svc,
		logger:  logger.With("component", "handler.cities"),
	}
}

// SearchCities returns up to 8 city suggestions for a query prefix.
// Queries shorter than 2 runes return an empty list.
//
// GET /api/cities?q={query}
func (h *CitiesHandler) SearchCities(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	suggestions, err := h.service.Suggest(r.Context(), query)
	if err != nil {
		h.logger.Error("failed to build city suggestions",
			slog.String("query", query),
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		writeError(w, http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
		return
	}

	writeJSON(w, http.StatusOK, dto.CitySuggestionsResponse{Cities: suggestions})
}
