package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/skypeek/skypeek/internal/handler/dto"
	"github.com/skypeek/skypeek/internal/middleware"
	"github.com/skypeek/skypeek/internal/service"
	"github.com/skypeek/skypeek/internal/weather"
)

// WeatherHandler serves the weather resolution endpoint.
type WeatherHandler struct {
	service *service.WeatherService
	logger  *slog.Logger
}

// NewWeatherHandler creates a new WeatherHandler.
func NewWeatherHandler(svc *service.WeatherService, logger *slog.Logger) *WeatherHandler {
	return &WeatherHandler{
		service: svc,
		logger:  logger.With("component", "handler.weather"),
	}
}

// GetWeather resolves current weather for a city and appends the result
// to the session user's search history.
//
// GET /api/weather?city={name}
func (h *WeatherHandler) GetWeather(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "session not established", "NO_SESSION")
		return
	}

	city := r.URL.Query().Get("city")

	record, err := h.service.ResolveAndRecord(r.Context(), user.ID, city)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCityRequired):
			writeError(w, http.StatusBadRequest, "city name must not be empty", "CITY_REQUIRED")
		case errors.Is(err, service.ErrCityNotFound):
			writeError(w, http.StatusNotFound, "city not found", "CITY_NOT_FOUND")
		case errors.Is(err, weather.ErrUpstream):
			h.logger.Error("weather provider failed",
				slog.String("city", city),
				slog.String("error", err.Error()),
				slog.String("request_id", middleware.GetRequestID(r.Context())),
			)
			writeError(w, http.StatusBadGateway, "weather provider unavailable", "UPSTREAM_ERROR")
		default:
			h.logger.Error("failed to resolve weather",
				slog.String("city", city),
				slog.String("error", err.Error()),
				slog.String("request_id", middleware.GetRequestID(r.Context())),
			)
			writeError(w, http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.FromWeatherRecord(record))
}
