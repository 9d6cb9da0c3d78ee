package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/skypeek/skypeek/internal/handler/dto"
	"github.com/skypeek/skypeek/internal/middleware"
	"github.com/skypeek/skypeek/internal/service"
	"github.com/skypeek/skypeek/internal/weather"
)

func newWeatherTestHandler(geo *fakeGeocoder, fetch *fakeFetcher, store *fakeHistoryStore) http.Handler {
	svc := service.NewWeatherService(geo, fetch, store, nil)
	h := NewWeatherHandler(svc, discardLogger())
	return withSession(h.GetWeather)
}

func TestGetWeather_Success(t *testing.T) {
	geo := &fakeGeocoder{loc: weather.Location{Name: "Москва", State: "Moscow", Country: "RU"}}
	fetch := &fakeFetcher{conditions: weather.CurrentConditions{
		Temperature: -3.5,
		FeelsLike:   -8.1,
		Humidity:    80,
		WindSpeed:   5.5,
		Description: "облачно",
	}}
	store := &fakeHistoryStore{}

	h := newWeatherTestHandler(geo, fetch, store)

	var body dto.WeatherResponse
	rec := doJSON(t, h, http.MethodGet, "/api/weather?city=Москва", &body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if body.City != "Москва, Moscow, RU" {
		t.Errorf("unexpected city: %s", body.City)
	}
	if body.Description != "Облачно" {
		t.Errorf("expected capitalized description, got %q", body.Description)
	}
	if body.Temperature != -3.5 || body.Humidity != 80 {
		t.Errorf("unexpected conditions: %+v", body)
	}
	if body.Timestamp.IsZero() {
		t.Error("expected non-zero timestamp")
	}

	if len(store.entries) != 1 {
		t.Fatalf("expected search recorded once, got %d", len(store.entries))
	}
	if store.entries[0].UserID != "user-1" {
		t.Errorf("expected entry owned by session user, got %s", store.entries[0].UserID)
	}
}

func TestGetWeather_SetsSessionCookie(t *testing.T) {
	geo := &fakeGeocoder{loc: weather.Location{Name: "Paris", Country: "FR"}}
	h := newWeatherTestHandler(geo, &fakeFetcher{}, &fakeHistoryStore{})

	rec := doJSON(t, h, http.MethodGet, "/api/weather?city=Paris", nil)

	var found bool
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.SessionCookieName && cookie.Value != "" {
			found = true
		}
	}
	if !found {
		t.Error("expected session cookie on first contact")
	}
}

func TestGetWeather_MissingCity(t *testing.T) {
	geo := &fakeGeocoder{}
	h := newWeatherTestHandler(geo, &fakeFetcher{}, &fakeHistoryStore{})

	for _, target := range []string{"/api/weather", "/api/weather?city=", "/api/weather?city=%20%20"} {
		var body dto.ErrorResponse
		rec := doJSON(t, h, http.MethodGet, target, &body)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
		if body.Code != "CITY_REQUIRED" {
			t.Errorf("%s: expected CITY_REQUIRED, got %s", target, body.Code)
		}
	}
}

func TestGetWeather_CityNotFound(t *testing.T) {
	geo := &fakeGeocoder{err: weather.ErrNoMatch}
	h := newWeatherTestHandler(geo, &fakeFetcher{}, &fakeHistoryStore{})

	var body dto.ErrorResponse
	rec := doJSON(t, h, http.MethodGet, "/api/weather?city=Nowhereville", &body)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body.Code != "CITY_NOT_FOUND" {
		t.Errorf("expected CITY_NOT_FOUND, got %s", body.Code)
	}
}

func TestGetWeather_UpstreamFailure(t *testing.T) {
	geo := &fakeGeocoder{err: fmt.Errorf("%w: unexpected status 503", weather.ErrUpstream)}
	store := &fakeHistoryStore{}
	h := newWeatherTestHandler(geo, &fakeFetcher{}, store)

	var body dto.ErrorResponse
	rec := doJSON(t, h, http.MethodGet, "/api/weather?city=Paris", &body)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if body.Code != "UPSTREAM_ERROR" {
		t.Errorf("expected UPSTREAM_ERROR, got %s", body.Code)
	}
	if len(store.entries) != 0 {
		t.Errorf("expected no history write on failure, got %d", len(store.entries))
	}
}
