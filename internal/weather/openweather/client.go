// Package openweather implements the weather provider interfaces
// against the OpenWeatherMap geocoding and current-weather APIs.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/skypeek/skypeek/internal/weather"
)

const (
	defaultGeocodingURL = "https://api.openweathermap.org/geo/1.0/direct"
	defaultWeatherURL   = "https://api.openweathermap.org/data/2.5/weather"
	defaultLang         = "ru"
)

// Config configures a Client. APIKey is required; the URL and Lang
// fields override the OpenWeatherMap defaults (tests point them at a
// local server).
type Config struct {
	APIKey       string
	GeocodingURL string
	WeatherURL   string
	Lang         string
	HTTPClient   *http.Client
}

// Client calls the OpenWeatherMap geocoding and current-weather
// endpoints. Each endpoint sits behind its own circuit breaker; an open
// circuit fails fast without issuing a request. A single attempt is
// made per call, no retries.
type Client struct {
	httpClient   *http.Client
	apiKey       string
	geocodingURL string
	weatherURL   string
	lang         string
	geoCircuit   *gobreaker.CircuitBreaker
	curCircuit   *gobreaker.CircuitBreaker
}

// New creates a Client from cfg, filling in defaults for unset fields.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = weather.NewHTTPClient(weather.DefaultClientTimeout)
	}
	geocodingURL := cfg.GeocodingURL
	if geocodingURL == "" {
		geocodingURL = defaultGeocodingURL
	}
	weatherURL := cfg.WeatherURL
	if weatherURL == "" {
		weatherURL = defaultWeatherURL
	}
	lang := cfg.Lang
	if lang == "" {
		lang = defaultLang
	}

	newCircuit := func(name string) *gobreaker.CircuitBreaker {
		return gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 5,
			Interval:    1 * time.Minute,
			Timeout:     2 * time.Minute,
		})
	}

	return &Client{
		httpClient:   httpClient,
		apiKey:       cfg.APIKey,
		geocodingURL: geocodingURL,
		weatherURL:   weatherURL,
		lang:         lang,
		geoCircuit:   newCircuit("openweather-geocoding"),
		curCircuit:   newCircuit("openweather-current"),
	}
}

type geoCandidate struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
	State   string  `json:"state"`
}

// Geocode resolves a city name to its best match. Zero candidates from
// the provider is weather.ErrNoMatch; any fault wraps weather.ErrUpstream.
func (c *Client) Geocode(ctx context.Context, city string) (weather.Location, error) {
	candidates, err := c.search(ctx, city, 1)
	if err != nil {
		return weather.Location{}, err
	}
	if len(candidates) == 0 {
		return weather.Location{}, weather.ErrNoMatch
	}
	return candidates[0], nil
}

// Search returns up to limit geocoding candidates in provider order.
// An empty result is returned as an empty slice, not an error.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]weather.Location, error) {
	return c.search(ctx, query, limit)
}

func (c *Client) search(ctx context.Context, query string, limit int) ([]weather.Location, error) {
	values := url.Values{}
	values.Set("q", query)
	values.Set("limit", strconv.Itoa(limit))
	values.Set("appid", c.apiKey)

	var payload []geoCandidate
	if err := c.getJSON(ctx, c.geoCircuit, c.geocodingURL, values, &payload); err != nil {
		return nil, fmt.Errorf("geocode %q: %w", query, err)
	}

	locations := make([]weather.Location, 0, len(payload))
	for _, cand := range payload {
		locations = append(locations, weather.Location{
			Name:      cand.Name,
			Latitude:  cand.Lat,
			Longitude: cand.Lon,
			Country:   cand.Country,
			State:     cand.State,
		})
	}
	return locations, nil
}

// Current fetches current conditions for a coordinate pair in metric
// units with localized description text.
func (c *Client) Current(ctx context.Context, lat, lon float64) (weather.CurrentConditions, error) {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	values.Set("units", "metric")
	values.Set("lang", c.lang)
	values.Set("appid", c.apiKey)

	var payload struct {
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  int     `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
	}

	if err := c.getJSON(ctx, c.curCircuit, c.weatherURL, values, &payload); err != nil {
		return weather.CurrentConditions{}, fmt.Errorf("current conditions (%f, %f): %w", lat, lon, err)
	}

	var description string
	if len(payload.Weather) > 0 {
		description = payload.Weather[0].Description
	}

	return weather.CurrentConditions{
		Temperature: payload.Main.Temp,
		FeelsLike:   payload.Main.FeelsLike,
		Humidity:    payload.Main.Humidity,
		WindSpeed:   payload.Wind.Speed,
		Description: description,
	}, nil
}

// getJSON performs one GET through the endpoint's circuit breaker and
// decodes the JSON body into out. Every failure mode (transport, non-2xx,
// malformed payload, open circuit) wraps weather.ErrUpstream.
func (c *Client) getJSON(ctx context.Context, circuit *gobreaker.CircuitBreaker, baseURL string, values url.Values, out any) error {
	if c.apiKey == "" {
		return fmt.Errorf("%w: api key is not configured", weather.ErrUpstream)
	}

	_, err := circuit.Execute(func() (interface{}, error) {
		u := fmt.Sprintf("%s?%s", baseURL, values.Encode())
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", weather.ErrUpstream, err)
	}
	return nil
}
