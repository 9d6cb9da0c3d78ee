package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"github.com/skypeek/skypeek/internal/metrics"
	"github.com/skypeek/skypeek/internal/model"
	"github.com/skypeek/skypeek/internal/repository"
	"github.com/skypeek/skypeek/internal/weather"
)

const (
	// DefaultHistoryLimit is the page size for the history view.
	DefaultHistoryLimit = 10
	// MaxHistoryLimit caps caller-supplied history limits.
	MaxHistoryLimit = 50
)

// HistoryStore is the persistence contract for the search history log.
type HistoryStore interface {
	InsertSearch(ctx context.Context, entry *model.SearchHistoryEntry) error
	RecentSearches(ctx context.Context, userID string, limit int) ([]*model.SearchHistoryEntry, error)
	LastSearch(ctx context.Context, userID string) (*model.SearchHistoryEntry, error)
}

// WeatherService runs the city -> weather resolution pipeline and the
// per-user history read paths.
type WeatherService struct {
	geocoder weather.Geocoder
	fetcher  weather.CurrentFetcher
	store    HistoryStore
	metrics  metrics.Recorder
}

// NewWeatherService creates a new WeatherService.
func NewWeatherService(geocoder weather.Geocoder, fetcher weather.CurrentFetcher, store HistoryStore, recorder metrics.Recorder) *WeatherService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &WeatherService{
		geocoder: geocoder,
		fetcher:  fetcher,
		store:    store,
		metrics:  recorder,
	}
}

// Resolve turns a free-text city name into a WeatherRecord.
// Blank input fails with ErrCityRequired before any network call; an
// unresolvable city is ErrCityNotFound; provider faults propagate
// wrapping weather.ErrUpstream. Geocode and fetch run sequentially, the
// second depends on the first's coordinates.
func (s *WeatherService) Resolve(ctx context.Context, city string) (*model.WeatherRecord, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, ErrCityRequired
	}

	start := time.Now()

	loc, err := s.geocoder.Geocode(ctx, city)
	if err != nil {
		if errors.Is(err, weather.ErrNoMatch) {
			s.metrics.IncCityNotFound()
			return nil, ErrCityNotFound
		}
		s.metrics.IncProviderError()
		return nil, fmt.Errorf("resolve %q: %w", city, err)
	}

	conditions, err := s.fetcher.Current(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		s.metrics.IncProviderError()
		return nil, fmt.Errorf("resolve %q: %w", city, err)
	}

	record := &model.WeatherRecord{
		City:        displayName(loc),
		Temperature: conditions.Temperature,
		FeelsLike:   conditions.FeelsLike,
		Humidity:    conditions.Humidity,
		WindSpeed:   conditions.WindSpeed,
		Description: capitalizeFirst(conditions.Description),
		Timestamp:   time.Now().UTC(),
	}

	s.metrics.IncWeatherResolved()
	s.metrics.ObserveResolveDuration(time.Since(start))

	return record, nil
}

// ResolveAndRecord resolves weather for a city and appends the result
// to the user's search history. The append is a single atomic insert;
// an immediately following LastCity sees the new entry.
func (s *WeatherService) ResolveAndRecord(ctx context.Context, userID, city string) (*model.WeatherRecord, error) {
	record, err := s.Resolve(ctx, city)
	if err != nil {
		return nil, err
	}

	entry := &model.SearchHistoryEntry{
		ID:          ulid.Make().String(),
		UserID:      userID,
		City:        record.City,
		Temperature: record.Temperature,
		FeelsLike:   record.FeelsLike,
		Humidity:    record.Humidity,
		WindSpeed:   record.WindSpeed,
		Description: record.Description,
		SearchedAt:  record.Timestamp,
	}

	if err := s.store.InsertSearch(ctx, entry); err != nil {
		return nil, fmt.Errorf("record search for user %s: %w", userID, err)
	}
	s.metrics.IncHistoryAppended()

	return record, nil
}

// History returns the user's most recent searches, newest first.
// A non-positive limit falls back to DefaultHistoryLimit; limits above
// MaxHistoryLimit are clamped.
func (s *WeatherService) History(ctx context.Context, userID string, limit int) ([]*model.SearchHistoryEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	entries, err := s.store.RecentSearches(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("history for user %s: %w", userID, err)
	}
	return entries, nil
}

// LastCity returns the user's most recent search entry, or ErrNoHistory
// as the explicit empty marker.
func (s *WeatherService) LastCity(ctx context.Context, userID string) (*model.SearchHistoryEntry, error) {
	entry, err := s.store.LastSearch(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNoHistory) {
			return nil, ErrNoHistory
		}
		return nil, fmt.Errorf("last city for user %s: %w", userID, err)
	}
	return entry, nil
}

// displayName composes a location's display name as
// "{name}[, {state}][, {country}]", omitting empty segments.
func displayName(loc weather.Location) string {
	name := loc.Name
	if loc.State != "" {
		name += ", " + loc.State
	}
	if loc.Country != "" {
		name += ", " + loc.Country
	}
	return name
}

// capitalizeFirst upper-cases only the first rune; the remainder keeps
// its provider-supplied casing.
func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
