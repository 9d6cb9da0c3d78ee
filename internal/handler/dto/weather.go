// Package dto provides Data Transfer Objects for API responses.
package dto

import (
	"time"

	"github.com/skypeek/skypeek/internal/model"
	"github.com/skypeek/skypeek/internal/service"
)

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// WeatherResponse represents a resolved weather record.
type WeatherResponse struct {
	City        string    `json:"city"`
	Temperature float64   `json:"temperature"`
	FeelsLike   float64   `json:"feels_like"`
	Humidity    int       `json:"humidity"`
	WindSpeed   float64   `json:"wind_speed"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// FromWeatherRecord converts a domain record to its response form.
func FromWeatherRecord(record *model.WeatherRecord) WeatherResponse {
	return WeatherResponse{
		City:        record.City,
		Temperature: record.Temperature,
		FeelsLike:   record.FeelsLike,
		Humidity:    record.Humidity,
		WindSpeed:   record.WindSpeed,
		Description: record.Description,
		Timestamp:   record.Timestamp,
	}
}

// HistoryEntryResponse represents one search history row.
// The owning user is implied by the session; user IDs are not exposed.
type HistoryEntryResponse struct {
	City        string    `json:"city"`
	Temperature float64   `json:"temperature"`
	FeelsLike   float64   `json:"feels_like"`
	Humidity    int       `json:"humidity"`
	WindSpeed   float64   `json:"wind_speed"`
	Description string    `json:"description"`
	SearchedAt  time.Time `json:"searched_at"`
}

// FromHistoryEntries converts history entries to their response form.
// Always returns a non-nil slice so empty history encodes as [].
func FromHistoryEntries(entries []*model.SearchHistoryEntry) []HistoryEntryResponse {
	out := make([]HistoryEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, HistoryEntryResponse{
			City:        entry.City,
			Temperature: entry.Temperature,
			FeelsLike:   entry.FeelsLike,
			Humidity:    entry.Humidity,
			WindSpeed:   entry.WindSpeed,
			Description: entry.Description,
			SearchedAt:  entry.SearchedAt,
		})
	}
	return out
}

// LastCityResponse carries the most recently searched city, or null.
type LastCityResponse struct {
	LastCity *string `json:"last_city"`
}

// StatsResponse is the global statistics payload.
type StatsResponse struct {
	Overview   model.StatsOverview `json:"overview"`
	TopCities  []model.CityCount   `json:"top_cities"`
	DailyStats []model.DailyCount  `json:"daily_stats"`
}

// FromStatsSummary converts a stats summary to its response form.
func FromStatsSummary(summary *service.StatsSummary) StatsResponse {
	return StatsResponse{
		Overview:   summary.Overview,
		TopCities:  summary.TopCities,
		DailyStats: summary.DailyStats,
	}
}

// CityStatsResponse is the per-city detail payload.
type CityStatsResponse struct {
	City       string `json:"city"`
	Statistics struct {
		TotalSearches int64 `json:"total_searches"`
		UniqueUsers   int64 `json:"unique_users"`
	} `json:"statistics"`
	Period struct {
		FirstSearch time.Time `json:"first_search"`
		LastSearch  time.Time `json:"last_search"`
	} `json:"period"`
	WeatherAverages struct {
		Temperature float64 `json:"temperature"`
		Humidity    float64 `json:"humidity"`
		WindSpeed   float64 `json:"wind_speed"`
	} `json:"weather_averages"`
	PopularConditions []model.ConditionCount `json:"popular_conditions"`
}

// FromCityStats converts per-city statistics to their response form.
func FromCityStats(stats *model.CityStats) CityStatsResponse {
	var resp CityStatsResponse
	resp.City = stats.Query
	resp.Statistics.TotalSearches = stats.TotalSearches
	resp.Statistics.UniqueUsers = stats.UniqueUsers
	resp.Period.FirstSearch = stats.FirstSearch
	resp.Period.LastSearch = stats.LastSearch
	resp.WeatherAverages.Temperature = stats.AvgTemperature
	resp.WeatherAverages.Humidity = stats.AvgHumidity
	resp.WeatherAverages.WindSpeed = stats.AvgWindSpeed
	resp.PopularConditions = stats.TopConditions
	return resp
}

// CitySuggestionsResponse is the autocomplete payload.
type CitySuggestionsResponse struct {
	Cities []model.CitySuggestion `json:"cities"`
}
