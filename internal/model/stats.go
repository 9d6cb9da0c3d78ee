package model

import "time"

// StatsOverview summarizes the whole search history log.
type StatsOverview struct {
	TotalSearches int64 `json:"total_searches"`
	TotalUsers    int64 `json:"total_users"`
	UniqueCities  int64 `json:"unique_cities"`
}

// CityCount is one leaderboard row: an exact city string with its
// search count and most recent search time.
type CityCount struct {
	City       string    `json:"city"`
	Count      int64     `json:"count"`
	LastSearch time.Time `json:"last_search"`
}

// DailyCount is the number of searches on one UTC calendar date.
type DailyCount struct {
	Date  string `json:"date"` // ISO date (UTC)
	Count int64  `json:"count"`
}

// ConditionCount is a weather description with its occurrence count.
type ConditionCount struct {
	Description string `json:"description"`
	Count       int64  `json:"count"`
}

// CityStats is the detailed statistics summary for all history entries
// whose city matches a query as a case-insensitive substring.
type CityStats struct {
	Query          string           `json:"query"`
	TotalSearches  int64            `json:"total_searches"`
	UniqueUsers    int64            `json:"unique_users"`
	FirstSearch    time.Time        `json:"first_search"`
	LastSearch     time.Time        `json:"last_search"`
	AvgTemperature float64          `json:"avg_temperature"` // Rounded to 1 decimal
	AvgHumidity    float64          `json:"avg_humidity"`    // Rounded to 1 decimal
	AvgWindSpeed   float64          `json:"avg_wind_speed"`  // Rounded to 1 decimal
	TopConditions  []ConditionCount `json:"top_conditions"`  // At most 5
}

// Suggestion sources.
const (
	SuggestionSourceHistory  = "history"
	SuggestionSourceProvider = "provider"
)

// CitySuggestion is one autocomplete candidate.
type CitySuggestion struct {
	Name   string `json:"name"`
	Source string `json:"source"` // "history" or "provider"
}
