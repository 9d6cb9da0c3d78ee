// Package model defines domain entities for the application.
package model

import "time"

// WeatherRecord is the normalized result of resolving a city name to
// current conditions. It is produced fresh per request and immutable
// once constructed; the history log persists a snapshot of its fields.
type WeatherRecord struct {
	City        string    `json:"city"`        // Composed display name: name[, state][, country]
	Temperature float64   `json:"temperature"` // Celsius
	FeelsLike   float64   `json:"feels_like"`  // Celsius
	Humidity    int       `json:"humidity"`    // Percent
	WindSpeed   float64   `json:"wind_speed"`  // Meters per second
	Description string    `json:"description"` // First rune upper-cased, rest provider-supplied
	Timestamp   time.Time `json:"timestamp"`   // Resolution wall clock
}

// SearchHistoryEntry is one append-only row in the search history log.
type SearchHistoryEntry struct {
	ID          string    `json:"id"`      // ULID (time-sortable)
	UserID      string    `json:"user_id"` // FK to users.id
	City        string    `json:"city"`
	Temperature float64   `json:"temperature"`
	FeelsLike   float64   `json:"feels_like"`
	Humidity    int       `json:"humidity"`
	WindSpeed   float64   `json:"wind_speed"`
	Description string    `json:"description"`
	SearchedAt  time.Time `json:"searched_at"` // Server-assigned timestamp
}
