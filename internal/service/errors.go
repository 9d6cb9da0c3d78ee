// Package service provides business logic for the application.
package service

import "errors"

// Service errors.
var (
	// ErrCityRequired means the city input was blank after trimming.
	// Rejected before any network call.
	ErrCityRequired = errors.New("city name is required")

	// ErrCityNotFound means the geocoder had no match for the city.
	// A valid negative outcome, not a fault.
	ErrCityNotFound = errors.New("city not found")

	// ErrCityStatsNotFound means no history entry matched a per-city
	// statistics query.
	ErrCityStatsNotFound = errors.New("no statistics for city")

	// ErrNoHistory means the user has never searched.
	ErrNoHistory = errors.New("no search history")
)
