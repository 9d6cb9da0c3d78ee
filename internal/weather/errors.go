package weather

import "errors"

// Provider error taxonomy. ErrNoMatch is a valid negative outcome;
// ErrUpstream is a transient fault. Callers must never conflate the two.
var (
	// ErrNoMatch means the geocoder returned zero candidates for a query.
	ErrNoMatch = errors.New("no geocoding match")

	// ErrUpstream wraps transport failures, non-2xx responses, and
	// malformed payloads from the weather provider.
	ErrUpstream = errors.New("weather provider unavailable")
)
