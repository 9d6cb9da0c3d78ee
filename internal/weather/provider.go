package weather

import "context"

// Geocoder resolves a free-text city name to its best (first) match.
// Zero candidates is ErrNoMatch; provider faults wrap ErrUpstream.
type Geocoder interface {
	Geocode(ctx context.Context, city string) (Location, error)
}

// CurrentFetcher resolves coordinates to current conditions.
// Failures wrap ErrUpstream, never ErrNoMatch.
type CurrentFetcher interface {
	Current(ctx context.Context, lat, lon float64) (CurrentConditions, error)
}

// CitySearcher returns up to limit raw geocoding candidates for a query,
// in provider relevance order. Used by the suggestion engine.
type CitySearcher interface {
	Search(ctx context.Context, query string, limit int) ([]Location, error)
}
