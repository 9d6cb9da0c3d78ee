// Package weather defines the upstream weather provider abstraction:
// the data types, client interfaces, and error taxonomy shared by the
// resolution pipeline and the provider implementations.
package weather

// Location is a geocoded place. Country and State may be empty; empty
// segments are omitted from composed display names, never rendered as
// empty strings.
type Location struct {
	Name      string
	Latitude  float64
	Longitude float64
	Country   string
	State     string
}

// CurrentConditions is a provider's current weather reading for one
// coordinate pair, in metric units.
type CurrentConditions struct {
	Temperature float64 // Celsius
	FeelsLike   float64 // Celsius
	Humidity    int     // Percent
	WindSpeed   float64 // Meters per second
	Description string  // Localized, provider-supplied casing
}
