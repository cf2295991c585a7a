package agent

import (
	"context"
	"strings"

	"github.com/hupe1980/agenthub/core"
)

// StaticGeocoder resolves city names from a fixed table. It backs local
// development and tests; production wiring supplies a real geocoding client.
type StaticGeocoder struct {
	cities map[string]core.Location
}

var _ Geocoder = (*StaticGeocoder)(nil)

// NewStaticGeocoder builds a geocoder over the given locations, keyed by
// case-insensitive name. With no arguments it knows a handful of cities.
func NewStaticGeocoder(locations ...core.Location) *StaticGeocoder {
	if len(locations) == 0 {
		locations = []core.Location{
			{Name: "Warsaw", Lat: 52.23, Lon: 21.01},
			{Name: "Krakow", Lat: 50.06, Lon: 19.94},
			{Name: "London", Lat: 51.51, Lon: -0.13},
			{Name: "Berlin", Lat: 52.52, Lon: 13.41},
		}
	}
	cities := make(map[string]core.Location, len(locations))
	for _, loc := range locations {
		cities[strings.ToLower(loc.Name)] = loc
	}
	return &StaticGeocoder{cities: cities}
}

// Geocode implements Geocoder.
func (g *StaticGeocoder) Geocode(_ context.Context, city string) (core.Location, error) {
	loc, ok := g.cities[strings.ToLower(strings.TrimSpace(city))]
	if !ok {
		return core.Location{}, core.ErrNotFound
	}
	return loc, nil
}

// StaticWeather returns the same report for every location. Development and
// test stand-in for a real weather client.
type StaticWeather struct {
	Report WeatherReport
}

var _ WeatherProvider = (*StaticWeather)(nil)

// Current implements WeatherProvider.
func (w *StaticWeather) Current(context.Context, core.Location) (WeatherReport, error) {
	return w.Report, nil
}
