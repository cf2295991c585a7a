package agent

import (
	"context"

	"github.com/hupe1980/agenthub/core"
	"github.com/hupe1980/agenthub/store"
)

// Shared fixtures for the agent tests.

type stubGeocoder struct {
	cities map[string]core.Location
}

func (g *stubGeocoder) Geocode(_ context.Context, city string) (core.Location, error) {
	loc, ok := g.cities[city]
	if !ok {
		return core.Location{}, core.ErrNotFound
	}
	return loc, nil
}

type stubWeather struct {
	report WeatherReport
	err    error
}

func (w *stubWeather) Current(context.Context, core.Location) (WeatherReport, error) {
	return w.report, w.err
}

func newHooks(st *store.InMemoryStore, userID, agentID string) *core.Hooks {
	return &core.Hooks{Sessions: core.NewSessionScope(st, userID, agentID)}
}

func warsaw() core.Location {
	return core.Location{Name: "Warsaw", Lat: 52.23, Lon: 21.01}
}

func testGeocoder() *stubGeocoder {
	return &stubGeocoder{cities: map[string]core.Location{"Warsaw": warsaw()}}
}

func configurationDescriptor() core.AgentDescriptor {
	return core.AgentDescriptor{ID: "a-config", Name: "configuration", Keywords: []string{"configuration"}}
}
