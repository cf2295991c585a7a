package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agenthub/core"
	"github.com/hupe1980/agenthub/store"
)

func seededStore(descriptors ...core.AgentDescriptor) *store.InMemoryStore {
	st := store.NewInMemoryStore()
	st.SeedDescriptors(descriptors...)
	return st
}

func baseCatalog() []core.AgentDescriptor {
	return []core.AgentDescriptor{
		{ID: "a1", Name: "default", Keywords: []string{"default"}},
		{ID: "a2", Name: "configuration", Keywords: []string{"configuration", "setup"}},
		{ID: "a3", Name: "weather", Keywords: []string{" Weather ", "forecast"}},
	}
}

func TestLoadBuildsKeywordIndex(t *testing.T) {
	reg, err := Load(context.Background(), seededStore(baseCatalog()...))
	require.NoError(t, err)

	d, ok := reg.FindByKeyword("weather")
	require.True(t, ok)
	assert.Equal(t, "weather", d.Name)

	// Keywords are trimmed and case-folded at load time; lookups are
	// case-insensitive.
	d, ok = reg.FindByKeyword("FORECAST")
	require.True(t, ok)
	assert.Equal(t, "weather", d.Name)

	_, ok = reg.FindByKeyword("nonsense")
	assert.False(t, ok)
}

func TestLoadGuaranteedLookups(t *testing.T) {
	reg, err := Load(context.Background(), seededStore(baseCatalog()...))
	require.NoError(t, err)

	assert.Equal(t, "default", reg.Default().Name)
	assert.Equal(t, "configuration", reg.Configuration().Name)
	assert.Len(t, reg.All(), 3)

	d, ok := reg.ByID("a3")
	require.True(t, ok)
	assert.Equal(t, "weather", d.Name)

	_, ok = reg.ByID("a99")
	assert.False(t, ok)
}

func TestLoadRejectsDuplicateID(t *testing.T) {
	catalog := baseCatalog()
	catalog = append(catalog, core.AgentDescriptor{ID: "a1", Name: "time", Keywords: []string{"time"}})

	_, err := Load(context.Background(), seededStore(catalog...))
	assert.ErrorContains(t, err, `duplicate agent id "a1"`)
}

func TestLoadRejectsKeywordCollision(t *testing.T) {
	catalog := baseCatalog()
	catalog = append(catalog, core.AgentDescriptor{ID: "a4", Name: "time", Keywords: []string{"forecast"}})

	_, err := Load(context.Background(), seededStore(catalog...))
	assert.ErrorContains(t, err, `keyword "forecast"`)
}

func TestLoadRequiresReservedAgents(t *testing.T) {
	_, err := Load(context.Background(), seededStore(
		core.AgentDescriptor{ID: "a1", Name: "default", Keywords: []string{"default"}},
	))
	assert.ErrorContains(t, err, "configuration")
}

func TestLoadRejectsInvalidDescriptor(t *testing.T) {
	catalog := baseCatalog()
	catalog = append(catalog, core.AgentDescriptor{ID: "a9", Name: "broken"})

	_, err := Load(context.Background(), seededStore(catalog...))
	assert.Error(t, err)
}

func TestLoadRejectsDuplicateName(t *testing.T) {
	catalog := baseCatalog()
	catalog = append(catalog, core.AgentDescriptor{ID: "a5", Name: "weather", Keywords: []string{"rain"}})

	_, err := Load(context.Background(), seededStore(catalog...))
	assert.ErrorContains(t, err, "duplicate agent name")
}
