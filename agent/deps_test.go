package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agenthub/core"
	"github.com/hupe1980/agenthub/model"
	"github.com/hupe1980/agenthub/store"
)

func TestTableCoversCatalogAgents(t *testing.T) {
	st := store.NewInMemoryStore()
	table, err := Table(Deps{
		Model:    model.NewMockModel("m"),
		Users:    st,
		Answers:  st,
		Geocoder: testGeocoder(),
		Weather:  &stubWeather{},
	})
	require.NoError(t, err)

	for _, name := range []string{core.DefaultAgentName, core.ConfigurationAgentName, "time", "weather"} {
		assert.Contains(t, table, name)
	}
}

func TestTableConstructsInstances(t *testing.T) {
	st := store.NewInMemoryStore()
	table, err := Table(Deps{
		Model:    model.NewMockModel("m"),
		Users:    st,
		Answers:  st,
		Geocoder: testGeocoder(),
		Weather:  &stubWeather{},
	})
	require.NoError(t, err)

	desc := core.AgentDescriptor{ID: "a1", Name: core.DefaultAgentName, Keywords: []string{"default"}}
	inst, err := table[core.DefaultAgentName]("u1", desc, core.QuestionnaireAnswers{})
	require.NoError(t, err)
	assert.Equal(t, core.DefaultAgentName, inst.Name())
}

func TestTableRequiresModel(t *testing.T) {
	_, err := Table(Deps{Users: store.NewInMemoryStore()})
	assert.ErrorContains(t, err, "model is required")
}

func TestTableRequiresUserStore(t *testing.T) {
	_, err := Table(Deps{Model: model.NewMockModel("m")})
	assert.ErrorContains(t, err, "user configuration store")
}
