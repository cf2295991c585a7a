package router

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agenthub/core"
	"github.com/hupe1980/agenthub/store"
)

type failingConfigStore struct{}

func (failingConfigStore) GetUserConfiguration(context.Context, string) (core.UserConfiguration, error) {
	return core.UserConfiguration{}, errors.New("connection refused")
}

func (failingConfigStore) UpdateUserConfiguration(context.Context, string, core.UserConfiguration) error {
	return errors.New("connection refused")
}

func TestGateUnknownUserIsIncomplete(t *testing.T) {
	gate := NewGate(store.NewInMemoryStore())

	cfg, complete, err := gate.UserConfiguration(context.Background(), "stranger")
	require.NoError(t, err)
	assert.False(t, complete)
	assert.Empty(t, cfg.Language)
}

func TestGatePartialConfigurationIsIncomplete(t *testing.T) {
	ctx := context.Background()
	st := store.NewInMemoryStore()
	require.NoError(t, st.UpdateUserConfiguration(ctx, "u1", core.UserConfiguration{Language: "en"}))

	gate := NewGate(st)
	_, complete, err := gate.UserConfiguration(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, complete)
}

func TestGateCompleteConfiguration(t *testing.T) {
	ctx := context.Background()
	st := store.NewInMemoryStore()
	require.NoError(t, st.UpdateUserConfiguration(ctx, "u1", core.UserConfiguration{
		Language: "pl",
		Location: &core.Location{Name: "Warsaw", Lat: 52.23, Lon: 21.01},
	}))

	gate := NewGate(st)
	cfg, complete, err := gate.UserConfiguration(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, complete)
	assert.Equal(t, "pl", cfg.Language)

	ok, err := gate.IsComplete(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGateStoreFailureIsNotIncomplete(t *testing.T) {
	gate := NewGate(failingConfigStore{})

	_, _, err := gate.UserConfiguration(context.Background(), "u1")
	assert.ErrorIs(t, err, core.ErrStoreUnavailable)
}
