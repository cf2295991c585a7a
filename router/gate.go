package router

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/agenthub/core"
)

// Gate decides whether a user has completed mandatory setup (language +
// location). The check runs on every message: an already-configured user can
// never be forced back into setup, and an unconfigured one is forced into it
// unconditionally.
type Gate struct {
	store core.UserConfigurationStore
}

// NewGate constructs a Gate reading configurations from store.
func NewGate(store core.UserConfigurationStore) *Gate {
	return &Gate{store: store}
}

// UserConfiguration returns the user's configuration together with the gate
// verdict. A user the store has never seen is simply incomplete; a store
// failure is a per-request processing error.
func (g *Gate) UserConfiguration(ctx context.Context, userID string) (core.UserConfiguration, bool, error) {
	cfg, err := g.store.GetUserConfiguration(ctx, userID)
	if errors.Is(err, core.ErrNotFound) {
		return core.UserConfiguration{}, false, nil
	}
	if err != nil {
		return core.UserConfiguration{}, false, fmt.Errorf("%w: read user configuration: %v", core.ErrStoreUnavailable, err)
	}
	return cfg, cfg.Complete(), nil
}

// IsComplete reports the gate verdict alone.
func (g *Gate) IsComplete(ctx context.Context, userID string) (bool, error) {
	_, complete, err := g.UserConfiguration(ctx, userID)
	return complete, err
}
