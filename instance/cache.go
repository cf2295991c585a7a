package instance

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/hupe1980/agenthub/core"
	"github.com/hupe1980/agenthub/logging"
	"github.com/hupe1980/agenthub/registry"
)

// Factory constructs a fresh agent instance for one user. The answers map is
// the instance's private snapshot; factories may retain and mutate it.
type Factory func(userID string, desc core.AgentDescriptor, answers core.QuestionnaireAnswers) (core.AgentInstance, error)

// Options holds dependency + configuration overrides passed to NewCache().
type Options struct {
	// Logger receives construction and invalidation diagnostics.
	Logger logging.Logger
}

// Cache is the per-(user, agent) instance cache.
//
// Contract:
//   - Get returns the same instance for repeated calls with the same key
//   - concurrent first access constructs exactly once (singleflight)
//   - a failed construction leaves the key absent so the next call retries
//   - InvalidateUser drops every instance belonging to one user.
type Cache struct {
	registry  *registry.Registry
	store     core.QuestionnaireStore
	factories map[string]Factory
	logger    logging.Logger

	mu        sync.RWMutex
	instances map[string]core.AgentInstance
	group     singleflight.Group
}

// NewCache builds a Cache and verifies the factory table is exhaustive: every
// descriptor in the registry must have a registered factory. A missing
// factory is a startup error, not a runtime surprise.
func NewCache(reg *registry.Registry, store core.QuestionnaireStore, factories map[string]Factory, optFns ...func(o *Options)) (*Cache, error) {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	var missing []string
	for _, d := range reg.All() {
		if _, ok := factories[d.Name]; !ok {
			missing = append(missing, d.Name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("no factory registered for agents: %s", strings.Join(missing, ", "))
	}

	return &Cache{
		registry:  reg,
		store:     store,
		factories: factories,
		logger:    logging.OrNoOp(opts.Logger),
		instances: make(map[string]core.AgentInstance),
	}, nil
}

// Get returns the cached instance for (userID, agentName), constructing it on
// first access.
func (c *Cache) Get(ctx context.Context, userID, agentName string) (core.AgentInstance, error) {
	key := userID + "\x00" + agentName

	c.mu.RLock()
	inst, ok := c.instances[key]
	c.mu.RUnlock()
	if ok {
		return inst, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check under singleflight: another caller may have just
		// finished constructing.
		c.mu.RLock()
		inst, ok := c.instances[key]
		c.mu.RUnlock()
		if ok {
			return inst, nil
		}

		built, err := c.construct(ctx, userID, agentName)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.instances[key] = built
		c.mu.Unlock()
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(core.AgentInstance), nil
}

// InvalidateUser removes every cached instance for userID. The next message
// rebuilds instances from the then-current questionnaire answers.
func (c *Cache) InvalidateUser(userID string) {
	prefix := userID + "\x00"
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.instances {
		if strings.HasPrefix(key, prefix) {
			delete(c.instances, key)
		}
	}
	c.logger.Debug("agent instances invalidated", "user_id", userID)
}

func (c *Cache) construct(ctx context.Context, userID, agentName string) (core.AgentInstance, error) {
	desc, ok := c.registry.ByName(agentName)
	if !ok {
		// Routing only ever produces registered names; reaching this
		// indicates a registry/routing desync.
		return nil, fmt.Errorf("agent %q not in registry: routing desync", agentName)
	}

	answers, err := c.store.GetQuestionnaireAnswers(ctx, userID, desc.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch questionnaire answers for %s/%s: %w", userID, agentName, err)
	}

	factory := c.factories[agentName]
	inst, err := factory(userID, desc, answers)
	if err != nil {
		return nil, fmt.Errorf("construct agent %q for user %s: %w", agentName, userID, err)
	}

	c.logger.Debug("agent instance constructed", "user_id", userID, "agent", agentName)
	return inst, nil
}
