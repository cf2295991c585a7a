package router

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agenthub/core"
	"github.com/hupe1980/agenthub/i18n"
	"github.com/hupe1980/agenthub/instance"
	"github.com/hupe1980/agenthub/registry"
	"github.com/hupe1980/agenthub/store"
)

type echoInstance struct {
	name string
}

func (e *echoInstance) Name() string { return e.name }

func (e *echoInstance) Respond(_ context.Context, msg core.Message, _ *core.Hooks) (string, error) {
	return e.name + ": " + msg.Text, nil
}

type fixture struct {
	router *Router
	store  *store.InMemoryStore
	cache  *instance.Cache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := store.NewInMemoryStore()
	st.SeedDescriptors(
		core.AgentDescriptor{ID: "a-default", Name: "default", Keywords: []string{"default"}},
		core.AgentDescriptor{ID: "a-config", Name: "configuration", Keywords: []string{"configuration"}},
		core.AgentDescriptor{ID: "a-weather", Name: "weather", Keywords: []string{"weather"},
			DisplayName: map[string]string{"en": "Weather", "pl": "Pogoda"}},
		core.AgentDescriptor{ID: "a-time", Name: "time", Keywords: []string{"time"}},
	)

	reg, err := registry.Load(context.Background(), st)
	require.NoError(t, err)

	factories := map[string]instance.Factory{}
	for _, name := range []string{"default", "configuration", "weather", "time"} {
		name := name
		factories[name] = func(_ string, desc core.AgentDescriptor, _ core.QuestionnaireAnswers) (core.AgentInstance, error) {
			return &echoInstance{name: desc.Name}, nil
		}
	}

	cache, err := instance.NewCache(reg, st, factories)
	require.NoError(t, err)

	translator := i18n.NewResolver(st, func(o *i18n.Options) {
		o.Catalogs = map[string]i18n.Catalog{
			"pl": {
				"Switched to agent: %s": "Przełączono na agenta: %s",
				"which":                 "jaki",
				"what":                  "co",
			},
		}
	})

	r := New(reg, NewGate(st), cache, st, translator, "agent")
	return &fixture{router: r, store: st, cache: cache}
}

func configure(t *testing.T, st *store.InMemoryStore, userID, lang string) {
	t.Helper()
	require.NoError(t, st.UpdateUserConfiguration(context.Background(), userID, core.UserConfiguration{
		Language: lang,
		Location: &core.Location{Name: "Paris", Lat: 48.85, Lon: 2.35},
	}))
}

func TestGatePrecedenceForcesConfigurationAgent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// Even an explicit switch request cannot bypass the gate.
	for _, text := range []string{"hello", "agent weather", "what agent"} {
		resp, err := f.router.Handle(ctx, "u1", text, "en")
		require.NoError(t, err)
		assert.Equal(t, KindForced, resp.Kind, "text=%q", text)
		assert.Equal(t, "configuration", resp.Agent.Name)
	}
	assert.Equal(t, "configuration", f.router.CurrentAgent("u1").Name)
}

func TestConfiguredUserStartsOnDefaultAgent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	configure(t, f.store, "u1", "en")

	resp, err := f.router.Handle(ctx, "u1", "hello there", "en")
	require.NoError(t, err)
	assert.Equal(t, KindReply, resp.Kind)
	assert.Equal(t, "default: hello there", resp.Text)
}

func TestExplicitSwitch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	configure(t, f.store, "u1", "en")

	resp, err := f.router.Handle(ctx, "u1", "agent weather", "en")
	require.NoError(t, err)
	assert.Equal(t, KindSwitched, resp.Kind)
	assert.Equal(t, "Switched to agent: Weather", resp.Text)
	assert.Equal(t, "weather", f.router.CurrentAgent("u1").Name)

	// The next plain message goes to the weather instance.
	resp, err = f.router.Handle(ctx, "u1", "how is it outside", "en")
	require.NoError(t, err)
	assert.Equal(t, "weather: how is it outside", resp.Text)
}

func TestSwitchNotAnchoredToStart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	configure(t, f.store, "u1", "en")

	resp, err := f.router.Handle(ctx, "u1", "please agent time now", "en")
	require.NoError(t, err)
	assert.Equal(t, KindSwitched, resp.Kind)
	assert.Equal(t, "time", f.router.CurrentAgent("u1").Name)
}

func TestSwitchPrefersKnownKeywordAcrossOccurrences(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	configure(t, f.store, "u1", "en")

	// The first occurrence is followed by an unknown token; the later one
	// names a real agent and wins.
	resp, err := f.router.Handle(ctx, "u1", "talk to my agent then agent weather", "en")
	require.NoError(t, err)
	assert.Equal(t, KindSwitched, resp.Kind)
	assert.Equal(t, "weather", f.router.CurrentAgent("u1").Name)
}

func TestSwitchReportsFirstUnknownKeyword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	configure(t, f.store, "u1", "en")

	resp, err := f.router.Handle(ctx, "u1", "agent foo or maybe agent bar", "en")
	require.NoError(t, err)
	assert.Equal(t, KindError, resp.Kind)
	assert.Equal(t, "Agent 'foo' does not exist.", resp.Text)
	assert.Equal(t, "default", f.router.CurrentAgent("u1").Name)
}

func TestSwitchIsLocalizedForUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	configure(t, f.store, "u1", "pl")

	resp, err := f.router.Handle(ctx, "u1", "agent weather", "pl")
	require.NoError(t, err)
	assert.Equal(t, "Przełączono na agenta: Pogoda", resp.Text)
}

func TestIdempotentSwitch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	configure(t, f.store, "u1", "en")

	resp, err := f.router.Handle(ctx, "u1", "agent weather", "en")
	require.NoError(t, err)
	require.Equal(t, KindSwitched, resp.Kind)
	first, err := f.cache.Get(ctx, "u1", "weather")
	require.NoError(t, err)

	// Repeating the switch emits no switched notification and keeps the
	// cached instance.
	resp, err = f.router.Handle(ctx, "u1", "agent weather", "en")
	require.NoError(t, err)
	assert.Equal(t, KindReply, resp.Kind)
	assert.Equal(t, "Current agent: Weather", resp.Text)

	again, err := f.cache.Get(ctx, "u1", "weather")
	require.NoError(t, err)
	assert.Same(t, first, again)
}

func TestUnknownAgentKeyword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	configure(t, f.store, "u1", "en")

	resp, err := f.router.Handle(ctx, "u1", "agent nonsense", "en")
	require.NoError(t, err)
	assert.Equal(t, KindError, resp.Kind)
	assert.Equal(t, "Agent 'nonsense' does not exist.", resp.Text)
	assert.Equal(t, "default", f.router.CurrentAgent("u1").Name)
}

func TestTrailingAppKeywordIsNotASwitchRequest(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	configure(t, f.store, "u1", "en")

	resp, err := f.router.Handle(ctx, "u1", "talk to my agent", "en")
	require.NoError(t, err)
	assert.Equal(t, KindReply, resp.Kind)
	assert.Equal(t, "default: talk to my agent", resp.Text)
}

func TestMetaQueryReportsCurrentAgent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	configure(t, f.store, "u1", "en")

	_, err := f.router.Handle(ctx, "u1", "agent weather", "en")
	require.NoError(t, err)

	resp, err := f.router.Handle(ctx, "u1", "which agent", "en")
	require.NoError(t, err)
	assert.Equal(t, KindReply, resp.Kind)
	assert.Equal(t, "Current agent: Weather", resp.Text)
	assert.Equal(t, "weather", f.router.CurrentAgent("u1").Name)
}

func TestMetaQueryLocalizedQuestionWord(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	configure(t, f.store, "u1", "pl")

	_, err := f.router.Handle(ctx, "u1", "agent weather", "pl")
	require.NoError(t, err)

	resp, err := f.router.Handle(ctx, "u1", "jaki agent", "pl")
	require.NoError(t, err)
	assert.Equal(t, KindReply, resp.Kind)
	assert.Contains(t, resp.Text, "Pogoda")
}

func TestDispatchToTargetsAgentWithoutSwitching(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	configure(t, f.store, "u1", "en")

	resp, err := f.router.DispatchTo(ctx, "u1", "a-weather", "morning report")
	require.NoError(t, err)
	assert.Equal(t, KindReply, resp.Kind)
	assert.Equal(t, "weather: morning report", resp.Text)

	// The current agent is untouched.
	assert.Equal(t, "default", f.router.CurrentAgent("u1").Name)
}

func TestDispatchToRejectsUnconfiguredUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.router.DispatchTo(ctx, "u1", "a-weather", "morning report")
	assert.ErrorContains(t, err, "has not completed setup")
}

func TestDispatchToUnknownAgentID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	configure(t, f.store, "u1", "en")

	_, err := f.router.DispatchTo(ctx, "u1", "a-missing", "x")
	assert.ErrorContains(t, err, `no agent with id "a-missing"`)
}

func TestDistinctUsersRouteIndependently(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	configure(t, f.store, "u1", "en")
	configure(t, f.store, "u2", "en")

	_, err := f.router.Handle(ctx, "u1", "agent weather", "en")
	require.NoError(t, err)

	assert.Equal(t, "weather", f.router.CurrentAgent("u1").Name)
	assert.Equal(t, "default", f.router.CurrentAgent("u2").Name)
}

func TestConcurrentHandleAcrossUsers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	const users = 8
	for i := 0; i < users; i++ {
		configure(t, f.store, userID(i), "en")
	}

	var wg sync.WaitGroup
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				_, err := f.router.Handle(ctx, userID(i), "agent weather", "en")
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < users; i++ {
		assert.Equal(t, "weather", f.router.CurrentAgent(userID(i)).Name)
	}
}

func userID(i int) string {
	return "user-" + string(rune('a'+i))
}
