package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/agenthub/core"
)

const (
	msgWeatherReport = "Weather in %s: %s, %.1f°C."
	msgWeatherTopic  = "Now tracking the weather for %s."
	msgNoLocation    = "I don't know where you are yet. Please finish setup first."
)

// WeatherAgent reports current conditions for the user's configured city.
// Each city gets its own session key, so the conversation log keeps weather
// topics separate; the last session key tells the agent whether the user's
// city changed since the previous exchange.
type WeatherAgent struct {
	userID  string
	desc    core.AgentDescriptor
	users   core.UserConfigurationStore
	weather WeatherProvider
}

var _ core.AgentInstance = (*WeatherAgent)(nil)

// NewWeatherAgent constructs the weather agent for one user.
func NewWeatherAgent(
	userID string,
	desc core.AgentDescriptor,
	users core.UserConfigurationStore,
	weather WeatherProvider,
) *WeatherAgent {
	return &WeatherAgent{
		userID:  userID,
		desc:    desc,
		users:   users,
		weather: weather,
	}
}

// Name implements core.AgentInstance.
func (a *WeatherAgent) Name() string { return a.desc.Name }

// Respond implements core.AgentInstance.
func (a *WeatherAgent) Respond(ctx context.Context, msg core.Message, hooks *core.Hooks) (string, error) {
	cfg, err := a.users.GetUserConfiguration(ctx, a.userID)
	if err != nil {
		return "", fmt.Errorf("read user configuration: %w", err)
	}
	if cfg.Location == nil {
		return hooks.T(ctx, msgNoLocation), nil
	}
	loc := *cfg.Location

	topicKey := a.topicKey(loc.Name)
	lastKey, err := hooks.Sessions.LastKey(ctx)
	newTopic := false
	switch {
	case err == nil:
		newTopic = lastKey != topicKey
	case errors.Is(err, core.ErrNotFound):
		newTopic = true
	default:
		return "", fmt.Errorf("last session key: %w", err)
	}

	if _, err := hooks.Sessions.Append(ctx, core.RoleUser, msg.Text, topicKey); err != nil {
		return "", fmt.Errorf("append user record: %w", err)
	}

	report, err := a.weather.Current(ctx, loc)
	if err != nil {
		return "", fmt.Errorf("fetch weather for %q: %w", loc.Name, err)
	}

	reply := fmt.Sprintf(hooks.T(ctx, msgWeatherReport), loc.Name, report.Summary, report.Temperature)
	if newTopic {
		reply = fmt.Sprintf(hooks.T(ctx, msgWeatherTopic), loc.Name) + " " + reply
	}

	if _, err := hooks.Sessions.Append(ctx, core.RoleAssistant, reply, topicKey); err != nil {
		return "", fmt.Errorf("append assistant record: %w", err)
	}
	return reply, nil
}

// topicKey derives the per-city session key.
func (a *WeatherAgent) topicKey(city string) string {
	return core.DefaultSessionKey(a.userID, a.desc.ID) + ":" + strings.ToLower(city)
}
