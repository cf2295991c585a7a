package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/agenthub/core"
	"github.com/hupe1980/agenthub/instance"
	"github.com/hupe1980/agenthub/logging"
	"github.com/hupe1980/agenthub/model"
)

// Geocoder resolves a city name to a location. Implementations call an
// external geocoding service; tests use a fixed table.
type Geocoder interface {
	Geocode(ctx context.Context, city string) (core.Location, error)
}

// WeatherReport is the normalized result of a weather lookup.
type WeatherReport struct {
	Summary     string
	Temperature float64 // degrees Celsius
}

// WeatherProvider fetches current conditions for a location. Implementations
// call an external weather service; tests use a fixed table.
type WeatherProvider interface {
	Current(ctx context.Context, loc core.Location) (WeatherReport, error)
}

// Deps bundles the collaborators shared by the agent constructors.
type Deps struct {
	Model    model.Model
	Users    core.UserConfigurationStore
	Answers  core.QuestionnaireStore
	Geocoder Geocoder
	Weather  WeatherProvider

	// OnConfigured is invoked after the configuration agent persists a
	// complete user configuration. The hub uses it to invalidate cached
	// instances and translation bindings for the user.
	OnConfigured func(userID string)

	// Now supplies the clock for the time agent. Defaults to time.Now.
	Now func() time.Time

	Logger logging.Logger
}

// Table builds the constructor table for every agent the default catalog
// names. The instance cache rejects a registry whose descriptors are not all
// covered, so additions here and in the catalog must move together.
func Table(deps Deps) (map[string]instance.Factory, error) {
	if deps.Model == nil {
		return nil, fmt.Errorf("agent table: model is required")
	}
	if deps.Users == nil {
		return nil, fmt.Errorf("agent table: user configuration store is required")
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	deps.Logger = logging.OrNoOp(deps.Logger)

	return map[string]instance.Factory{
		core.DefaultAgentName: func(userID string, desc core.AgentDescriptor, answers core.QuestionnaireAnswers) (core.AgentInstance, error) {
			return NewDefaultAgent(userID, desc, deps.Model, func(o *DefaultOptions) {
				// Personalize the system prompt with onboarding answers.
				if city, ok := answers.Answers["city"].(string); ok && city != "" {
					o.Instructions += fmt.Sprintf(" The user lives in %s.", city)
				}
				if lang, ok := answers.Answers["language"].(string); ok && lang != "" {
					o.Instructions += fmt.Sprintf(" The user's preferred language code is %q.", lang)
				}
			}), nil
		},
		core.ConfigurationAgentName: func(userID string, desc core.AgentDescriptor, _ core.QuestionnaireAnswers) (core.AgentInstance, error) {
			return NewConfigurationAgent(userID, desc, deps.Users, deps.Geocoder, func(o *ConfigurationOptions) {
				o.Answers = deps.Answers
				o.OnConfigured = deps.OnConfigured
				o.Logger = deps.Logger
			}), nil
		},
		"time": func(userID string, desc core.AgentDescriptor, _ core.QuestionnaireAnswers) (core.AgentInstance, error) {
			return NewTimeAgent(desc, deps.Now), nil
		},
		"weather": func(userID string, desc core.AgentDescriptor, _ core.QuestionnaireAnswers) (core.AgentInstance, error) {
			return NewWeatherAgent(userID, desc, deps.Users, deps.Weather), nil
		},
	}, nil
}
