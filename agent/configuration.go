package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/agenthub/core"
	"github.com/hupe1980/agenthub/logging"
)

// User-visible onboarding texts, resolved through the translation catalog.
const (
	msgAskLanguage     = "Please choose your language (en/pl)."
	msgInvalidLanguage = "I don't support that language yet. Please choose one of: %s."
	msgAskCity         = "Which city do you live in?"
	msgCityNotFound    = "I could not find that city. Please try another name."
	msgSetupDone       = "Setup complete. You can start chatting now."
)

// ConfigurationOptions holds overrides passed to NewConfigurationAgent().
type ConfigurationOptions struct {
	// SupportedLanguages restricts the language step. Codes must pass
	// core.ValidLanguageCode.
	SupportedLanguages []string
	// Answers, when set, receives the completed questionnaire answer map.
	Answers core.QuestionnaireStore
	// OnConfigured fires once after the configuration becomes complete.
	OnConfigured func(userID string)
	Logger       logging.Logger
}

// ConfigurationAgent runs the mandatory two-step onboarding flow: first the
// language, then the home city resolved through the geocoder. It derives the
// current step from the persisted configuration rather than in-memory state,
// so a process restart resumes the flow where the user left off.
type ConfigurationAgent struct {
	userID   string
	desc     core.AgentDescriptor
	users    core.UserConfigurationStore
	geocoder Geocoder
	opts     ConfigurationOptions
}

var _ core.AgentInstance = (*ConfigurationAgent)(nil)

// NewConfigurationAgent constructs the onboarding agent for one user.
func NewConfigurationAgent(
	userID string,
	desc core.AgentDescriptor,
	users core.UserConfigurationStore,
	geocoder Geocoder,
	optFns ...func(o *ConfigurationOptions),
) *ConfigurationAgent {
	opts := ConfigurationOptions{
		SupportedLanguages: []string{"en", "pl"},
		Logger:             logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)
	return &ConfigurationAgent{
		userID:   userID,
		desc:     desc,
		users:    users,
		geocoder: geocoder,
		opts:     opts,
	}
}

// Name implements core.AgentInstance.
func (a *ConfigurationAgent) Name() string { return a.desc.Name }

// Respond implements core.AgentInstance.
func (a *ConfigurationAgent) Respond(ctx context.Context, msg core.Message, hooks *core.Hooks) (string, error) {
	cfg, err := a.users.GetUserConfiguration(ctx, a.userID)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return "", fmt.Errorf("read user configuration: %w", err)
	}

	if _, err := hooks.Sessions.Append(ctx, core.RoleUser, msg.Text, ""); err != nil {
		return "", fmt.Errorf("append user record: %w", err)
	}

	var reply string
	if cfg.Language == "" {
		reply, err = a.stepLanguage(ctx, cfg, msg, hooks)
	} else {
		reply, err = a.stepCity(ctx, cfg, msg, hooks)
	}
	if err != nil {
		return "", err
	}

	if _, err := hooks.Sessions.Append(ctx, core.RoleAssistant, reply, ""); err != nil {
		return "", fmt.Errorf("append assistant record: %w", err)
	}
	return reply, nil
}

// stepLanguage consumes the message as a language choice. Anything that is
// not a supported code re-prompts; the very first contact (empty history, no
// plausible code) gets the initial prompt.
func (a *ConfigurationAgent) stepLanguage(ctx context.Context, cfg core.UserConfiguration, msg core.Message, hooks *core.Hooks) (string, error) {
	choice := strings.ToLower(strings.TrimSpace(msg.Text))
	if !a.supported(choice) {
		if core.ValidLanguageCode(choice) {
			text := fmt.Sprintf(hooks.T(ctx, msgInvalidLanguage), strings.Join(a.opts.SupportedLanguages, ", "))
			return text, nil
		}
		return hooks.T(ctx, msgAskLanguage), nil
	}

	cfg.Language = choice
	if err := a.users.UpdateUserConfiguration(ctx, a.userID, cfg); err != nil {
		return "", fmt.Errorf("save language: %w", err)
	}
	a.opts.Logger.Info("onboarding language chosen", "user_id", a.userID, "language", choice)
	return hooks.T(ctx, msgAskCity), nil
}

// stepCity consumes the message as a city name, geocodes it and completes the
// configuration.
func (a *ConfigurationAgent) stepCity(ctx context.Context, cfg core.UserConfiguration, msg core.Message, hooks *core.Hooks) (string, error) {
	city := strings.TrimSpace(msg.Text)
	if city == "" {
		return hooks.T(ctx, msgAskCity), nil
	}

	loc, err := a.geocoder.Geocode(ctx, city)
	if errors.Is(err, core.ErrNotFound) {
		return hooks.T(ctx, msgCityNotFound), nil
	}
	if err != nil {
		return "", fmt.Errorf("geocode %q: %w", city, err)
	}

	cfg.Location = &loc
	if err := a.users.UpdateUserConfiguration(ctx, a.userID, cfg); err != nil {
		return "", fmt.Errorf("save location: %w", err)
	}
	a.opts.Logger.Info("onboarding complete", "user_id", a.userID, "city", loc.Name)

	if a.opts.Answers != nil {
		answers := core.QuestionnaireAnswers{
			Answers:   map[string]any{"language": cfg.Language, "city": loc.Name},
			Completed: true,
		}
		if err := a.opts.Answers.SaveQuestionnaireAnswers(ctx, a.userID, a.desc.ID, answers); err != nil {
			return "", fmt.Errorf("save questionnaire answers: %w", err)
		}
	}
	if a.opts.OnConfigured != nil {
		a.opts.OnConfigured(a.userID)
	}
	return hooks.T(ctx, msgSetupDone), nil
}

func (a *ConfigurationAgent) supported(code string) bool {
	for _, l := range a.opts.SupportedLanguages {
		if l == code {
			return true
		}
	}
	return false
}
