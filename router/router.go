package router

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hupe1980/agenthub/core"
	"github.com/hupe1980/agenthub/i18n"
	"github.com/hupe1980/agenthub/instance"
	"github.com/hupe1980/agenthub/internal/util"
	"github.com/hupe1980/agenthub/logging"
	"github.com/hupe1980/agenthub/registry"
)

// ResponseKind classifies what the transport should display.
type ResponseKind string

// Response kinds.
const (
	// KindReply is a normal agent reply.
	KindReply ResponseKind = "reply"
	// KindSwitched notifies that an explicit switch request changed the
	// current agent.
	KindSwitched ResponseKind = "switched"
	// KindForced marks a reply produced while the configuration gate
	// overrode routing.
	KindForced ResponseKind = "forced"
	// KindError is a user-visible, locally recovered error (for example an
	// unknown agent keyword).
	KindError ResponseKind = "error"
)

// Response is the structured routing outcome handed back to the transport.
type Response struct {
	Kind  ResponseKind
	Text  string
	Agent core.AgentDescriptor
}

// Source templates for user-visible routing messages. Localization happens
// through the translation resolver; these are the English source texts.
const (
	msgSwitched     = "Switched to agent: %s"
	msgAgentMissing = "Agent '%s' does not exist."
	msgCurrentAgent = "Current agent: %s"
)

// Meta-query question words, matched in English plus the user's localized
// forms resolved through the catalog.
const (
	metaWhich = "which"
	metaWhat  = "what"
)

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// Logger receives routing decisions at debug level.
	Logger logging.Logger
}

// Router composes gate, registry, instance cache, session store and
// translation resolver into the per-message state machine.
//
// Contract:
//   - gate precedence: incomplete users always reach the configuration agent
//   - explicit switches are idempotent (no notification, no reconstruction)
//   - an unknown switch keyword never alters routing state
//   - messages from the same user are processed under a per-user lock;
//     distinct users proceed fully in parallel.
type Router struct {
	registry   *registry.Registry
	gate       *Gate
	instances  *instance.Cache
	sessions   core.SessionStore
	translator core.Translator
	appKeyword string
	logger     logging.Logger

	mu      sync.Mutex
	locks   map[string]*sync.Mutex
	current map[string]core.AgentDescriptor
}

// New constructs a Router. appKeyword is the fixed application trigger word
// (case-insensitive) that prefixes agent switch requests.
func New(
	reg *registry.Registry,
	gate *Gate,
	instances *instance.Cache,
	sessions core.SessionStore,
	translator core.Translator,
	appKeyword string,
	optFns ...func(o *Options),
) *Router {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Router{
		registry:   reg,
		gate:       gate,
		instances:  instances,
		sessions:   sessions,
		translator: translator,
		appKeyword: strings.ToLower(strings.TrimSpace(appKeyword)),
		logger:     logging.OrNoOp(opts.Logger),
		locks:      make(map[string]*sync.Mutex),
		current:    make(map[string]core.AgentDescriptor),
	}
}

// Handle processes one inbound message and returns the structured response.
// uiLang is the transport's language hint used before the user has
// configured a language.
func (r *Router) Handle(ctx context.Context, userID, rawText, uiLang string) (Response, error) {
	lock := r.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	cfg, complete, err := r.gate.UserConfiguration(ctx, userID)
	if err != nil {
		return Response{}, err
	}

	msg := core.Message{Text: util.NormalizeMessage(rawText), UILanguage: uiLang}

	if !complete {
		return r.handleGated(ctx, userID, msg)
	}

	current := r.currentFor(userID)
	lang := r.displayLanguage(cfg, uiLang)
	tokens := util.Tokenize(msg.Text)

	// Step 2/3: explicit agent switch request.
	if keyword, ok := r.switchKeyword(tokens); ok {
		target, known := r.registry.FindByKeyword(keyword)
		if !known {
			r.logger.Debug("switch request rejected", "user_id", userID, "error", &core.UnknownAgentError{Keyword: keyword})
			text := fmt.Sprintf(r.translator.Resolve(ctx, userID, msgAgentMissing), keyword)
			return Response{Kind: KindError, Text: text, Agent: current}, nil
		}
		if target.Name != current.Name {
			r.setCurrent(userID, target)
			r.logger.Info("agent switched", "user_id", userID, "from", current.Name, "to", target.Name)
			text := fmt.Sprintf(r.translator.Resolve(ctx, userID, msgSwitched), target.DisplayNameFor(lang))
			return Response{Kind: KindSwitched, Text: text, Agent: target}, nil
		}
		// Switching to the already-active agent is a no-op. When the
		// message carries nothing but the trigger phrase, report the
		// current agent instead of dispatching the phrase itself.
		if len(tokens) == 2 {
			text := fmt.Sprintf(r.translator.Resolve(ctx, userID, msgCurrentAgent), current.DisplayNameFor(lang))
			return Response{Kind: KindReply, Text: text, Agent: current}, nil
		}
	}

	// Step 4: "which/what agent" meta query.
	if r.isMetaQuery(ctx, userID, tokens) {
		text := fmt.Sprintf(r.translator.Resolve(ctx, userID, msgCurrentAgent), current.DisplayNameFor(lang))
		return Response{Kind: KindReply, Text: text, Agent: current}, nil
	}

	// Step 5: dispatch to the current agent.
	reply, err := r.dispatch(ctx, userID, current, msg)
	if err != nil {
		return Response{}, err
	}
	return Response{Kind: KindReply, Text: reply, Agent: current}, nil
}

// DispatchTo routes one message directly to the agent with the given ID,
// bypassing keyword scanning and leaving the user's current-agent pointer
// untouched. Scheduled prompts use it so a morning weather prompt does not
// hijack the conversation. Unconfigured users are rejected.
func (r *Router) DispatchTo(ctx context.Context, userID, agentID, rawText string) (Response, error) {
	lock := r.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	_, complete, err := r.gate.UserConfiguration(ctx, userID)
	if err != nil {
		return Response{}, err
	}
	if !complete {
		return Response{}, fmt.Errorf("user %s has not completed setup", userID)
	}

	agent, ok := r.registry.ByID(agentID)
	if !ok {
		return Response{}, fmt.Errorf("no agent with id %q", agentID)
	}

	msg := core.Message{Text: util.NormalizeMessage(rawText)}
	reply, err := r.dispatch(ctx, userID, agent, msg)
	if err != nil {
		return Response{}, err
	}
	return Response{Kind: KindReply, Text: reply, Agent: agent}, nil
}

// CurrentAgent returns the user's current agent descriptor, initializing
// first-contact users to the default agent.
func (r *Router) CurrentAgent(userID string) core.AgentDescriptor {
	lock := r.userLock(userID)
	lock.Lock()
	defer lock.Unlock()
	return r.currentFor(userID)
}

// InvalidateUser drops the user's routing state so the next message starts
// from the default agent again.
func (r *Router) InvalidateUser(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.current, userID)
}

// handleGated forces the configuration agent and dispatches the message to
// it, emitting a forced response distinct from a normal switch.
func (r *Router) handleGated(ctx context.Context, userID string, msg core.Message) (Response, error) {
	cfgAgent := r.registry.Configuration()
	if prev := r.currentFor(userID); prev.Name != cfgAgent.Name {
		r.setCurrent(userID, cfgAgent)
		r.logger.Info("routing forced to configuration agent", "user_id", userID, "from", prev.Name)
	}
	reply, err := r.dispatch(ctx, userID, cfgAgent, msg)
	if err != nil {
		return Response{}, err
	}
	return Response{Kind: KindForced, Text: reply, Agent: cfgAgent}, nil
}

// displayLanguage picks the language used for localized display names: the
// user's configured language, else the transport hint, else the default.
func (r *Router) displayLanguage(cfg core.UserConfiguration, uiLang string) string {
	if lang, err := i18n.NormalizeLanguage(cfg.Language); err == nil {
		return lang
	}
	if lang, err := i18n.NormalizeLanguage(uiLang); err == nil {
		return lang
	}
	return core.DefaultLanguage
}

// switchKeyword scans every occurrence of the application keyword and returns
// the first following token that names a known agent. When no occurrence is
// followed by a known agent keyword, the token after the first occurrence is
// returned instead so the caller reports it as the rejected request. A
// trailing application keyword with no following token is not a switch
// request.
func (r *Router) switchKeyword(tokens []string) (string, bool) {
	fallback := ""
	for i := 0; i+1 < len(tokens); i++ {
		if tokens[i] != r.appKeyword {
			continue
		}
		next := tokens[i+1]
		if _, known := r.registry.FindByKeyword(next); known {
			return next, true
		}
		if fallback == "" {
			fallback = next
		}
	}
	return fallback, fallback != ""
}

// isMetaQuery detects "<which|what> <appKeyword>" in English or the user's
// localized question words.
func (r *Router) isMetaQuery(ctx context.Context, userID string, tokens []string) bool {
	words := map[string]struct{}{metaWhich: {}, metaWhat: {}}
	for _, w := range []string{metaWhich, metaWhat} {
		localized := strings.ToLower(r.translator.Resolve(ctx, userID, w))
		words[localized] = struct{}{}
	}
	for i := 0; i+1 < len(tokens); i++ {
		if tokens[i+1] != r.appKeyword {
			continue
		}
		if _, ok := words[tokens[i]]; ok {
			return true
		}
	}
	return false
}

func (r *Router) dispatch(ctx context.Context, userID string, agent core.AgentDescriptor, msg core.Message) (string, error) {
	inst, err := r.instances.Get(ctx, userID, agent.Name)
	if err != nil {
		return "", err
	}
	hooks := &core.Hooks{
		Sessions:   core.NewSessionScope(r.sessions, userID, agent.ID),
		Translator: r.translator,
	}
	reply, err := inst.Respond(ctx, msg, hooks)
	if err != nil {
		return "", fmt.Errorf("agent %q respond: %w", agent.Name, err)
	}
	return reply, nil
}

// userLock returns the per-user mutex, creating it on first contact.
func (r *Router) userLock(userID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[userID] = lock
	}
	return lock
}

func (r *Router) currentFor(userID string) core.AgentDescriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.current[userID]
	if !ok {
		current = r.registry.Default()
		r.current[userID] = current
	}
	return current
}

func (r *Router) setCurrent(userID string, d core.AgentDescriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current[userID] = d
}
