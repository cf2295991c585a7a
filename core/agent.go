package core

import "context"

// Message is the normalized inbound message an agent instance responds to.
// Text has been trimmed and whitespace-collapsed by the router; UILanguage is
// the transport's hint about the user's interface language, used before the
// user has configured a language of their own.
type Message struct {
	Text       string
	UILanguage string
}

// Translator resolves a message-catalog template into localized text for a
// given user. Missing entries fall back to the source template unchanged.
type Translator interface {
	Resolve(ctx context.Context, userID, template string) string
}

// Hooks gives an agent instance scoped access to the session log and the
// translation resolver. The session scope is pinned to the instance's own
// (userID, agentID) pair so an instance can never read or write another
// agent's history.
type Hooks struct {
	Sessions   *SessionScope
	Translator Translator
}

// T is a convenience wrapper resolving a template for the scoped user.
func (h *Hooks) T(ctx context.Context, template string) string {
	if h == nil || h.Translator == nil {
		return template
	}
	return h.Translator.Resolve(ctx, h.Sessions.UserID(), template)
}

// AgentInstance is a stateful per-user responder. Instances are constructed
// lazily by the instance cache with a frozen snapshot of the user's
// questionnaire answers and live for the process lifetime (or until the user
// is invalidated). Respond must be safe for sequential reuse; the router
// serializes calls per user.
type AgentInstance interface {
	Name() string
	Respond(ctx context.Context, msg Message, hooks *Hooks) (string, error)
}

// SessionScope is a SessionStore view pinned to one (user, agent) pair.
type SessionScope struct {
	store   SessionStore
	userID  string
	agentID string
}

// NewSessionScope pins store to the given (user, agent) pair.
func NewSessionScope(store SessionStore, userID, agentID string) *SessionScope {
	return &SessionScope{store: store, userID: userID, agentID: agentID}
}

// UserID returns the pinned user identifier.
func (s *SessionScope) UserID() string { return s.userID }

// AgentID returns the pinned agent identifier.
func (s *SessionScope) AgentID() string { return s.agentID }

// Append writes one record. An empty sessionKey selects the default
// "{userID}:{agentID}" session.
func (s *SessionScope) Append(ctx context.Context, role Role, content, sessionKey string) (string, error) {
	return s.store.Append(ctx, SessionRecord{
		UserID:     s.userID,
		AgentID:    s.agentID,
		SessionKey: sessionKey,
		Role:       role,
		Content:    content,
	})
}

// Read returns records most-recent-first. Tool records are excluded; agents
// that need them should query the store directly via a wider interface.
func (s *SessionScope) Read(ctx context.Context, sessionKey string, limit int) ([]SessionRecord, error) {
	return s.store.Read(ctx, SessionQuery{
		UserID:     s.userID,
		AgentID:    s.agentID,
		SessionKey: sessionKey,
		Limit:      limit,
	})
}

// LastKey returns the key of the most recent session for the pinned pair, or
// ErrNotFound when no records exist.
func (s *SessionScope) LastKey(ctx context.Context) (string, error) {
	return s.store.LastSessionKey(ctx, s.userID, s.agentID)
}
