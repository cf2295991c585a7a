package core

import (
	"context"
	"time"
)

// SessionStore is the append-only, session-keyed conversation log.
//
// Contract:
//   - Append assigns the record an ID and timestamp if unset and defaults
//     SessionKey to DefaultSessionKey(userID, agentID) when empty
//   - Read returns records most-recent-first, honoring SessionQuery filters
//   - LastSessionKey returns the session key of the most recently appended
//     record for the (user, agent) pair regardless of role, or ErrNotFound
//     when the pair has no records yet.
type SessionStore interface {
	Append(ctx context.Context, rec SessionRecord) (string, error)
	Read(ctx context.Context, q SessionQuery) ([]SessionRecord, error)
	LastSessionKey(ctx context.Context, userID, agentID string) (string, error)
}

// DescriptorLister exposes the static agent catalog.
type DescriptorLister interface {
	ListAgentDescriptors(ctx context.Context) ([]AgentDescriptor, error)
}

// UserConfigurationStore reads and writes the durable per-user onboarding
// record. GetUserConfiguration returns ErrNotFound for users that have never
// been configured.
type UserConfigurationStore interface {
	GetUserConfiguration(ctx context.Context, userID string) (UserConfiguration, error)
	UpdateUserConfiguration(ctx context.Context, userID string, cfg UserConfiguration) error
}

// QuestionnaireStore holds the per-(user, agent) questionnaire answers that
// agent instances receive at construction time.
type QuestionnaireStore interface {
	GetQuestionnaireAnswers(ctx context.Context, userID, agentID string) (QuestionnaireAnswers, error)
	SaveQuestionnaireAnswers(ctx context.Context, userID, agentID string, a QuestionnaireAnswers) error
}

// QuestionnaireAnswers is the durable answer set for one (user, agent) pair.
// Answers is never nil on a successful read; an unanswered pair yields an
// empty map with Completed false.
type QuestionnaireAnswers struct {
	Answers   map[string]any `json:"answers"`
	Completed bool           `json:"completed"`
}

// Schedule is a durable request to dispatch a prompt to an agent on behalf of
// a user at a fixed local time every day.
type Schedule struct {
	ID      string        `json:"id"`
	UserID  string        `json:"user_id"`
	AgentID string        `json:"agent_id"`
	At      time.Duration `json:"at"` // offset from midnight
	Prompt  string        `json:"prompt"`
}

// ScheduleLister exposes the scheduled prompts table.
type ScheduleLister interface {
	ListSchedules(ctx context.Context) ([]Schedule, error)
}

// Store aggregates every persistent collaborator surface the orchestration
// layer consumes. Implementations must be safe for concurrent use.
type Store interface {
	DescriptorLister
	UserConfigurationStore
	QuestionnaireStore
	SessionStore
	ScheduleLister
}
