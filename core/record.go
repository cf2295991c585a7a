package core

import (
	"time"

	"github.com/google/uuid"
)

// Role classifies who produced a session record.
type Role string

// Session record roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// SessionRecord is one entry of the append-only conversation log. A record
// belongs to a (user, agent) pair and to a session identified by SessionKey;
// agents may choose domain-specific keys (for example a topic identifier) to
// scope continuity independently of calendar time.
type SessionRecord struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	AgentID    string    `json:"agent_id"`
	SessionKey string    `json:"session_key"`
	Role       Role      `json:"role"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
}

// DefaultSessionKey returns the session key used when an agent does not
// supply its own: "{userID}:{agentID}".
func DefaultSessionKey(userID, agentID string) string {
	return userID + ":" + agentID
}

// SessionQuery selects records from the session log. A zero Limit means no
// limit; an empty SessionKey selects across all sessions of the (user, agent)
// pair. Tool records are excluded unless IncludeTool is set, matching the
// needs of conversational history assembly.
type SessionQuery struct {
	UserID      string
	AgentID     string
	SessionKey  string
	Limit       int
	IncludeTool bool
}

// NewID generates a unique identifier for records and runs.
func NewID() string { return uuid.NewString() }
