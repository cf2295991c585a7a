package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/agenthub/core"
)

const msgCurrentTime = "It is %s."

// TimeAgent answers every message with the current time. Deterministic under
// an injected clock, it serves as the minimal reference responder.
type TimeAgent struct {
	desc core.AgentDescriptor
	now  func() time.Time
}

var _ core.AgentInstance = (*TimeAgent)(nil)

// NewTimeAgent constructs the time agent. now may be nil for the wall clock.
func NewTimeAgent(desc core.AgentDescriptor, now func() time.Time) *TimeAgent {
	if now == nil {
		now = time.Now
	}
	return &TimeAgent{desc: desc, now: now}
}

// Name implements core.AgentInstance.
func (a *TimeAgent) Name() string { return a.desc.Name }

// Respond implements core.AgentInstance.
func (a *TimeAgent) Respond(ctx context.Context, msg core.Message, hooks *core.Hooks) (string, error) {
	if _, err := hooks.Sessions.Append(ctx, core.RoleUser, msg.Text, ""); err != nil {
		return "", fmt.Errorf("append user record: %w", err)
	}

	reply := fmt.Sprintf(hooks.T(ctx, msgCurrentTime), a.now().Format("15:04"))

	if _, err := hooks.Sessions.Append(ctx, core.RoleAssistant, reply, ""); err != nil {
		return "", fmt.Errorf("append assistant record: %w", err)
	}
	return reply, nil
}
