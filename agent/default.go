package agent

import (
	"context"
	"fmt"

	"github.com/hupe1980/agenthub/core"
	"github.com/hupe1980/agenthub/model"
)

const defaultHistoryLimit = 10

const defaultInstructions = "You are a helpful, concise conversational assistant. " +
	"Answer in the language the user writes in."

// DefaultOptions holds overrides passed to NewDefaultAgent().
type DefaultOptions struct {
	// Instructions is the system prompt sent with every request.
	Instructions string
	// HistoryLimit caps how many prior records are replayed to the model.
	HistoryLimit int
}

// DefaultAgent is the model-backed conversational fallback. Every exchange is
// appended to the default session; the most recent records are replayed to
// the model as context.
type DefaultAgent struct {
	userID string
	desc   core.AgentDescriptor
	model  model.Model
	opts   DefaultOptions
}

var _ core.AgentInstance = (*DefaultAgent)(nil)

// NewDefaultAgent constructs the fallback agent for one user.
func NewDefaultAgent(userID string, desc core.AgentDescriptor, m model.Model, optFns ...func(o *DefaultOptions)) *DefaultAgent {
	opts := DefaultOptions{
		Instructions: defaultInstructions,
		HistoryLimit: defaultHistoryLimit,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &DefaultAgent{userID: userID, desc: desc, model: m, opts: opts}
}

// Name implements core.AgentInstance.
func (a *DefaultAgent) Name() string { return a.desc.Name }

// Respond implements core.AgentInstance.
func (a *DefaultAgent) Respond(ctx context.Context, msg core.Message, hooks *core.Hooks) (string, error) {
	history, err := hooks.Sessions.Read(ctx, "", a.opts.HistoryLimit)
	if err != nil {
		return "", fmt.Errorf("read history: %w", err)
	}

	if _, err := hooks.Sessions.Append(ctx, core.RoleUser, msg.Text, ""); err != nil {
		return "", fmt.Errorf("append user record: %w", err)
	}

	req := model.Request{Instructions: a.opts.Instructions}
	// History arrives most-recent-first; the model wants chronological order.
	for i := len(history) - 1; i >= 0; i-- {
		req.Messages = append(req.Messages, model.Message{
			Role: string(history[i].Role),
			Text: history[i].Content,
		})
	}
	req.Messages = append(req.Messages, model.Message{Role: string(core.RoleUser), Text: msg.Text})

	resp, err := a.model.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	if _, err := hooks.Sessions.Append(ctx, core.RoleAssistant, resp.Text, ""); err != nil {
		return "", fmt.Errorf("append assistant record: %w", err)
	}
	return resp.Text, nil
}
