package core

import (
	"fmt"
	"strings"
)

// Reserved agent names. The registry refuses to load a catalog that does not
// contain exactly one descriptor for each of them.
const (
	// DefaultAgentName identifies the fallback responder new users start on.
	DefaultAgentName = "default"
	// ConfigurationAgentName identifies the mandatory onboarding responder.
	ConfigurationAgentName = "configuration"
)

// AgentDescriptor is an immutable record describing one agent type: its
// identity, the trigger keywords that select it, its default configuration
// and localized display names. Descriptors are loaded once at startup and
// never mutated afterwards; treat values as read-only.
type AgentDescriptor struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Keywords      []string          `json:"keywords"`
	Configuration map[string]any    `json:"configuration,omitempty"`
	DisplayName   map[string]string `json:"display_name,omitempty"`
}

// DisplayNameFor returns the localized display name for the given language
// code, falling back to the agent name when no localization exists.
func (d AgentDescriptor) DisplayNameFor(lang string) string {
	if name, ok := d.DisplayName[lang]; ok && name != "" {
		return name
	}
	return d.Name
}

// Validate checks structural invariants of a single descriptor: non-empty id
// and name, and at least one non-empty keyword. Keyword normalization
// (trimming, case folding) is the registry's responsibility.
func (d AgentDescriptor) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("agent descriptor %q: empty id", d.Name)
	}
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("agent descriptor %s: empty name", d.ID)
	}
	hasKeyword := false
	for _, kw := range d.Keywords {
		if strings.TrimSpace(kw) != "" {
			hasKeyword = true
			break
		}
	}
	if !hasKeyword {
		return fmt.Errorf("agent descriptor %q: no usable keywords", d.Name)
	}
	return nil
}
