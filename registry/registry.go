package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/agenthub/core"
	"github.com/hupe1980/agenthub/logging"
)

// Options holds dependency overrides passed to Load().
type Options struct {
	// Logger receives load-time diagnostics.
	Logger logging.Logger
}

// Registry is the immutable in-process view of the agent catalog. All lookup
// methods are safe for unsynchronized concurrent use after Load returns.
type Registry struct {
	byName    map[string]core.AgentDescriptor
	byID      map[string]core.AgentDescriptor
	byKeyword map[string]core.AgentDescriptor
	ordered   []core.AgentDescriptor
	defaultA  core.AgentDescriptor
	configA   core.AgentDescriptor
}

// Load reads all descriptors from the store and builds the keyword index.
//
// Contract:
//   - store failure is returned wrapped in core.ErrStoreUnavailable
//   - descriptors are validated; keywords are trimmed and case-folded
//   - a keyword claimed by two descriptors is a configuration error
//   - exactly one "default" and one "configuration" descriptor must exist.
func Load(ctx context.Context, store core.DescriptorLister, optFns ...func(o *Options)) (*Registry, error) {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	logger := logging.OrNoOp(opts.Logger)

	descriptors, err := store.ListAgentDescriptors(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list agent descriptors: %v", core.ErrStoreUnavailable, err)
	}

	r := &Registry{
		byName:    make(map[string]core.AgentDescriptor, len(descriptors)),
		byID:      make(map[string]core.AgentDescriptor, len(descriptors)),
		byKeyword: make(map[string]core.AgentDescriptor),
	}

	for _, d := range descriptors {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("invalid agent descriptor: %w", err)
		}
		d.Keywords = normalizeKeywords(d.Keywords)
		if _, dup := r.byName[d.Name]; dup {
			return nil, fmt.Errorf("duplicate agent name %q", d.Name)
		}
		if _, dup := r.byID[d.ID]; dup {
			return nil, fmt.Errorf("duplicate agent id %q", d.ID)
		}
		for _, kw := range d.Keywords {
			if prev, claimed := r.byKeyword[kw]; claimed {
				return nil, fmt.Errorf("keyword %q claimed by both %q and %q", kw, prev.Name, d.Name)
			}
			r.byKeyword[kw] = d
		}
		r.byName[d.Name] = d
		r.byID[d.ID] = d
		r.ordered = append(r.ordered, d)
		logger.Debug("registered agent descriptor", "name", d.Name, "keywords", d.Keywords)
	}

	var ok bool
	if r.defaultA, ok = r.byName[core.DefaultAgentName]; !ok {
		return nil, fmt.Errorf("agent catalog has no %q descriptor", core.DefaultAgentName)
	}
	if r.configA, ok = r.byName[core.ConfigurationAgentName]; !ok {
		return nil, fmt.Errorf("agent catalog has no %q descriptor", core.ConfigurationAgentName)
	}

	logger.Info("agent registry loaded", "agents", len(r.ordered), "keywords", len(r.byKeyword))
	return r, nil
}

// FindByKeyword returns the descriptor claiming the given token (already
// case-folded by the caller or not; matching is case-insensitive).
func (r *Registry) FindByKeyword(token string) (core.AgentDescriptor, bool) {
	d, ok := r.byKeyword[strings.ToLower(strings.TrimSpace(token))]
	return d, ok
}

// ByName returns the descriptor with the given name.
func (r *Registry) ByName(name string) (core.AgentDescriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// ByID returns the descriptor with the given identifier.
func (r *Registry) ByID(id string) (core.AgentDescriptor, bool) {
	d, ok := r.byID[id]
	return d, ok
}

// Default returns the guaranteed "default" descriptor.
func (r *Registry) Default() core.AgentDescriptor { return r.defaultA }

// Configuration returns the guaranteed "configuration" descriptor.
func (r *Registry) Configuration() core.AgentDescriptor { return r.configA }

// All returns descriptors in registration order as a defensive copy.
func (r *Registry) All() []core.AgentDescriptor {
	out := make([]core.AgentDescriptor, len(r.ordered))
	copy(out, r.ordered)
	return out
}

func normalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
