// Package agenthub provides a high-level façade over the routing and session
// orchestration layers. Most applications interact with this package by:
//  1. Creating a Hub via New() (optionally overriding the store, model and
//     external collaborators)
//  2. Feeding inbound messages to Handle()
//  3. Delivering the structured responses through their transport
//
// The façade delegates per-message orchestration to router.Router while
// keeping setup ergonomics concise. All defaults are safe for local
// development and testing; production deployments supply the SQLite store, a
// real model and real geocoding/weather clients.
package agenthub

import (
	"context"
	"fmt"
	"io"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/hupe1980/agenthub/agent"
	"github.com/hupe1980/agenthub/config"
	"github.com/hupe1980/agenthub/core"
	"github.com/hupe1980/agenthub/i18n"
	"github.com/hupe1980/agenthub/instance"
	"github.com/hupe1980/agenthub/logging"
	"github.com/hupe1980/agenthub/model"
	"github.com/hupe1980/agenthub/model/anthropic"
	"github.com/hupe1980/agenthub/model/openai"
	"github.com/hupe1980/agenthub/registry"
	"github.com/hupe1980/agenthub/router"
	"github.com/hupe1980/agenthub/store"
	"github.com/hupe1980/agenthub/store/sqlite"
)

// Failure notice shown when message processing fails internally. Resolved
// through the translation catalog like every other user-visible text.
const msgProcessingFailed = "Something went wrong. Please try again."

// Options configures the Hub.
type Options struct {
	// Store supplies descriptors, user configurations, questionnaire answers,
	// the session log and schedules. Defaults to the seeded in-memory store.
	Store core.Store

	// Model backs the default agent. Defaults to a deterministic mock.
	Model model.Model

	// Geocoder validates cities during onboarding. Defaults to a small
	// static table.
	Geocoder agent.Geocoder

	// Weather backs the weather agent. Defaults to a static report.
	Weather agent.WeatherProvider

	// AppKeyword is the trigger word for agent switch requests.
	AppKeyword string

	// Catalogs maps language codes to translation catalogs. The default
	// language needs none.
	Catalogs map[string]i18n.Catalog

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Hub is the high-level façade aggregating the registry, gate, caches and
// router.
type Hub struct {
	registry   *registry.Registry
	router     *router.Router
	translator *i18n.Resolver
	instances  *instance.Cache
	store      core.Store
	logger     logging.Logger
}

// New creates a Hub with optional overrides. Any unset collaborator is
// initialized with a development-grade default.
func New(ctx context.Context, optFns ...func(o *Options)) (*Hub, error) {
	opts := Options{
		Store:      store.NewSampleStore(),
		Model:      model.NewMockModel("dev"),
		Geocoder:   agent.NewStaticGeocoder(),
		Weather:    &agent.StaticWeather{Report: agent.WeatherReport{Summary: "clear", Temperature: 18}},
		AppKeyword: "agent",
		Logger:     logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)

	reg, err := registry.Load(ctx, opts.Store)
	if err != nil {
		return nil, fmt.Errorf("load agent registry: %w", err)
	}

	h := &Hub{
		registry: reg,
		store:    opts.Store,
		logger:   opts.Logger,
	}

	h.translator = i18n.NewResolver(opts.Store, func(o *i18n.Options) {
		o.Catalogs = opts.Catalogs
		o.Logger = opts.Logger
	})

	table, err := agent.Table(agent.Deps{
		Model:    opts.Model,
		Users:    opts.Store,
		Answers:  opts.Store,
		Geocoder: opts.Geocoder,
		Weather:  opts.Weather,
		// A completed onboarding changes language and location, so every
		// cached artifact for the user goes stale at once.
		OnConfigured: func(userID string) { h.InvalidateUser(userID) },
		Logger:       opts.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build agent table: %w", err)
	}

	h.instances, err = instance.NewCache(reg, opts.Store, table, func(o *instance.Options) {
		o.Logger = opts.Logger
	})
	if err != nil {
		return nil, fmt.Errorf("build instance cache: %w", err)
	}

	h.router = router.New(reg, router.NewGate(opts.Store), h.instances, opts.Store, h.translator, opts.AppKeyword, func(o *router.Options) {
		o.Logger = opts.Logger
	})

	return h, nil
}

// NewFromConfig creates a Hub from an application configuration: SQLite
// store when a database path is set, locale catalogs from disk and the
// configured model provider. optFns run last and may override anything.
func NewFromConfig(ctx context.Context, cfg config.Config, optFns ...func(o *Options)) (*Hub, error) {
	logger := logging.New(cfg.Logging.LoggerConfig())

	var st core.Store = store.NewSampleStore()
	if cfg.DatabasePath != "" {
		s, err := sqlite.Open(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		if err := seedIfEmpty(ctx, s); err != nil {
			return nil, fmt.Errorf("seed store: %w", err)
		}
		st = s
	}

	var catalogs map[string]i18n.Catalog
	if cfg.LocalesDir != "" {
		var err error
		if catalogs, err = i18n.LoadCatalogDir(cfg.LocalesDir); err != nil {
			return nil, fmt.Errorf("load locales: %w", err)
		}
	}

	var m model.Model
	switch cfg.Model.Provider {
	case "openai":
		m = openai.NewModel(func(o *openai.Options) {
			if cfg.Model.Name != "" {
				o.Model = cfg.Model.Name
			}
		})
	case "anthropic":
		m = anthropic.NewModel(func(o *anthropic.Options) {
			if cfg.Model.Name != "" {
				o.Model = anthropicsdk.Model(cfg.Model.Name)
			}
		})
	default:
		m = model.NewMockModel("mock")
	}

	merged := append([]func(o *Options){func(o *Options) {
		o.Store = st
		o.Model = m
		o.AppKeyword = cfg.AppKeyword
		o.Catalogs = catalogs
		o.Logger = logger
	}}, optFns...)

	return New(ctx, merged...)
}

// seedIfEmpty writes the sample agent catalog into a store that has none, so
// a fresh database boots with a working set of agents.
func seedIfEmpty(ctx context.Context, s *sqlite.Store) error {
	existing, err := s.ListAgentDescriptors(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, d := range store.SampleDescriptors() {
		if err := s.SaveAgentDescriptor(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the backing store when it owns external resources.
func (h *Hub) Close() error {
	if c, ok := h.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Handle processes one inbound message. Internal failures are logged and
// reported to the caller alongside a localized notice safe to show the user.
func (h *Hub) Handle(ctx context.Context, userID, rawText, uiLang string) (router.Response, error) {
	resp, err := h.router.Handle(ctx, userID, rawText, uiLang)
	if err != nil {
		h.logger.Error("message processing failed", "user_id", userID, "error", err)
		return router.Response{
			Kind: router.KindError,
			Text: h.translator.Resolve(ctx, userID, msgProcessingFailed),
		}, err
	}
	return resp, nil
}

// DispatchTo routes a message directly to the agent with the given ID,
// leaving the user's current-agent state untouched. The scheduler delivers
// stored prompts through it.
func (h *Hub) DispatchTo(ctx context.Context, userID, agentID, rawText string) (router.Response, error) {
	resp, err := h.router.DispatchTo(ctx, userID, agentID, rawText)
	if err != nil {
		h.logger.Error("direct dispatch failed", "user_id", userID, "agent_id", agentID, "error", err)
		return router.Response{}, err
	}
	return resp, nil
}

// CurrentAgent returns the agent currently routing the user's messages.
func (h *Hub) CurrentAgent(userID string) core.AgentDescriptor {
	return h.router.CurrentAgent(userID)
}

// InvalidateUser drops every cached artifact for a user: agent instances,
// the translation binding and the routing state.
func (h *Hub) InvalidateUser(userID string) {
	h.instances.InvalidateUser(userID)
	h.translator.Invalidate(userID)
	h.router.InvalidateUser(userID)
	h.logger.Debug("user caches invalidated", "user_id", userID)
}

// Registry exposes the loaded agent catalog.
func (h *Hub) Registry() *registry.Registry { return h.registry }

// Store exposes the backing store, e.g. for the scheduler.
func (h *Hub) Store() core.Store { return h.store }
