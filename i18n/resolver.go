package i18n

import (
	"context"
	"errors"
	"sync"

	"github.com/hupe1980/agenthub/core"
	"github.com/hupe1980/agenthub/logging"
)

// Options holds dependency + configuration overrides passed to NewResolver().
type Options struct {
	// Catalogs maps language codes to their catalogs. The default language
	// (core.DefaultLanguage) needs no catalog: resolution is the identity.
	Catalogs map[string]Catalog
	// Logger receives cache invalidation diagnostics.
	Logger logging.Logger
}

// Resolver resolves templates into a user's persisted language.
//
// Contract:
//   - the persisted language is re-read on every Resolve; a cached binding
//     built for a different language is discarded immediately
//   - unset or unrecognized languages resolve via the default language
//   - missing catalog entries return the source template unchanged
//   - safe for concurrent use; bindings are cached per user.
type Resolver struct {
	store    core.UserConfigurationStore
	catalogs map[string]Catalog
	logger   logging.Logger

	mu       sync.RWMutex
	bindings map[string]*binding // userID -> cached (language, catalog)
}

// binding is one cached per-user catalog resolution.
type binding struct {
	language string
	catalog  Catalog // nil for identity resolution
}

var _ core.Translator = (*Resolver)(nil)

// NewResolver constructs a Resolver reading user languages from store.
func NewResolver(store core.UserConfigurationStore, optFns ...func(o *Options)) *Resolver {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Resolver{
		store:    store,
		catalogs: opts.Catalogs,
		logger:   logging.OrNoOp(opts.Logger),
		bindings: make(map[string]*binding),
	}
}

// Resolve implements core.Translator.
func (r *Resolver) Resolve(ctx context.Context, userID, template string) string {
	lang := r.userLanguage(ctx, userID)
	b := r.bindingFor(userID, lang)
	if b.catalog == nil {
		return template
	}
	if text, ok := b.catalog[template]; ok && text != "" {
		return text
	}
	return template
}

// Invalidate drops the cached binding for a user, forcing a rebuild on the
// next Resolve. Called when a configuration update changes the language.
func (r *Resolver) Invalidate(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bindings, userID)
}

// userLanguage reads the persisted language, falling back to the default for
// absent users, store failures and unrecognized codes. Translation must
// degrade, never fail.
func (r *Resolver) userLanguage(ctx context.Context, userID string) string {
	cfg, err := r.store.GetUserConfiguration(ctx, userID)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			r.logger.Warn("translation language lookup failed", "user_id", userID, "error", err)
		}
		return core.DefaultLanguage
	}
	lang, err := NormalizeLanguage(cfg.Language)
	if err != nil {
		return core.DefaultLanguage
	}
	return lang
}

// bindingFor returns the cached binding for (userID, lang), rebuilding it
// when the language changed since it was built.
func (r *Resolver) bindingFor(userID, lang string) *binding {
	r.mu.RLock()
	b, ok := r.bindings[userID]
	r.mu.RUnlock()
	if ok && b.language == lang {
		return b
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok = r.bindings[userID]; ok && b.language == lang {
		return b
	}
	if ok {
		r.logger.Debug("translation catalog invalidated", "user_id", userID, "language", lang)
	}
	b = &binding{language: lang, catalog: r.catalogs[lang]}
	r.bindings[userID] = b
	return b
}
