// Package i18n resolves message-catalog templates into a user's preferred
// language. Catalogs are flat template-to-text maps, one per language,
// loaded from YAML files or supplied programmatically. The resolver caches a
// catalog binding per (user, language) pair and invalidates it the moment
// the persisted language differs from the one the cached entry was built
// with. Missing entries and unknown languages fall back to the source
// template text unchanged, never to an error.
package i18n
