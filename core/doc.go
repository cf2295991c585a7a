// Package core provides the foundational domain types and interfaces used by
// AgentHub. It defines the core abstractions for:
//
//   - Agent descriptors (the static catalog of responders and their triggers)
//   - User configuration (language + location gate data)
//   - Session records (append-only, session-keyed conversation logs)
//   - AgentInstance (the per-user stateful responder contract)
//   - Pluggable persistent store interfaces
//
// The package intentionally keeps implementation concerns (persistence,
// routing, concrete agents) out of scope, exposing small interfaces so that
// custom backends and extensions remain possible. All exported identifiers
// include concise documentation to aid discoverability.
package core
