// Package router is the top-level orchestrator for inbound messages. For
// every message it applies the configuration gate, scans for explicit
// agent-switch requests, answers "which agent" meta queries, updates the
// per-user current-agent pointer and dispatches to the resolved agent
// instance. Processing for a single user is serialized; unrelated users
// never block each other.
package router
