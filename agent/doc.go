// Package agent contains the concrete agent implementations and the factory
// table the instance cache uses to construct them lazily per user. The
// configuration agent runs the mandatory onboarding flow; the default agent
// is the model-backed conversational fallback; the time and weather agents
// demonstrate deterministic and topic-scoped session behavior.
package agent
