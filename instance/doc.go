// Package instance lazily constructs and caches one stateful agent instance
// per (user, agent) pair. Construction fetches the user's durable
// questionnaire answers so the instance starts from a frozen snapshot;
// concurrent first access for the same key is collapsed to a single
// construction, and failed constructions never populate the cache.
package instance
