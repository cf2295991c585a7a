// Package registry loads the static agent catalog from the persistent store
// once at startup and serves read-only keyword and name lookups. A failed
// load is fatal: no agents can run without the catalog. Overlapping trigger
// keywords across descriptors are rejected at load time so keyword matching
// stays deterministic.
package registry
