// Package store houses concrete implementations of core.Store. The interface
// itself lives in the core package to centralize domain contracts; keeping
// only implementations here prevents higher level packages (router, agents)
// from depending on concrete storage.
//
// The in-memory store in this package suits tests and ephemeral demos. The
// sqlite subpackage provides the durable backend; add further backends in
// sub-packages without changing any calling code.
package store
