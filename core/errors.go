package core

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across packages. Wrap them with fmt.Errorf("%w")
// and test with errors.Is.
var (
	// ErrNotFound indicates an absent record (user configuration, session
	// key, descriptor) rather than a store failure.
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable indicates the persistent store could not be
	// reached. Fatal at startup (registry load), per-request at runtime.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// UnknownAgentError is returned when a message explicitly requests an agent
// switch using a keyword no descriptor declares. It is recovered locally by
// the router and surfaced to the user; routing state stays unchanged.
type UnknownAgentError struct {
	Keyword string
}

// Error implements the error interface.
func (e *UnknownAgentError) Error() string {
	return fmt.Sprintf("unknown agent keyword %q", e.Keyword)
}
