// Package model defines the minimal text-generation interface agents use and
// a deterministic in-memory implementation for tests and examples. Provider
// adapters live in the subpackages model/openai and model/anthropic.
package model
