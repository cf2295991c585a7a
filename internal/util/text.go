package util

import "strings"

// NormalizeMessage trims surrounding whitespace and collapses internal runs
// of whitespace into single spaces. Applied to every inbound message before
// routing so keyword scans see a canonical form.
func NormalizeMessage(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Tokenize splits a normalized message into case-folded tokens.
func Tokenize(s string) []string {
	fields := strings.Fields(s)
	for i, f := range fields {
		fields[i] = strings.ToLower(f)
	}
	return fields
}
