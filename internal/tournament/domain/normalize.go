package domain

import "strings"

// NormalizeWhitespace trims leading and trailing whitespace and collapses
// internal runs of whitespace to a single space.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
