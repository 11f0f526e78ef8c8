package facematch

import (
	"strings"

	"golang.org/x/text/cases"
)

// NormalizeIdentity trims surrounding whitespace from a display name.
func NormalizeIdentity(name string) string {
	return strings.TrimSpace(name)
}

// IdentityKey returns the case-insensitive key used to detect re-enrollment
// ("Alice" and "alice" share a key).
func IdentityKey(name string) string {
	return cases.Fold().String(NormalizeIdentity(name))
}

// SameIdentity compares two names by their identity keys.
func SameIdentity(a, b string) bool {
	return IdentityKey(a) == IdentityKey(b)
}
