package store

import "strings"

// NormalizeName produces the dedup key used both for the products upsert
// identity and for cross-store grouping: lowercase, internal whitespace
// runs collapsed to a single space, leading/trailing whitespace trimmed.
// Idempotent: NormalizeName(NormalizeName(s)) == NormalizeName(s).
func NormalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
