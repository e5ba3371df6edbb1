package planner

import (
	"encoding/hex"

	"github.com/quanta-ir/sparqlcore/internal/intern"
)

// Fingerprint returns a content hash of a plan subtree's shape: its kind
// tag and, recursively, its children's fingerprints. Two structurally
// unequal plans may collide in principle, so Fingerprint is a fast-path
// filter ahead of Equal, never a replacement for it.
func Fingerprint(n QueryPlanNode) string {
	if n == nil {
		nilHash := intern.Fingerprint("nil")
		return hex.EncodeToString(nilHash[:])
	}
	parts := []string{n.Kind().String()}
	for _, c := range n.Children() {
		parts = append(parts, Fingerprint(c))
	}
	h := intern.Fingerprint(parts...)
	return hex.EncodeToString(h[:])
}

// LikelyEqual reports whether two plan nodes' fingerprints match. A false
// result proves inequality; a true result should still be confirmed with
// Equal when correctness (not just a cache key) is required.
func LikelyEqual(a, b QueryPlanNode) bool {
	return Fingerprint(a) == Fingerprint(b)
}
