package planner

import "github.com/quanta-ir/sparqlcore/pkg/rdf"

// IndexBounds describes the key range an IndexScanPlan probes. Exact and
// prefix bounds share the same representation (lower == upper, both
// inclusive); they are distinguished downstream by the surrounding
// IndexUsage's AccessPattern tag, per the component design.
type IndexBounds struct {
	Lower          []rdf.Literal
	Upper          []rdf.Literal
	LowerInclusive bool
	UpperInclusive bool
}

// ExactBounds builds the bounds for an exact-match probe: key == vs.
func ExactBounds(vs []rdf.Literal) IndexBounds {
	return IndexBounds{Lower: vs, Upper: vs, LowerInclusive: true, UpperInclusive: true}
}

// PrefixBounds builds the bounds for a prefix probe: key starts with vs.
// Representationally identical to ExactBounds; callers distinguish the two
// via the IndexUsage.AccessPattern tag on the surrounding plan node.
func PrefixBounds(vs []rdf.Literal) IndexBounds {
	return IndexBounds{Lower: vs, Upper: vs, LowerInclusive: true, UpperInclusive: true}
}

// RangeBounds builds the bounds for from <= key <= to (subject to the
// inclusive flags); either side may be nil for a half-open range.
func RangeBounds(from, to []rdf.Literal, lowerInclusive, upperInclusive bool) IndexBounds {
	return IndexBounds{Lower: from, Upper: to, LowerInclusive: lowerInclusive, UpperInclusive: upperInclusive}
}

// UnboundedBounds builds the bounds for a full scan: both sides nil.
func UnboundedBounds() IndexBounds {
	return IndexBounds{}
}

// Validate enforces the invariant that non-empty lower/upper bounds share
// equal arity.
func (b IndexBounds) Validate() error {
	if len(b.Lower) > 0 && len(b.Upper) > 0 && len(b.Lower) != len(b.Upper) {
		return invalid("index bounds arity mismatch: lower has %d components, upper has %d", len(b.Lower), len(b.Upper))
	}
	return nil
}

func literalsEqual(a, b []rdf.Literal) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func (b IndexBounds) Equal(o IndexBounds) bool {
	return literalsEqual(b.Lower, o.Lower) && literalsEqual(b.Upper, o.Upper) &&
		b.LowerInclusive == o.LowerInclusive && b.UpperInclusive == o.UpperInclusive
}
