// Package planner implements the physical query-plan algebra: a closed
// family of plan-node variants that compose recursively and support
// structural equality, cost annotation, and index-usage metadata. It
// covers the physical-operator surface a hybrid relational/RDF/graph/
// vector/spatial engine chooses from.
package planner

import "fmt"

// QueryCost annotates a plan node with the optimizer's cost estimate.
// Startup must not exceed Total, and both must be non-negative.
type QueryCost struct {
	Startup float64
	Total   float64
	Rows    uint64
	Width   uint64
}

// NewQueryCost validates the startup <= total invariant.
func NewQueryCost(startup, total float64, rows, width uint64) (QueryCost, error) {
	if startup < 0 || total < 0 {
		return QueryCost{}, fmt.Errorf("planner: negative cost (startup=%v total=%v)", startup, total)
	}
	if startup > total {
		return QueryCost{}, fmt.Errorf("planner: startup cost %v exceeds total cost %v", startup, total)
	}
	return QueryCost{Startup: startup, Total: total, Rows: rows, Width: width}, nil
}

func (c QueryCost) Equal(o QueryCost) bool {
	return c.Startup == o.Startup && c.Total == o.Total && c.Rows == o.Rows && c.Width == o.Width
}

// IndexKind classifies the physical index an IndexUsage refers to.
type IndexKind uint8

const (
	IndexScalar IndexKind = iota
	IndexComposite
	IndexFullText
	IndexVector
	IndexSpatial
	IndexTriple
)

func (k IndexKind) String() string {
	switch k {
	case IndexScalar:
		return "scalar"
	case IndexComposite:
		return "composite"
	case IndexFullText:
		return "fullText"
	case IndexVector:
		return "vector"
	case IndexSpatial:
		return "spatial"
	case IndexTriple:
		return "triple"
	default:
		return fmt.Sprintf("IndexKind(%d)", uint8(k))
	}
}

// AccessPattern classifies how an index is probed.
type AccessPattern uint8

const (
	AccessExactMatch AccessPattern = iota
	AccessRangeScan
	AccessPrefixScan
	AccessFullScan
)

func (a AccessPattern) String() string {
	switch a {
	case AccessExactMatch:
		return "exactMatch"
	case AccessRangeScan:
		return "rangeScan"
	case AccessPrefixScan:
		return "prefixScan"
	case AccessFullScan:
		return "fullScan"
	default:
		return fmt.Sprintf("AccessPattern(%d)", uint8(a))
	}
}

// IndexUsage records one index consulted by a plan node, for the
// optimizer/executor's introspection.
type IndexUsage struct {
	IndexName     string
	Kind          IndexKind
	AccessPattern AccessPattern
}

func (u IndexUsage) Equal(o IndexUsage) bool {
	return u.IndexName == o.IndexName && u.Kind == o.Kind && u.AccessPattern == o.AccessPattern
}

// PlanStatistics carries optional cardinality hints attached per plan
// node rather than held globally by the optimizer.
type PlanStatistics struct {
	RowCount       uint64
	DistinctValues map[string]uint64
}

func (s *PlanStatistics) Equal(o *PlanStatistics) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.RowCount != o.RowCount || len(s.DistinctValues) != len(o.DistinctValues) {
		return false
	}
	for k, v := range s.DistinctValues {
		if ov, ok := o.DistinctValues[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// QueryPlan pairs a physical operator tree with its cost estimate, the
// indexes it consults, and optional per-node statistics.
type QueryPlan struct {
	Node       QueryPlanNode
	Cost       QueryCost
	Indexes    []IndexUsage
	Statistics *PlanStatistics
}

func (p QueryPlan) Equal(o QueryPlan) bool {
	if !p.Node.Equal(o.Node) || !p.Cost.Equal(o.Cost) {
		return false
	}
	if len(p.Indexes) != len(o.Indexes) {
		return false
	}
	for i := range p.Indexes {
		if !p.Indexes[i].Equal(o.Indexes[i]) {
			return false
		}
	}
	return p.Statistics.Equal(o.Statistics)
}

// InvalidPlan reports a violated construction invariant (arity mismatch,
// empty bitmap operand list, non-positive vector search k, etc).
type InvalidPlan struct {
	Reason string
}

func (e *InvalidPlan) Error() string { return "planner: invalid plan: " + e.Reason }

func invalid(format string, args ...any) error {
	return &InvalidPlan{Reason: fmt.Sprintf(format, args...)}
}
