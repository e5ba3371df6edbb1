package planner

import "fmt"

// PlanNodeKind tags the variant of a QueryPlanNode, letting a tree walker
// switch on Kind() without a type assertion for every operator.
type PlanNodeKind uint8

const (
	NodeTableScan PlanNodeKind = iota
	NodeIndexScan
	NodeBitmapScan
	NodeJoin
	NodeHashJoin
	NodeMergeJoin
	NodeNestedLoopJoin
	NodeGraphTraversal
	NodeShortestPath
	NodeTriplePatternScan
	NodePropertyPath
	NodeFilter
	NodeProject
	NodeSort
	NodeLimit
	NodeDistinct
	NodeAggregate
	NodeSetOperation
	NodeVectorSearch
	NodeFullTextSearch
	NodeSpatialSearch
	NodeValues
	NodeSubquery
	NodeMaterialize
)

var nodeKindNames = [...]string{
	"tableScan", "indexScan", "bitmapScan", "join", "hashJoin", "mergeJoin",
	"nestedLoopJoin", "graphTraversal", "shortestPath", "triplePatternScan",
	"propertyPath", "filter", "project", "sort", "limit", "distinct",
	"aggregate", "setOperation", "vectorSearch", "fullTextSearch",
	"spatialSearch", "values", "subquery", "materialize",
}

func (k PlanNodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return fmt.Sprintf("PlanNodeKind(%d)", uint8(k))
}

// JoinType is shared by JoinPlan, HashJoinPlan, MergeJoinPlan, and
// NestedLoopJoinPlan.
type JoinType uint8

const (
	JoinInner JoinType = iota
	JoinLeft
	JoinRight
	JoinFull
	JoinSemi
	JoinAnti
	JoinCross
)

func (j JoinType) String() string {
	switch j {
	case JoinInner:
		return "inner"
	case JoinLeft:
		return "left"
	case JoinRight:
		return "right"
	case JoinFull:
		return "full"
	case JoinSemi:
		return "semi"
	case JoinAnti:
		return "anti"
	case JoinCross:
		return "cross"
	default:
		return fmt.Sprintf("JoinType(%d)", uint8(j))
	}
}

// BitmapOp is the set operation a BitmapScanPlan combines its child scans
// with.
type BitmapOp uint8

const (
	BitmapAnd BitmapOp = iota
	BitmapOr
)

func (b BitmapOp) String() string {
	if b == BitmapAnd {
		return "and"
	}
	return "or"
}

// SetOpKind is the set operation a SetOperationPlan performs.
type SetOpKind uint8

const (
	SetUnion SetOpKind = iota
	SetIntersect
	SetExcept
)

func (s SetOpKind) String() string {
	switch s {
	case SetUnion:
		return "union"
	case SetIntersect:
		return "intersect"
	case SetExcept:
		return "except"
	default:
		return fmt.Sprintf("SetOpKind(%d)", uint8(s))
	}
}

// TripleIndex is a permutation of S/P/O fixing a physical triple layout.
type TripleIndex uint8

const (
	IndexSPO TripleIndex = iota
	IndexPOS
	IndexOSP
	IndexSOP
	IndexPSO
	IndexOPS
)

func (t TripleIndex) String() string {
	switch t {
	case IndexSPO:
		return "spo"
	case IndexPOS:
		return "pos"
	case IndexOSP:
		return "osp"
	case IndexSOP:
		return "sop"
	case IndexPSO:
		return "pso"
	case IndexOPS:
		return "ops"
	default:
		return fmt.Sprintf("TripleIndex(%d)", uint8(t))
	}
}

// BoundPositions marks which positions of a triple pattern are bound
// (non-variable) at plan time, the input to index selection.
type BoundPositions struct {
	Subject   bool
	Predicate bool
	Object    bool
}

// SelectTripleIndex picks the index whose leading columns match the
// largest bound prefix, tie-broken by most-selective-first and then spo
// lexicographic preference. A bound predicate counts as more selective
// than a bound object: predicates in an RDF graph typically have far
// lower cardinality than arbitrary object values. A single bound position
// probes the same three indexes as the dual-bound cases (spo, pos, osp),
// whose leading column it matches; the remaining permutations stay
// available for an optimizer with finer statistics.
func SelectTripleIndex(b BoundPositions) TripleIndex {
	switch {
	case b.Subject && b.Predicate && b.Object:
		return IndexSPO
	case b.Subject && b.Predicate:
		return IndexSPO
	case b.Predicate && b.Object:
		return IndexPOS
	case b.Object && b.Subject:
		return IndexOSP
	case b.Predicate:
		return IndexPOS
	case b.Object:
		return IndexOSP
	case b.Subject:
		return IndexSPO
	default:
		return IndexSPO
	}
}

// TraversalStrategy selects how GraphTraversalPlan walks a MatchPattern.
type TraversalStrategy uint8

const (
	TraversalDepthFirst TraversalStrategy = iota
	TraversalBreadthFirst
	TraversalBidirectional
)

func (t TraversalStrategy) String() string {
	switch t {
	case TraversalDepthFirst:
		return "depthFirst"
	case TraversalBreadthFirst:
		return "breadthFirst"
	case TraversalBidirectional:
		return "bidirectional"
	default:
		return fmt.Sprintf("TraversalStrategy(%d)", uint8(t))
	}
}

// ShortestPathAlgorithm selects the algorithm a ShortestPathPlan uses.
type ShortestPathAlgorithm uint8

const (
	AlgoDijkstra ShortestPathAlgorithm = iota
	AlgoBellmanFord
	AlgoBFS
	AlgoBidirectionalBFS
)

func (a ShortestPathAlgorithm) String() string {
	switch a {
	case AlgoDijkstra:
		return "dijkstra"
	case AlgoBellmanFord:
		return "bellmanFord"
	case AlgoBFS:
		return "bfs"
	case AlgoBidirectionalBFS:
		return "bidirectionalBFS"
	default:
		return fmt.Sprintf("ShortestPathAlgorithm(%d)", uint8(a))
	}
}

// PropertyPathAlgorithm selects how PropertyPathPlan evaluates a path
// expression.
type PropertyPathAlgorithm uint8

const (
	PathIterative PropertyPathAlgorithm = iota // fixpoint iteration
	PathRecursive                              // memoized recursive descent
	PathAutomaton                               // Glushkov/NFA over the path
)

func (p PropertyPathAlgorithm) String() string {
	switch p {
	case PathIterative:
		return "iterative"
	case PathRecursive:
		return "recursive"
	case PathAutomaton:
		return "automaton"
	default:
		return fmt.Sprintf("PropertyPathAlgorithm(%d)", uint8(p))
	}
}

// VectorMetric is the distance/similarity function a VectorSearchPlan uses.
type VectorMetric uint8

const (
	MetricCosine VectorMetric = iota
	MetricEuclidean
	MetricDotProduct
	MetricManhattan
)

func (m VectorMetric) String() string {
	switch m {
	case MetricCosine:
		return "cosine"
	case MetricEuclidean:
		return "euclidean"
	case MetricDotProduct:
		return "dotProduct"
	case MetricManhattan:
		return "manhattan"
	default:
		return fmt.Sprintf("VectorMetric(%d)", uint8(m))
	}
}

// FullTextSearchMode is the matching mode a FullTextSearchPlan uses.
type FullTextSearchMode uint8

const (
	TextMatch FullTextSearchMode = iota
	TextPhrase
	TextPrefix
	TextFuzzy
	TextBoolean
)

func (f FullTextSearchMode) String() string {
	switch f {
	case TextMatch:
		return "match"
	case TextPhrase:
		return "phrase"
	case TextPrefix:
		return "prefix"
	case TextFuzzy:
		return "fuzzy"
	case TextBoolean:
		return "boolean"
	default:
		return fmt.Sprintf("FullTextSearchMode(%d)", uint8(f))
	}
}

// MaterializeHint tells the executor when to cache a MaterializePlan's
// input.
type MaterializeHint uint8

const (
	MaterializeAlways MaterializeHint = iota
	MaterializeOnReuse
	MaterializeNever
)

func (m MaterializeHint) String() string {
	switch m {
	case MaterializeAlways:
		return "always"
	case MaterializeOnReuse:
		return "onReuse"
	case MaterializeNever:
		return "never"
	default:
		return fmt.Sprintf("MaterializeHint(%d)", uint8(m))
	}
}
