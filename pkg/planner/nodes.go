package planner

import (
	"github.com/quanta-ir/sparqlcore/pkg/rdf"
	"github.com/quanta-ir/sparqlcore/pkg/sparql/expr"
	"github.com/quanta-ir/sparqlcore/pkg/sparql/pattern"
)

// QueryPlanNode is the closed tagged union of physical plan operators.
// Every variant below is a *T implementing this interface; planNode is an
// unexported marker so no type outside this package can implement it.
type QueryPlanNode interface {
	planNode()
	Kind() PlanNodeKind
	Children() []QueryPlanNode
	Equal(QueryPlanNode) bool
}

// SortKey is one ORDER BY key carried by a SortPlan.
type SortKey struct {
	Expr      expr.Expression
	Ascending bool
}

func (s SortKey) Equal(o SortKey) bool {
	return s.Expr.Equal(o.Expr) && s.Ascending == o.Ascending
}

// AggregateCall is one aggregate expression computed by an AggregatePlan,
// e.g. count(?x) or sum(?price).
type AggregateCall struct {
	Func  string
	Arg   expr.Expression
	Alias string
}

func (a AggregateCall) Equal(o AggregateCall) bool {
	return a.Func == o.Func && a.Arg.Equal(o.Arg) && a.Alias == o.Alias
}

// --- tableScan ---

type TableScanPlan struct {
	Table string
}

func NewTableScanPlan(table string) (*TableScanPlan, error) {
	if table == "" {
		return nil, invalid("tableScan: empty table name")
	}
	return &TableScanPlan{Table: table}, nil
}

func (*TableScanPlan) planNode()             {}
func (*TableScanPlan) Kind() PlanNodeKind    { return NodeTableScan }
func (*TableScanPlan) Children() []QueryPlanNode { return nil }
func (p *TableScanPlan) Equal(o QueryPlanNode) bool {
	op, ok := o.(*TableScanPlan)
	return ok && p.Table == op.Table
}

// --- indexScan ---

type IndexScanPlan struct {
	Table     string
	IndexName string
	Bounds    IndexBounds
}

func NewIndexScanPlan(table, indexName string, bounds IndexBounds) (*IndexScanPlan, error) {
	if table == "" || indexName == "" {
		return nil, invalid("indexScan: table and indexName are required")
	}
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	return &IndexScanPlan{Table: table, IndexName: indexName, Bounds: bounds}, nil
}

func (*IndexScanPlan) planNode()             {}
func (*IndexScanPlan) Kind() PlanNodeKind    { return NodeIndexScan }
func (*IndexScanPlan) Children() []QueryPlanNode { return nil }
func (p *IndexScanPlan) Equal(o QueryPlanNode) bool {
	op, ok := o.(*IndexScanPlan)
	return ok && p.Table == op.Table && p.IndexName == op.IndexName && p.Bounds.Equal(op.Bounds)
}

// --- bitmapScan ---

type BitmapScanPlan struct {
	Scans     []QueryPlanNode
	Operation BitmapOp
}

func NewBitmapScanPlan(scans []QueryPlanNode, op BitmapOp) (*BitmapScanPlan, error) {
	if len(scans) < 2 {
		return nil, invalid("bitmapScan: requires at least 2 child scans, got %d", len(scans))
	}
	return &BitmapScanPlan{Scans: scans, Operation: op}, nil
}

func (*BitmapScanPlan) planNode()          {}
func (*BitmapScanPlan) Kind() PlanNodeKind { return NodeBitmapScan }
func (p *BitmapScanPlan) Children() []QueryPlanNode { return p.Scans }
func (p *BitmapScanPlan) Equal(o QueryPlanNode) bool {
	op, ok := o.(*BitmapScanPlan)
	if !ok || p.Operation != op.Operation || len(p.Scans) != len(op.Scans) {
		return false
	}
	for i := range p.Scans {
		if !p.Scans[i].Equal(op.Scans[i]) {
			return false
		}
	}
	return true
}

// --- join (pre-physical placeholder) ---

type JoinPlan struct {
	Left, Right QueryPlanNode
	JoinType    JoinType
	Condition   *expr.Expression
}

func NewJoinPlan(left, right QueryPlanNode, joinType JoinType, condition *expr.Expression) (*JoinPlan, error) {
	if left == nil || right == nil {
		return nil, invalid("join: both children are required")
	}
	return &JoinPlan{Left: left, Right: right, JoinType: joinType, Condition: condition}, nil
}

func (*JoinPlan) planNode()          {}
func (*JoinPlan) Kind() PlanNodeKind { return NodeJoin }
func (p *JoinPlan) Children() []QueryPlanNode { return []QueryPlanNode{p.Left, p.Right} }
func (p *JoinPlan) Equal(o QueryPlanNode) bool {
	op, ok := o.(*JoinPlan)
	if !ok || p.JoinType != op.JoinType {
		return false
	}
	if !exprPtrEqual(p.Condition, op.Condition) {
		return false
	}
	return p.Left.Equal(op.Left) && p.Right.Equal(op.Right)
}

func exprPtrEqual(a, b *expr.Expression) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || a.Equal(*b)
}

// --- hashJoin ---

type HashJoinPlan struct {
	Left, Right          QueryPlanNode
	BuildKeys, ProbeKeys []expr.Expression
	JoinType             JoinType
}

func NewHashJoinPlan(left, right QueryPlanNode, buildKeys, probeKeys []expr.Expression, joinType JoinType) (*HashJoinPlan, error) {
	if left == nil || right == nil {
		return nil, invalid("hashJoin: both children are required")
	}
	if len(buildKeys) != len(probeKeys) {
		return nil, invalid("hashJoin: buildKeys/probeKeys arity mismatch (%d vs %d)", len(buildKeys), len(probeKeys))
	}
	return &HashJoinPlan{Left: left, Right: right, BuildKeys: buildKeys, ProbeKeys: probeKeys, JoinType: joinType}, nil
}

func (*HashJoinPlan) planNode()          {}
func (*HashJoinPlan) Kind() PlanNodeKind { return NodeHashJoin }
func (p *HashJoinPlan) Children() []QueryPlanNode { return []QueryPlanNode{p.Left, p.Right} }
func (p *HashJoinPlan) Equal(o QueryPlanNode) bool {
	op, ok := o.(*HashJoinPlan)
	if !ok || p.JoinType != op.JoinType {
		return false
	}
	if !exprSliceEqual(p.BuildKeys, op.BuildKeys) || !exprSliceEqual(p.ProbeKeys, op.ProbeKeys) {
		return false
	}
	return p.Left.Equal(op.Left) && p.Right.Equal(op.Right)
}

func exprSliceEqual(a, b []expr.Expression) bool {
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

// --- mergeJoin ---

type MergeJoinPlan struct {
	Left, Right          QueryPlanNode
	LeftKeys, RightKeys []expr.Expression
	JoinType             JoinType
}

// NewMergeJoinPlan does not verify that Left/Right are actually sorted on
// their join keys; the upstream optimizer is responsible for that
// invariant before constructing a mergeJoin node.
func NewMergeJoinPlan(left, right QueryPlanNode, leftKeys, rightKeys []expr.Expression, joinType JoinType) (*MergeJoinPlan, error) {
	if left == nil || right == nil {
		return nil, invalid("mergeJoin: both children are required")
	}
	if len(leftKeys) != len(rightKeys) {
		return nil, invalid("mergeJoin: leftKeys/rightKeys arity mismatch (%d vs %d)", len(leftKeys), len(rightKeys))
	}
	return &MergeJoinPlan{Left: left, Right: right, LeftKeys: leftKeys, RightKeys: rightKeys, JoinType: joinType}, nil
}

func (*MergeJoinPlan) planNode()          {}
func (*MergeJoinPlan) Kind() PlanNodeKind { return NodeMergeJoin }
func (p *MergeJoinPlan) Children() []QueryPlanNode { return []QueryPlanNode{p.Left, p.Right} }
func (p *MergeJoinPlan) Equal(o QueryPlanNode) bool {
	op, ok := o.(*MergeJoinPlan)
	if !ok || p.JoinType != op.JoinType {
		return false
	}
	if !exprSliceEqual(p.LeftKeys, op.LeftKeys) || !exprSliceEqual(p.RightKeys, op.RightKeys) {
		return false
	}
	return p.Left.Equal(op.Left) && p.Right.Equal(op.Right)
}

// --- nestedLoopJoin ---

type NestedLoopJoinPlan struct {
	Left, Right QueryPlanNode
	JoinType    JoinType
	Condition   *expr.Expression
}

func NewNestedLoopJoinPlan(left, right QueryPlanNode, joinType JoinType, condition *expr.Expression) (*NestedLoopJoinPlan, error) {
	if left == nil || right == nil {
		return nil, invalid("nestedLoopJoin: both children are required")
	}
	return &NestedLoopJoinPlan{Left: left, Right: right, JoinType: joinType, Condition: condition}, nil
}

func (*NestedLoopJoinPlan) planNode()          {}
func (*NestedLoopJoinPlan) Kind() PlanNodeKind { return NodeNestedLoopJoin }
func (p *NestedLoopJoinPlan) Children() []QueryPlanNode { return []QueryPlanNode{p.Left, p.Right} }
func (p *NestedLoopJoinPlan) Equal(o QueryPlanNode) bool {
	op, ok := o.(*NestedLoopJoinPlan)
	if !ok || p.JoinType != op.JoinType || !exprPtrEqual(p.Condition, op.Condition) {
		return false
	}
	return p.Left.Equal(op.Left) && p.Right.Equal(op.Right)
}

// --- graphTraversal ---

type GraphTraversalPlan struct {
	Start    QueryPlanNode
	Match    pattern.MatchPattern
	Strategy TraversalStrategy
}

func NewGraphTraversalPlan(start QueryPlanNode, match pattern.MatchPattern, strategy TraversalStrategy) (*GraphTraversalPlan, error) {
	if start == nil {
		return nil, invalid("graphTraversal: start plan is required")
	}
	if len(match.Paths) == 0 {
		return nil, invalid("graphTraversal: match pattern must have at least one path")
	}
	return &GraphTraversalPlan{Start: start, Match: match, Strategy: strategy}, nil
}

func (*GraphTraversalPlan) planNode()          {}
func (*GraphTraversalPlan) Kind() PlanNodeKind { return NodeGraphTraversal }
func (p *GraphTraversalPlan) Children() []QueryPlanNode { return []QueryPlanNode{p.Start} }
func (p *GraphTraversalPlan) Equal(o QueryPlanNode) bool {
	op, ok := o.(*GraphTraversalPlan)
	return ok && p.Strategy == op.Strategy && p.Match.Equal(op.Match) && p.Start.Equal(op.Start)
}

// --- shortestPath ---

type ShortestPathPlan struct {
	Start, End QueryPlanNode
	Pattern    pattern.MatchPattern
	Algorithm  ShortestPathAlgorithm
	All        bool // compute all shortest paths, not just one
}

func NewShortestPathPlan(start, end QueryPlanNode, match pattern.MatchPattern, algo ShortestPathAlgorithm, all bool) (*ShortestPathPlan, error) {
	if start == nil || end == nil {
		return nil, invalid("shortestPath: start and end plans are required")
	}
	return &ShortestPathPlan{Start: start, End: end, Pattern: match, Algorithm: algo, All: all}, nil
}

func (*ShortestPathPlan) planNode()          {}
func (*ShortestPathPlan) Kind() PlanNodeKind { return NodeShortestPath }
func (p *ShortestPathPlan) Children() []QueryPlanNode { return []QueryPlanNode{p.Start, p.End} }
func (p *ShortestPathPlan) Equal(o QueryPlanNode) bool {
	op, ok := o.(*ShortestPathPlan)
	return ok && p.Algorithm == op.Algorithm && p.All == op.All &&
		p.Pattern.Equal(op.Pattern) && p.Start.Equal(op.Start) && p.End.Equal(op.End)
}

// --- triplePatternScan ---

type TriplePatternScanPlan struct {
	Pattern  pattern.TriplePattern
	Index    TripleIndex
	Bindings BoundPositions
}

func NewTriplePatternScanPlan(tp pattern.TriplePattern, index TripleIndex, bindings BoundPositions) (*TriplePatternScanPlan, error) {
	return &TriplePatternScanPlan{Pattern: tp, Index: index, Bindings: bindings}, nil
}

func (*TriplePatternScanPlan) planNode()          {}
func (*TriplePatternScanPlan) Kind() PlanNodeKind { return NodeTriplePatternScan }
func (*TriplePatternScanPlan) Children() []QueryPlanNode { return nil }
func (p *TriplePatternScanPlan) Equal(o QueryPlanNode) bool {
	op, ok := o.(*TriplePatternScanPlan)
	return ok && p.Index == op.Index && p.Bindings == op.Bindings && p.Pattern.Equal(op.Pattern)
}

// --- propertyPath ---

type PropertyPathPlan struct {
	Start     QueryPlanNode
	Path      pattern.PropertyPath
	Algorithm PropertyPathAlgorithm
}

func NewPropertyPathPlan(start QueryPlanNode, path pattern.PropertyPath, algo PropertyPathAlgorithm) (*PropertyPathPlan, error) {
	if start == nil {
		return nil, invalid("propertyPath: start plan is required")
	}
	return &PropertyPathPlan{Start: start, Path: path, Algorithm: algo}, nil
}

func (*PropertyPathPlan) planNode()          {}
func (*PropertyPathPlan) Kind() PlanNodeKind { return NodePropertyPath }
func (p *PropertyPathPlan) Children() []QueryPlanNode { return []QueryPlanNode{p.Start} }
func (p *PropertyPathPlan) Equal(o QueryPlanNode) bool {
	op, ok := o.(*PropertyPathPlan)
	return ok && p.Algorithm == op.Algorithm && p.Path.Equal(op.Path) && p.Start.Equal(op.Start)
}

// --- filter ---

type FilterPlan struct {
	Input     QueryPlanNode
	Condition expr.Expression
}

func NewFilterPlan(input QueryPlanNode, condition expr.Expression) (*FilterPlan, error) {
	if input == nil {
		return nil, invalid("filter: input plan is required")
	}
	return &FilterPlan{Input: input, Condition: condition}, nil
}

func (*FilterPlan) planNode()          {}
func (*FilterPlan) Kind() PlanNodeKind { return NodeFilter }
func (p *FilterPlan) Children() []QueryPlanNode { return []QueryPlanNode{p.Input} }
func (p *FilterPlan) Equal(o QueryPlanNode) bool {
	op, ok := o.(*FilterPlan)
	return ok && p.Condition.Equal(op.Condition) && p.Input.Equal(op.Input)
}

// --- project ---

type ProjectPlan struct {
	Input   QueryPlanNode
	Columns []expr.Expression
}

func NewProjectPlan(input QueryPlanNode, columns []expr.Expression) (*ProjectPlan, error) {
	if input == nil {
		return nil, invalid("project: input plan is required")
	}
	return &ProjectPlan{Input: input, Columns: columns}, nil
}

func (*ProjectPlan) planNode()          {}
func (*ProjectPlan) Kind() PlanNodeKind { return NodeProject }
func (p *ProjectPlan) Children() []QueryPlanNode { return []QueryPlanNode{p.Input} }
func (p *ProjectPlan) Equal(o QueryPlanNode) bool {
	op, ok := o.(*ProjectPlan)
	return ok && exprSliceEqual(p.Columns, op.Columns) && p.Input.Equal(op.Input)
}

// --- sort ---

type SortPlan struct {
	Input QueryPlanNode
	Keys  []SortKey
}

func NewSortPlan(input QueryPlanNode, keys []SortKey) (*SortPlan, error) {
	if input == nil {
		return nil, invalid("sort: input plan is required")
	}
	return &SortPlan{Input: input, Keys: keys}, nil
}

func (*SortPlan) planNode()          {}
func (*SortPlan) Kind() PlanNodeKind { return NodeSort }
func (p *SortPlan) Children() []QueryPlanNode { return []QueryPlanNode{p.Input} }
func (p *SortPlan) Equal(o QueryPlanNode) bool {
	op, ok := o.(*SortPlan)
	if !ok || len(p.Keys) != len(op.Keys) {
		return false
	}
	for i := range p.Keys {
		if !p.Keys[i].Equal(op.Keys[i]) {
			return false
		}
	}
	return p.Input.Equal(op.Input)
}

// --- limit ---

type LimitPlan struct {
	Input QueryPlanNode
	Limit uint64
}

func NewLimitPlan(input QueryPlanNode, limit uint64) (*LimitPlan, error) {
	if input == nil {
		return nil, invalid("limit: input plan is required")
	}
	return &LimitPlan{Input: input, Limit: limit}, nil
}

func (*LimitPlan) planNode()          {}
func (*LimitPlan) Kind() PlanNodeKind { return NodeLimit }
func (p *LimitPlan) Children() []QueryPlanNode { return []QueryPlanNode{p.Input} }
func (p *LimitPlan) Equal(o QueryPlanNode) bool {
	op, ok := o.(*LimitPlan)
	return ok && p.Limit == op.Limit && p.Input.Equal(op.Input)
}

// --- distinct ---

type DistinctPlan struct {
	Input QueryPlanNode
}

func NewDistinctPlan(input QueryPlanNode) (*DistinctPlan, error) {
	if input == nil {
		return nil, invalid("distinct: input plan is required")
	}
	return &DistinctPlan{Input: input}, nil
}

func (*DistinctPlan) planNode()          {}
func (*DistinctPlan) Kind() PlanNodeKind { return NodeDistinct }
func (p *DistinctPlan) Children() []QueryPlanNode { return []QueryPlanNode{p.Input} }
func (p *DistinctPlan) Equal(o QueryPlanNode) bool {
	op, ok := o.(*DistinctPlan)
	return ok && p.Input.Equal(op.Input)
}

// --- aggregate ---

type AggregatePlan struct {
	Input      QueryPlanNode
	GroupBy    []expr.Expression
	Aggregates []AggregateCall
}

func NewAggregatePlan(input QueryPlanNode, groupBy []expr.Expression, aggregates []AggregateCall) (*AggregatePlan, error) {
	if input == nil {
		return nil, invalid("aggregate: input plan is required")
	}
	return &AggregatePlan{Input: input, GroupBy: groupBy, Aggregates: aggregates}, nil
}

func (*AggregatePlan) planNode()          {}
func (*AggregatePlan) Kind() PlanNodeKind { return NodeAggregate }
func (p *AggregatePlan) Children() []QueryPlanNode { return []QueryPlanNode{p.Input} }
func (p *AggregatePlan) Equal(o QueryPlanNode) bool {
	op, ok := o.(*AggregatePlan)
	if !ok || !exprSliceEqual(p.GroupBy, op.GroupBy) || len(p.Aggregates) != len(op.Aggregates) {
		return false
	}
	for i := range p.Aggregates {
		if !p.Aggregates[i].Equal(op.Aggregates[i]) {
			return false
		}
	}
	return p.Input.Equal(op.Input)
}

// --- setOperation ---

type SetOperationPlan struct {
	Left, Right        QueryPlanNode
	Op                 SetOpKind
	PreserveDuplicates bool
}

func NewSetOperationPlan(left, right QueryPlanNode, op SetOpKind, preserveDuplicates bool) (*SetOperationPlan, error) {
	if left == nil || right == nil {
		return nil, invalid("setOperation: both children are required")
	}
	return &SetOperationPlan{Left: left, Right: right, Op: op, PreserveDuplicates: preserveDuplicates}, nil
}

func (*SetOperationPlan) planNode()          {}
func (*SetOperationPlan) Kind() PlanNodeKind { return NodeSetOperation }
func (p *SetOperationPlan) Children() []QueryPlanNode { return []QueryPlanNode{p.Left, p.Right} }
func (p *SetOperationPlan) Equal(o QueryPlanNode) bool {
	op, ok := o.(*SetOperationPlan)
	return ok && p.Op == op.Op && p.PreserveDuplicates == op.PreserveDuplicates &&
		p.Left.Equal(op.Left) && p.Right.Equal(op.Right)
}

// --- vectorSearch ---

type VectorSearchPlan struct {
	Table       string
	Column      string
	QueryVector []float64
	K           int
	Metric      VectorMetric
}

func NewVectorSearchPlan(table, column string, queryVector []float64, k int, metric VectorMetric) (*VectorSearchPlan, error) {
	if table == "" || column == "" {
		return nil, invalid("vectorSearch: table and column are required")
	}
	if k <= 0 {
		return nil, invalid("vectorSearch: k must be positive, got %d", k)
	}
	if len(queryVector) == 0 {
		return nil, invalid("vectorSearch: query vector must not be empty")
	}
	return &VectorSearchPlan{Table: table, Column: column, QueryVector: queryVector, K: k, Metric: metric}, nil
}

func (*VectorSearchPlan) planNode()          {}
func (*VectorSearchPlan) Kind() PlanNodeKind { return NodeVectorSearch }
func (*VectorSearchPlan) Children() []QueryPlanNode { return nil }
func (p *VectorSearchPlan) Equal(o QueryPlanNode) bool {
	op, ok := o.(*VectorSearchPlan)
	if !ok || p.Table != op.Table || p.Column != op.Column || p.K != op.K || p.Metric != op.Metric {
		return false
	}
	if len(p.QueryVector) != len(op.QueryVector) {
		return false
	}
	for i := range p.QueryVector {
		if p.QueryVector[i] != op.QueryVector[i] {
			return false
		}
	}
	return true
}

// --- fullTextSearch ---

type FullTextSearchPlan struct {
	Table  string
	Column string
	Query  string
	Mode   FullTextSearchMode
}

func NewFullTextSearchPlan(table, column, query string, mode FullTextSearchMode) (*FullTextSearchPlan, error) {
	if table == "" || column == "" {
		return nil, invalid("fullTextSearch: table and column are required")
	}
	if query == "" {
		return nil, invalid("fullTextSearch: query must not be empty")
	}
	return &FullTextSearchPlan{Table: table, Column: column, Query: query, Mode: mode}, nil
}

func (*FullTextSearchPlan) planNode()          {}
func (*FullTextSearchPlan) Kind() PlanNodeKind { return NodeFullTextSearch }
func (*FullTextSearchPlan) Children() []QueryPlanNode { return nil }
func (p *FullTextSearchPlan) Equal(o QueryPlanNode) bool {
	op, ok := o.(*FullTextSearchPlan)
	return ok && p.Table == op.Table && p.Column == op.Column && p.Query == op.Query && p.Mode == op.Mode
}

// --- spatialSearch ---

// BoundingBox is an axis-aligned rectangle used by SpatialSearchPlan.
type BoundingBox struct {
	MinX, MinY, MaxX, MaxY float64
}

func (b BoundingBox) Equal(o BoundingBox) bool {
	return b.MinX == o.MinX && b.MinY == o.MinY && b.MaxX == o.MaxX && b.MaxY == o.MaxY
}

type SpatialSearchPlan struct {
	Table  string
	Column string
	Region BoundingBox
}

func NewSpatialSearchPlan(table, column string, region BoundingBox) (*SpatialSearchPlan, error) {
	if table == "" || column == "" {
		return nil, invalid("spatialSearch: table and column are required")
	}
	if region.MinX > region.MaxX || region.MinY > region.MaxY {
		return nil, invalid("spatialSearch: region min exceeds max")
	}
	return &SpatialSearchPlan{Table: table, Column: column, Region: region}, nil
}

func (*SpatialSearchPlan) planNode()          {}
func (*SpatialSearchPlan) Kind() PlanNodeKind { return NodeSpatialSearch }
func (*SpatialSearchPlan) Children() []QueryPlanNode { return nil }
func (p *SpatialSearchPlan) Equal(o QueryPlanNode) bool {
	op, ok := o.(*SpatialSearchPlan)
	return ok && p.Table == op.Table && p.Column == op.Column && p.Region.Equal(op.Region)
}

// --- values ---

type ValuesPlan struct {
	Vars []string
	Rows [][]*rdf.Literal // nil element = UNDEF
}

func NewValuesPlan(vars []string, rows [][]*rdf.Literal) (*ValuesPlan, error) {
	for i, row := range rows {
		if len(row) != len(vars) {
			return nil, invalid("values: row %d has %d values, expected %d", i, len(row), len(vars))
		}
	}
	return &ValuesPlan{Vars: vars, Rows: rows}, nil
}

func (*ValuesPlan) planNode()          {}
func (*ValuesPlan) Kind() PlanNodeKind { return NodeValues }
func (*ValuesPlan) Children() []QueryPlanNode { return nil }
func (p *ValuesPlan) Equal(o QueryPlanNode) bool {
	op, ok := o.(*ValuesPlan)
	if !ok || len(p.Vars) != len(op.Vars) || len(p.Rows) != len(op.Rows) {
		return false
	}
	for i := range p.Vars {
		if p.Vars[i] != op.Vars[i] {
			return false
		}
	}
	for r := range p.Rows {
		if len(p.Rows[r]) != len(op.Rows[r]) {
			return false
		}
		for c := range p.Rows[r] {
			a, b := p.Rows[r][c], op.Rows[r][c]
			if (a == nil) != (b == nil) {
				return false
			}
			if a != nil && !a.Equal(*b) {
				return false
			}
		}
	}
	return true
}

// --- subquery ---

type SubqueryPlan struct {
	Input QueryPlanNode
	Alias string
}

func NewSubqueryPlan(input QueryPlanNode, alias string) (*SubqueryPlan, error) {
	if input == nil {
		return nil, invalid("subquery: input plan is required")
	}
	return &SubqueryPlan{Input: input, Alias: alias}, nil
}

func (*SubqueryPlan) planNode()          {}
func (*SubqueryPlan) Kind() PlanNodeKind { return NodeSubquery }
func (p *SubqueryPlan) Children() []QueryPlanNode { return []QueryPlanNode{p.Input} }
func (p *SubqueryPlan) Equal(o QueryPlanNode) bool {
	op, ok := o.(*SubqueryPlan)
	return ok && p.Alias == op.Alias && p.Input.Equal(op.Input)
}

// --- materialize ---

type MaterializePlan struct {
	Input QueryPlanNode
	Hint  MaterializeHint
}

func NewMaterializePlan(input QueryPlanNode, hint MaterializeHint) (*MaterializePlan, error) {
	if input == nil {
		return nil, invalid("materialize: input plan is required")
	}
	return &MaterializePlan{Input: input, Hint: hint}, nil
}

func (*MaterializePlan) planNode()          {}
func (*MaterializePlan) Kind() PlanNodeKind { return NodeMaterialize }
func (p *MaterializePlan) Children() []QueryPlanNode { return []QueryPlanNode{p.Input} }
func (p *MaterializePlan) Equal(o QueryPlanNode) bool {
	op, ok := o.(*MaterializePlan)
	return ok && p.Hint == op.Hint && p.Input.Equal(op.Input)
}
