package planner

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quanta-ir/sparqlcore/pkg/rdf"
	"github.com/quanta-ir/sparqlcore/pkg/sparql/expr"
	"github.com/quanta-ir/sparqlcore/pkg/sparql/pattern"
)

func TestIndexBounds_ExactBounds_LowerEqualsUpper(t *testing.T) {
	b := ExactBounds([]rdf.Literal{rdf.Int(1)})
	require.NoError(t, b.Validate())
	assert.True(t, literalsEqual(b.Lower, b.Upper))
	assert.True(t, b.LowerInclusive && b.UpperInclusive)
}

func TestIndexBounds_Validate_ArityMismatchRejected(t *testing.T) {
	b := IndexBounds{Lower: []rdf.Literal{rdf.Int(1)}, Upper: []rdf.Literal{rdf.Int(1), rdf.Int(2)}}
	assert.Error(t, b.Validate())
}

func TestIndexBounds_Equal(t *testing.T) {
	a := RangeBounds([]rdf.Literal{rdf.Int(1)}, []rdf.Literal{rdf.Int(9)}, true, false)
	b := RangeBounds([]rdf.Literal{rdf.Int(1)}, []rdf.Literal{rdf.Int(9)}, true, false)
	c := RangeBounds([]rdf.Literal{rdf.Int(1)}, []rdf.Literal{rdf.Int(9)}, true, true)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestSelectTripleIndex_TieBreakOrder(t *testing.T) {
	cases := []struct {
		name string
		b    BoundPositions
		want TripleIndex
	}{
		{"all bound", BoundPositions{Subject: true, Predicate: true, Object: true}, IndexSPO},
		{"subject+predicate", BoundPositions{Subject: true, Predicate: true}, IndexSPO},
		{"predicate+object", BoundPositions{Predicate: true, Object: true}, IndexPOS},
		{"subject+object", BoundPositions{Subject: true, Object: true}, IndexOSP},
		{"predicate only", BoundPositions{Predicate: true}, IndexPOS},
		{"object only", BoundPositions{Object: true}, IndexOSP},
		{"subject only", BoundPositions{Subject: true}, IndexSPO},
		{"none bound", BoundPositions{}, IndexSPO},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, SelectTripleIndex(c.b))
		})
	}
}

func TestTableScanPlan_RejectsEmptyName(t *testing.T) {
	_, err := NewTableScanPlan("")
	assert.Error(t, err)
}

func TestIndexScanPlan_Equal_And_Kind(t *testing.T) {
	bounds := ExactBounds([]rdf.Literal{rdf.Int(1)})
	a, err := NewIndexScanPlan("t", "idx", bounds)
	require.NoError(t, err)
	b, err := NewIndexScanPlan("t", "idx", bounds)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
	assert.Equal(t, NodeIndexScan, a.Kind())
	assert.Nil(t, a.Children())
}

func TestBitmapScanPlan_RequiresAtLeastTwoScans(t *testing.T) {
	scan, err := NewTableScanPlan("t")
	require.NoError(t, err)
	_, err = NewBitmapScanPlan([]QueryPlanNode{scan}, BitmapAnd)
	assert.Error(t, err)

	scan2, err := NewTableScanPlan("t2")
	require.NoError(t, err)
	bm, err := NewBitmapScanPlan([]QueryPlanNode{scan, scan2}, BitmapOr)
	require.NoError(t, err)
	assert.Len(t, bm.Children(), 2)
}

func TestHashJoinPlan_KeyArityInvariant(t *testing.T) {
	left, err := NewTableScanPlan("l")
	require.NoError(t, err)
	right, err := NewTableScanPlan("r")
	require.NoError(t, err)

	_, err = NewHashJoinPlan(left, right,
		[]expr.Expression{expr.Variable("x")},
		[]expr.Expression{expr.Variable("y"), expr.Variable("z")},
		JoinInner)
	assert.Error(t, err, "build/probe key arity mismatch must be rejected")

	hj, err := NewHashJoinPlan(left, right,
		[]expr.Expression{expr.Variable("x")},
		[]expr.Expression{expr.Variable("y")},
		JoinInner)
	require.NoError(t, err)
	assert.Equal(t, []QueryPlanNode{left, right}, hj.Children())
}

func TestHashJoinPlan_Equal_ComparesKeysAndChildren(t *testing.T) {
	left, _ := NewTableScanPlan("l")
	right, _ := NewTableScanPlan("r")
	a, err := NewHashJoinPlan(left, right, []expr.Expression{expr.Variable("x")}, []expr.Expression{expr.Variable("y")}, JoinInner)
	require.NoError(t, err)
	b, err := NewHashJoinPlan(left, right, []expr.Expression{expr.Variable("x")}, []expr.Expression{expr.Variable("y")}, JoinInner)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))

	c, err := NewHashJoinPlan(left, right, []expr.Expression{expr.Variable("x")}, []expr.Expression{expr.Variable("z")}, JoinInner)
	require.NoError(t, err)
	assert.False(t, a.Equal(c))
}

func TestVectorSearchPlan_RejectsNonPositiveKAndEmptyVector(t *testing.T) {
	_, err := NewVectorSearchPlan("t", "embedding", []float64{1, 2}, 0, MetricCosine)
	assert.Error(t, err)
	_, err = NewVectorSearchPlan("t", "embedding", nil, 5, MetricCosine)
	assert.Error(t, err)

	vs, err := NewVectorSearchPlan("t", "embedding", []float64{1, 2, 3}, 5, MetricCosine)
	require.NoError(t, err)
	assert.Equal(t, NodeVectorSearch, vs.Kind())
}

func TestSpatialSearchPlan_RejectsInvertedRegion(t *testing.T) {
	_, err := NewSpatialSearchPlan("t", "geom", BoundingBox{MinX: 10, MaxX: 0, MinY: 0, MaxY: 1})
	assert.Error(t, err)

	ss, err := NewSpatialSearchPlan("t", "geom", BoundingBox{MinX: 0, MaxX: 10, MinY: 0, MaxY: 10})
	require.NoError(t, err)
	assert.Equal(t, NodeSpatialSearch, ss.Kind())
}

func TestValuesPlan_RejectsRowArityMismatch(t *testing.T) {
	lit := rdf.Int(1)
	_, err := NewValuesPlan([]string{"x", "y"}, [][]*rdf.Literal{{&lit}})
	assert.Error(t, err)

	vp, err := NewValuesPlan([]string{"x"}, [][]*rdf.Literal{{&lit}, {nil}})
	require.NoError(t, err)
	assert.Equal(t, NodeValues, vp.Kind())
}

func TestValuesPlan_Equal_TreatsUndefAsNil(t *testing.T) {
	lit := rdf.Int(1)
	a, err := NewValuesPlan([]string{"x"}, [][]*rdf.Literal{{nil}})
	require.NoError(t, err)
	b, err := NewValuesPlan([]string{"x"}, [][]*rdf.Literal{{nil}})
	require.NoError(t, err)
	assert.True(t, a.Equal(b))

	c, err := NewValuesPlan([]string{"x"}, [][]*rdf.Literal{{&lit}})
	require.NoError(t, err)
	assert.False(t, a.Equal(c), "UNDEF must not equal a bound value")
}

func TestTriplePatternScanPlan_Equal(t *testing.T) {
	tp := pattern.NewTriplePattern(pattern.Variable("s"), pattern.IRI("http://knows"), pattern.Variable("o"))
	a, err := NewTriplePatternScanPlan(tp, IndexPSO, BoundPositions{Predicate: true})
	require.NoError(t, err)
	b, err := NewTriplePatternScanPlan(tp, IndexPSO, BoundPositions{Predicate: true})
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}

func TestQueryCost_RejectsStartupExceedingTotal(t *testing.T) {
	_, err := NewQueryCost(10, 5, 1, 1)
	assert.Error(t, err)
	_, err = NewQueryCost(-1, 5, 1, 1)
	assert.Error(t, err)

	c, err := NewQueryCost(1, 5, 100, 8)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), c.Rows)
}

func TestFingerprint_DeterministicAcrossEqualTrees(t *testing.T) {
	left, _ := NewTableScanPlan("l")
	right, _ := NewTableScanPlan("r")
	a, err := NewHashJoinPlan(left, right, []expr.Expression{expr.Variable("x")}, []expr.Expression{expr.Variable("y")}, JoinInner)
	require.NoError(t, err)

	left2, _ := NewTableScanPlan("l")
	right2, _ := NewTableScanPlan("r")
	b, err := NewHashJoinPlan(left2, right2, []expr.Expression{expr.Variable("x")}, []expr.Expression{expr.Variable("y")}, JoinInner)
	require.NoError(t, err)

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	assert.True(t, LikelyEqual(a, b))
	assert.True(t, a.Equal(b))
}

func TestFingerprint_DiffersForDifferentShapes(t *testing.T) {
	l, _ := NewTableScanPlan("l")
	r, _ := NewTableScanPlan("r")
	hj, err := NewHashJoinPlan(l, r, []expr.Expression{expr.Variable("x")}, []expr.Expression{expr.Variable("y")}, JoinInner)
	require.NoError(t, err)

	l2, _ := NewTableScanPlan("l")
	r2, _ := NewTableScanPlan("r")
	nl, err := NewNestedLoopJoinPlan(l2, r2, JoinInner, nil)
	require.NoError(t, err)

	assert.NotEqual(t, Fingerprint(hj), Fingerprint(nl))
	assert.False(t, LikelyEqual(hj, nl))
}

func TestBitmapScanPlan_EqualConstructions_Equal_DifferingChild_NotEqual(t *testing.T) {
	bounds := ExactBounds([]rdf.Literal{rdf.Int(1)})
	a1, err := NewIndexScanPlan("t", "idx1", bounds)
	require.NoError(t, err)
	a2, err := NewIndexScanPlan("t", "idx2", bounds)
	require.NoError(t, err)
	bm1, err := NewBitmapScanPlan([]QueryPlanNode{a1, a2}, BitmapAnd)
	require.NoError(t, err)

	b1, err := NewIndexScanPlan("t", "idx1", bounds)
	require.NoError(t, err)
	b2, err := NewIndexScanPlan("t", "idx2", bounds)
	require.NoError(t, err)
	bm2, err := NewBitmapScanPlan([]QueryPlanNode{b1, b2}, BitmapAnd)
	require.NoError(t, err)

	assert.True(t, bm1.Equal(bm2), "identical bitmap scan constructions must be equal")

	c2, err := NewIndexScanPlan("t", "idx3", bounds)
	require.NoError(t, err)
	bm3, err := NewBitmapScanPlan([]QueryPlanNode{b1, c2}, BitmapAnd)
	require.NoError(t, err)
	assert.False(t, bm1.Equal(bm3), "changing one child's index name must break equality")
}

func TestQueryCost_Equal_CrossCheckedWithGoCmp(t *testing.T) {
	a, err := NewQueryCost(1, 10, 500, 8)
	require.NoError(t, err)
	b, err := NewQueryCost(1, 10, 500, 8)
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("QueryCost mismatch, cmp disagrees with Equal (-a +b):\n%s", diff)
	}

	c, err := NewQueryCost(2, 10, 500, 8)
	require.NoError(t, err)
	assert.False(t, a.Equal(c))
	assert.NotEmpty(t, cmp.Diff(a, c), "go-cmp must also see startup cost differ")
}

func TestPlanStatistics_Equal_NilHandling(t *testing.T) {
	var a, b *PlanStatistics
	assert.True(t, a.Equal(b), "two nils are equal")

	s := &PlanStatistics{RowCount: 10, DistinctValues: map[string]uint64{"x": 3}}
	assert.False(t, s.Equal(nil))
	assert.False(t, a.Equal(s))
}
