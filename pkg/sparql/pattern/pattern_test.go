package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quanta-ir/sparqlcore/pkg/rdf"
)

func TestTerm_Equal_EachKind(t *testing.T) {
	assert.True(t, Variable("x").Equal(Variable("x")))
	assert.False(t, Variable("x").Equal(Variable("y")))
	assert.True(t, IRI("http://x").Equal(IRI("http://x")))
	assert.False(t, IRI("http://x").Equal(Variable("x")), "different kinds never equal")
	assert.True(t, LiteralTerm(rdf.Int(1)).Equal(LiteralTerm(rdf.Int(1))))
	assert.True(t, BlankNode("b0").Equal(BlankNode("b0")))
}

func TestTriplePattern_PlainPredicate_EqualAndString(t *testing.T) {
	tp := NewTriplePattern(Variable("s"), IRI("http://knows"), Variable("o"))
	other := NewTriplePattern(Variable("s"), IRI("http://knows"), Variable("o"))
	assert.True(t, tp.Equal(other))
	assert.Nil(t, tp.PredicatePath)
	assert.Equal(t, "?s <http://knows> ?o", tp.String())
}

func TestTriplePattern_PathPredicate_NotEqualToPlainEquivalentShape(t *testing.T) {
	path := PPOneOrMore(PPIRI("http://knows"))
	pathTriple := NewPathTriplePattern(Variable("s"), path, Variable("o"))
	plainTriple := NewTriplePattern(Variable("s"), IRI("http://knows"), Variable("o"))

	assert.False(t, pathTriple.Equal(plainTriple), "a path predicate must not compare equal to a plain predicate")
	assert.NotNil(t, pathTriple.PredicatePath)
	assert.Equal(t, "?s <http://knows>+ ?o", pathTriple.String())

	other := NewPathTriplePattern(Variable("s"), PPOneOrMore(PPIRI("http://knows")), Variable("o"))
	assert.True(t, pathTriple.Equal(other))
}

func TestQuotedTriple_ReifierAndNonReifyingRendering(t *testing.T) {
	inner := NewTriplePattern(IRI("http://s"), IRI("http://p"), IRI("http://o"))
	reifying := QuotedTriple(inner, "id1", false)
	assert.Equal(t, "<<<http://s> <http://p> <http://o>>> ~ id1", reifying.String())

	nonReifying := QuotedTriple(inner, "", true)
	assert.Equal(t, "<<(<http://s> <http://p> <http://o>)>>", nonReifying.String())
}

func TestPropertyPath_Equal_Structural(t *testing.T) {
	a := PPSequence(PPIRI("http://p1"), PPInverse(PPIRI("http://p2")))
	b := PPSequence(PPIRI("http://p1"), PPInverse(PPIRI("http://p2")))
	c := PPSequence(PPIRI("http://p1"), PPIRI("http://p2"))
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestPropertyPath_NegatedSet_Equal(t *testing.T) {
	a := PPNegated([]string{"http://p1", "http://p2"})
	b := PPNegated([]string{"http://p1", "http://p2"})
	c := PPNegated([]string{"http://p1"})
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestEdgePattern_Equal_HopRangeNilHandling(t *testing.T) {
	one := 1
	two := 2
	a := EdgePattern{HasVar: true, Variable: "e", MinHops: &one, MaxHops: &two}
	b := EdgePattern{HasVar: true, Variable: "e", MinHops: &one, MaxHops: &two}
	assert.True(t, a.Equal(b))

	c := EdgePattern{HasVar: true, Variable: "e", MaxHops: &two}
	assert.False(t, a.Equal(c), "nil vs non-nil MinHops must not compare equal")
}
