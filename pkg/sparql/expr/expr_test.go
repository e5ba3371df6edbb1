package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quanta-ir/sparqlcore/pkg/rdf"
)

func TestExpression_Equal_Reflexive(t *testing.T) {
	exprs := []Expression{
		Lit(rdf.Int(1)),
		Variable("x"),
		Column(ColumnRef{Table: "t", Column: "c"}),
		Not(Variable("x")),
		Negate(Lit(rdf.Int(1))),
		IsNull(Variable("x")),
		Equal(Variable("x"), Lit(rdf.Int(1))),
		And(Variable("a"), Variable("b")),
		Or(Variable("a"), Variable("b")),
		Add(Lit(rdf.Int(1)), Lit(rdf.Int(2))),
		Call("strlen", []Expression{Variable("x")}),
		In(Variable("x"), []Expression{Lit(rdf.Int(1)), Lit(rdf.Int(2))}),
		Between(Variable("x"), Lit(rdf.Int(1)), Lit(rdf.Int(10))),
	}
	for _, e := range exprs {
		assert.True(t, e.Equal(e), "expression should equal itself: %s", e.String())
	}
}

func TestExpression_Equal_DistinguishesOperandsAndOp(t *testing.T) {
	a := Equal(Variable("x"), Lit(rdf.Int(1)))
	b := Equal(Variable("x"), Lit(rdf.Int(2)))
	assert.False(t, a.Equal(b))

	c := NotEqual(Variable("x"), Lit(rdf.Int(1)))
	assert.False(t, a.Equal(c), "different operator must not compare equal")
}

func TestExpression_Between_Accessors(t *testing.T) {
	e := Between(Variable("x"), Lit(rdf.Int(1)), Lit(rdf.Int(10)))
	assert.Equal(t, OpBetween, e.Op())
	assert.True(t, e.Lo().Equal(Lit(rdf.Int(1))))
	assert.True(t, e.Hi().Equal(Lit(rdf.Int(10))))
}

func TestExpression_In_ListPreserved(t *testing.T) {
	list := []Expression{Lit(rdf.Int(1)), Lit(rdf.Int(2)), Lit(rdf.Int(3))}
	e := In(Variable("x"), list)
	assert.Len(t, e.List(), 3)
	assert.True(t, e.List()[2].Equal(Lit(rdf.Int(3))))
}

func TestOperator_String_UnknownFallsBackToNumeric(t *testing.T) {
	assert.Equal(t, "equal", OpEqual.String())
	var bogus Operator = 255
	assert.Contains(t, bogus.String(), "Operator(255)")
}
