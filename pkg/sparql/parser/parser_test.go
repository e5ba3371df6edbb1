package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quanta-ir/sparqlcore/pkg/sparql/expr"
	"github.com/quanta-ir/sparqlcore/pkg/sparql/ir"
)

func TestParse_SimpleSelect(t *testing.T) {
	stmt, err := Parse(`SELECT ?s ?o WHERE { ?s <http://knows> ?o }`)
	require.NoError(t, err)
	require.Equal(t, ir.StmtSelect, stmt.Kind)
	require.NotNil(t, stmt.Select)
	assert.False(t, stmt.Select.Projection.All)
	assert.Len(t, stmt.Select.Projection.Items, 2)
	assert.Equal(t, ir.PatternBasic, stmt.Select.Source.Kind)
	assert.Len(t, stmt.Select.Source.Triples, 1)
}

func TestParse_SelectSingleBareVariable_ProjectsOneItem(t *testing.T) {
	stmt, err := Parse(`SELECT ?x WHERE { ?x ?p ?o }`)
	require.NoError(t, err)
	require.Len(t, stmt.Select.Projection.Items, 1)
	assert.True(t, stmt.Select.Projection.Items[0].Expr.Equal(expr.Variable("x")))
	assert.Equal(t, "", stmt.Select.Projection.Items[0].Alias)
}

func TestParse_NonASCIIRoundTrip_CafeLiteral(t *testing.T) {
	stmt, err := Parse(`SELECT * WHERE { ?s ?p "café" }`)
	require.NoError(t, err)
	obj := stmt.Select.Source.Triples[0].Object
	str := obj.Literal().Text()
	assert.Equal(t, "café", str)
	assert.Equal(t, 4, len([]rune(str)), "4 code points")
	assert.Equal(t, 5, len(str), "5 bytes: é is 2 UTF-8 bytes")
}

func TestParse_SelectStar_ProjectsWildcard(t *testing.T) {
	stmt, err := Parse(`SELECT * WHERE { ?s ?p ?o }`)
	require.NoError(t, err)
	assert.True(t, stmt.Select.Projection.All)
}

func TestParse_SelectWithFilterAndLimitOffset(t *testing.T) {
	stmt, err := Parse(`SELECT ?s WHERE { ?s <http://age> ?age . FILTER(?age > 18) } LIMIT 10 OFFSET 5`)
	require.NoError(t, err)
	sq := stmt.Select
	assert.True(t, sq.HasLimit)
	assert.Equal(t, uint64(10), sq.Limit)
	assert.True(t, sq.HasOffset)
	assert.Equal(t, uint64(5), sq.Offset)
}

func TestParse_OptionalAndUnion(t *testing.T) {
	stmt, err := Parse(`SELECT ?s WHERE {
		?s <http://type> <http://Person> .
		OPTIONAL { ?s <http://nick> ?nick }
	}`)
	require.NoError(t, err)
	children := stmt.Select.Source.Children
	require.NotEmpty(t, children)
	found := false
	for _, c := range children {
		if c.Kind == ir.PatternOptional {
			found = true
		}
	}
	assert.True(t, found, "OPTIONAL block must appear in the pattern tree")

	stmt2, err := Parse(`SELECT ?s WHERE {
		{ ?s <http://type> <http://Person> } UNION { ?s <http://type> <http://Org> }
	}`)
	require.NoError(t, err)
	foundUnion := false
	for _, c := range stmt2.Select.Source.Children {
		if c.Kind == ir.PatternUnion {
			foundUnion = true
		}
	}
	assert.True(t, foundUnion)
}

func TestParse_PropertyPath(t *testing.T) {
	stmt, err := Parse(`SELECT ?s ?o WHERE { ?s <http://knows>+ ?o }`)
	require.NoError(t, err)
	require.Len(t, stmt.Select.Source.Triples, 1)
	tp := stmt.Select.Source.Triples[0]
	require.NotNil(t, tp.PredicatePath)
}

func TestParse_QuotedTriple(t *testing.T) {
	stmt, err := Parse(`SELECT ?s WHERE { <<<http://s> <http://p> <http://o>>> <http://certainty> ?c }`)
	require.NoError(t, err)
	require.Len(t, stmt.Select.Source.Triples, 1)
}

func TestParse_Values(t *testing.T) {
	stmt, err := Parse(`SELECT ?x WHERE { VALUES ?x { 1 2 3 } }`)
	require.NoError(t, err)
	found := false
	for _, c := range stmt.Select.Source.Children {
		if c.Kind == ir.PatternValues {
			found = true
			assert.Len(t, c.ValuesRows, 3)
		}
	}
	assert.True(t, found)
}

func TestParse_ValuesWithUndef(t *testing.T) {
	stmt, err := Parse(`SELECT ?x WHERE { VALUES (?x ?y) { (1 UNDEF) (2 3) } }`)
	require.NoError(t, err)
	var vals *ir.GraphPattern
	for i, c := range stmt.Select.Source.Children {
		if c.Kind == ir.PatternValues {
			vals = &stmt.Select.Source.Children[i]
		}
	}
	require.NotNil(t, vals)
	require.Len(t, vals.ValuesRows, 2)
	assert.Nil(t, vals.ValuesRows[0][1], "UNDEF must parse to a nil expression slot")
}

func TestParse_Construct(t *testing.T) {
	stmt, err := Parse(`CONSTRUCT { ?s <http://mirrored> ?o } WHERE { ?s <http://knows> ?o }`)
	require.NoError(t, err)
	require.Equal(t, ir.StmtConstruct, stmt.Kind)
	assert.Len(t, stmt.Construct.Template, 1)
}

func TestParse_Ask(t *testing.T) {
	stmt, err := Parse(`ASK WHERE { ?s <http://knows> ?o }`)
	require.NoError(t, err)
	assert.Equal(t, ir.StmtAsk, stmt.Kind)
}

func TestParse_InsertData(t *testing.T) {
	stmt, err := Parse(`INSERT DATA { <http://s> <http://p> <http://o> }`)
	require.NoError(t, err)
	require.Equal(t, ir.StmtUpdate, stmt.Kind)
	assert.Equal(t, ir.UpdateInsertData, stmt.Update.Kind)
	assert.Len(t, stmt.Update.Quads, 1)
}

func TestParse_InsertDataWithNamedGraph(t *testing.T) {
	stmt, err := Parse(`INSERT DATA { GRAPH <http://g1> { <http://s> <http://p> <http://o> } }`)
	require.NoError(t, err)
	require.Len(t, stmt.Update.Quads, 1)
	assert.Equal(t, "http://g1", stmt.Update.Quads[0].Graph)
}

func TestParse_WithDeleteInsertWhere(t *testing.T) {
	stmt, err := Parse(`WITH <http://g1> DELETE { ?s <http://old> ?o } INSERT { ?s <http://new> ?o } WHERE { ?s <http://old> ?o }`)
	require.NoError(t, err)
	up := stmt.Update
	assert.Equal(t, ir.UpdateModify, up.Kind)
	assert.True(t, up.HasWith)
	assert.Equal(t, "http://g1", up.WithIRI)
	assert.Len(t, up.DeleteClause, 1)
	assert.Len(t, up.InsertClause, 1)
}

func TestParse_DeleteWhereShorthand(t *testing.T) {
	stmt, err := Parse(`DELETE WHERE { ?s <http://p> ?o }`)
	require.NoError(t, err)
	assert.Equal(t, ir.UpdateDeleteWhere, stmt.Update.Kind)
	assert.Len(t, stmt.Update.WherePattern, 1)
}

func TestParse_ClearGraph(t *testing.T) {
	stmt, err := Parse(`CLEAR SILENT GRAPH <http://g1>`)
	require.NoError(t, err)
	assert.Equal(t, ir.UpdateClear, stmt.Update.Kind)
	assert.True(t, stmt.Update.Silent)
	assert.Equal(t, "http://g1", stmt.Update.Graph)
}

func TestParse_CopyMoveAdd(t *testing.T) {
	stmt, err := Parse(`COPY GRAPH <http://g1> TO GRAPH <http://g2>`)
	require.NoError(t, err)
	assert.Equal(t, ir.UpdateCopy, stmt.Update.Kind)
	assert.Equal(t, "http://g1", stmt.Update.FromGraph)
	assert.Equal(t, "http://g2", stmt.Update.ToGraph)
}

func TestParse_LangStringBaseDirection(t *testing.T) {
	stmt, err := Parse(`SELECT ?s WHERE { ?s <http://label> "hello"@en--ltr }`)
	require.NoError(t, err)
	require.Len(t, stmt.Select.Source.Triples, 1)
	obj := stmt.Select.Source.Triples[0].Object
	assert.Equal(t, "ltr", obj.Literal().Direction())
}

func TestParse_NestedOptionalDepth3(t *testing.T) {
	stmt, err := Parse(`SELECT ?a WHERE {
		?a <http://p1> ?b .
		OPTIONAL {
			?b <http://p2> ?c .
			OPTIONAL {
				?c <http://p3> ?d .
				OPTIONAL { ?d <http://p4> ?e }
			}
		}
	}`)
	require.NoError(t, err)
	depth := 0
	g := stmt.Select.Source
	for {
		found := false
		for _, c := range g.Children {
			if c.Kind == ir.PatternOptional {
				depth++
				g = *c.Inner
				found = true
				break
			}
		}
		if !found {
			break
		}
	}
	assert.Equal(t, 3, depth)
}

func TestParse_FiftyChainedTriplePatterns(t *testing.T) {
	query := "SELECT ?v0 WHERE {"
	for i := 0; i < 50; i++ {
		query += " ?v" + itoa(i) + " <http://next> ?v" + itoa(i+1) + " ."
	}
	query += " }"
	stmt, err := Parse(query)
	require.NoError(t, err)
	assert.Len(t, stmt.Select.Source.Triples, 50)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func TestParse_EmptyInput_ReturnsEmptyInputError(t *testing.T) {
	_, err := Parse("")
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, EmptyInput, perr.Kind)
}

func TestParse_UnclosedBrace(t *testing.T) {
	_, err := Parse(`SELECT ?s WHERE { ?s <http://p> ?o`)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, UnclosedBrace, perr.Kind)
}

func TestParse_UnclosedQuotedTriple(t *testing.T) {
	_, err := Parse(`SELECT ?s WHERE { <<<http://s> <http://p> <http://o> <http://certainty> ?c }`)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, UnclosedQuotedTriple, perr.Kind)
}

func TestParse_InsertModifyMissingWhere_ReturnsExpectedWhere(t *testing.T) {
	_, err := Parse(`INSERT { ?s <http://p> ?o }`)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ExpectedWhere, perr.Kind)
}

func TestParse_UnknownQueryForm(t *testing.T) {
	_, err := Parse(`FROBNICATE ?s`)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, UnknownQueryForm, perr.Kind)
}

func TestParseSelect_RejectsNonSelectStatements(t *testing.T) {
	_, err := ParseSelect(`ASK WHERE { ?s ?p ?o }`)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, UnknownQueryForm, perr.Kind)
}

func TestParse_LenientSelect_NonProjectableToken_FallsBackToWhereVariables(t *testing.T) {
	stmt, err := Parse(`SELECT 123 WHERE { ?x ?p ?o }`)
	require.NoError(t, err)
	proj := stmt.Select.Projection
	require.False(t, proj.All)
	require.Len(t, proj.Items, 3, "projection inferred from the WHERE clause's variables")
	assert.True(t, proj.Items[0].Expr.Equal(expr.Variable("x")))
	assert.True(t, proj.Items[1].Expr.Equal(expr.Variable("p")))
	assert.True(t, proj.Items[2].Expr.Equal(expr.Variable("o")))
}

func TestParse_WellFormedSelect_ProjectionAllOrNonEmpty(t *testing.T) {
	for _, q := range []string{
		`SELECT * WHERE { ?s ?p ?o }`,
		`SELECT ?s WHERE { ?s ?p ?o }`,
		`SELECT 123 WHERE { ?x ?p ?o }`,
	} {
		stmt, err := Parse(q)
		require.NoError(t, err, q)
		proj := stmt.Select.Projection
		assert.True(t, proj.All || len(proj.Items) > 0, q)
	}
}

func TestParse_UnicodeEscapeInObjectLiteral(t *testing.T) {
	stmt, err := Parse(`SELECT * WHERE { ?s ?p "caf\u00E9" }`)
	require.NoError(t, err)
	obj := stmt.Select.Source.Triples[0].Object
	assert.Equal(t, "café", obj.Literal().Text())
	assert.Equal(t, 4, len([]rune(obj.Literal().Text())), "4 code points")
}

func TestParse_FilterLessThanComparison(t *testing.T) {
	stmt, err := Parse(`SELECT ?s WHERE { ?s <http://age> ?age . FILTER(?age < 18 || ?age <= 5) }`)
	require.NoError(t, err)
	found := false
	for _, c := range stmt.Select.Source.Children {
		if c.Kind == ir.PatternFilter {
			found = true
			assert.Equal(t, expr.OpOr, c.Condition.Op())
		}
	}
	assert.True(t, found)
}

func TestParse_TrailingDotAfterObject_NoSpace(t *testing.T) {
	stmt, err := Parse(`SELECT * WHERE { ?s <http://p> ?o. }`)
	require.NoError(t, err)
	require.Len(t, stmt.Select.Source.Triples, 1)
	assert.Equal(t, "o", stmt.Select.Source.Triples[0].Object.VariableName())
}

func TestParse_UnclosedQuotedTriple_BareVariables(t *testing.T) {
	_, err := Parse(`SELECT * WHERE { ?s ?p << ?a ?b ?c }`)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, UnclosedQuotedTriple, perr.Kind)
}

func TestParse_DeleteTemplateWithoutWhere_ReturnsExpectedWhere(t *testing.T) {
	_, err := Parse(`DELETE { ?s ?p ?o }`)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ExpectedWhere, perr.Kind)
}

func TestParse_TrailingInputAfterStatement_Rejected(t *testing.T) {
	_, err := Parse(`SELECT * WHERE { ?s ?p ?o } ?extra`)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, UnexpectedTrailingInput, perr.Kind)
}

func TestParse_TrailingValuesClause(t *testing.T) {
	stmt, err := Parse(`SELECT ?x WHERE { ?x ?p ?o } LIMIT 10 VALUES ?x { 1 2 }`)
	require.NoError(t, err)
	sq := stmt.Select
	require.NotNil(t, sq.Values)
	assert.Equal(t, ir.PatternValues, sq.Values.Kind)
	assert.Equal(t, []string{"x"}, sq.Values.ValuesVars)
	assert.Len(t, sq.Values.ValuesRows, 2)
}

func TestParse_VersionClause_RecordsString(t *testing.T) {
	stmt, err := Parse(`SELECT VERSION "1.2" ?s WHERE { ?s ?p ?o }`)
	require.NoError(t, err)
	assert.True(t, stmt.Select.HasVersion)
	assert.Equal(t, "1.2", stmt.Select.Version)

	_, err = Parse(`SELECT VERSION 12 ?s WHERE { ?s ?p ?o }`)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ExpectedVersionString, perr.Kind)
}

func TestParse_LateralRequiresBrace(t *testing.T) {
	stmt, err := Parse(`SELECT ?s WHERE { ?s <http://p> ?o . LATERAL { ?o <http://q> ?q } }`)
	require.NoError(t, err)
	found := false
	for _, c := range stmt.Select.Source.Children {
		if c.Kind == ir.PatternLateral {
			found = true
		}
	}
	assert.True(t, found)

	_, err = Parse(`SELECT ?s WHERE { LATERAL ?o }`)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ExpectedLBrace, perr.Kind)
}

func TestParse_LoadRequiresIRI(t *testing.T) {
	stmt, err := Parse(`LOAD SILENT <http://remote/data> INTO GRAPH <http://g1>`)
	require.NoError(t, err)
	assert.Equal(t, ir.UpdateLoad, stmt.Update.Kind)
	assert.Equal(t, "http://remote/data", stmt.Update.Source)
	assert.Equal(t, "http://g1", stmt.Update.Into)

	_, err = Parse(`LOAD ?notAnIRI`)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ExpectedIRI, perr.Kind)
}

func TestParse_PrefixedNameResolution(t *testing.T) {
	stmt, err := Parse(`PREFIX foaf: <http://xmlns.com/foaf/0.1/> SELECT ?s WHERE { ?s foaf:knows ?o }`)
	require.NoError(t, err)
	tp := stmt.Select.Source.Triples[0]
	assert.Equal(t, "http://xmlns.com/foaf/0.1/knows", tp.Predicate.IRIText())
}
