// Package ir implements the logical query representation produced by the
// parser: the SELECT/CONSTRUCT/ASK/DESCRIBE/Update statement family, the
// WHERE graph-pattern tree, and solution modifiers.
package ir

import (
	"github.com/quanta-ir/sparqlcore/pkg/sparql/expr"
	"github.com/quanta-ir/sparqlcore/pkg/sparql/pattern"
)

// PrefixMap resolves a PREFIX declaration table: name -> IRI.
type PrefixMap map[string]string

// Resolve expands "prefix:local" using the table, returning the full IRI
// and true on a known prefix, or "" and false otherwise.
func (p PrefixMap) Resolve(prefix, local string) (string, bool) {
	base, ok := p[prefix]
	if !ok {
		return "", false
	}
	return base + local, true
}

// StatementKind tags the variant of a QueryStatement.
type StatementKind uint8

const (
	StmtSelect StatementKind = iota
	StmtConstruct
	StmtAsk
	StmtDescribe
	StmtUpdate
)

// QueryStatement is the top-level parse result: exactly one of the five
// statement forms, selected by Kind.
type QueryStatement struct {
	Kind      StatementKind
	Select    *SelectQuery
	Construct *ConstructQuery
	Ask       *AskQuery
	Describe  *DescribeQuery
	Update    *UpdateOperation
}

// Projection is either the wildcard `*` or an explicit, non-empty list of
// (expression, optional alias) items.
type Projection struct {
	All   bool
	Items []ProjectionItem
}

// ProjectionItem is one SELECT list entry: a bare variable or an aliased
// expression (expr AS ?alias).
type ProjectionItem struct {
	Expr  expr.Expression
	Alias string // "" when the item is a bare variable with no AS clause
}

// OrderCondition is one ORDER BY key.
type OrderCondition struct {
	Expr      expr.Expression
	Ascending bool
}

// GraphPatternKind tags the variant of a GraphPattern tree node.
type GraphPatternKind uint8

const (
	PatternBasic GraphPatternKind = iota
	PatternOptional
	PatternUnion
	PatternMinus
	PatternFilter
	PatternBind
	PatternValues
	PatternService
	PatternLateral
	PatternGraph
	PatternGroup
)

// GraphPattern is one node of the WHERE-clause pattern tree. Only the
// fields relevant to Kind are populated; the rest are zero.
type GraphPattern struct {
	Kind GraphPatternKind

	// basic
	Triples []pattern.TriplePattern

	// optional, filter, bind, graph, lateral, service share an Inner child
	Inner *GraphPattern

	// union, minus
	Left  *GraphPattern
	Right *GraphPattern

	// filter
	Condition expr.Expression

	// bind
	BindExpr expr.Expression
	BindVar  string

	// values
	ValuesVars []string
	ValuesRows [][]*expr.Expression // nil element = UNDEF

	// service
	ServiceIRI    string
	ServiceSilent bool

	// graph
	GraphTerm pattern.Term

	// group
	Children []GraphPattern
}

func Basic(triples []pattern.TriplePattern) GraphPattern {
	return GraphPattern{Kind: PatternBasic, Triples: triples}
}

func Optional(inner GraphPattern) GraphPattern {
	return GraphPattern{Kind: PatternOptional, Inner: &inner}
}

func Union(left, right GraphPattern) GraphPattern {
	return GraphPattern{Kind: PatternUnion, Left: &left, Right: &right}
}

func Minus(left, right GraphPattern) GraphPattern {
	return GraphPattern{Kind: PatternMinus, Left: &left, Right: &right}
}

func Filter(inner GraphPattern, cond expr.Expression) GraphPattern {
	return GraphPattern{Kind: PatternFilter, Inner: &inner, Condition: cond}
}

func Bind(e expr.Expression, variable string, inner GraphPattern) GraphPattern {
	return GraphPattern{Kind: PatternBind, Inner: &inner, BindExpr: e, BindVar: variable}
}

func Values(vars []string, rows [][]*expr.Expression) GraphPattern {
	return GraphPattern{Kind: PatternValues, ValuesVars: vars, ValuesRows: rows}
}

func Service(iri string, silent bool, inner GraphPattern) GraphPattern {
	return GraphPattern{Kind: PatternService, ServiceIRI: iri, ServiceSilent: silent, Inner: &inner}
}

func Lateral(inner GraphPattern) GraphPattern {
	return GraphPattern{Kind: PatternLateral, Inner: &inner}
}

func Graph(term pattern.Term, inner GraphPattern) GraphPattern {
	return GraphPattern{Kind: PatternGraph, GraphTerm: term, Inner: &inner}
}

func Group(children []GraphPattern) GraphPattern {
	return GraphPattern{Kind: PatternGroup, Children: children}
}

func childEqual(a, b *GraphPattern) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || a.Equal(*b)
}

// Equal reports structural equality between two graph-pattern trees.
func (g GraphPattern) Equal(o GraphPattern) bool {
	if g.Kind != o.Kind {
		return false
	}
	switch g.Kind {
	case PatternBasic:
		if len(g.Triples) != len(o.Triples) {
			return false
		}
		for i := range g.Triples {
			if !g.Triples[i].Equal(o.Triples[i]) {
				return false
			}
		}
		return true
	case PatternOptional, PatternLateral:
		return childEqual(g.Inner, o.Inner)
	case PatternUnion, PatternMinus:
		return childEqual(g.Left, o.Left) && childEqual(g.Right, o.Right)
	case PatternFilter:
		return childEqual(g.Inner, o.Inner) && g.Condition.Equal(o.Condition)
	case PatternBind:
		return childEqual(g.Inner, o.Inner) && g.BindExpr.Equal(o.BindExpr) && g.BindVar == o.BindVar
	case PatternValues:
		if len(g.ValuesVars) != len(o.ValuesVars) || len(g.ValuesRows) != len(o.ValuesRows) {
			return false
		}
		for i := range g.ValuesVars {
			if g.ValuesVars[i] != o.ValuesVars[i] {
				return false
			}
		}
		for r := range g.ValuesRows {
			if len(g.ValuesRows[r]) != len(o.ValuesRows[r]) {
				return false
			}
			for c := range g.ValuesRows[r] {
				a, b := g.ValuesRows[r][c], o.ValuesRows[r][c]
				if (a == nil) != (b == nil) {
					return false
				}
				if a != nil && !a.Equal(*b) {
					return false
				}
			}
		}
		return true
	case PatternService:
		return g.ServiceIRI == o.ServiceIRI && g.ServiceSilent == o.ServiceSilent && childEqual(g.Inner, o.Inner)
	case PatternGraph:
		return g.GraphTerm.Equal(o.GraphTerm) && childEqual(g.Inner, o.Inner)
	case PatternGroup:
		if len(g.Children) != len(o.Children) {
			return false
		}
		for i := range g.Children {
			if !g.Children[i].Equal(o.Children[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// SelectQuery is the IR for a SELECT statement.
type SelectQuery struct {
	Prefixes   PrefixMap
	Base       string
	Version    string // "" when absent
	HasVersion bool

	Projection Projection
	Distinct   bool

	From      []string
	FromNamed []string

	Source GraphPattern

	GroupBy []expr.Expression
	Having  []expr.Expression
	OrderBy []OrderCondition

	// Values holds a trailing VALUES block appearing after the solution
	// modifiers; nil when absent. Always a PatternValues node.
	Values *GraphPattern

	Limit      uint64
	HasLimit   bool
	Offset     uint64
	HasOffset  bool
}

// NewSelectQuery applies the default policy from the component design:
// missing projection => all; missing LIMIT/OFFSET => unbounded/zero;
// missing DISTINCT => false.
func NewSelectQuery(source GraphPattern) SelectQuery {
	return SelectQuery{
		Prefixes:   PrefixMap{},
		Projection: Projection{All: true},
		Source:     source,
	}
}

// ConstructQuery is the IR for a CONSTRUCT statement.
type ConstructQuery struct {
	Prefixes PrefixMap
	Template []pattern.TriplePattern
	Source   GraphPattern
	Limit    uint64
	HasLimit bool
}

// AskQuery is the IR for an ASK statement.
type AskQuery struct {
	Prefixes PrefixMap
	Source   GraphPattern
}

// DescribeQuery is the IR for a DESCRIBE statement, with or without WHERE.
type DescribeQuery struct {
	Prefixes PrefixMap
	Targets  []pattern.Term // IRIs or variables to describe
	HasWhere bool
	Source   GraphPattern
}

// UpdateKind tags the variant of an UpdateOperation.
type UpdateKind uint8

const (
	UpdateLoad UpdateKind = iota
	UpdateClear
	UpdateCreate
	UpdateDrop
	UpdateCopy
	UpdateMove
	UpdateAdd
	UpdateInsertData
	UpdateDeleteData
	UpdateDeleteWhere
	UpdateModify
)

// Quad is a triple plus its graph; Graph == "" means the default graph.
type Quad struct {
	Triple pattern.TriplePattern
	Graph  string
}

// UpdateOperation is the IR for one SPARQL Update request.
type UpdateOperation struct {
	Kind UpdateKind

	// load
	Source string
	Into   string
	Silent bool

	// clear/create/drop
	Graph string

	// copy/move/add
	FromGraph string
	ToGraph   string

	// insertData/deleteData
	Quads []Quad

	// deleteWhere
	WherePattern []pattern.TriplePattern

	// modify
	WithIRI      string
	HasWith      bool
	DeleteClause []pattern.TriplePattern
	InsertClause []pattern.TriplePattern
	Using        []string
	Pattern      GraphPattern
}
