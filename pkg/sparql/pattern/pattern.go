// Package pattern implements the graph-matching data model: triple
// patterns for SPARQL basic graph patterns, and node/edge/path patterns
// plus property paths for the property-graph matching extension.
package pattern

import (
	"fmt"
	"strings"

	"github.com/quanta-ir/sparqlcore/pkg/rdf"
)

// TermKind tags the variant of a pattern Term.
type TermKind uint8

const (
	TermVariable TermKind = iota
	TermIRI
	TermLiteral
	TermBlankNode
	TermQuotedTriple
)

// Term is one position of a TriplePattern: a variable, a bound IRI/literal/
// blank node, or a nested quoted triple (RDF-star).
type Term struct {
	kind        TermKind
	name        string // variable name or blank node id or iri text
	literal     rdf.Literal
	quoted      *TriplePattern
	reifier     string // optional "~ id" suffix on a quoted triple; "" if absent
	nonReifying bool   // true for <<( s p o )>> triple-term syntax
}

func Variable(name string) Term  { return Term{kind: TermVariable, name: name} }
func IRI(text string) Term       { return Term{kind: TermIRI, name: text} }
func LiteralTerm(l rdf.Literal) Term { return Term{kind: TermLiteral, literal: l} }
func BlankNode(id string) Term   { return Term{kind: TermBlankNode, name: id} }

// QuotedTriple wraps an inner triple pattern as a term, with an optional
// RDF 1.2 reifier identifier ("" when absent) and a flag marking the
// non-reifying <<( s p o )>> triple-term surface form.
func QuotedTriple(inner TriplePattern, reifier string, nonReifying bool) Term {
	return Term{kind: TermQuotedTriple, quoted: &inner, reifier: reifier, nonReifying: nonReifying}
}

func (t Term) Kind() TermKind           { return t.kind }
func (t Term) VariableName() string     { return t.name }
func (t Term) IRIText() string          { return t.name }
func (t Term) Literal() rdf.Literal     { return t.literal }
func (t Term) BlankNodeID() string      { return t.name }
func (t Term) Quoted() *TriplePattern   { return t.quoted }
func (t Term) Reifier() string          { return t.reifier }
func (t Term) IsNonReifying() bool      { return t.nonReifying }

func (t Term) Equal(o Term) bool {
	if t.kind != o.kind {
		return false
	}
	switch t.kind {
	case TermVariable, TermIRI, TermBlankNode:
		return t.name == o.name
	case TermLiteral:
		return t.literal.Equal(o.literal)
	case TermQuotedTriple:
		if t.reifier != o.reifier || t.nonReifying != o.nonReifying {
			return false
		}
		return t.quoted.Equal(*o.quoted)
	default:
		return false
	}
}

func (t Term) String() string {
	switch t.kind {
	case TermVariable:
		return "?" + t.name
	case TermIRI:
		return fmt.Sprintf("<%s>", t.name)
	case TermLiteral:
		return t.literal.String()
	case TermBlankNode:
		return "_:" + t.name
	case TermQuotedTriple:
		open := "<<"
		if t.nonReifying {
			open = "<<("
		}
		shut := ">>"
		if t.nonReifying {
			shut = ")>>"
		}
		s := fmt.Sprintf("%s%s%s", open, t.quoted.String(), shut)
		if t.reifier != "" {
			s += " ~ " + t.reifier
		}
		return s
	default:
		return "<invalid term>"
	}
}

// TriplePattern is an RDF-style (subject, predicate, object) pattern; any
// position may be a variable. PredicatePath is non-nil when the predicate
// position holds a SPARQL property path rather than a plain term; callers
// must check it before reading Predicate.
type TriplePattern struct {
	Subject       Term
	Predicate     Term
	PredicatePath *PropertyPath
	Object        Term
}

func NewTriplePattern(s, p, o Term) TriplePattern {
	return TriplePattern{Subject: s, Predicate: p, Object: o}
}

// NewPathTriplePattern builds a triple pattern whose predicate is a
// property path rather than a single term.
func NewPathTriplePattern(s Term, path PropertyPath, o Term) TriplePattern {
	return TriplePattern{Subject: s, PredicatePath: &path, Object: o}
}

func (p TriplePattern) Equal(o TriplePattern) bool {
	if !p.Subject.Equal(o.Subject) || !p.Object.Equal(o.Object) {
		return false
	}
	if (p.PredicatePath == nil) != (o.PredicatePath == nil) {
		return false
	}
	if p.PredicatePath != nil {
		return p.PredicatePath.Equal(*o.PredicatePath)
	}
	return p.Predicate.Equal(o.Predicate)
}

func (p TriplePattern) String() string {
	if p.PredicatePath != nil {
		return fmt.Sprintf("%s %s %s", p.Subject, p.PredicatePath, p.Object)
	}
	return fmt.Sprintf("%s %s %s", p.Subject, p.Predicate, p.Object)
}

// Direction of an EdgePattern relative to its endpoints.
type Direction uint8

const (
	DirOutgoing Direction = iota
	DirIncoming
	DirUndirected
)

func (d Direction) String() string {
	switch d {
	case DirOutgoing:
		return "outgoing"
	case DirIncoming:
		return "incoming"
	case DirUndirected:
		return "undirected"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// NodePattern matches a graph node by optional variable binding, a set of
// labels, and a set of required properties.
type NodePattern struct {
	Variable   string // "" when anonymous
	HasVar     bool
	Labels     []string
	Properties map[string]rdf.Literal
}

func (n NodePattern) Equal(o NodePattern) bool {
	if n.HasVar != o.HasVar || n.Variable != o.Variable {
		return false
	}
	if len(n.Labels) != len(o.Labels) {
		return false
	}
	for i := range n.Labels {
		if n.Labels[i] != o.Labels[i] {
			return false
		}
	}
	if len(n.Properties) != len(o.Properties) {
		return false
	}
	for k, v := range n.Properties {
		ov, ok := o.Properties[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// EdgePattern matches a graph edge by optional variable, labels, traversal
// direction, and an optional hop-count range for variable-length paths.
type EdgePattern struct {
	Variable  string
	HasVar    bool
	Labels    []string
	Direction Direction
	MinHops   *int
	MaxHops   *int
}

func intPtrEqual(a, b *int) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

func (e EdgePattern) Equal(o EdgePattern) bool {
	if e.HasVar != o.HasVar || e.Variable != o.Variable || e.Direction != o.Direction {
		return false
	}
	if len(e.Labels) != len(o.Labels) {
		return false
	}
	for i := range e.Labels {
		if e.Labels[i] != o.Labels[i] {
			return false
		}
	}
	return intPtrEqual(e.MinHops, o.MinHops) && intPtrEqual(e.MaxHops, o.MaxHops)
}

// PathElementKind distinguishes the two element flavors of a PathPattern.
type PathElementKind uint8

const (
	ElementNode PathElementKind = iota
	ElementEdge
)

// PathElement is one slot in a PathPattern's alternating node/edge sequence.
type PathElement struct {
	Kind PathElementKind
	Node NodePattern
	Edge EdgePattern
}

func (e PathElement) Equal(o PathElement) bool {
	if e.Kind != o.Kind {
		return false
	}
	if e.Kind == ElementNode {
		return e.Node.Equal(o.Node)
	}
	return e.Edge.Equal(o.Edge)
}

// PathPattern is an alternating sequence of node and edge elements,
// starting and ending on a node.
type PathPattern struct {
	Elements []PathElement
}

func (p PathPattern) Equal(o PathPattern) bool {
	if len(p.Elements) != len(o.Elements) {
		return false
	}
	for i := range p.Elements {
		if !p.Elements[i].Equal(o.Elements[i]) {
			return false
		}
	}
	return true
}

// MatchPattern is an ordered list of path patterns to match jointly.
type MatchPattern struct {
	Paths []PathPattern
}

func (m MatchPattern) Equal(o MatchPattern) bool {
	if len(m.Paths) != len(o.Paths) {
		return false
	}
	for i := range m.Paths {
		if !m.Paths[i].Equal(o.Paths[i]) {
			return false
		}
	}
	return true
}

// PropertyPathOp tags a PropertyPath variant.
type PropertyPathOp uint8

const (
	PathIRI PropertyPathOp = iota
	PathInverse
	PathSequence
	PathAlternative
	PathZeroOrMore
	PathOneOrMore
	PathZeroOrOne
	PathNegated
)

// PropertyPath is a regular-expression-like path over predicates, used to
// match multi-hop relationships in a single SPARQL triple position.
type PropertyPath struct {
	op     PropertyPathOp
	iri    string
	inner  *PropertyPath // inverse, zeroOrMore, oneOrMore, zeroOrOne operand
	left   *PropertyPath // sequence/alternative left
	right  *PropertyPath // sequence/alternative right
	negSet []string      // negated property set (IRIs)
}

func PPIRI(iri string) PropertyPath { return PropertyPath{op: PathIRI, iri: iri} }

func PPInverse(p PropertyPath) PropertyPath {
	return PropertyPath{op: PathInverse, inner: &p}
}

func PPSequence(l, r PropertyPath) PropertyPath {
	return PropertyPath{op: PathSequence, left: &l, right: &r}
}

func PPAlternative(l, r PropertyPath) PropertyPath {
	return PropertyPath{op: PathAlternative, left: &l, right: &r}
}

func PPZeroOrMore(p PropertyPath) PropertyPath {
	return PropertyPath{op: PathZeroOrMore, inner: &p}
}

func PPOneOrMore(p PropertyPath) PropertyPath {
	return PropertyPath{op: PathOneOrMore, inner: &p}
}

func PPZeroOrOne(p PropertyPath) PropertyPath {
	return PropertyPath{op: PathZeroOrOne, inner: &p}
}

func PPNegated(set []string) PropertyPath {
	return PropertyPath{op: PathNegated, negSet: set}
}

func (p PropertyPath) Op() PropertyPathOp { return p.op }
func (p PropertyPath) IRIText() string    { return p.iri }
func (p PropertyPath) Inner() *PropertyPath { return p.inner }
func (p PropertyPath) Left() *PropertyPath  { return p.left }
func (p PropertyPath) Right() *PropertyPath { return p.right }
func (p PropertyPath) NegatedSet() []string { return p.negSet }

func (p PropertyPath) Equal(o PropertyPath) bool {
	if p.op != o.op {
		return false
	}
	switch p.op {
	case PathIRI:
		return p.iri == o.iri
	case PathInverse, PathZeroOrMore, PathOneOrMore, PathZeroOrOne:
		return p.inner.Equal(*o.inner)
	case PathSequence, PathAlternative:
		return p.left.Equal(*o.left) && p.right.Equal(*o.right)
	case PathNegated:
		if len(p.negSet) != len(o.negSet) {
			return false
		}
		for i := range p.negSet {
			if p.negSet[i] != o.negSet[i] {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (p PropertyPath) String() string {
	switch p.op {
	case PathIRI:
		return fmt.Sprintf("<%s>", p.iri)
	case PathInverse:
		return "^" + p.inner.String()
	case PathSequence:
		return p.left.String() + "/" + p.right.String()
	case PathAlternative:
		return p.left.String() + "|" + p.right.String()
	case PathZeroOrMore:
		return p.inner.String() + "*"
	case PathOneOrMore:
		return p.inner.String() + "+"
	case PathZeroOrOne:
		return p.inner.String() + "?"
	case PathNegated:
		return "!(" + strings.Join(p.negSet, "|") + ")"
	default:
		return "<invalid path>"
	}
}
