// Package rdf implements the scalar value model shared by the expression
// AST, pattern model, and query IR: a tagged Literal variant plus the RDF
// term flavors (IRI, blank node, language-tagged and typed literals) that
// appear throughout a SPARQL-dialect front end.
package rdf

import (
	"fmt"
	"math"
)

// Kind tags the variant held by a Literal.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindDouble
	KindString
	KindIRI
	KindBlankNode
	KindLangString
	KindTypedLiteral
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindIRI:
		return "iri"
	case KindBlankNode:
		return "blankNode"
	case KindLangString:
		return "langString"
	case KindTypedLiteral:
		return "typedLiteral"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Literal is a tagged scalar value. The zero value is the null literal.
//
// Equality is structural (see Equal); double equality follows IEEE-754 bit
// pattern equality rather than arithmetic equality, so a Literal round-trips
// through a plan tree without silently merging distinct NaN encodings or
// +0/-0.
type Literal struct {
	kind     Kind
	boolVal  bool
	intVal   int64
	doubleBits uint64
	text      string // string/iri/blankNode id/langString text/typedLiteral lexical form
	lang      string // only set for langString
	direction string // optional RDF 1.2 base direction ("ltr"/"rtl"); "" if absent
	datatype  string // only set for typedLiteral; the datatype IRI
}

// Null returns the null literal.
func Null() Literal { return Literal{kind: KindNull} }

// Bool returns a boolean literal.
func Bool(b bool) Literal { return Literal{kind: KindBool, boolVal: b} }

// Int returns a 64-bit integer literal.
func Int(i int64) Literal { return Literal{kind: KindInt, intVal: i} }

// Double returns a double literal, keyed by its IEEE-754 bit pattern.
func Double(f float64) Literal {
	return Literal{kind: KindDouble, doubleBits: math.Float64bits(f)}
}

// String returns a plain string literal.
func String(s string) Literal { return Literal{kind: KindString, text: s} }

// IRI returns an IRI literal.
func IRI(iri string) Literal { return Literal{kind: KindIRI, text: iri} }

// BlankNode returns a blank-node literal identified by id.
func BlankNode(id string) Literal { return Literal{kind: KindBlankNode, text: id} }

// LangString returns a language-tagged string literal.
func LangString(text, lang string) Literal {
	return Literal{kind: KindLangString, text: text, lang: lang}
}

// LangStringDir returns a language-tagged string literal with an RDF 1.2
// base direction ("ltr" or "rtl"), e.g. "s"@en--ltr.
func LangStringDir(text, lang, direction string) Literal {
	return Literal{kind: KindLangString, text: text, lang: lang, direction: direction}
}

// TypedLiteral returns a datatype-tagged literal, e.g. "3.14"^^xsd:decimal.
func TypedLiteral(text, datatypeIRI string) Literal {
	return Literal{kind: KindTypedLiteral, text: text, datatype: datatypeIRI}
}

// Kind returns the variant tag.
func (l Literal) Kind() Kind { return l.kind }

// IsNull reports whether l is the null literal.
func (l Literal) IsNull() bool { return l.kind == KindNull }

// BoolValue returns the boolean payload; valid only when Kind() == KindBool.
func (l Literal) BoolValue() bool { return l.boolVal }

// IntValue returns the integer payload; valid only when Kind() == KindInt.
func (l Literal) IntValue() int64 { return l.intVal }

// DoubleValue decodes the IEEE-754 bit pattern back to a float64; valid only
// when Kind() == KindDouble.
func (l Literal) DoubleValue() float64 { return math.Float64frombits(l.doubleBits) }

// DoubleBits returns the raw IEEE-754 bit pattern backing a double literal.
func (l Literal) DoubleBits() uint64 { return l.doubleBits }

// Text returns the textual payload: the string value, IRI, blank node id,
// or lexical form of a language-tagged/typed literal.
func (l Literal) Text() string { return l.text }

// Lang returns the language tag; valid only when Kind() == KindLangString.
func (l Literal) Lang() string { return l.lang }

// Direction returns the optional RDF 1.2 base direction ("ltr"/"rtl", or ""
// when absent); valid only when Kind() == KindLangString.
func (l Literal) Direction() string { return l.direction }

// Datatype returns the datatype IRI; valid only when Kind() == KindTypedLiteral.
func (l Literal) Datatype() string { return l.datatype }

// Equal reports structural equality between two literals.
func (l Literal) Equal(other Literal) bool {
	if l.kind != other.kind {
		return false
	}
	switch l.kind {
	case KindNull:
		return true
	case KindBool:
		return l.boolVal == other.boolVal
	case KindInt:
		return l.intVal == other.intVal
	case KindDouble:
		return l.doubleBits == other.doubleBits
	case KindString, KindIRI, KindBlankNode:
		return l.text == other.text
	case KindLangString:
		return l.text == other.text && l.lang == other.lang && l.direction == other.direction
	case KindTypedLiteral:
		return l.text == other.text && l.datatype == other.datatype
	default:
		return false
	}
}

// String renders the literal in Turtle-style surface syntax: angle
// brackets for IRIs, the _: sigil for blank nodes, and @lang / ^^datatype
// suffixes for tagged literals.
func (l Literal) String() string {
	switch l.kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%t", l.boolVal)
	case KindInt:
		return fmt.Sprintf("%d", l.intVal)
	case KindDouble:
		return fmt.Sprintf("%g", l.DoubleValue())
	case KindString:
		return fmt.Sprintf("%q", l.text)
	case KindIRI:
		return fmt.Sprintf("<%s>", l.text)
	case KindBlankNode:
		return fmt.Sprintf("_:%s", l.text)
	case KindLangString:
		if l.direction != "" {
			return fmt.Sprintf("%q@%s--%s", l.text, l.lang, l.direction)
		}
		return fmt.Sprintf("%q@%s", l.text, l.lang)
	case KindTypedLiteral:
		return fmt.Sprintf("%q^^<%s>", l.text, l.datatype)
	default:
		return "<invalid literal>"
	}
}

// Common XSD datatype IRIs.
const (
	XSDString   = "http://www.w3.org/2001/XMLSchema#string"
	XSDInteger  = "http://www.w3.org/2001/XMLSchema#integer"
	XSDDecimal  = "http://www.w3.org/2001/XMLSchema#decimal"
	XSDDouble   = "http://www.w3.org/2001/XMLSchema#double"
	XSDBoolean  = "http://www.w3.org/2001/XMLSchema#boolean"
	XSDDateTime = "http://www.w3.org/2001/XMLSchema#dateTime"
)
