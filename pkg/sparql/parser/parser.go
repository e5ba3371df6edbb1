// Package parser implements the recursive-descent SPARQL-dialect grammar:
// source text to Query IR, with precise, unrecovered error reporting. The
// accepted dialect extends SPARQL 1.1 with quoted triples, property paths,
// LATERAL, VERSION, and the SPARQL Update forms.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/quanta-ir/sparqlcore/internal/intern"
	"github.com/quanta-ir/sparqlcore/pkg/sparql/ir"
	"github.com/quanta-ir/sparqlcore/pkg/sparql/lexer"
	"github.com/quanta-ir/sparqlcore/pkg/sparql/pattern"
)

// Parser drives a Lexer with one-token lookahead. A Parser owns its lexer
// and is used for exactly one Parse call. Resolved IRIs and variable names
// are interned through symbols so the many repetitions of a prefix IRI or
// join variable in a large query share one backing string.
type Parser struct {
	lex     *lexer.Lexer
	tok     lexer.Token
	prefixes ir.PrefixMap
	base    string
	symbols *intern.Table
}

// Parse parses a complete SPARQL-dialect statement.
func Parse(text string) (ir.QueryStatement, error) {
	p, err := newParser(text)
	if err != nil {
		return ir.QueryStatement{}, err
	}
	stmt, err := p.parseStatement()
	if err != nil {
		return ir.QueryStatement{}, err
	}
	if err := p.expectEOF(); err != nil {
		return ir.QueryStatement{}, err
	}
	return stmt, nil
}

// ParseSelect is a convenience entry point for callers that only accept a
// SELECT query.
func ParseSelect(text string) (ir.SelectQuery, error) {
	stmt, err := Parse(text)
	if err != nil {
		return ir.SelectQuery{}, err
	}
	if stmt.Kind != ir.StmtSelect {
		return ir.SelectQuery{}, newParseError(UnknownQueryForm, "expected a SELECT query", lexer.Position{Line: 1, Column: 1}, "")
	}
	return *stmt.Select, nil
}

func newParser(text string) (*Parser, error) {
	p := &Parser{lex: lexer.New(text), prefixes: ir.PrefixMap{}, symbols: intern.New()}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.Kind == lexer.TokenEOF {
		return nil, newParseError(EmptyInput, "input is empty", p.tok.Pos, "")
	}
	return p, nil
}

func (p *Parser) advance() error {
	tok, err := p.lex.Next()
	if err != nil {
		return p.lexError(err)
	}
	p.tok = tok
	return nil
}

func (p *Parser) lexError(err error) error {
	lexErr, ok := err.(*lexer.Error)
	if !ok {
		return err
	}
	switch lexErr.Kind {
	case lexer.ErrInvalidEscape:
		return newParseError(InvalidEscape, lexErr.Msg, lexErr.Pos, "")
	case lexer.ErrUnterminatedString:
		return newParseError(UnterminatedString, lexErr.Msg, lexErr.Pos, "")
	case lexer.ErrNumericOutOfRange:
		return newParseError(NumericOutOfRange, lexErr.Msg, lexErr.Pos, "")
	default:
		return err
	}
}

func (p *Parser) atEOF() bool { return p.tok.Kind == lexer.TokenEOF }

func (p *Parser) atKeyword(kw string) bool {
	return p.tok.Kind == lexer.TokenKeyword && p.tok.Text == kw
}

func (p *Parser) atPunct(s string) bool {
	return p.tok.Kind == lexer.TokenPunct && p.tok.Text == s
}

func (p *Parser) expectPunct(s string) error {
	if !p.atPunct(s) {
		return newParseError(ExpectedToken, fmt.Sprintf("expected %q", s), p.tok.Pos, p.tok.Text)
	}
	return p.advance()
}

func (p *Parser) expectKeyword(kw string) error {
	if !p.atKeyword(kw) {
		return newParseError(ExpectedToken, fmt.Sprintf("expected keyword %q", kw), p.tok.Pos, p.tok.Text)
	}
	return p.advance()
}

func (p *Parser) expectEOF() error {
	if !p.atEOF() {
		return newParseError(UnexpectedTrailingInput, "unexpected input after a complete statement", p.tok.Pos, p.tok.Text)
	}
	return nil
}

// parseStatement parses the prologue and dispatches on the next keyword.
func (p *Parser) parseStatement() (ir.QueryStatement, error) {
	if err := p.parsePrologue(); err != nil {
		return ir.QueryStatement{}, err
	}
	if p.atEOF() {
		return ir.QueryStatement{}, newParseError(EmptyInput, "no query form present", p.tok.Pos, "")
	}
	if p.tok.Kind != lexer.TokenKeyword {
		return ir.QueryStatement{}, newParseError(UnknownQueryForm, "expected a query form keyword", p.tok.Pos, p.tok.Text)
	}
	switch p.tok.Text {
	case "select":
		sq, err := p.parseSelectQuery()
		if err != nil {
			return ir.QueryStatement{}, err
		}
		return ir.QueryStatement{Kind: ir.StmtSelect, Select: sq}, nil
	case "construct":
		cq, err := p.parseConstructQuery()
		if err != nil {
			return ir.QueryStatement{}, err
		}
		return ir.QueryStatement{Kind: ir.StmtConstruct, Construct: cq}, nil
	case "ask":
		aq, err := p.parseAskQuery()
		if err != nil {
			return ir.QueryStatement{}, err
		}
		return ir.QueryStatement{Kind: ir.StmtAsk, Ask: aq}, nil
	case "describe":
		dq, err := p.parseDescribeQuery()
		if err != nil {
			return ir.QueryStatement{}, err
		}
		return ir.QueryStatement{Kind: ir.StmtDescribe, Describe: dq}, nil
	case "with", "insert", "delete", "load", "clear", "create", "drop", "copy", "move", "add":
		up, err := p.parseUpdate()
		if err != nil {
			return ir.QueryStatement{}, err
		}
		return ir.QueryStatement{Kind: ir.StmtUpdate, Update: up}, nil
	default:
		return ir.QueryStatement{}, newParseError(UnknownQueryForm, "unrecognized query form", p.tok.Pos, p.tok.Text)
	}
}

// parsePrologue consumes zero or more BASE/PREFIX declarations, populating
// p.prefixes/p.base for the rest of this parse. A VERSION declaration is
// not accepted here; only SELECT reads one, right after its keyword (see
// parseVersionIfPresent).
func (p *Parser) parsePrologue() error {
	for {
		switch {
		case p.atKeyword("base"):
			if err := p.advance(); err != nil {
				return err
			}
			if p.tok.Kind != lexer.TokenIRI {
				return newParseError(ExpectedIRI, "expected an IRI after BASE", p.tok.Pos, p.tok.Text)
			}
			p.base = p.tok.Text
			if err := p.advance(); err != nil {
				return err
			}
		case p.atKeyword("prefix"):
			if err := p.advance(); err != nil {
				return err
			}
			if p.tok.Kind != lexer.TokenPrefixedName {
				return newParseError(ExpectedToken, "expected a prefix name", p.tok.Pos, p.tok.Text)
			}
			name := strings.TrimSuffix(p.tok.Text, ":")
			if err := p.advance(); err != nil {
				return err
			}
			if p.tok.Kind != lexer.TokenIRI {
				return newParseError(ExpectedIRI, "expected an IRI after PREFIX name:", p.tok.Pos, p.tok.Text)
			}
			p.prefixes[name] = p.symbols.Intern(p.tok.Text)
			if err := p.advance(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// parseVersionIfPresent consumes an optional VERSION "x.y" declaration.
// Only parseSelectQuery calls it, right after the SELECT keyword;
// CONSTRUCT, ASK and DESCRIBE do not accept VERSION.
func (p *Parser) parseVersionIfPresent() (string, bool, error) {
	if !p.atKeyword("version") {
		return "", false, nil
	}
	if err := p.advance(); err != nil {
		return "", false, err
	}
	if p.tok.Kind != lexer.TokenString {
		return "", false, newParseError(ExpectedVersionString, "expected a quoted version string after VERSION", p.tok.Pos, p.tok.Text)
	}
	v := p.tok.Text
	if err := p.advance(); err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (p *Parser) resolveIRIRef(text string) string {
	if p.base == "" || isAbsoluteIRI(text) {
		return p.symbols.Intern(text)
	}
	return p.symbols.Intern(p.base + text)
}

func isAbsoluteIRI(s string) bool {
	i := strings.Index(s, ":")
	return i > 0
}

// resolvePrefixedName splits "prefix:local" and expands it via p.prefixes;
// unknown prefixes are returned verbatim, since semantic validation of IRIs
// is out of scope here.
func (p *Parser) resolvePrefixedName(text string) string {
	i := strings.Index(text, ":")
	if i < 0 {
		return text
	}
	prefix, local := text[:i], text[i+1:]
	if full, ok := p.prefixes.Resolve(prefix, local); ok {
		return p.symbols.Intern(full)
	}
	return p.symbols.Intern(text)
}

func (p *Parser) freshBlankNodeLabel() string {
	return "b" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// parseUintLiteral parses a TokenInteger into a non-negative uint64, used for
// LIMIT/OFFSET.
func (p *Parser) parseUintLiteral() (uint64, error) {
	if p.tok.Kind != lexer.TokenInteger {
		return 0, newParseError(ExpectedToken, "expected an integer literal", p.tok.Pos, p.tok.Text)
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(p.tok.Text, "+"), 10, 64)
	if err != nil {
		return 0, newParseError(NumericOutOfRange, err.Error(), p.tok.Pos, p.tok.Text)
	}
	if err := p.advance(); err != nil {
		return 0, err
	}
	return n, nil
}

// collectVariables walks a graph-pattern tree and returns the distinct
// variable names it binds, in first-appearance order — used by the
// lenient SELECT-projection fallback.
func collectVariables(g ir.GraphPattern) []string {
	seen := map[string]bool{}
	var order []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
	}
	var addTerm func(t pattern.Term)
	addTerm = func(t pattern.Term) {
		switch t.Kind() {
		case pattern.TermVariable:
			add(t.VariableName())
		case pattern.TermQuotedTriple:
			q := t.Quoted()
			addTerm(q.Subject)
			addTerm(q.Predicate)
			addTerm(q.Object)
		}
	}
	var walk func(g ir.GraphPattern)
	walk = func(g ir.GraphPattern) {
		switch g.Kind {
		case ir.PatternBasic:
			for _, tp := range g.Triples {
				addTerm(tp.Subject)
				addTerm(tp.Predicate)
				addTerm(tp.Object)
			}
		case ir.PatternOptional, ir.PatternLateral, ir.PatternService, ir.PatternGraph:
			if g.Inner != nil {
				walk(*g.Inner)
			}
		case ir.PatternUnion, ir.PatternMinus:
			if g.Left != nil {
				walk(*g.Left)
			}
			if g.Right != nil {
				walk(*g.Right)
			}
		case ir.PatternFilter:
			if g.Inner != nil {
				walk(*g.Inner)
			}
		case ir.PatternBind:
			add(g.BindVar)
			if g.Inner != nil {
				walk(*g.Inner)
			}
		case ir.PatternValues:
			for _, v := range g.ValuesVars {
				add(v)
			}
		case ir.PatternGroup:
			for _, c := range g.Children {
				walk(c)
			}
		}
	}
	walk(g)
	return order
}

// flattenTriples collects every basic triple pattern appearing anywhere in
// a graph-pattern tree, in document order — used for the CONSTRUCT
// shorthand that reuses WHERE's own patterns as the template when no
// explicit template is given.
func flattenTriples(g ir.GraphPattern) []pattern.TriplePattern {
	var out []pattern.TriplePattern
	var walk func(g ir.GraphPattern)
	walk = func(g ir.GraphPattern) {
		switch g.Kind {
		case ir.PatternBasic:
			out = append(out, g.Triples...)
		case ir.PatternOptional, ir.PatternLateral, ir.PatternService, ir.PatternGraph, ir.PatternFilter, ir.PatternBind:
			if g.Inner != nil {
				walk(*g.Inner)
			}
		case ir.PatternUnion, ir.PatternMinus:
			if g.Left != nil {
				walk(*g.Left)
			}
			if g.Right != nil {
				walk(*g.Right)
			}
		case ir.PatternGroup:
			for _, c := range g.Children {
				walk(c)
			}
		}
	}
	walk(g)
	return out
}

// parseSimpleTerm parses (and consumes) a single IRI, prefixed name, or
// variable term — used where a full triple-pattern term isn't needed, e.g.
// DESCRIBE's target list.
func (p *Parser) parseSimpleTerm() (pattern.Term, error) {
	switch p.tok.Kind {
	case lexer.TokenVariable:
		name := p.symbols.Intern(p.tok.Text)
		if err := p.advance(); err != nil {
			return pattern.Term{}, err
		}
		return pattern.Variable(name), nil
	case lexer.TokenIRI:
		iri := p.resolveIRIRef(p.tok.Text)
		if err := p.advance(); err != nil {
			return pattern.Term{}, err
		}
		return pattern.IRI(iri), nil
	case lexer.TokenPrefixedName:
		iri := p.resolvePrefixedName(p.tok.Text)
		if err := p.advance(); err != nil {
			return pattern.Term{}, err
		}
		return pattern.IRI(iri), nil
	default:
		return pattern.Term{}, newParseError(ExpectedToken, "expected an IRI or variable", p.tok.Pos, p.tok.Text)
	}
}
