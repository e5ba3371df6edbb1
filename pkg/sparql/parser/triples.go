package parser

import (
	"strconv"

	"github.com/quanta-ir/sparqlcore/pkg/rdf"
	"github.com/quanta-ir/sparqlcore/pkg/sparql/expr"
	"github.com/quanta-ir/sparqlcore/pkg/sparql/ir"
	"github.com/quanta-ir/sparqlcore/pkg/sparql/lexer"
	"github.com/quanta-ir/sparqlcore/pkg/sparql/pattern"
)

// parseGroupGraphPattern parses "{" GroupGraphPattern "}", the WHERE
// clause body: triple blocks, OPTIONAL/UNION/MINUS/FILTER/BIND/VALUES/
// SERVICE/LATERAL/GRAPH, and nested sub-groups, separated by optional ".".
func (p *Parser) parseGroupGraphPattern() (ir.GraphPattern, error) {
	if !p.atPunct("{") {
		return ir.GraphPattern{}, newParseError(ExpectedLBrace, "expected '{'", p.tok.Pos, p.tok.Text)
	}
	if err := p.advance(); err != nil {
		return ir.GraphPattern{}, err
	}

	var children []ir.GraphPattern
	var pendingTriples []pattern.TriplePattern

	flush := func() {
		if len(pendingTriples) > 0 {
			children = append(children, ir.Basic(pendingTriples))
			pendingTriples = nil
		}
	}

	for {
		if p.atEOF() {
			return ir.GraphPattern{}, newParseError(UnclosedBrace, "unterminated group graph pattern", p.tok.Pos, p.tok.Text)
		}
		if p.atPunct("}") {
			if err := p.advance(); err != nil {
				return ir.GraphPattern{}, err
			}
			break
		}
		switch {
		case p.atPunct("."):
			if err := p.advance(); err != nil {
				return ir.GraphPattern{}, err
			}
		case p.atKeyword("optional"):
			if err := p.advance(); err != nil {
				return ir.GraphPattern{}, err
			}
			inner, err := p.parseGroupGraphPattern()
			if err != nil {
				return ir.GraphPattern{}, err
			}
			flush()
			children = append(children, ir.Optional(inner))
		case p.atKeyword("minus"):
			if err := p.advance(); err != nil {
				return ir.GraphPattern{}, err
			}
			inner, err := p.parseGroupGraphPattern()
			if err != nil {
				return ir.GraphPattern{}, err
			}
			flush()
			// MINUS combines with the pattern matched immediately before it
			// in the same group, the simplest reading consistent with the
			// common one-MINUS-per-group usage; a group whose preceding
			// pattern is itself a MINUS/UNION still composes correctly
			// since GraphPattern nodes nest freely.
			var left ir.GraphPattern
			if len(children) > 0 {
				left = children[len(children)-1]
				children = children[:len(children)-1]
			} else {
				left = ir.Group(nil)
			}
			children = append(children, ir.Minus(left, inner))
		case p.atKeyword("filter"):
			if err := p.advance(); err != nil {
				return ir.GraphPattern{}, err
			}
			cond, err := p.parseBracketedOrPrimaryExpression()
			if err != nil {
				return ir.GraphPattern{}, err
			}
			flush()
			children = append(children, ir.GraphPattern{Kind: ir.PatternFilter, Condition: cond})
		case p.atKeyword("bind"):
			if err := p.advance(); err != nil {
				return ir.GraphPattern{}, err
			}
			if err := p.expectPunct("("); err != nil {
				return ir.GraphPattern{}, err
			}
			e, err := p.parseExpression()
			if err != nil {
				return ir.GraphPattern{}, err
			}
			if err := p.expectKeyword("as"); err != nil {
				return ir.GraphPattern{}, err
			}
			if p.tok.Kind != lexer.TokenVariable {
				return ir.GraphPattern{}, newParseError(ExpectedToken, "expected a variable after AS", p.tok.Pos, p.tok.Text)
			}
			varName := p.symbols.Intern(p.tok.Text)
			if err := p.advance(); err != nil {
				return ir.GraphPattern{}, err
			}
			if err := p.expectPunct(")"); err != nil {
				return ir.GraphPattern{}, err
			}
			flush()
			children = append(children, ir.GraphPattern{Kind: ir.PatternBind, BindExpr: e, BindVar: varName})
		case p.atKeyword("values"):
			if err := p.advance(); err != nil {
				return ir.GraphPattern{}, err
			}
			vp, err := p.parseValuesClause()
			if err != nil {
				return ir.GraphPattern{}, err
			}
			flush()
			children = append(children, vp)
		case p.atKeyword("service"):
			if err := p.advance(); err != nil {
				return ir.GraphPattern{}, err
			}
			silent := false
			if p.atKeyword("silent") {
				silent = true
				if err := p.advance(); err != nil {
					return ir.GraphPattern{}, err
				}
			}
			if p.tok.Kind != lexer.TokenIRI && p.tok.Kind != lexer.TokenVariable {
				return ir.GraphPattern{}, newParseError(ExpectedIRI, "expected an IRI or variable after SERVICE", p.tok.Pos, p.tok.Text)
			}
			iri := p.tok.Text
			if p.tok.Kind == lexer.TokenIRI {
				iri = p.resolveIRIRef(iri)
			}
			if err := p.advance(); err != nil {
				return ir.GraphPattern{}, err
			}
			inner, err := p.parseGroupGraphPattern()
			if err != nil {
				return ir.GraphPattern{}, err
			}
			flush()
			children = append(children, ir.Service(iri, silent, inner))
		case p.atKeyword("lateral"):
			if err := p.advance(); err != nil {
				return ir.GraphPattern{}, err
			}
			if !p.atPunct("{") {
				return ir.GraphPattern{}, newParseError(ExpectedLBrace, "LATERAL must be followed by '{'", p.tok.Pos, p.tok.Text)
			}
			inner, err := p.parseGroupGraphPattern()
			if err != nil {
				return ir.GraphPattern{}, err
			}
			flush()
			children = append(children, ir.Lateral(inner))
		case p.atKeyword("graph"):
			if err := p.advance(); err != nil {
				return ir.GraphPattern{}, err
			}
			term, err := p.parseSimpleTerm()
			if err != nil {
				return ir.GraphPattern{}, err
			}
			inner, err := p.parseGroupGraphPattern()
			if err != nil {
				return ir.GraphPattern{}, err
			}
			flush()
			children = append(children, ir.Graph(term, inner))
		case p.atPunct("{"):
			inner, err := p.parseGroupGraphPattern()
			if err != nil {
				return ir.GraphPattern{}, err
			}
			flush()
			// A "{...} UNION {...}" sequence folds into a single union node.
			for p.atKeyword("union") {
				if err := p.advance(); err != nil {
					return ir.GraphPattern{}, err
				}
				rhs, err := p.parseGroupGraphPattern()
				if err != nil {
					return ir.GraphPattern{}, err
				}
				inner = ir.Union(inner, rhs)
			}
			children = append(children, inner)
		default:
			triples, err := p.parseTriplesSameSubject()
			if err != nil {
				return ir.GraphPattern{}, err
			}
			pendingTriples = append(pendingTriples, triples...)
		}
	}
	flush()
	// A group holding a single basic block collapses to that block; any
	// other lone child (OPTIONAL, UNION, VALUES, ...) stays inside a group.
	if len(children) == 1 && children[0].Kind == ir.PatternBasic {
		return children[0], nil
	}
	return ir.Group(children), nil
}

// parseBracketedOrPrimaryExpression parses FILTER's argument, which is
// either a parenthesized expression or a built-in predicate call.
func (p *Parser) parseBracketedOrPrimaryExpression() (expr.Expression, error) {
	return p.parseExpression()
}

func (p *Parser) parseValuesClause() (ir.GraphPattern, error) {
	var vars []string
	if p.atPunct("(") {
		if err := p.advance(); err != nil {
			return ir.GraphPattern{}, err
		}
		for p.tok.Kind == lexer.TokenVariable {
			vars = append(vars, p.tok.Text)
			if err := p.advance(); err != nil {
				return ir.GraphPattern{}, err
			}
		}
		if err := p.expectPunct(")"); err != nil {
			return ir.GraphPattern{}, err
		}
	} else if p.tok.Kind == lexer.TokenVariable {
		vars = append(vars, p.tok.Text)
		if err := p.advance(); err != nil {
			return ir.GraphPattern{}, err
		}
	}
	if err := p.expectPunct("{"); err != nil {
		return ir.GraphPattern{}, err
	}
	var rows [][]*expr.Expression
	for !p.atPunct("}") {
		row, err := p.parseValuesRow(len(vars))
		if err != nil {
			return ir.GraphPattern{}, err
		}
		rows = append(rows, row)
	}
	if err := p.advance(); err != nil {
		return ir.GraphPattern{}, err
	}
	return ir.Values(vars, rows), nil
}

func (p *Parser) parseValuesRow(width int) ([]*expr.Expression, error) {
	wrapped := p.atPunct("(")
	if wrapped {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	count := width
	if !wrapped {
		count = 1
	}
	row := make([]*expr.Expression, 0, count)
	for {
		if p.atKeyword("undef") {
			row = append(row, nil)
			if err := p.advance(); err != nil {
				return nil, err
			}
		} else {
			e, err := p.parsePrimaryExpression()
			if err != nil {
				return nil, err
			}
			row = append(row, &e)
		}
		if wrapped && !p.atPunct(")") {
			continue
		}
		break
	}
	if wrapped {
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
	}
	return row, nil
}

// parseTriplesSameSubject parses one "subject verb object (; verb object)*
// (, object)*" chain, expanding ";" and "," into independent triples.
func (p *Parser) parseTriplesSameSubject() ([]pattern.TriplePattern, error) {
	subject, leading, err := p.parseTriplesNode()
	if err != nil {
		return nil, err
	}
	triples := leading
	more, err := p.parsePropertyListNotEmpty(subject)
	if err != nil {
		return nil, err
	}
	triples = append(triples, more...)
	return triples, nil
}

// parseTriplesNode parses a subject (or object) position term: a plain
// term, a blank-node property list "[ ... ]", a collection "( ... )", or a
// quoted triple. It returns the term standing in for this position plus
// any additional triples generated by nested structures (property lists,
// collections).
func (p *Parser) parseTriplesNode() (pattern.Term, []pattern.TriplePattern, error) {
	switch {
	case p.atPunct("["):
		return p.parseBlankNodePropertyList()
	case p.atPunct("("):
		return p.parseCollection()
	case p.atPunct("<<"):
		return p.parseQuotedTriple()
	default:
		t, err := p.parseTerm()
		return t, nil, err
	}
}

func (p *Parser) parseBlankNodePropertyList() (pattern.Term, []pattern.TriplePattern, error) {
	if err := p.advance(); err != nil { // consume '['
		return pattern.Term{}, nil, err
	}
	label := p.freshBlankNodeLabel()
	subject := pattern.BlankNode(label)
	if p.atPunct("]") {
		if err := p.advance(); err != nil {
			return pattern.Term{}, nil, err
		}
		return subject, nil, nil
	}
	triples, err := p.parsePropertyListNotEmpty(subject)
	if err != nil {
		return pattern.Term{}, nil, err
	}
	if !p.atPunct("]") {
		return pattern.Term{}, nil, newParseError(UnclosedBracket, "unterminated blank-node property list", p.tok.Pos, p.tok.Text)
	}
	if err := p.advance(); err != nil {
		return pattern.Term{}, nil, err
	}
	return subject, triples, nil
}

func (p *Parser) parseCollection() (pattern.Term, []pattern.TriplePattern, error) {
	if err := p.advance(); err != nil { // consume '('
		return pattern.Term{}, nil, err
	}
	const rdfFirst = "http://www.w3.org/1999/02/22-rdf-syntax-ns#first"
	const rdfRest = "http://www.w3.org/1999/02/22-rdf-syntax-ns#rest"
	const rdfNil = "http://www.w3.org/1999/02/22-rdf-syntax-ns#nil"

	var items []pattern.Term
	var extra []pattern.TriplePattern
	for !p.atPunct(")") {
		if p.atEOF() {
			return pattern.Term{}, nil, newParseError(UnclosedParen, "unterminated collection", p.tok.Pos, p.tok.Text)
		}
		item, more, err := p.parseTriplesNode()
		if err != nil {
			return pattern.Term{}, nil, err
		}
		items = append(items, item)
		extra = append(extra, more...)
	}
	if err := p.advance(); err != nil { // consume ')'
		return pattern.Term{}, nil, err
	}
	if len(items) == 0 {
		return pattern.IRI(rdfNil), extra, nil
	}
	nodes := make([]pattern.Term, len(items))
	for i := range items {
		nodes[i] = pattern.BlankNode(p.freshBlankNodeLabel())
	}
	for i, item := range items {
		extra = append(extra, pattern.NewTriplePattern(nodes[i], pattern.IRI(rdfFirst), item))
		if i+1 < len(nodes) {
			extra = append(extra, pattern.NewTriplePattern(nodes[i], pattern.IRI(rdfRest), nodes[i+1]))
		} else {
			extra = append(extra, pattern.NewTriplePattern(nodes[i], pattern.IRI(rdfRest), pattern.IRI(rdfNil)))
		}
	}
	return nodes[0], extra, nil
}

// parseQuotedTriple parses "<< s p o >>" or "<<( s p o )>>", with an
// optional RDF 1.2 "~ identifier" reifier suffix on the reifying form.
func (p *Parser) parseQuotedTriple() (pattern.Term, []pattern.TriplePattern, error) {
	if err := p.advance(); err != nil { // consume '<<'
		return pattern.Term{}, nil, err
	}
	nonReifying := false
	if p.atPunct("(") {
		nonReifying = true
		if err := p.advance(); err != nil {
			return pattern.Term{}, nil, err
		}
	}
	subj, extra1, err := p.parseTriplesNode()
	if err != nil {
		return pattern.Term{}, nil, err
	}
	pred, err := p.parseTerm()
	if err != nil {
		return pattern.Term{}, nil, err
	}
	obj, extra2, err := p.parseTriplesNode()
	if err != nil {
		return pattern.Term{}, nil, err
	}
	extra := append(extra1, extra2...)
	inner := pattern.NewTriplePattern(subj, pred, obj)

	if nonReifying {
		if !p.atPunct(")") {
			return pattern.Term{}, nil, newParseError(UnclosedQuotedTriple, "expected ')' closing a triple term", p.tok.Pos, p.tok.Text)
		}
		if err := p.advance(); err != nil {
			return pattern.Term{}, nil, err
		}
	}
	if !p.atPunct(">>") {
		return pattern.Term{}, nil, newParseError(UnclosedQuotedTriple, "expected '>>' closing a quoted triple", p.tok.Pos, p.tok.Text)
	}
	if err := p.advance(); err != nil {
		return pattern.Term{}, nil, err
	}
	reifier := ""
	if !nonReifying && p.atPunct("~") {
		if err := p.advance(); err != nil {
			return pattern.Term{}, nil, err
		}
		if p.tok.Kind != lexer.TokenPrefixedName && p.tok.Kind != lexer.TokenVariable {
			return pattern.Term{}, nil, newParseError(ExpectedToken, "expected a reifier identifier after '~'", p.tok.Pos, p.tok.Text)
		}
		reifier = p.tok.Text
		if err := p.advance(); err != nil {
			return pattern.Term{}, nil, err
		}
	}
	return pattern.QuotedTriple(inner, reifier, nonReifying), extra, nil
}

// parsePropertyListNotEmpty parses "verb objectList (';' verb objectList)*"
// for a given, already-parsed subject term.
func (p *Parser) parsePropertyListNotEmpty(subject pattern.Term) ([]pattern.TriplePattern, error) {
	var out []pattern.TriplePattern
	for {
		pred, err := p.parsePropertyPathTerm()
		if err != nil {
			return nil, err
		}
		objects, extra, err := p.parseObjectList()
		if err != nil {
			return nil, err
		}
		if path, isPath := unwrapPathTerm(pred); isPath {
			for _, o := range objects {
				out = append(out, pattern.NewPathTriplePattern(subject, path, o))
			}
		} else {
			for _, o := range objects {
				out = append(out, pattern.NewTriplePattern(subject, pred, o))
			}
		}
		out = append(out, extra...)
		if !p.atPunct(";") {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.atPunct(".") || p.atPunct("}") || p.atPunct("]") {
			break // trailing ';' with nothing after it
		}
	}
	return out, nil
}

func (p *Parser) parseObjectList() ([]pattern.Term, []pattern.TriplePattern, error) {
	var objects []pattern.Term
	var extra []pattern.TriplePattern
	for {
		obj, more, err := p.parseTriplesNode()
		if err != nil {
			return nil, nil, err
		}
		objects = append(objects, obj)
		extra = append(extra, more...)
		if !p.atPunct(",") {
			break
		}
		if err := p.advance(); err != nil {
			return nil, nil, err
		}
	}
	return objects, extra, nil
}

// parseTriplesBlockBraced parses "{ TriplesBlock }", used by CONSTRUCT
// templates and the INSERT/DELETE templates of the update modify form.
func (p *Parser) parseTriplesBlockBraced() ([]pattern.TriplePattern, error) {
	if !p.atPunct("{") {
		return nil, newParseError(UnclosedBrace, "expected '{'", p.tok.Pos, p.tok.Text)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	var out []pattern.TriplePattern
	for !p.atPunct("}") {
		if p.atEOF() {
			return nil, newParseError(UnclosedBrace, "unterminated triples block", p.tok.Pos, p.tok.Text)
		}
		if p.atPunct(".") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		triples, err := p.parseTriplesSameSubject()
		if err != nil {
			return nil, err
		}
		out = append(out, triples...)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return out, nil
}

// parseTerm parses a single plain term: variable, IRI, prefixed name,
// blank-node label, or RDF literal. Blank-node property lists, collections,
// and quoted triples are handled by parseTriplesNode, which calls here for
// the plain-term fallback.
func (p *Parser) parseTerm() (pattern.Term, error) {
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
	case lexer.TokenBlankNode:
		id := p.tok.Text
		if err := p.advance(); err != nil {
			return pattern.Term{}, err
		}
		return pattern.BlankNode(id), nil
	case lexer.TokenString, lexer.TokenInteger, lexer.TokenDecimal, lexer.TokenDouble, lexer.TokenBoolean:
		lit, err := p.parseRDFLiteral()
		if err != nil {
			return pattern.Term{}, err
		}
		return pattern.LiteralTerm(lit), nil
	default:
		return pattern.Term{}, newParseError(ExpectedToken, "expected a term", p.tok.Pos, p.tok.Text)
	}
}

// parseRDFLiteral parses a literal token plus any trailing "@lang"
// language tag or "^^datatype" suffix on a string literal.
func (p *Parser) parseRDFLiteral() (rdf.Literal, error) {
	tok := p.tok
	if err := p.advance(); err != nil {
		return rdf.Literal{}, err
	}
	switch tok.Kind {
	case lexer.TokenBoolean:
		return rdf.Bool(tok.Text == "true"), nil
	case lexer.TokenInteger:
		n, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return rdf.Literal{}, newParseError(NumericOutOfRange, err.Error(), tok.Pos, tok.Text)
		}
		return rdf.Int(n), nil
	case lexer.TokenDecimal, lexer.TokenDouble:
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return rdf.Literal{}, newParseError(NumericOutOfRange, err.Error(), tok.Pos, tok.Text)
		}
		return rdf.Double(f), nil
	case lexer.TokenString:
		if p.atPunct("@") {
			if err := p.advance(); err != nil {
				return rdf.Literal{}, err
			}
			lang := p.tok.Text
			if err := p.advance(); err != nil {
				return rdf.Literal{}, err
			}
			if p.atPunct("--") {
				if err := p.advance(); err != nil {
					return rdf.Literal{}, err
				}
				direction := p.tok.Text
				if err := p.advance(); err != nil {
					return rdf.Literal{}, err
				}
				return rdf.LangStringDir(tok.Text, lang, direction), nil
			}
			return rdf.LangString(tok.Text, lang), nil
		}
		if p.atPunct("^^") {
			if err := p.advance(); err != nil {
				return rdf.Literal{}, err
			}
			var dt string
			switch p.tok.Kind {
			case lexer.TokenIRI:
				dt = p.resolveIRIRef(p.tok.Text)
			case lexer.TokenPrefixedName:
				dt = p.resolvePrefixedName(p.tok.Text)
			default:
				return rdf.Literal{}, newParseError(ExpectedIRI, "expected a datatype IRI after '^^'", p.tok.Pos, p.tok.Text)
			}
			if err := p.advance(); err != nil {
				return rdf.Literal{}, err
			}
			return rdf.TypedLiteral(tok.Text, dt), nil
		}
		return rdf.String(tok.Text), nil
	default:
		return rdf.Literal{}, newParseError(ExpectedToken, "expected a literal", tok.Pos, tok.Text)
	}
}
