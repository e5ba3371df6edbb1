package parser

import (
	"github.com/quanta-ir/sparqlcore/pkg/sparql/expr"
	"github.com/quanta-ir/sparqlcore/pkg/sparql/ir"
	"github.com/quanta-ir/sparqlcore/pkg/sparql/lexer"
)

func (p *Parser) parseSelectQuery() (*ir.SelectQuery, error) {
	if err := p.expectKeyword("select"); err != nil {
		return nil, err
	}
	sq := ir.NewSelectQuery(ir.GraphPattern{})
	sq.Prefixes = p.prefixes
	sq.Base = p.base

	version, hasVersion, err := p.parseVersionIfPresent()
	if err != nil {
		return nil, err
	}
	sq.Version, sq.HasVersion = version, hasVersion

	switch {
	case p.atKeyword("distinct"):
		sq.Distinct = true
		if err := p.advance(); err != nil {
			return nil, err
		}
	case p.atKeyword("reduced"):
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	proj, needsFallback, err := p.parseProjection()
	if err != nil {
		return nil, err
	}
	sq.Projection = proj

	for p.atKeyword("from") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		named := false
		if p.atKeyword("named") {
			named = true
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		if p.tok.Kind != lexer.TokenIRI {
			return nil, newParseError(ExpectedIRI, "expected an IRI in FROM clause", p.tok.Pos, p.tok.Text)
		}
		iri := p.resolveIRIRef(p.tok.Text)
		if named {
			sq.FromNamed = append(sq.FromNamed, iri)
		} else {
			sq.From = append(sq.From, iri)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	if p.atKeyword("where") {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	source, err := p.parseGroupGraphPattern()
	if err != nil {
		return nil, err
	}
	sq.Source = source

	if needsFallback {
		vars := collectVariables(source)
		items := make([]ir.ProjectionItem, len(vars))
		for i, v := range vars {
			items[i] = ir.ProjectionItem{Expr: expr.Variable(v)}
		}
		sq.Projection = ir.Projection{Items: items}
	}

	if err := p.parseSolutionModifiers(&sq); err != nil {
		return nil, err
	}
	return &sq, nil
}

// parseProjection parses "*" or the projection item list. When the token
// after SELECT cannot begin a projection item, it is skipped (the lenient
// rule); the second return value tells the caller to infer the projection
// from the WHERE clause's variables once it is known.
func (p *Parser) parseProjection() (ir.Projection, bool, error) {
	if p.atPunct("*") {
		if err := p.advance(); err != nil {
			return ir.Projection{}, false, err
		}
		return ir.Projection{All: true}, false, nil
	}

	var items []ir.ProjectionItem
	skippedAny := false
	for p.canStartProjectionItem() {
		item, err := p.parseProjectionItem()
		if err != nil {
			return ir.Projection{}, false, err
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		for !p.atEOF() && !p.canStartProjectionItem() && !p.isSelectTrailerKeyword() {
			skippedAny = true
			if err := p.advance(); err != nil {
				return ir.Projection{}, false, err
			}
		}
		for p.canStartProjectionItem() {
			item, err := p.parseProjectionItem()
			if err != nil {
				return ir.Projection{}, false, err
			}
			items = append(items, item)
		}
	}
	if len(items) == 0 && skippedAny {
		return ir.Projection{}, true, nil
	}
	return ir.Projection{Items: items}, false, nil
}

func (p *Parser) isSelectTrailerKeyword() bool {
	for _, kw := range []string{"from", "where"} {
		if p.atKeyword(kw) {
			return true
		}
	}
	return p.atPunct("{")
}

func (p *Parser) canStartProjectionItem() bool {
	return p.tok.Kind == lexer.TokenVariable || p.atPunct("(")
}

func (p *Parser) parseProjectionItem() (ir.ProjectionItem, error) {
	if p.tok.Kind == lexer.TokenVariable {
		name := p.symbols.Intern(p.tok.Text)
		if err := p.advance(); err != nil {
			return ir.ProjectionItem{}, err
		}
		return ir.ProjectionItem{Expr: expr.Variable(name)}, nil
	}
	if err := p.expectPunct("("); err != nil {
		return ir.ProjectionItem{}, err
	}
	e, err := p.parseExpression()
	if err != nil {
		return ir.ProjectionItem{}, err
	}
	if err := p.expectKeyword("as"); err != nil {
		return ir.ProjectionItem{}, err
	}
	if p.tok.Kind != lexer.TokenVariable {
		return ir.ProjectionItem{}, newParseError(ExpectedToken, "expected a variable after AS", p.tok.Pos, p.tok.Text)
	}
	alias := p.symbols.Intern(p.tok.Text)
	if err := p.advance(); err != nil {
		return ir.ProjectionItem{}, err
	}
	if err := p.expectPunct(")"); err != nil {
		return ir.ProjectionItem{}, err
	}
	return ir.ProjectionItem{Expr: e, Alias: alias}, nil
}

func (p *Parser) parseSolutionModifiers(sq *ir.SelectQuery) error {
	for {
		switch {
		case p.atKeyword("group"):
			if err := p.advance(); err != nil {
				return err
			}
			if err := p.expectKeyword("by"); err != nil {
				return err
			}
			for p.canStartProjectionItem() || p.tok.Kind == lexer.TokenPrefixedName || p.tok.Kind == lexer.TokenIRI {
				e, err := p.parseExpression()
				if err != nil {
					return err
				}
				sq.GroupBy = append(sq.GroupBy, e)
			}
		case p.atKeyword("having"):
			if err := p.advance(); err != nil {
				return err
			}
			e, err := p.parseExpression()
			if err != nil {
				return err
			}
			sq.Having = append(sq.Having, e)
		case p.atKeyword("order"):
			if err := p.advance(); err != nil {
				return err
			}
			if err := p.expectKeyword("by"); err != nil {
				return err
			}
			for {
				asc := true
				if p.atKeyword("asc") || p.atKeyword("desc") {
					asc = p.tok.Text == "asc"
					if err := p.advance(); err != nil {
						return err
					}
					if err := p.expectPunct("("); err != nil {
						return err
					}
					e, err := p.parseExpression()
					if err != nil {
						return err
					}
					if err := p.expectPunct(")"); err != nil {
						return err
					}
					sq.OrderBy = append(sq.OrderBy, ir.OrderCondition{Expr: e, Ascending: asc})
					continue
				}
				if !p.canStartProjectionItem() && p.tok.Kind != lexer.TokenPrefixedName && p.tok.Kind != lexer.TokenIRI {
					break
				}
				e, err := p.parseExpression()
				if err != nil {
					return err
				}
				sq.OrderBy = append(sq.OrderBy, ir.OrderCondition{Expr: e, Ascending: asc})
			}
		case p.atKeyword("limit"):
			if err := p.advance(); err != nil {
				return err
			}
			n, err := p.parseUintLiteral()
			if err != nil {
				return err
			}
			sq.Limit, sq.HasLimit = n, true
		case p.atKeyword("offset"):
			if err := p.advance(); err != nil {
				return err
			}
			n, err := p.parseUintLiteral()
			if err != nil {
				return err
			}
			sq.Offset, sq.HasOffset = n, true
		case p.atKeyword("values"):
			if err := p.advance(); err != nil {
				return err
			}
			vp, err := p.parseValuesClause()
			if err != nil {
				return err
			}
			sq.Values = &vp
		default:
			return nil
		}
	}
}

func (p *Parser) parseConstructQuery() (*ir.ConstructQuery, error) {
	if err := p.expectKeyword("construct"); err != nil {
		return nil, err
	}
	cq := &ir.ConstructQuery{Prefixes: p.prefixes}
	if p.atPunct("{") {
		tmpl, err := p.parseTriplesBlockBraced()
		if err != nil {
			return nil, err
		}
		cq.Template = tmpl
		if !p.atKeyword("where") {
			return nil, newParseError(MalformedConstruct, "CONSTRUCT template without a WHERE clause", p.tok.Pos, p.tok.Text)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		source, err := p.parseGroupGraphPattern()
		if err != nil {
			return nil, err
		}
		cq.Source = source
		return cq, nil
	}
	if p.atKeyword("where") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		source, err := p.parseGroupGraphPattern()
		if err != nil {
			return nil, err
		}
		cq.Source = source
		cq.Template = flattenTriples(source)
		return cq, nil
	}
	return nil, newParseError(MalformedConstruct, "CONSTRUCT requires a template or a WHERE clause", p.tok.Pos, p.tok.Text)
}

func (p *Parser) parseAskQuery() (*ir.AskQuery, error) {
	if err := p.expectKeyword("ask"); err != nil {
		return nil, err
	}
	if p.atKeyword("where") {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	source, err := p.parseGroupGraphPattern()
	if err != nil {
		return nil, err
	}
	return &ir.AskQuery{Prefixes: p.prefixes, Source: source}, nil
}

func (p *Parser) parseDescribeQuery() (*ir.DescribeQuery, error) {
	if err := p.expectKeyword("describe"); err != nil {
		return nil, err
	}
	dq := &ir.DescribeQuery{Prefixes: p.prefixes}
	if !p.atPunct("*") {
		for p.tok.Kind == lexer.TokenVariable || p.tok.Kind == lexer.TokenIRI || p.tok.Kind == lexer.TokenPrefixedName {
			term, err := p.parseSimpleTerm()
			if err != nil {
				return nil, err
			}
			dq.Targets = append(dq.Targets, term)
		}
	} else {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if p.atKeyword("where") || p.atPunct("{") {
		if p.atKeyword("where") {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		source, err := p.parseGroupGraphPattern()
		if err != nil {
			return nil, err
		}
		dq.HasWhere = true
		dq.Source = source
	}
	return dq, nil
}
