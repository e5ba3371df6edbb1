package parser

import (
	"github.com/quanta-ir/sparqlcore/pkg/rdf"
	"github.com/quanta-ir/sparqlcore/pkg/sparql/expr"
	"github.com/quanta-ir/sparqlcore/pkg/sparql/lexer"
)

// parseExpression is the entry point of the expression precedence chain,
// used by FILTER/BIND/HAVING/ORDER BY/projection items:
// or -> and -> comparison (incl. IN/BETWEEN) -> additive -> multiplicative
// -> unary -> primary.
func (p *Parser) parseExpression() (expr.Expression, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (expr.Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return expr.Expression{}, err
	}
	for p.atPunct("||") {
		if err := p.advance(); err != nil {
			return expr.Expression{}, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return expr.Expression{}, err
		}
		left = expr.Or(left, right)
	}
	return left, nil
}

func (p *Parser) parseAnd() (expr.Expression, error) {
	left, err := p.parseComparison()
	if err != nil {
		return expr.Expression{}, err
	}
	for p.atPunct("&&") {
		if err := p.advance(); err != nil {
			return expr.Expression{}, err
		}
		right, err := p.parseComparison()
		if err != nil {
			return expr.Expression{}, err
		}
		left = expr.And(left, right)
	}
	return left, nil
}

// parseComparison parses a single (non-associative) comparison, membership,
// or range test layered on top of additive expressions.
func (p *Parser) parseComparison() (expr.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return expr.Expression{}, err
	}
	switch {
	case p.atPunct("="):
		if err := p.advance(); err != nil {
			return expr.Expression{}, err
		}
		right, err := p.parseAdditive()
		if err != nil {
			return expr.Expression{}, err
		}
		return expr.Equal(left, right), nil
	case p.atPunct("!="):
		if err := p.advance(); err != nil {
			return expr.Expression{}, err
		}
		right, err := p.parseAdditive()
		if err != nil {
			return expr.Expression{}, err
		}
		return expr.NotEqual(left, right), nil
	case p.atPunct("<="):
		if err := p.advance(); err != nil {
			return expr.Expression{}, err
		}
		right, err := p.parseAdditive()
		if err != nil {
			return expr.Expression{}, err
		}
		return expr.LessOrEqual(left, right), nil
	case p.atPunct(">="):
		if err := p.advance(); err != nil {
			return expr.Expression{}, err
		}
		right, err := p.parseAdditive()
		if err != nil {
			return expr.Expression{}, err
		}
		return expr.GreaterOrEqual(left, right), nil
	case p.atPunct("<"):
		if err := p.advance(); err != nil {
			return expr.Expression{}, err
		}
		right, err := p.parseAdditive()
		if err != nil {
			return expr.Expression{}, err
		}
		return expr.LessThan(left, right), nil
	case p.atPunct(">"):
		if err := p.advance(); err != nil {
			return expr.Expression{}, err
		}
		right, err := p.parseAdditive()
		if err != nil {
			return expr.Expression{}, err
		}
		return expr.GreaterThan(left, right), nil
	case p.atKeyword("in"):
		if err := p.advance(); err != nil {
			return expr.Expression{}, err
		}
		list, err := p.parseExpressionList()
		if err != nil {
			return expr.Expression{}, err
		}
		return expr.In(left, list), nil
	case p.atKeyword("between"):
		if err := p.advance(); err != nil {
			return expr.Expression{}, err
		}
		lo, err := p.parseAdditive()
		if err != nil {
			return expr.Expression{}, err
		}
		if err := p.expectKeyword("and"); err != nil {
			return expr.Expression{}, err
		}
		hi, err := p.parseAdditive()
		if err != nil {
			return expr.Expression{}, err
		}
		return expr.Between(left, lo, hi), nil
	default:
		return left, nil
	}
}

// parseExpressionList parses "(" expr ("," expr)* ")", used by IN.
func (p *Parser) parseExpressionList() ([]expr.Expression, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var list []expr.Expression
	for !p.atPunct(")") {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		list = append(list, e)
		if !p.atPunct(",") {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return list, nil
}

func (p *Parser) parseAdditive() (expr.Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return expr.Expression{}, err
	}
	for p.atPunct("+") || p.atPunct("-") {
		op := p.tok.Text
		if err := p.advance(); err != nil {
			return expr.Expression{}, err
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return expr.Expression{}, err
		}
		if op == "+" {
			left = expr.Add(left, right)
		} else {
			left = expr.Sub(left, right)
		}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (expr.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return expr.Expression{}, err
	}
	for p.atPunct("*") || p.atPunct("/") || p.atKeyword("mod") {
		isMod := p.atKeyword("mod")
		op := p.tok.Text
		if err := p.advance(); err != nil {
			return expr.Expression{}, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return expr.Expression{}, err
		}
		switch {
		case isMod:
			left = expr.Mod(left, right)
		case op == "*":
			left = expr.Mul(left, right)
		default:
			left = expr.Div(left, right)
		}
	}
	return left, nil
}

func (p *Parser) parseUnary() (expr.Expression, error) {
	switch {
	case p.atPunct("!") || p.atKeyword("not"):
		if err := p.advance(); err != nil {
			return expr.Expression{}, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return expr.Expression{}, err
		}
		return expr.Not(operand), nil
	case p.atPunct("-"):
		if err := p.advance(); err != nil {
			return expr.Expression{}, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return expr.Expression{}, err
		}
		return expr.Negate(operand), nil
	case p.atPunct("+"):
		if err := p.advance(); err != nil {
			return expr.Expression{}, err
		}
		return p.parseUnary()
	default:
		return p.parsePrimary()
	}
}

// parsePrimary parses an expression leaf: a parenthesized sub-expression, a
// function call, a variable, or a literal (including bare IRIs/prefixed
// names used as literal IRI leaves).
func (p *Parser) parsePrimary() (expr.Expression, error) {
	switch {
	case p.atPunct("("):
		if err := p.advance(); err != nil {
			return expr.Expression{}, err
		}
		e, err := p.parseExpression()
		if err != nil {
			return expr.Expression{}, err
		}
		if err := p.expectPunct(")"); err != nil {
			return expr.Expression{}, err
		}
		return e, nil
	case p.tok.Kind == lexer.TokenVariable:
		name := p.symbols.Intern(p.tok.Text)
		if err := p.advance(); err != nil {
			return expr.Expression{}, err
		}
		return expr.Variable(name), nil
	case p.tok.Kind == lexer.TokenPrefixedName:
		name := p.tok.Text
		if err := p.advance(); err != nil {
			return expr.Expression{}, err
		}
		if p.atPunct("(") {
			args, err := p.parseCallArgs()
			if err != nil {
				return expr.Expression{}, err
			}
			return expr.Call(name, args), nil
		}
		return expr.Lit(rdf.IRI(p.resolvePrefixedName(name))), nil
	case p.tok.Kind == lexer.TokenIRI:
		text := p.tok.Text
		if err := p.advance(); err != nil {
			return expr.Expression{}, err
		}
		return expr.Lit(rdf.IRI(p.resolveIRIRef(text))), nil
	case p.tok.Kind == lexer.TokenString, p.tok.Kind == lexer.TokenInteger,
		p.tok.Kind == lexer.TokenDecimal, p.tok.Kind == lexer.TokenDouble,
		p.tok.Kind == lexer.TokenBoolean:
		lit, err := p.parseRDFLiteral()
		if err != nil {
			return expr.Expression{}, err
		}
		return expr.Lit(lit), nil
	default:
		return expr.Expression{}, newParseError(ExpectedToken, "expected an expression", p.tok.Pos, p.tok.Text)
	}
}

// parseCallArgs parses "(" ["distinct"] expr ("," expr)* ")"; DISTINCT is
// accepted and discarded, and the returned call expression does not record
// it.
func (p *Parser) parseCallArgs() ([]expr.Expression, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	if p.atKeyword("distinct") {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	var args []expr.Expression
	if p.atPunct("*") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return args, nil
	}
	for !p.atPunct(")") {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, e)
		if !p.atPunct(",") {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return args, nil
}

// parsePrimaryExpression parses a VALUES-row term: a bare literal, IRI, or
// prefixed name, without the full operator grammar.
func (p *Parser) parsePrimaryExpression() (expr.Expression, error) {
	switch p.tok.Kind {
	case lexer.TokenPrefixedName:
		name := p.tok.Text
		if err := p.advance(); err != nil {
			return expr.Expression{}, err
		}
		return expr.Lit(rdf.IRI(p.resolvePrefixedName(name))), nil
	case lexer.TokenIRI:
		text := p.tok.Text
		if err := p.advance(); err != nil {
			return expr.Expression{}, err
		}
		return expr.Lit(rdf.IRI(p.resolveIRIRef(text))), nil
	case lexer.TokenString, lexer.TokenInteger, lexer.TokenDecimal, lexer.TokenDouble, lexer.TokenBoolean:
		lit, err := p.parseRDFLiteral()
		if err != nil {
			return expr.Expression{}, err
		}
		return expr.Lit(lit), nil
	default:
		return expr.Expression{}, newParseError(ExpectedToken, "expected a VALUES term", p.tok.Pos, p.tok.Text)
	}
}
