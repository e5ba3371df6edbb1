package parser

import (
	"github.com/quanta-ir/sparqlcore/pkg/sparql/lexer"
	"github.com/quanta-ir/sparqlcore/pkg/sparql/pattern"
)

// atA reports whether the current token is the "a" rdf:type shorthand
// keyword, which the lexer tokenizes as a bare prefixed name (no colon).
func (p *Parser) atA() bool {
	return p.tok.Kind == lexer.TokenPrefixedName && p.tok.Text == "a"
}

const rdfType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

// parsePropertyPathTerm parses a predicate position, which may be a plain
// IRI/prefixed-name/variable/the "a" keyword shorthand for rdf:type, or a
// full property-path expression (sequence "/", alternative "|", inverse
// "^", and the zeroOrMore/oneOrMore/zeroOrOne postfix operators "*","+","?").
// A plain predicate is returned as a Term; any use of a path operator
// returns the path wrapped by pendingPathTerm, which
// parsePropertyListNotEmpty unwraps into a PredicatePath-bearing triple.
func (p *Parser) parsePropertyPathTerm() (pattern.Term, error) {
	if p.atA() {
		if err := p.advance(); err != nil {
			return pattern.Term{}, err
		}
		return pattern.IRI(rdfType), nil
	}
	path, isPath, plain, err := p.parsePathAlternative()
	if err != nil {
		return pattern.Term{}, err
	}
	if isPath {
		return pendingPathTerm(path), nil
	}
	return plain, nil
}

// pendingPathTerm wraps a parsed PropertyPath as a Term so it can flow
// through parsePropertyListNotEmpty's uniform Term-typed predicate slot;
// parsePropertyListNotEmpty unwraps it back into TriplePattern.PredicatePath
// when building the final pattern.
func pendingPathTerm(path pattern.PropertyPath) pattern.Term {
	return pattern.QuotedTriple(pattern.TriplePattern{PredicatePath: &path}, "\x00path", true)
}

// unwrapPathTerm reports whether t was produced by pendingPathTerm, and if
// so returns the wrapped PropertyPath.
func unwrapPathTerm(t pattern.Term) (pattern.PropertyPath, bool) {
	if t.Kind() != pattern.TermQuotedTriple || t.Reifier() != "\x00path" {
		return pattern.PropertyPath{}, false
	}
	return *t.Quoted().PredicatePath, true
}

func (p *Parser) parsePathAlternative() (pattern.PropertyPath, bool, pattern.Term, error) {
	left, leftIsPath, leftTerm, err := p.parsePathSequence()
	if err != nil {
		return pattern.PropertyPath{}, false, pattern.Term{}, err
	}
	if !p.atPunct("|") {
		return left, leftIsPath, leftTerm, nil
	}
	acc := left
	if !leftIsPath {
		acc = termToPath(leftTerm)
	}
	for p.atPunct("|") {
		if err := p.advance(); err != nil {
			return pattern.PropertyPath{}, false, pattern.Term{}, err
		}
		right, rightIsPath, rightTerm, err := p.parsePathSequence()
		if err != nil {
			return pattern.PropertyPath{}, false, pattern.Term{}, err
		}
		rp := right
		if !rightIsPath {
			rp = termToPath(rightTerm)
		}
		acc = pattern.PPAlternative(acc, rp)
	}
	return acc, true, pattern.Term{}, nil
}

func (p *Parser) parsePathSequence() (pattern.PropertyPath, bool, pattern.Term, error) {
	left, leftIsPath, leftTerm, err := p.parsePathPostfix()
	if err != nil {
		return pattern.PropertyPath{}, false, pattern.Term{}, err
	}
	if !p.atPunct("/") {
		return left, leftIsPath, leftTerm, nil
	}
	acc := left
	if !leftIsPath {
		acc = termToPath(leftTerm)
	}
	for p.atPunct("/") {
		if err := p.advance(); err != nil {
			return pattern.PropertyPath{}, false, pattern.Term{}, err
		}
		right, rightIsPath, rightTerm, err := p.parsePathPostfix()
		if err != nil {
			return pattern.PropertyPath{}, false, pattern.Term{}, err
		}
		rp := right
		if !rightIsPath {
			rp = termToPath(rightTerm)
		}
		acc = pattern.PPSequence(acc, rp)
	}
	return acc, true, pattern.Term{}, nil
}

func (p *Parser) parsePathPostfix() (pattern.PropertyPath, bool, pattern.Term, error) {
	base, baseIsPath, baseTerm, err := p.parsePathPrimary()
	if err != nil {
		return pattern.PropertyPath{}, false, pattern.Term{}, err
	}
	if !p.atPunct("*") && !p.atPunct("+") && !p.atPunct("?") {
		return base, baseIsPath, baseTerm, nil
	}
	acc := base
	if !baseIsPath {
		acc = termToPath(baseTerm)
	}
	for p.atPunct("*") || p.atPunct("+") || p.atPunct("?") {
		op := p.tok.Text
		if err := p.advance(); err != nil {
			return pattern.PropertyPath{}, false, pattern.Term{}, err
		}
		switch op {
		case "*":
			acc = pattern.PPZeroOrMore(acc)
		case "+":
			acc = pattern.PPOneOrMore(acc)
		case "?":
			acc = pattern.PPZeroOrOne(acc)
		}
	}
	return acc, true, pattern.Term{}, nil
}

func (p *Parser) parsePathPrimary() (pattern.PropertyPath, bool, pattern.Term, error) {
	switch {
	case p.atPunct("^"):
		if err := p.advance(); err != nil {
			return pattern.PropertyPath{}, false, pattern.Term{}, err
		}
		inner, innerIsPath, innerTerm, err := p.parsePathPrimary()
		if err != nil {
			return pattern.PropertyPath{}, false, pattern.Term{}, err
		}
		ip := inner
		if !innerIsPath {
			ip = termToPath(innerTerm)
		}
		return pattern.PPInverse(ip), true, pattern.Term{}, nil
	case p.atPunct("!"):
		if err := p.advance(); err != nil {
			return pattern.PropertyPath{}, false, pattern.Term{}, err
		}
		set, err := p.parseNegatedPropertySet()
		if err != nil {
			return pattern.PropertyPath{}, false, pattern.Term{}, err
		}
		return pattern.PPNegated(set), true, pattern.Term{}, nil
	case p.atPunct("("):
		if err := p.advance(); err != nil {
			return pattern.PropertyPath{}, false, pattern.Term{}, err
		}
		inner, isPath, term, err := p.parsePathAlternative()
		if err != nil {
			return pattern.PropertyPath{}, false, pattern.Term{}, err
		}
		if err := p.expectPunct(")"); err != nil {
			return pattern.PropertyPath{}, false, pattern.Term{}, err
		}
		return inner, isPath, term, nil
	case p.atA():
		if err := p.advance(); err != nil {
			return pattern.PropertyPath{}, false, pattern.Term{}, err
		}
		return pattern.PropertyPath{}, false, pattern.IRI(rdfType), nil
	default:
		term, err := p.parseTerm()
		if err != nil {
			return pattern.PropertyPath{}, false, pattern.Term{}, err
		}
		return pattern.PropertyPath{}, false, term, nil
	}
}

func (p *Parser) parseNegatedPropertySet() ([]string, error) {
	if p.atPunct("(") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		var iris []string
		for !p.atPunct(")") {
			t, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			iris = append(iris, t.IRIText())
			if p.atPunct("|") {
				if err := p.advance(); err != nil {
					return nil, err
				}
			}
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return iris, nil
	}
	t, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	return []string{t.IRIText()}, nil
}

func termToPath(t pattern.Term) pattern.PropertyPath {
	if path, ok := unwrapPathTerm(t); ok {
		return path
	}
	return pattern.PPIRI(t.IRIText())
}

