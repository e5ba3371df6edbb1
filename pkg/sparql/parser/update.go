package parser

import (
	"github.com/quanta-ir/sparqlcore/pkg/sparql/ir"
	"github.com/quanta-ir/sparqlcore/pkg/sparql/lexer"
	"github.com/quanta-ir/sparqlcore/pkg/sparql/pattern"
)

// parseUpdate parses one SPARQL Update request: LOAD, CLEAR, CREATE, DROP,
// COPY/MOVE/ADD, INSERT DATA/DELETE DATA, DELETE WHERE, and the general
// WITH/DELETE/INSERT/USING/WHERE modify form.
func (p *Parser) parseUpdate() (*ir.UpdateOperation, error) {
	withIRI, hasWith, err := p.parseWithClause()
	if err != nil {
		return nil, err
	}

	switch {
	case p.atKeyword("load"):
		return p.parseLoad()
	case p.atKeyword("clear"):
		return p.parseClearOrDrop(ir.UpdateClear)
	case p.atKeyword("create"):
		return p.parseCreate()
	case p.atKeyword("drop"):
		return p.parseClearOrDrop(ir.UpdateDrop)
	case p.atKeyword("copy"), p.atKeyword("move"), p.atKeyword("add"):
		return p.parseCopyMoveAdd()
	case p.atKeyword("insert"):
		return p.parseInsertOrModify(withIRI, hasWith)
	case p.atKeyword("delete"):
		return p.parseDeleteOrModify(withIRI, hasWith)
	default:
		return nil, newParseError(UnknownQueryForm, "unrecognized update form", p.tok.Pos, p.tok.Text)
	}
}

func (p *Parser) parseWithClause() (string, bool, error) {
	if !p.atKeyword("with") {
		return "", false, nil
	}
	if err := p.advance(); err != nil {
		return "", false, err
	}
	if p.tok.Kind != lexer.TokenIRI {
		return "", false, newParseError(ExpectedIRI, "expected an IRI after WITH", p.tok.Pos, p.tok.Text)
	}
	iri := p.resolveIRIRef(p.tok.Text)
	if err := p.advance(); err != nil {
		return "", false, err
	}
	return iri, true, nil
}

func (p *Parser) consumeSilent() (bool, error) {
	if !p.atKeyword("silent") {
		return false, nil
	}
	return true, p.advance()
}

func (p *Parser) parseLoad() (*ir.UpdateOperation, error) {
	if err := p.advance(); err != nil { // consume 'load'
		return nil, err
	}
	silent, err := p.consumeSilent()
	if err != nil {
		return nil, err
	}
	if p.tok.Kind != lexer.TokenIRI {
		return nil, newParseError(ExpectedIRI, "expected an IRI after LOAD", p.tok.Pos, p.tok.Text)
	}
	source := p.resolveIRIRef(p.tok.Text)
	if err := p.advance(); err != nil {
		return nil, err
	}
	into := ""
	if p.atKeyword("into") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectKeyword("graph"); err != nil {
			return nil, err
		}
		if p.tok.Kind != lexer.TokenIRI {
			return nil, newParseError(ExpectedIRI, "expected an IRI after INTO GRAPH", p.tok.Pos, p.tok.Text)
		}
		into = p.resolveIRIRef(p.tok.Text)
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return &ir.UpdateOperation{Kind: ir.UpdateLoad, Source: source, Into: into, Silent: silent}, nil
}

func (p *Parser) parseCreate() (*ir.UpdateOperation, error) {
	if err := p.advance(); err != nil { // consume 'create'
		return nil, err
	}
	silent, err := p.consumeSilent()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("graph"); err != nil {
		return nil, err
	}
	if p.tok.Kind != lexer.TokenIRI {
		return nil, newParseError(ExpectedIRI, "expected an IRI after CREATE GRAPH", p.tok.Pos, p.tok.Text)
	}
	iri := p.resolveIRIRef(p.tok.Text)
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &ir.UpdateOperation{Kind: ir.UpdateCreate, Graph: iri, Silent: silent}, nil
}

// parseClearOrDrop parses CLEAR|DROP [SILENT] (GRAPH <iri> | DEFAULT | NAMED | ALL).
func (p *Parser) parseClearOrDrop(kind ir.UpdateKind) (*ir.UpdateOperation, error) {
	if err := p.advance(); err != nil { // consume 'clear'/'drop'
		return nil, err
	}
	silent, err := p.consumeSilent()
	if err != nil {
		return nil, err
	}
	target, err := p.parseGraphTarget()
	if err != nil {
		return nil, err
	}
	return &ir.UpdateOperation{Kind: kind, Graph: target, Silent: silent}, nil
}

// parseGraphTarget parses "GRAPH <iri>", "DEFAULT", "NAMED", or "ALL",
// returning the IRI or the bare keyword text as a sentinel.
func (p *Parser) parseGraphTarget() (string, error) {
	switch {
	case p.atKeyword("graph"):
		if err := p.advance(); err != nil {
			return "", err
		}
		if p.tok.Kind != lexer.TokenIRI {
			return "", newParseError(ExpectedIRI, "expected an IRI after GRAPH", p.tok.Pos, p.tok.Text)
		}
		iri := p.resolveIRIRef(p.tok.Text)
		return iri, p.advance()
	case p.atKeyword("default"), p.atKeyword("named"), p.atKeyword("all"):
		kw := p.tok.Text
		return kw, p.advance()
	default:
		return "", newParseError(ExpectedToken, "expected GRAPH, DEFAULT, NAMED, or ALL", p.tok.Pos, p.tok.Text)
	}
}

// parseGraphRef parses a COPY/MOVE/ADD endpoint: "DEFAULT" or "GRAPH <iri>".
func (p *Parser) parseGraphRef() (string, error) {
	if p.atKeyword("default") {
		return "default", p.advance()
	}
	if err := p.expectKeyword("graph"); err != nil {
		return "", err
	}
	if p.tok.Kind != lexer.TokenIRI {
		return "", newParseError(ExpectedIRI, "expected an IRI after GRAPH", p.tok.Pos, p.tok.Text)
	}
	iri := p.resolveIRIRef(p.tok.Text)
	return iri, p.advance()
}

func (p *Parser) parseCopyMoveAdd() (*ir.UpdateOperation, error) {
	kw := p.tok.Text
	if err := p.advance(); err != nil {
		return nil, err
	}
	silent, err := p.consumeSilent()
	if err != nil {
		return nil, err
	}
	from, err := p.parseGraphRef()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("to"); err != nil {
		return nil, err
	}
	to, err := p.parseGraphRef()
	if err != nil {
		return nil, err
	}
	var kind ir.UpdateKind
	switch kw {
	case "copy":
		kind = ir.UpdateCopy
	case "move":
		kind = ir.UpdateMove
	default:
		kind = ir.UpdateAdd
	}
	return &ir.UpdateOperation{Kind: kind, FromGraph: from, ToGraph: to, Silent: silent}, nil
}

// parseQuadData parses the braced quad block used by INSERT DATA/DELETE
// DATA: a mix of bare triples (default graph) and "GRAPH <iri> { ... }"
// blocks.
func (p *Parser) parseQuadData() ([]ir.Quad, error) {
	if !p.atPunct("{") {
		return nil, newParseError(UnclosedBrace, "expected '{'", p.tok.Pos, p.tok.Text)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	var quads []ir.Quad
	for !p.atPunct("}") {
		if p.atEOF() {
			return nil, newParseError(UnclosedBrace, "unterminated quad data block", p.tok.Pos, p.tok.Text)
		}
		if p.atPunct(".") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		if p.atKeyword("graph") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.tok.Kind != lexer.TokenIRI {
				return nil, newParseError(ExpectedIRI, "expected an IRI after GRAPH", p.tok.Pos, p.tok.Text)
			}
			graphIRI := p.resolveIRIRef(p.tok.Text)
			if err := p.advance(); err != nil {
				return nil, err
			}
			if !p.atPunct("{") {
				return nil, newParseError(UnclosedBrace, "expected '{' after GRAPH iri", p.tok.Pos, p.tok.Text)
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
			for !p.atPunct("}") {
				if p.atEOF() {
					return nil, newParseError(UnclosedBrace, "unterminated quad data block", p.tok.Pos, p.tok.Text)
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
				for _, t := range triples {
					quads = append(quads, ir.Quad{Triple: t, Graph: graphIRI})
				}
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		triples, err := p.parseTriplesSameSubject()
		if err != nil {
			return nil, err
		}
		for _, t := range triples {
			quads = append(quads, ir.Quad{Triple: t})
		}
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return quads, nil
}

func (p *Parser) parseUsingClauses() ([]string, error) {
	var using []string
	for p.atKeyword("using") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.atKeyword("named") {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		if p.tok.Kind != lexer.TokenIRI {
			return nil, newParseError(ExpectedIRI, "expected an IRI after USING", p.tok.Pos, p.tok.Text)
		}
		using = append(using, p.resolveIRIRef(p.tok.Text))
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return using, nil
}

// parseInsertOrModify parses "INSERT DATA { quads }" or the general
// "INSERT { template } [USING ...] WHERE { pattern }" modify form.
func (p *Parser) parseInsertOrModify(withIRI string, hasWith bool) (*ir.UpdateOperation, error) {
	if err := p.advance(); err != nil { // consume 'insert'
		return nil, err
	}
	if p.atKeyword("data") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		quads, err := p.parseQuadData()
		if err != nil {
			return nil, err
		}
		return &ir.UpdateOperation{Kind: ir.UpdateInsertData, Quads: quads}, nil
	}
	insertTmpl, err := p.parseTriplesBlockBraced()
	if err != nil {
		return nil, err
	}
	using, err := p.parseUsingClauses()
	if err != nil {
		return nil, err
	}
	if !p.atKeyword("where") {
		return nil, newParseError(ExpectedWhere, "expected WHERE in INSERT modify form", p.tok.Pos, p.tok.Text)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	pat, err := p.parseGroupGraphPattern()
	if err != nil {
		return nil, err
	}
	return &ir.UpdateOperation{
		Kind:         ir.UpdateModify,
		WithIRI:      withIRI,
		HasWith:      hasWith,
		InsertClause: insertTmpl,
		Using:        using,
		Pattern:      pat,
	}, nil
}

// parseDeleteOrModify parses "DELETE DATA { quads }", "DELETE WHERE {
// pattern }", or the general "DELETE { template } [INSERT { template }]
// [USING ...] WHERE { pattern }" modify form.
func (p *Parser) parseDeleteOrModify(withIRI string, hasWith bool) (*ir.UpdateOperation, error) {
	if err := p.advance(); err != nil { // consume 'delete'
		return nil, err
	}
	if p.atKeyword("data") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		quads, err := p.parseQuadData()
		if err != nil {
			return nil, err
		}
		return &ir.UpdateOperation{Kind: ir.UpdateDeleteData, Quads: quads}, nil
	}
	if p.atKeyword("where") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		pat, err := p.parseGroupGraphPattern()
		if err != nil {
			return nil, err
		}
		return &ir.UpdateOperation{
			Kind:         ir.UpdateDeleteWhere,
			WithIRI:      withIRI,
			HasWith:      hasWith,
			WherePattern: flattenTriples(pat),
		}, nil
	}
	deleteTmpl, err := p.parseTriplesBlockBraced()
	if err != nil {
		return nil, err
	}
	var insertTmpl []pattern.TriplePattern
	if p.atKeyword("insert") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		insertTmpl, err = p.parseTriplesBlockBraced()
		if err != nil {
			return nil, err
		}
	}
	using, err := p.parseUsingClauses()
	if err != nil {
		return nil, err
	}
	if !p.atKeyword("where") {
		return nil, newParseError(ExpectedWhere, "expected WHERE in DELETE modify form", p.tok.Pos, p.tok.Text)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	pat, err := p.parseGroupGraphPattern()
	if err != nil {
		return nil, err
	}
	return &ir.UpdateOperation{
		Kind:         ir.UpdateModify,
		WithIRI:      withIRI,
		HasWith:      hasWith,
		DeleteClause: deleteTmpl,
		InsertClause: insertTmpl,
		Using:        using,
		Pattern:      pat,
	}, nil
}
