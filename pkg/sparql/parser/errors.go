package parser

import (
	"fmt"

	"github.com/quanta-ir/sparqlcore/pkg/sparql/lexer"
)

// ErrorKind is the closed enumeration of parse-error kinds.
type ErrorKind uint8

const (
	EmptyInput ErrorKind = iota
	UnknownQueryForm
	UnterminatedString
	InvalidEscape
	NumericOutOfRange
	UnclosedBrace
	UnclosedBracket
	UnclosedParen
	UnclosedQuotedTriple
	ExpectedToken
	ExpectedIRI
	ExpectedWhere
	ExpectedLBrace
	ExpectedVersionString
	MalformedConstruct
	UnexpectedTrailingInput
)

var errorKindNames = [...]string{
	"EmptyInput", "UnknownQueryForm", "UnterminatedString", "InvalidEscape",
	"NumericOutOfRange", "UnclosedBrace", "UnclosedBracket", "UnclosedParen",
	"UnclosedQuotedTriple", "ExpectedToken", "ExpectedIRI", "ExpectedWhere",
	"ExpectedLBrace", "ExpectedVersionString", "MalformedConstruct",
	"UnexpectedTrailingInput",
}

func (k ErrorKind) String() string {
	if int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

// ParseError reports a fatal, unrecovered parse failure with its source
// position and a snippet of the offending token text.
type ParseError struct {
	Kind    ErrorKind
	Message string
	Line    int
	Column  int
	Snippet string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at %d:%d: %s (near %q)", e.Kind, e.Line, e.Column, e.Message, e.Snippet)
}

func newParseError(kind ErrorKind, message string, pos lexer.Position, tokenText string) *ParseError {
	return &ParseError{Kind: kind, Message: message, Line: pos.Line, Column: pos.Column, Snippet: tokenText}
}
