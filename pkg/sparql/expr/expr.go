// Package expr implements the boolean/arithmetic/function expression AST
// shared by FILTER, BIND, HAVING, and projection items: a closed recursive
// variant family over columns, variables, and literals.
package expr

import (
	"fmt"
	"strings"

	"github.com/quanta-ir/sparqlcore/pkg/rdf"
)

// Operator tags the shape of a non-leaf Expression.
type Operator uint8

const (
	OpLiteral Operator = iota
	OpColumn
	OpVariable

	OpNot
	OpNegate
	OpIsNull

	OpEqual
	OpNotEqual
	OpLessThan
	OpLessOrEqual
	OpGreaterThan
	OpGreaterOrEqual

	OpAnd
	OpOr

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod

	OpCall
	OpIn
	OpBetween
)

var operatorNames = map[Operator]string{
	OpLiteral:        "literal",
	OpColumn:         "column",
	OpVariable:       "variable",
	OpNot:            "not",
	OpNegate:         "negate",
	OpIsNull:         "isNull",
	OpEqual:          "equal",
	OpNotEqual:       "notEqual",
	OpLessThan:       "lessThan",
	OpLessOrEqual:    "lessOrEqual",
	OpGreaterThan:    "greaterThan",
	OpGreaterOrEqual: "greaterOrEqual",
	OpAnd:            "and",
	OpOr:             "or",
	OpAdd:            "add",
	OpSub:            "sub",
	OpMul:            "mul",
	OpDiv:            "div",
	OpMod:            "mod",
	OpCall:           "call",
	OpIn:             "in",
	OpBetween:        "between",
}

func (o Operator) String() string {
	if n, ok := operatorNames[o]; ok {
		return n
	}
	return fmt.Sprintf("Operator(%d)", uint8(o))
}

// ColumnRef names a (possibly qualified) relational column.
type ColumnRef struct {
	Table  string // empty when unqualified
	Column string
}

func (c ColumnRef) String() string {
	if c.Table == "" {
		return c.Column
	}
	return c.Table + "." + c.Column
}

func (c ColumnRef) Equal(o ColumnRef) bool {
	return c.Table == o.Table && c.Column == o.Column
}

// Expression is an immutable node in the expression tree. The zero value is
// not meaningful; use the constructors below.
//
// The recursive operand/left/right slots are held by pointer (a struct
// cannot embed itself by value); Operand/Left/Right dereference them back to
// plain Expression values so callers never see the indirection.
type Expression struct {
	op Operator

	literal  rdf.Literal
	column   ColumnRef
	variable string

	callName string
	args     []Expression // call args, or the list operand of In

	operand *Expression // unary/in/between operand
	left    *Expression // binary left, or between lo
	right   *Expression // binary right, or between hi
}

// Op returns the node's variant tag.
func (e Expression) Op() Operator { return e.op }

// Leaf constructors.

func Lit(l rdf.Literal) Expression      { return Expression{op: OpLiteral, literal: l} }
func Column(c ColumnRef) Expression     { return Expression{op: OpColumn, column: c} }
func Variable(name string) Expression   { return Expression{op: OpVariable, variable: name} }

func (e Expression) Literal() rdf.Literal { return e.literal }
func (e Expression) Column_() ColumnRef   { return e.column }
func (e Expression) VariableName() string { return e.variable }

// Unary constructors.

func Not(operand Expression) Expression    { return Expression{op: OpNot, operand: &operand} }
func Negate(operand Expression) Expression  { return Expression{op: OpNegate, operand: &operand} }
func IsNull(operand Expression) Expression  { return Expression{op: OpIsNull, operand: &operand} }

func (e Expression) Operand() Expression {
	if e.operand == nil {
		return Expression{}
	}
	return *e.operand
}

// Binary constructors (comparison, boolean, arithmetic share shape).

func binary(op Operator, left, right Expression) Expression {
	return Expression{op: op, left: &left, right: &right}
}

func Equal(l, r Expression) Expression          { return binary(OpEqual, l, r) }
func NotEqual(l, r Expression) Expression       { return binary(OpNotEqual, l, r) }
func LessThan(l, r Expression) Expression       { return binary(OpLessThan, l, r) }
func LessOrEqual(l, r Expression) Expression    { return binary(OpLessOrEqual, l, r) }
func GreaterThan(l, r Expression) Expression    { return binary(OpGreaterThan, l, r) }
func GreaterOrEqual(l, r Expression) Expression { return binary(OpGreaterOrEqual, l, r) }
func And(l, r Expression) Expression            { return binary(OpAnd, l, r) }
func Or(l, r Expression) Expression             { return binary(OpOr, l, r) }
func Add(l, r Expression) Expression            { return binary(OpAdd, l, r) }
func Sub(l, r Expression) Expression            { return binary(OpSub, l, r) }
func Mul(l, r Expression) Expression            { return binary(OpMul, l, r) }
func Div(l, r Expression) Expression            { return binary(OpDiv, l, r) }
func Mod(l, r Expression) Expression            { return binary(OpMod, l, r) }

func (e Expression) Left() Expression {
	if e.left == nil {
		return Expression{}
	}
	return *e.left
}

func (e Expression) Right() Expression {
	if e.right == nil {
		return Expression{}
	}
	return *e.right
}

// Call builds a function-call expression.
func Call(name string, args []Expression) Expression {
	return Expression{op: OpCall, callName: name, args: args}
}

func (e Expression) CallName() string     { return e.callName }
func (e Expression) Args() []Expression   { return e.args }

// In builds a membership test: operand IN (list...).
func In(operand Expression, list []Expression) Expression {
	return Expression{op: OpIn, operand: &operand, args: list}
}

func (e Expression) List() []Expression { return e.args }

// Between builds a range test: operand BETWEEN lo AND hi.
func Between(operand, lo, hi Expression) Expression {
	return Expression{op: OpBetween, operand: &operand, left: &lo, right: &hi}
}

func (e Expression) Lo() Expression { return e.Left() }
func (e Expression) Hi() Expression { return e.Right() }

// Equal reports structural equality between two expression trees.
func (e Expression) Equal(o Expression) bool {
	if e.op != o.op {
		return false
	}
	switch e.op {
	case OpLiteral:
		return e.literal.Equal(o.literal)
	case OpColumn:
		return e.column.Equal(o.column)
	case OpVariable:
		return e.variable == o.variable
	case OpNot, OpNegate, OpIsNull:
		return e.Operand().Equal(o.Operand())
	case OpEqual, OpNotEqual, OpLessThan, OpLessOrEqual, OpGreaterThan, OpGreaterOrEqual,
		OpAnd, OpOr, OpAdd, OpSub, OpMul, OpDiv, OpMod:
		return e.Left().Equal(o.Left()) && e.Right().Equal(o.Right())
	case OpCall:
		if e.callName != o.callName || len(e.args) != len(o.args) {
			return false
		}
		for i := range e.args {
			if !e.args[i].Equal(o.args[i]) {
				return false
			}
		}
		return true
	case OpIn:
		if !e.Operand().Equal(o.Operand()) || len(e.args) != len(o.args) {
			return false
		}
		for i := range e.args {
			if !e.args[i].Equal(o.args[i]) {
				return false
			}
		}
		return true
	case OpBetween:
		return e.Operand().Equal(o.Operand()) && e.Left().Equal(o.Left()) && e.Right().Equal(o.Right())
	default:
		return false
	}
}

// String renders the expression tree in a terse parenthesized form.
func (e Expression) String() string {
	switch e.op {
	case OpLiteral:
		return e.literal.String()
	case OpColumn:
		return e.column.String()
	case OpVariable:
		return "?" + e.variable
	case OpNot, OpNegate, OpIsNull:
		return fmt.Sprintf("%s(%s)", e.op, e.Operand())
	case OpCall:
		parts := make([]string, len(e.args))
		for i, a := range e.args {
			parts[i] = a.String()
		}
		return fmt.Sprintf("%s(%s)", e.callName, strings.Join(parts, ", "))
	case OpIn:
		parts := make([]string, len(e.args))
		for i, a := range e.args {
			parts[i] = a.String()
		}
		return fmt.Sprintf("%s in (%s)", e.Operand(), strings.Join(parts, ", "))
	case OpBetween:
		return fmt.Sprintf("%s between %s and %s", e.Operand(), e.Left(), e.Right())
	default:
		return fmt.Sprintf("(%s %s %s)", e.Left(), e.op, e.Right())
	}
}
