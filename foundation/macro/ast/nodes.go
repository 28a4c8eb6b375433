// File: nodes.go
// Title: Macro AST Node Definitions
// Description: Defines the closed set of syntax tree nodes for Fanuc-style
//              macro programs: statements, additive and multiplicative
//              expressions, and atomic operands. Every node renders back to
//              canonical macro source through String().
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial AST node definitions

package ast

import (
	"strconv"
	"strings"
)

// Node represents the base interface for all AST nodes
type Node interface {
	// String returns canonical macro source for the node
	String() string

	// Position returns the source position of the node
	Position() Position
}

// Position represents a position in the source code
type Position struct {
	Line   int // Line number (1-based)
	Column int // Column number (1-based)
}

// Statement is implemented by *Assignment and *ExpressionStatement only.
type Statement interface {
	Node
	statementNode()
}

// Expression is implemented by *AdditiveExpr and *MultiplicativeExpr only.
type Expression interface {
	Node
	expressionNode()
}

// Atomic is implemented by *NumericLiteral, *VariableRef, *BracketedExpr
// and *PowerExpr only.
type Atomic interface {
	Node
	atomicNode()
}

// Program is the root node: statements in source order
type Program struct {
	Statements []Statement
}

// Assignment writes the value of RHS to the register named by LHS.
// RHS is nil for "#3 =" which leaves the register untouched.
type Assignment struct {
	LHS *VariableRef
	RHS Expression
	Pos Position
}

// ExpressionStatement is a bare expression whose value is reported to the host
type ExpressionStatement struct {
	Expr Expression
	Pos  Position
}

// AdditiveOperator is + or -
type AdditiveOperator int

const (
	OpAdd AdditiveOperator = iota
	OpSub
)

// MultiplicativeOperator is * or /
type MultiplicativeOperator int

const (
	OpMul MultiplicativeOperator = iota
	OpDiv
)

// AdditiveTerm pairs an operator with its right-hand operand
type AdditiveTerm struct {
	Op      AdditiveOperator
	Operand *MultiplicativeExpr
}

// AdditiveExpr is LHS followed by a left-to-right sequence of +/- terms
type AdditiveExpr struct {
	LHS   *MultiplicativeExpr
	Terms []AdditiveTerm
	Pos   Position
}

// Factor pairs an operator with its right-hand operand
type Factor struct {
	Op      MultiplicativeOperator
	Operand Atomic
}

// MultiplicativeExpr is LHS followed by a left-to-right sequence of * and / factors
type MultiplicativeExpr struct {
	LHS     Atomic
	Factors []Factor
	Pos     Position
}

// NumericLiteral keeps the unsigned textual image; the sign is separate
type NumericLiteral struct {
	Image    string
	Negative bool
	Pos      Position
}

// VariableRef is #<register>, optionally negated
type VariableRef struct {
	Image    string // register digits without '#'
	Negative bool
	Pos      Position
}

// BracketedExpr groups an inner expression
type BracketedExpr struct {
	Inner Expression
	Pos   Position
}

// PowerExpr raises Base to Exponent
type PowerExpr struct {
	Base     Atomic
	Exponent Atomic
	Pos      Position
}

func (*Assignment) statementNode()          {}
func (*ExpressionStatement) statementNode() {}
func (*AdditiveExpr) expressionNode()       {}
func (*MultiplicativeExpr) expressionNode() {}
func (*NumericLiteral) atomicNode()         {}
func (*VariableRef) atomicNode()            {}
func (*BracketedExpr) atomicNode()          {}
func (*PowerExpr) atomicNode()              {}

// NewVariableRef builds a reference to register
func NewVariableRef(register int, negative bool) *VariableRef {
	return &VariableRef{Image: strconv.Itoa(register), Negative: negative}
}

// Register parses the register number from the reference image
func (v *VariableRef) Register() (int, error) {
	return strconv.Atoi(v.Image)
}

// Position implementations

func (p *Program) Position() Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Position()
	}
	return Position{Line: 1, Column: 1}
}
func (a *Assignment) Position() Position          { return a.Pos }
func (s *ExpressionStatement) Position() Position { return s.Pos }
func (e *AdditiveExpr) Position() Position        { return e.Pos }
func (e *MultiplicativeExpr) Position() Position  { return e.Pos }
func (n *NumericLiteral) Position() Position      { return n.Pos }
func (v *VariableRef) Position() Position         { return v.Pos }
func (b *BracketedExpr) Position() Position       { return b.Pos }
func (p *PowerExpr) Position() Position           { return p.Pos }

// String implementations

func (op AdditiveOperator) String() string {
	if op == OpSub {
		return "-"
	}
	return "+"
}

func (op MultiplicativeOperator) String() string {
	if op == OpDiv {
		return "/"
	}
	return "*"
}

func (p *Program) String() string {
	lines := make([]string, len(p.Statements))
	for i, stmt := range p.Statements {
		lines[i] = stmt.String()
	}
	return strings.Join(lines, "\n")
}

func (a *Assignment) String() string {
	if a.RHS == nil {
		return a.LHS.String() + " ="
	}
	return a.LHS.String() + " = " + a.RHS.String()
}

func (s *ExpressionStatement) String() string {
	return s.Expr.String()
}

func (e *AdditiveExpr) String() string {
	var b strings.Builder
	b.WriteString(e.LHS.String())
	for _, term := range e.Terms {
		b.WriteString(" " + term.Op.String() + " ")
		b.WriteString(term.Operand.String())
	}
	return b.String()
}

func (e *MultiplicativeExpr) String() string {
	var b strings.Builder
	b.WriteString(e.LHS.String())
	for _, factor := range e.Factors {
		b.WriteString(" " + factor.Op.String() + " ")
		b.WriteString(factor.Operand.String())
	}
	return b.String()
}

func (n *NumericLiteral) String() string {
	if n.Negative {
		return "-" + n.Image
	}
	return n.Image
}

func (v *VariableRef) String() string {
	if v.Negative {
		return "-#" + v.Image
	}
	return "#" + v.Image
}

func (b *BracketedExpr) String() string {
	return "[" + b.Inner.String() + "]"
}

func (p *PowerExpr) String() string {
	return p.Base.String() + " ^ " + p.Exponent.String()
}
