// File: nodes_test.go
// Title: Macro AST Tests
// Description: Tests for node rendering and tree traversal.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial tests

package ast

import (
	"math"
	"reflect"
	"testing"
)

func num(image string) *MultiplicativeExpr {
	return &MultiplicativeExpr{LHS: &NumericLiteral{Image: image}}
}

func variable(register int) *MultiplicativeExpr {
	return &MultiplicativeExpr{LHS: NewVariableRef(register, false)}
}

func TestString(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{
			name: "negative literal",
			node: &NumericLiteral{Image: "2.5", Negative: true},
			want: "-2.5",
		},
		{
			name: "negative variable",
			node: NewVariableRef(7, true),
			want: "-#7",
		},
		{
			name: "additive chain",
			node: &AdditiveExpr{
				LHS: num("2"),
				Terms: []AdditiveTerm{
					{Op: OpAdd, Operand: &MultiplicativeExpr{
						LHS:     &NumericLiteral{Image: "3"},
						Factors: []Factor{{Op: OpMul, Operand: &NumericLiteral{Image: "4"}}},
					}},
					{Op: OpSub, Operand: variable(1)},
				},
			},
			want: "2 + 3 * 4 - #1",
		},
		{
			name: "bracket and power",
			node: &PowerExpr{
				Base:     &BracketedExpr{Inner: &AdditiveExpr{LHS: num("1"), Terms: []AdditiveTerm{{Op: OpAdd, Operand: num("1")}}}},
				Exponent: &NumericLiteral{Image: "3"},
			},
			want: "[1 + 1] ^ 3",
		},
		{
			name: "assignment without value",
			node: &Assignment{LHS: NewVariableRef(3, false)},
			want: "#3 =",
		},
		{
			name: "program",
			node: &Program{Statements: []Statement{
				&Assignment{LHS: NewVariableRef(1, false), RHS: &AdditiveExpr{LHS: num("5")}},
				&ExpressionStatement{Expr: &AdditiveExpr{LHS: variable(1)}},
			}},
			want: "#1 = 5\n#1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVariableRefRegister(t *testing.T) {
	ref := &VariableRef{Image: "012"}
	r, err := ref.Register()
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if r != 12 {
		t.Errorf("Register() = %d, want 12", r)
	}

	bad := &VariableRef{Image: "x"}
	if _, err := bad.Register(); err == nil {
		t.Error("expected error for non-numeric image")
	}
}

func TestRegisters(t *testing.T) {
	prog := &Program{Statements: []Statement{
		&Assignment{LHS: NewVariableRef(4, false), RHS: &AdditiveExpr{
			LHS:   variable(2),
			Terms: []AdditiveTerm{{Op: OpAdd, Operand: variable(9)}},
		}},
		&Assignment{LHS: NewVariableRef(2, false)},
		&ExpressionStatement{Expr: &AdditiveExpr{LHS: &MultiplicativeExpr{
			LHS: &PowerExpr{Base: NewVariableRef(4, false), Exponent: NewVariableRef(2, true)},
		}}},
	}}

	if got, want := Registers(prog), []int{2, 4, 9}; !reflect.DeepEqual(got, want) {
		t.Errorf("Registers() = %v, want %v", got, want)
	}
	if got, want := AssignedRegisters(prog), []int{2, 4}; !reflect.DeepEqual(got, want) {
		t.Errorf("AssignedRegisters() = %v, want %v", got, want)
	}
}

func TestRegistersOversizedImage(t *testing.T) {
	big := &VariableRef{Image: "99999999999999999999"}
	prog := &Program{Statements: []Statement{
		&Assignment{LHS: big, RHS: &MultiplicativeExpr{LHS: NewVariableRef(3, false)}},
	}}

	if got, want := Registers(prog), []int{3, math.MaxInt}; !reflect.DeepEqual(got, want) {
		t.Errorf("Registers() = %v, want %v", got, want)
	}
	if got, want := AssignedRegisters(prog), []int{math.MaxInt}; !reflect.DeepEqual(got, want) {
		t.Errorf("AssignedRegisters() = %v, want %v", got, want)
	}
}

func TestInspectSkipsChildren(t *testing.T) {
	expr := &AdditiveExpr{LHS: &MultiplicativeExpr{
		LHS: &BracketedExpr{Inner: &AdditiveExpr{LHS: variable(1)}},
	}}

	count := 0
	Inspect(expr, func(n Node) bool {
		count++
		_, isBracket := n.(*BracketedExpr)
		return !isBracket
	})

	// AdditiveExpr, MultiplicativeExpr, BracketedExpr
	if count != 3 {
		t.Errorf("visited %d nodes, want 3", count)
	}
}

func TestProgramPosition(t *testing.T) {
	empty := &Program{}
	if got := empty.Position(); got != (Position{Line: 1, Column: 1}) {
		t.Errorf("empty Position() = %+v", got)
	}

	prog := &Program{Statements: []Statement{
		&ExpressionStatement{Expr: &AdditiveExpr{LHS: num("1")}, Pos: Position{Line: 3, Column: 2}},
	}}
	if got := prog.Position(); got != (Position{Line: 3, Column: 2}) {
		t.Errorf("Position() = %+v", got)
	}
}
