// File: parser_test.go
// Title: Macro Parser Unit Tests
// Description: Tests for statement structure, operator precedence and
//              associativity, grouping and syntax error reporting.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial parser test suite

package parser

import (
	"errors"
	"strings"
	"testing"

	mdwerror "github.com/msto63/fanucmacro/foundation/core/error"
	mdwlog "github.com/msto63/fanucmacro/foundation/core/log"
	"github.com/msto63/fanucmacro/foundation/macro/ast"
)

func newTestParser() *Parser {
	return New(Options{Logger: mdwlog.Discard()})
}

func TestParser_Parse(t *testing.T) {
	parser := newTestParser()

	tests := []struct {
		name  string
		input string
		want  string // canonical rendering of the program
		stmts int
	}{
		{name: "literal", input: "5", want: "5", stmts: 1},
		{name: "precedence", input: "2+3*4", want: "2 + 3 * 4", stmts: 1},
		{name: "power right assoc", input: "2^3^2", want: "2 ^ 3 ^ 2", stmts: 1},
		{name: "assignment", input: "#1=5", want: "#1 = 5", stmts: 1},
		{name: "assignment without value", input: "#3 =", want: "#3 =", stmts: 1},
		{name: "brackets", input: "[2+3]*4", want: "[2 + 3] * 4", stmts: 1},
		{name: "parens render as brackets", input: "(2+3)*4", want: "[2 + 3] * 4", stmts: 1},
		{name: "negatives", input: "-5 - -#2", want: "-5 - -#2", stmts: 1},
		{name: "newline separated", input: "#1=1\n#2=#1+1\n", want: "#1 = 1\n#2 = #1 + 1", stmts: 2},
		{name: "semicolon separated", input: "#1=1; #1", want: "#1 = 1\n#1", stmts: 2},
		{name: "blank lines and comments", input: "\n\n// header\n#1=2 // two\n\n", want: "#1 = 2", stmts: 1},
		{name: "empty program", input: "", want: "", stmts: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := parser.Parse(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(prog.Statements) != tt.stmts {
				t.Fatalf("expected %d statements, got %d", tt.stmts, len(prog.Statements))
			}
			if got := prog.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParser_Structure(t *testing.T) {
	parser := newTestParser()

	t.Run("power nests to the right", func(t *testing.T) {
		prog, err := parser.Parse("2^3^2")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		stmt := prog.Statements[0].(*ast.ExpressionStatement)
		pow, ok := stmt.Expr.(*ast.MultiplicativeExpr).LHS.(*ast.PowerExpr)
		if !ok {
			t.Fatalf("expected PowerExpr, got %T", stmt.Expr.(*ast.MultiplicativeExpr).LHS)
		}
		if _, ok := pow.Base.(*ast.NumericLiteral); !ok {
			t.Errorf("expected literal base, got %T", pow.Base)
		}
		if _, ok := pow.Exponent.(*ast.PowerExpr); !ok {
			t.Errorf("expected nested PowerExpr exponent, got %T", pow.Exponent)
		}
	})

	t.Run("subtraction folds left", func(t *testing.T) {
		prog, err := parser.Parse("10-3-2")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		add := prog.Statements[0].(*ast.ExpressionStatement).Expr.(*ast.AdditiveExpr)
		if len(add.Terms) != 2 {
			t.Fatalf("expected 2 terms, got %d", len(add.Terms))
		}
		for i, term := range add.Terms {
			if term.Op != ast.OpSub {
				t.Errorf("term %d: expected OpSub, got %v", i, term.Op)
			}
		}
	})

	t.Run("expression without additive terms", func(t *testing.T) {
		tests := []struct {
			input    string
			additive bool
		}{
			{input: "2 * 3", additive: false},
			{input: "#1", additive: false},
			{input: "[1 + 2]", additive: false},
			{input: "1 + 2", additive: true},
			{input: "4 - 1 * 2", additive: true},
		}
		for _, tt := range tests {
			expr, err := parser.ParseExpression(tt.input)
			if err != nil {
				t.Fatalf("ParseExpression(%q) error = %v", tt.input, err)
			}
			_, isAdd := expr.(*ast.AdditiveExpr)
			_, isMul := expr.(*ast.MultiplicativeExpr)
			if isAdd != tt.additive || isMul == tt.additive {
				t.Errorf("ParseExpression(%q) = %T", tt.input, expr)
			}
		}
	})

	t.Run("assignment target", func(t *testing.T) {
		prog, err := parser.Parse("#12 = #3 * 2")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assign, ok := prog.Statements[0].(*ast.Assignment)
		if !ok {
			t.Fatalf("expected Assignment, got %T", prog.Statements[0])
		}
		if r, _ := assign.LHS.Register(); r != 12 {
			t.Errorf("expected register 12, got %d", r)
		}
		if assign.RHS == nil {
			t.Error("expected right-hand side")
		}
	})

	t.Run("negative literal keeps unsigned image", func(t *testing.T) {
		prog, err := parser.Parse("-2.5")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		lit := prog.Statements[0].(*ast.ExpressionStatement).Expr.(*ast.MultiplicativeExpr).LHS.(*ast.NumericLiteral)
		if lit.Image != "2.5" || !lit.Negative {
			t.Errorf("expected image 2.5 negative, got %q negative=%v", lit.Image, lit.Negative)
		}
	})

	t.Run("statement positions", func(t *testing.T) {
		prog, err := parser.Parse("#1 = 1\n  #1 + 1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		pos := prog.Statements[1].Position()
		if pos.Line != 2 || pos.Column != 3 {
			t.Errorf("expected 2:3, got %d:%d", pos.Line, pos.Column)
		}
	})
}

func TestParser_SyntaxErrors(t *testing.T) {
	parser := newTestParser()

	tests := []struct {
		name   string
		input  string
		line   int
		column int
		errMsg string
	}{
		{name: "missing operand", input: "2 +", line: 1, column: 4, errMsg: "unexpected end of statement"},
		{name: "unclosed bracket", input: "[2 + 3", line: 1, column: 7, errMsg: "RIGHT_BRACKET"},
		{name: "mismatched group", input: "(2 + 3]", line: 1, column: 7, errMsg: "RIGHT_PAREN"},
		{name: "hash without register", input: "#", line: 1, column: 2, errMsg: "register number"},
		{name: "fractional register", input: "#1.5 = 2", line: 1, column: 2, errMsg: "register number"},
		{name: "literal target", input: "5 = 2", line: 1, column: 3, errMsg: "left side"},
		{name: "negated target", input: "-#1 = 2", line: 1, column: 5, errMsg: "left side"},
		{name: "expression target", input: "#1 + 1 = 2", line: 1, column: 8, errMsg: "left side"},
		{name: "sign before group", input: "-[1]", line: 1, column: 2, errMsg: "'-' must be followed"},
		{name: "illegal character", input: "#1 = 2\n#2 = $", line: 2, column: 6, errMsg: "illegal character"},
		{name: "NUL between statements", input: "#1 = 5\x00#2 = 3", line: 1, column: 7, errMsg: "illegal character"},
		{name: "NUL in operand", input: "#1 = \x00", line: 1, column: 6, errMsg: "illegal character"},
		{name: "two numbers", input: "1 2", line: 1, column: 3, errMsg: "unexpected token after statement"},
		{name: "double assignment", input: "#1 = #2 = 3", line: 1, column: 9, errMsg: "unexpected token after statement"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse(tt.input)
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("expected *SyntaxError, got %T: %v", err, err)
			}
			if syntaxErr.Line != tt.line || syntaxErr.Column != tt.column {
				t.Errorf("expected position %d:%d, got %d:%d", tt.line, tt.column, syntaxErr.Line, syntaxErr.Column)
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
			}
			if code := mdwerror.GetCode(err); code != mdwerror.CodeMacroSyntax {
				t.Errorf("expected code %s, got %s", mdwerror.CodeMacroSyntax, code)
			}
		})
	}
}

func TestParser_MaxInputLength(t *testing.T) {
	parser := New(Options{Logger: mdwlog.Discard(), MaxInputLength: 4})

	_, err := parser.Parse("#1 = 12345")
	if err == nil {
		t.Fatal("expected error for oversized input")
	}
	if !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %s", mdwerror.GetCode(err))
	}
}

func TestParser_ParseExpression(t *testing.T) {
	parser := newTestParser()

	expr, err := parser.ParseExpression("[#1 + 2] / 4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := expr.String(); got != "[#1 + 2] / 4" {
		t.Errorf("unexpected rendering %q", got)
	}

	for _, input := range []string{"", "#1 = 2", "1; 2"} {
		if _, err := parser.ParseExpression(input); err == nil {
			t.Errorf("ParseExpression(%q): expected error", input)
		}
	}
}
