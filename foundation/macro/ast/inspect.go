// File: inspect.go
// Title: Macro AST Traversal
// Description: Depth-first traversal over macro syntax trees and helpers
//              built on it.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Inspect and Registers

package ast

import (
	"errors"
	"math"
	"sort"
	"strconv"
)

// Inspect traverses node depth-first in source order, calling f for every
// node. Children are skipped when f returns false.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		for _, stmt := range n.Statements {
			Inspect(stmt, f)
		}
	case *Assignment:
		Inspect(n.LHS, f)
		if n.RHS != nil {
			Inspect(n.RHS, f)
		}
	case *ExpressionStatement:
		Inspect(n.Expr, f)
	case *AdditiveExpr:
		Inspect(n.LHS, f)
		for _, term := range n.Terms {
			Inspect(term.Operand, f)
		}
	case *MultiplicativeExpr:
		Inspect(n.LHS, f)
		for _, factor := range n.Factors {
			Inspect(factor.Operand, f)
		}
	case *BracketedExpr:
		Inspect(n.Inner, f)
	case *PowerExpr:
		Inspect(n.Base, f)
		Inspect(n.Exponent, f)
	case *NumericLiteral, *VariableRef:
		// leaves
	}
}

// Registers returns the sorted, de-duplicated registers referenced by node.
// References whose image is not an integer are skipped; images too large
// for an int are reported as math.MaxInt.
func Registers(node Node) []int {
	seen := make(map[int]bool)
	Inspect(node, func(n Node) bool {
		if ref, ok := n.(*VariableRef); ok {
			if r, ok := registerNumber(ref); ok {
				seen[r] = true
			}
		}
		return true
	})

	registers := make([]int, 0, len(seen))
	for r := range seen {
		registers = append(registers, r)
	}
	sort.Ints(registers)
	return registers
}

// AssignedRegisters returns the sorted, de-duplicated assignment targets of prog
func AssignedRegisters(prog *Program) []int {
	seen := make(map[int]bool)
	for _, stmt := range prog.Statements {
		if a, ok := stmt.(*Assignment); ok {
			if r, ok := registerNumber(a.LHS); ok {
				seen[r] = true
			}
		}
	}

	registers := make([]int, 0, len(seen))
	for r := range seen {
		registers = append(registers, r)
	}
	sort.Ints(registers)
	return registers
}

func registerNumber(ref *VariableRef) (int, bool) {
	r, err := ref.Register()
	if errors.Is(err, strconv.ErrRange) {
		return math.MaxInt, true
	}
	return r, err == nil
}
