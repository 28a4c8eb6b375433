// File: doc.go
// Title: Macro Evaluator Package Documentation
// Description: Package documentation for the tree-walking evaluator.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial evaluator implementation

/*
Package evaluator executes macro syntax trees against a variables.Store.

Arithmetic is IEEE 754 double precision. Division by zero yields an infinity
or NaN, and '^' follows math.Pow. A variable that was never assigned reads as
unset. An unset value may be the result of a bare expression statement, but
using it as an operand or assigning it fails with *UnsetVariableError.
*/
package evaluator
