// File: value.go
// Title: Macro Evaluation Values
// Description: The evaluator's value domain: a float64 that may be unset.
//              Unset values remember the variable reference they came from
//              so errors can name the offending register.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial value type

package evaluator

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/msto63/fanucmacro/foundation/macro/ast"
)

// Value is the result of evaluating an expression
type Value struct {
	num    float64
	set    bool
	origin *ast.VariableRef // reference that produced an unset value
}

// Number returns a set value
func Number(v float64) Value {
	return Value{num: v, set: true}
}

// Unset returns a value with no number
func Unset() Value {
	return Value{}
}

func unsetFrom(ref *ast.VariableRef) Value {
	return Value{origin: ref}
}

// IsSet reports whether the value holds a number
func (v Value) IsSet() bool {
	return v.set
}

// Float returns the number, or 0 for an unset value
func (v Value) Float() float64 {
	return v.num
}

// String formats the number in shortest form, or "unset"
func (v Value) String() string {
	if !v.set {
		return "unset"
	}
	return FormatNumber(v.num)
}

// MarshalJSON encodes unset as null and non-finite numbers as strings
func (v Value) MarshalJSON() ([]byte, error) {
	switch {
	case !v.set:
		return []byte("null"), nil
	case math.IsInf(v.num, 0) || math.IsNaN(v.num):
		return json.Marshal(FormatNumber(v.num))
	}
	return json.Marshal(v.num)
}

// FormatNumber renders f the way macro values are displayed
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
