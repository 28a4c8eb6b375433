// File: evaluator.go
// Title: Macro Expression Evaluator
// Description: Tree-walking evaluator for macro syntax trees. Expressions
//              reduce to values; assignments write to the variable store.
//              Statements run strictly in source order and the first error
//              aborts the run.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial evaluator implementation

package evaluator

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	mdwerror "github.com/msto63/fanucmacro/foundation/core/error"
	mdwlog "github.com/msto63/fanucmacro/foundation/core/log"
	"github.com/msto63/fanucmacro/foundation/macro/ast"
	"github.com/msto63/fanucmacro/foundation/macro/variables"
)

// UnsetVariableError reports an unset register used where a number is required
type UnsetVariableError struct {
	Register variables.Register
	Position ast.Position
	Usage    string // e.g. "operand of '+'"
}

func (e *UnsetVariableError) Error() string {
	return fmt.Sprintf("variable #%d is unset (%s at line %d, column %d)",
		e.Register, e.Usage, e.Position.Line, e.Position.Column)
}

// Code returns the error code for unset variable use
func (e *UnsetVariableError) Code() mdwerror.Code {
	return mdwerror.CodeUnsetVariable
}

// ResultKind classifies the outcome of one statement
type ResultKind int

const (
	KindValue      ResultKind = iota // bare expression
	KindAssignment                   // value written to a register
	KindNoop                         // assignment without a value
)

func (k ResultKind) String() string {
	switch k {
	case KindAssignment:
		return "assign"
	case KindNoop:
		return "noop"
	default:
		return "value"
	}
}

// Result is the outcome of executing one statement
type Result struct {
	Kind      ResultKind
	Statement ast.Statement
	Register  variables.Register // target, for assignments
	Value     Value              // written or produced value
}

// Options configures evaluator behavior
type Options struct {
	Logger *mdwlog.Logger
}

// Evaluator executes syntax trees against one variable store
type Evaluator struct {
	store  *variables.Store
	logger *mdwlog.Logger
}

// New creates an evaluator bound to store
func New(store *variables.Store, opts Options) *Evaluator {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	return &Evaluator{
		store:  store,
		logger: opts.Logger.WithField("component", "macro-evaluator"),
	}
}

// Store returns the variable store the evaluator writes to
func (e *Evaluator) Store() *variables.Store {
	return e.store
}

// Execute runs every statement of prog in order. On failure it returns the
// results of the statements that completed and the error of the first one
// that did not.
func (e *Evaluator) Execute(prog *ast.Program) ([]Result, error) {
	results := make([]Result, 0, len(prog.Statements))

	for i, stmt := range prog.Statements {
		result, err := e.Exec(stmt)
		if err != nil {
			pos := stmt.Position()
			return results, mdwerror.Wrap(err, fmt.Sprintf("statement %d at line %d", i+1, pos.Line)).
				WithOperation("evaluator.Execute").
				WithDetail("statement", i+1).
				WithDetail("line", pos.Line).
				WithDetail("column", pos.Column)
		}
		results = append(results, result)
	}

	e.logger.Debug("Program executed", mdwlog.Fields{
		"statements": len(results),
	})
	return results, nil
}

// Exec runs a single statement
func (e *Evaluator) Exec(stmt ast.Statement) (Result, error) {
	switch s := stmt.(type) {
	case *ast.Assignment:
		return e.execAssignment(s)
	case *ast.ExpressionStatement:
		v, err := e.Eval(s.Expr)
		if err != nil {
			return Result{}, err
		}
		return Result{Kind: KindValue, Statement: s, Value: v}, nil
	}
	return Result{}, mdwerror.New(fmt.Sprintf("unsupported statement %T", stmt)).
		WithCode(mdwerror.CodeMacroEvaluation).
		WithOperation("evaluator.Exec")
}

func (e *Evaluator) execAssignment(s *ast.Assignment) (Result, error) {
	target, err := e.register(s.LHS)
	if err != nil {
		return Result{}, err
	}

	if s.RHS == nil {
		e.logger.Trace("Assignment without value", mdwlog.Fields{"register": int(target)})
		return Result{Kind: KindNoop, Statement: s, Register: target, Value: Unset()}, nil
	}

	v, err := e.Eval(s.RHS)
	if err != nil {
		return Result{}, err
	}
	if err := require(v, "assigned value"); err != nil {
		return Result{}, err
	}
	if err := e.store.Write(target, v.num); err != nil {
		return Result{}, err
	}

	e.logger.Trace("Register written", mdwlog.Fields{
		"register": int(target),
		"value":    v.num,
	})
	return Result{Kind: KindAssignment, Statement: s, Register: target, Value: v}, nil
}

// Eval reduces an expression to a value. A bare variable reference to an
// unset register yields an unset value; using one as an operand fails.
func (e *Evaluator) Eval(expr ast.Expression) (Value, error) {
	switch x := expr.(type) {
	case *ast.AdditiveExpr:
		return e.evalAdditive(x)
	case *ast.MultiplicativeExpr:
		return e.evalMultiplicative(x)
	}
	return Value{}, mdwerror.New(fmt.Sprintf("unsupported expression %T", expr)).
		WithCode(mdwerror.CodeMacroEvaluation).
		WithOperation("evaluator.Eval")
}

func (e *Evaluator) evalAdditive(x *ast.AdditiveExpr) (Value, error) {
	acc, err := e.evalMultiplicative(x.LHS)
	if err != nil || len(x.Terms) == 0 {
		return acc, err
	}

	for _, term := range x.Terms {
		usage := fmt.Sprintf("operand of '%s'", term.Op)
		if err := require(acc, usage); err != nil {
			return Value{}, err
		}
		rhs, err := e.evalMultiplicative(term.Operand)
		if err != nil {
			return Value{}, err
		}
		if err := require(rhs, usage); err != nil {
			return Value{}, err
		}

		switch term.Op {
		case ast.OpAdd:
			acc = Number(acc.num + rhs.num)
		case ast.OpSub:
			acc = Number(acc.num - rhs.num)
		}
	}
	return acc, nil
}

func (e *Evaluator) evalMultiplicative(x *ast.MultiplicativeExpr) (Value, error) {
	acc, err := e.evalAtomic(x.LHS)
	if err != nil || len(x.Factors) == 0 {
		return acc, err
	}

	for _, factor := range x.Factors {
		usage := fmt.Sprintf("operand of '%s'", factor.Op)
		if err := require(acc, usage); err != nil {
			return Value{}, err
		}
		rhs, err := e.evalAtomic(factor.Operand)
		if err != nil {
			return Value{}, err
		}
		if err := require(rhs, usage); err != nil {
			return Value{}, err
		}

		switch factor.Op {
		case ast.OpMul:
			acc = Number(acc.num * rhs.num)
		case ast.OpDiv:
			// IEEE-754: x/0 is ±Inf, 0/0 is NaN
			acc = Number(acc.num / rhs.num)
		}
	}
	return acc, nil
}

func (e *Evaluator) evalAtomic(a ast.Atomic) (Value, error) {
	switch x := a.(type) {
	case *ast.NumericLiteral:
		f, err := parseLiteral(x.Image)
		if err != nil {
			return Value{}, mdwerror.Wrap(err, fmt.Sprintf("invalid numeric literal %q", x.Image)).
				WithCode(mdwerror.CodeMacroEvaluation).
				WithOperation("evaluator.Eval").
				WithDetail("line", x.Pos.Line).
				WithDetail("column", x.Pos.Column)
		}
		if x.Negative {
			f = -f
		}
		return Number(f), nil

	case *ast.VariableRef:
		r, err := e.register(x)
		if err != nil {
			return Value{}, err
		}
		f, set, err := e.store.Read(r)
		if err != nil {
			return Value{}, err
		}
		if !set {
			return unsetFrom(x), nil
		}
		if x.Negative {
			f = -f
		}
		return Number(f), nil

	case *ast.BracketedExpr:
		return e.Eval(x.Inner)

	case *ast.PowerExpr:
		base, err := e.evalAtomic(x.Base)
		if err != nil {
			return Value{}, err
		}
		if err := require(base, "base of '^'"); err != nil {
			return Value{}, err
		}
		exponent, err := e.evalAtomic(x.Exponent)
		if err != nil {
			return Value{}, err
		}
		if err := require(exponent, "exponent of '^'"); err != nil {
			return Value{}, err
		}
		return Number(math.Pow(base.num, exponent.num)), nil
	}

	return Value{}, mdwerror.New(fmt.Sprintf("unsupported operand %T", a)).
		WithCode(mdwerror.CodeMacroEvaluation).
		WithOperation("evaluator.Eval")
}

// register resolves the register number named by ref
func (e *Evaluator) register(ref *ast.VariableRef) (variables.Register, error) {
	r, err := ref.Register()
	if errors.Is(err, strconv.ErrRange) {
		min, max := e.store.Bounds()
		return 0, &variables.OutOfRangeError{Register: math.MaxInt, Image: ref.Image, Min: min, Max: max}
	}
	if err != nil {
		return 0, mdwerror.Wrap(err, fmt.Sprintf("invalid register %q", ref.Image)).
			WithCode(mdwerror.CodeMacroEvaluation).
			WithOperation("evaluator.register").
			WithDetail("line", ref.Pos.Line).
			WithDetail("column", ref.Pos.Column)
	}
	return variables.Register(r), nil
}

// parseLiteral reads integer images base-10 before widening, others as float
func parseLiteral(image string) (float64, error) {
	if !strings.Contains(image, ".") {
		if n, err := strconv.ParseInt(image, 10, 64); err == nil {
			return float64(n), nil
		}
	}
	return strconv.ParseFloat(image, 64)
}

// require fails with UnsetVariableError when v has no number
func require(v Value, usage string) error {
	if v.set {
		return nil
	}
	err := &UnsetVariableError{Usage: usage}
	if v.origin != nil {
		if r, convErr := v.origin.Register(); convErr == nil {
			err.Register = variables.Register(r)
		}
		err.Position = v.origin.Pos
	}
	return err
}
