// File: parser.go
// Title: Macro Recursive Descent Parser
// Description: Converts macro token streams into syntax trees using
//              recursive descent. Statements are separated by newlines or
//              semicolons; operators follow conventional precedence with a
//              right-associative power operator.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial parser implementation

package parser

import (
	"fmt"
	"strings"

	mdwerror "github.com/msto63/fanucmacro/foundation/core/error"
	mdwlog "github.com/msto63/fanucmacro/foundation/core/log"
	"github.com/msto63/fanucmacro/foundation/macro/ast"
)

// DefaultMaxInputLength bounds the size of a single parse call
const DefaultMaxInputLength = 1 << 20

// Parser implements recursive descent parsing for macro programs
type Parser struct {
	lexer   *Lexer
	current Token // Current token
	logger  *mdwlog.Logger
	options Options
}

// Options configures parser behavior
type Options struct {
	Logger         *mdwlog.Logger
	MaxInputLength int
}

// SyntaxError represents a parsing error with position information
type SyntaxError struct {
	Message string
	Line    int
	Column  int
	Token   Token
}

func newSyntaxError(message string, tok Token) *SyntaxError {
	return &SyntaxError{Message: message, Line: tok.Line, Column: tok.Column, Token: tok}
}

func (se *SyntaxError) Error() string {
	near := se.Token.Value
	switch se.Token.Type {
	case TokenEOF:
		near = "end of input"
	case TokenNewline:
		near = "end of line"
	}
	return fmt.Sprintf("syntax error at line %d, column %d: %s (near '%s')",
		se.Line, se.Column, se.Message, near)
}

// Code returns the error code for syntax errors
func (se *SyntaxError) Code() mdwerror.Code {
	return mdwerror.CodeMacroSyntax
}

// New creates a new macro parser with the given options
func New(opts Options) *Parser {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	if opts.MaxInputLength == 0 {
		opts.MaxInputLength = DefaultMaxInputLength
	}

	return &Parser{
		logger:  opts.Logger.WithField("component", "macro-parser"),
		options: opts,
	}
}

// Parse parses a complete macro program
func (p *Parser) Parse(input string) (*ast.Program, error) {
	if err := p.reset(input); err != nil {
		return nil, err
	}

	p.logger.Debug("Starting macro parsing", mdwlog.Fields{
		"length": len(input),
	})

	prog, err := p.parseProgram()
	if err != nil {
		p.logger.Debug("Macro parsing failed", mdwlog.Fields{
			"error": err.Error(),
		})
		return nil, err
	}

	p.logger.Debug("Macro parsing completed", mdwlog.Fields{
		"statements": len(prog.Statements),
	})

	return prog, nil
}

// ParseExpression parses input that must hold exactly one expression
func (p *Parser) ParseExpression(input string) (ast.Expression, error) {
	if err := p.reset(input); err != nil {
		return nil, err
	}
	if p.current.Type == TokenEOF {
		return nil, p.syntaxError("expected expression")
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.current.Type != TokenEOF {
		return nil, p.syntaxError(fmt.Sprintf("unexpected token after expression: %s", p.current.Type))
	}
	return expr, nil
}

func (p *Parser) reset(input string) error {
	if len(input) > p.options.MaxInputLength {
		return mdwerror.New(fmt.Sprintf("input exceeds maximum length: %d > %d",
			len(input), p.options.MaxInputLength)).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("parser.Parse")
	}
	p.lexer = NewLexer(input)
	p.advance()
	return nil
}

// parseProgram parses statements separated by newlines or semicolons
func (p *Parser) parseProgram() (*ast.Program, error) {
	prog := &ast.Program{}

	for {
		for p.atSeparator() {
			p.advance()
		}
		if p.current.Type == TokenEOF {
			return prog, nil
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)

		if p.current.Type == TokenIllegal {
			return nil, p.syntaxError(fmt.Sprintf("illegal character %q", p.current.Value))
		}
		if !p.atSeparator() && p.current.Type != TokenEOF {
			return nil, p.syntaxError(fmt.Sprintf("unexpected token after statement: %s", p.current.Type))
		}
	}
}

// parseStatement parses an assignment or a bare expression. The left side
// is parsed as an expression first; it becomes an assignment target only
// when it is a single non-negated variable reference followed by '='.
func (p *Parser) parseStatement() (ast.Statement, error) {
	pos := p.currentPosition()

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if p.current.Type != TokenEquals {
		return &ast.ExpressionStatement{Expr: expr, Pos: pos}, nil
	}

	target, ok := assignmentTarget(expr)
	if !ok {
		return nil, p.syntaxError("left side of '=' must be a variable such as #1")
	}
	p.advance() // consume '='

	if p.atSeparator() || p.current.Type == TokenEOF {
		return &ast.Assignment{LHS: target, Pos: pos}, nil
	}

	rhs, err := p.parseExpression()
	if err != nil {
		return nil, fmt.Errorf("assignment to %s: %w", target, err)
	}
	return &ast.Assignment{LHS: target, RHS: rhs, Pos: pos}, nil
}

func assignmentTarget(expr ast.Expression) (*ast.VariableRef, bool) {
	mul, ok := expr.(*ast.MultiplicativeExpr)
	if !ok || len(mul.Factors) > 0 {
		return nil, false
	}
	ref, ok := mul.LHS.(*ast.VariableRef)
	if !ok || ref.Negative {
		return nil, false
	}
	return ref, true
}

// parseExpression parses term { ('+'|'-') term }
func (p *Parser) parseExpression() (ast.Expression, error) {
	expr, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if len(expr.Terms) == 0 {
		return expr.LHS, nil
	}
	return expr, nil
}

func (p *Parser) parseAdditive() (*ast.AdditiveExpr, error) {
	pos := p.currentPosition()

	lhs, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	expr := &ast.AdditiveExpr{LHS: lhs, Pos: pos}

	for p.current.Type == TokenPlus || p.current.Type == TokenMinus {
		op := ast.OpAdd
		if p.current.Type == TokenMinus {
			op = ast.OpSub
		}
		p.advance()

		operand, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		expr.Terms = append(expr.Terms, ast.AdditiveTerm{Op: op, Operand: operand})
	}

	return expr, nil
}

// parseMultiplicative parses power { ('*'|'/') power }
func (p *Parser) parseMultiplicative() (*ast.MultiplicativeExpr, error) {
	pos := p.currentPosition()

	lhs, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	expr := &ast.MultiplicativeExpr{LHS: lhs, Pos: pos}

	for p.current.Type == TokenStar || p.current.Type == TokenSlash {
		op := ast.OpMul
		if p.current.Type == TokenSlash {
			op = ast.OpDiv
		}
		p.advance()

		operand, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		expr.Factors = append(expr.Factors, ast.Factor{Op: op, Operand: operand})
	}

	return expr, nil
}

// parsePower parses primary [ '^' power ]
func (p *Parser) parsePower() (ast.Atomic, error) {
	pos := p.currentPosition()

	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.current.Type != TokenCaret {
		return base, nil
	}
	p.advance()

	exponent, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	return &ast.PowerExpr{Base: base, Exponent: exponent, Pos: pos}, nil
}

// parsePrimary parses literals, variable references and bracketed groups
func (p *Parser) parsePrimary() (ast.Atomic, error) {
	pos := p.currentPosition()

	negative := false
	if p.current.Type == TokenMinus {
		negative = true
		p.advance()
		if p.current.Type != TokenNumber && p.current.Type != TokenHash {
			return nil, p.syntaxError("'-' must be followed by a number or variable")
		}
	}

	switch p.current.Type {
	case TokenNumber:
		lit := &ast.NumericLiteral{Image: p.current.Value, Negative: negative, Pos: pos}
		p.advance()
		return lit, nil

	case TokenHash:
		p.advance()
		if p.current.Type != TokenNumber || strings.Contains(p.current.Value, ".") {
			return nil, p.syntaxError("expected register number after '#'")
		}
		ref := &ast.VariableRef{Image: p.current.Value, Negative: negative, Pos: pos}
		p.advance()
		return ref, nil

	case TokenLeftBracket, TokenLeftParen:
		closing := TokenRightBracket
		if p.current.Type == TokenLeftParen {
			closing = TokenRightParen
		}
		p.advance()

		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if p.current.Type != closing {
			return nil, p.syntaxError(fmt.Sprintf("expected %s to close group", closing))
		}
		p.advance()
		return &ast.BracketedExpr{Inner: inner, Pos: pos}, nil

	case TokenIllegal:
		return nil, p.syntaxError(fmt.Sprintf("illegal character %q", p.current.Value))

	case TokenEOF, TokenNewline, TokenSemicolon:
		return nil, p.syntaxError("unexpected end of statement")
	}

	return nil, p.syntaxError(fmt.Sprintf("unexpected token in expression: %s", p.current.Type))
}

// Utility methods

// advance moves to the next token
func (p *Parser) advance() {
	p.current = p.lexer.NextToken()
}

func (p *Parser) atSeparator() bool {
	return p.current.Type == TokenNewline || p.current.Type == TokenSemicolon
}

// currentPosition returns the current AST position
func (p *Parser) currentPosition() ast.Position {
	return ast.Position{Line: p.current.Line, Column: p.current.Column}
}

// syntaxError creates a syntax error at the current token
func (p *Parser) syntaxError(message string) error {
	return newSyntaxError(message, p.current)
}

// Parse parses input with a default parser
func Parse(input string) (*ast.Program, error) {
	return New(Options{}).Parse(input)
}
