// File: lexer.go
// Title: Macro Lexical Analyzer (Tokenizer)
// Description: Converts Fanuc-style macro source into a token stream with
//              line and column information for error reporting. Newlines
//              are significant: they terminate statements.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial lexer implementation

package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// TokenType represents the type of a lexical token
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenIllegal

	// Literals
	TokenNumber // 5, 2.5, .5

	// Operators
	TokenHash   // #
	TokenEquals // =
	TokenPlus   // +
	TokenMinus  // -
	TokenStar   // *
	TokenSlash  // /
	TokenCaret  // ^

	// Delimiters
	TokenLeftBracket  // [
	TokenRightBracket // ]
	TokenLeftParen    // (
	TokenRightParen   // )
	TokenSemicolon    // ;
	TokenNewline      // \n
)

// Token represents a lexical token with position information
type Token struct {
	Type     TokenType // Token type
	Value    string    // Token text
	Position int       // Byte position in input
	Line     int       // Line number (1-based)
	Column   int       // Column number (1-based)
}

// String returns a string representation of the token
func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "EOF"
	case TokenNewline:
		return "NEWLINE"
	default:
		return fmt.Sprintf("%s(%s)", t.Type.String(), t.Value)
	}
}

var tokenNames = map[TokenType]string{
	TokenEOF:          "EOF",
	TokenIllegal:      "ILLEGAL",
	TokenNumber:       "NUMBER",
	TokenHash:         "HASH",
	TokenEquals:       "EQUALS",
	TokenPlus:         "PLUS",
	TokenMinus:        "MINUS",
	TokenStar:         "STAR",
	TokenSlash:        "SLASH",
	TokenCaret:        "CARET",
	TokenLeftBracket:  "LEFT_BRACKET",
	TokenRightBracket: "RIGHT_BRACKET",
	TokenLeftParen:    "LEFT_PAREN",
	TokenRightParen:   "RIGHT_PAREN",
	TokenSemicolon:    "SEMICOLON",
	TokenNewline:      "NEWLINE",
}

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return "UNKNOWN"
}

var singleCharTokens = map[byte]TokenType{
	'#':  TokenHash,
	'=':  TokenEquals,
	'+':  TokenPlus,
	'-':  TokenMinus,
	'*':  TokenStar,
	'/':  TokenSlash,
	'^':  TokenCaret,
	'[':  TokenLeftBracket,
	']':  TokenRightBracket,
	'(':  TokenLeftParen,
	')':  TokenRightParen,
	';':  TokenSemicolon,
	'\n': TokenNewline,
}

// Lexer performs lexical analysis of macro input
type Lexer struct {
	input    string // Input string
	position int    // Current position in input (points to current char)
	readPos  int    // Current reading position (after current char)
	ch       byte   // Current char under examination
	line     int    // Current line number (1-based)
	column   int    // Current column number (1-based)
}

// NewLexer creates a new lexer for the given input
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
	}
	l.readChar()
	return l
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	pos, line, column := l.position, l.line, l.column

	if l.atEOF() {
		return Token{Type: TokenEOF, Position: pos, Line: line, Column: column}
	}

	if isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())) {
		return Token{Type: TokenNumber, Value: l.readNumber(), Position: pos, Line: line, Column: column}
	}

	tokenType, ok := singleCharTokens[l.ch]
	if !ok {
		tokenType = TokenIllegal
	}
	tok := Token{Type: tokenType, Value: string(l.ch), Position: pos, Line: line, Column: column}
	l.readChar()
	return tok
}

// Tokenize returns all tokens from the input as a slice
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token

	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)

		if tok.Type == TokenEOF {
			break
		}

		if tok.Type == TokenIllegal {
			return tokens, newSyntaxError(fmt.Sprintf("illegal character %q", tok.Value), tok)
		}
	}

	return tokens, nil
}

// readChar reads the next character and advances position
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}

	l.position = l.readPos
	l.readPos++
	l.column++
}

// atEOF reports whether the whole input has been consumed. A NUL byte
// inside the input is an ordinary, illegal character.
func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

// peekChar returns the next character without advancing position
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// readNumber reads a decimal literal: digits with an optional fraction
func (l *Lexer) readNumber() string {
	start := l.position

	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	return l.input[start:l.position]
}

// skipWhitespaceAndComments skips blanks and // comments, stopping at newlines
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && !l.atEOF() {
				l.readChar()
			}
		default:
			return
		}
	}
}

// isDigit checks if the character is a digit
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// IsValidNumber checks if a string is a valid macro numeric literal
func IsValidNumber(s string) bool {
	if strings.TrimSpace(s) != s || s == "" {
		return false
	}
	tokens, err := NewLexer(s).Tokenize()
	if err != nil || len(tokens) != 2 || tokens[0].Type != TokenNumber {
		return false
	}
	_, err = strconv.ParseFloat(s, 64)
	return err == nil
}

// TokenizeInput is a convenience function that tokenizes input and returns tokens or error
func TokenizeInput(input string) ([]Token, error) {
	return NewLexer(input).Tokenize()
}
