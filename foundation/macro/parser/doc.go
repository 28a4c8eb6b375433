// File: doc.go
// Title: Macro Parser Package Documentation
// Description: Lexical analysis and parsing of macro source text into
//              syntax trees.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial parser implementation

/*
Package parser turns macro source text into ast.Program values.

Grammar:

	program    := { statement ( NEWLINE | ';' ) }
	statement  := '#' integer '=' [ expression ] | expression
	expression := term { ( '+' | '-' ) term }
	term       := power { ( '*' | '/' ) power }
	power      := primary [ '^' power ]
	primary    := [ '-' ] number | [ '-' ] '#' integer
	            | '[' expression ']' | '(' expression ')'

Comments run from "//" to the end of the line. A leading minus applies only
to a number or a variable reference, so "-2 ^ 2" is (-2) ^ 2.

Every failure is a *SyntaxError carrying a 1-based line and column:

	prog, err := parser.Parse("#1 = 2 + 3 * 4\n#2 = #1 ^ 2")
	if err != nil {
		var se *parser.SyntaxError
		if errors.As(err, &se) {
			fmt.Println(se.Line, se.Column)
		}
	}
*/
package parser
