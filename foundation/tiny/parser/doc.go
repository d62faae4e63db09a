// Package parser implements the recursive descent parser for TINY.
//
// Grammar:
//
//	program       := stmt_sequence
//	stmt_sequence := statement (";" statement)*
//	statement     := if_stmt | repeat_stmt | assign_stmt | read_stmt | write_stmt
//	if_stmt       := "if" exp "then" stmt_sequence ["else" stmt_sequence] "end"
//	repeat_stmt   := "repeat" stmt_sequence "until" exp
//	assign_stmt   := IDENTIFIER ":=" exp
//	read_stmt     := "read" IDENTIFIER
//	write_stmt    := "write" exp
//	exp           := simple_exp [("<" | "=") simple_exp]
//	simple_exp    := term (("+" | "-") term)*
//	term          := factor (("*" | "/") factor)*
//	factor        := "(" exp ")" | NUMBER | IDENTIFIER
//
// "+ - * /" associate to the left. The comparison does not associate at
// all: "a < b < c" is a syntax error. Statements of a sequence are chained
// through ast.Node.Next.
package parser
