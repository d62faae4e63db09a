// Package scanner implements the lexical analysis of TINY programs.
//
// The scanner works on whitespace-separated lexemes rather than on
// characters: symbols are padded with blanks, each line is split on
// whitespace, and every resulting lexeme is classified. A "{" lexeme
// starts a comment that ends at the next "}" lexeme. Lexemes that are
// neither keywords nor symbols are split again into letter runs, digit
// runs and single other characters; a single other character is an
// invalid token.
//
// Usage:
//
//	sc := scanner.New(scanner.Options{Logger: logger, Reporter: diag.Console{W: os.Stderr}})
//	tokens, err := sc.Scan("read x; write x")
package scanner
