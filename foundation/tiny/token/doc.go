// Package token defines the lexical vocabulary of the TINY language.
//
// A Token pairs the literal lexeme with one of the closed set of Kinds:
// IDENTIFIER, NUMBER, the eight keywords and the twelve symbols. The
// String form of each kind is part of the contract between scanner and
// parser and never changes.
package token
