// Package ast defines the syntax tree of TINY programs.
//
// Every Node carries a Label from a closed set, its structural Children and
// a Next link. Statement sequences such as "s1; s2; s3" are chains
// s1 -> s2 -> s3 through Next; only statements are ever chained. Pos is the
// index of the first token of the construct in the token sequence.
//
// Display attributes such as node shape or whether an edge is drawn are not
// part of the tree; renderers derive them from the labels and the chains.
package ast
