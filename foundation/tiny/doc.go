// Package tiny recognizes programs of the TINY teaching language.
//
// Package: tiny
// Title: TINY Scanner/Parser Engine
// Description: Ties the scanner, the parser and the diagnostics boundary
//              into one driving loop. The subpackages hold the pieces:
//              token (vocabulary), scanner (lexical analysis), ast (syntax
//              tree), parser (recursive descent) and diag (reporters and
//              decisions).
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial engine
//
// Usage:
//
//	engine := tiny.NewEngine(tiny.Options{
//		Logger:   logger,
//		Reporter: diag.Console{W: os.Stderr},
//	})
//	res, err := engine.Run(ctx, tiny.FileSource("factorial.tny"))
//	if errors.Is(err, tiny.ErrTerminated) {
//		return
//	}
//	fmt.Print(ast.Outline(res.Tree))
package tiny
