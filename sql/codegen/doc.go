// Package codegen is the code generator. Instead of emitting native
// machine code, it compiles an expression.Expr tree into a Go closure —
// row_func — that a query_func loop calls once per row, keeping the
// generated entry point's two-function shape. This generalizes an
// Eval(ctx, row)-style tree-walking interpreter into closures carrying
// explicit null-sentinel, overflow, and error-code semantics, since
// sql/expression is a pure tree of nodes with no Eval method of its own
// (see DESIGN.md).
package codegen
