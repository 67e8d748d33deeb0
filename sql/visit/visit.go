// Package visit implements the visitor/rewriter framework: the only
// sanctioned way to traverse or transform an expression tree. Go
// generics stand in for a double-dispatch visitor template — callers
// pattern match via a type switch inside their visit function instead of
// one method per node kind.
package visit

import "github.com/heavyql/qkernel/sql/expression"

// VisitFunc inspects a node and optionally produces a result without
// descending into its children (the "early return" a hand-written
// double-dispatch visitor gets from overriding a base-case method).
type VisitFunc[T any] func(expression.Expr) (result T, stop bool)

// AggregateFunc combines the traversal's running result with a child's
// result, matching "aggregateResult(prev, next) hook".
type AggregateFunc[T any] func(prev, next T) T

// Visit performs a DFS pre-order traversal of e. For each node, visit is
// called first; if it reports stop=true, that result is taken as-is and
// traversal does not descend into the node's children. Otherwise the
// node's children are visited in order and their results folded together
// with aggregate, seeded with zero.
func Visit[T any](e expression.Expr, fn VisitFunc[T], aggregate AggregateFunc[T], zero T) T {
	if result, stop := fn(e); stop {
		return result
	}
	result := zero
	for _, child := range e.Children() {
		result = aggregate(result, Visit(child, fn, aggregate, zero))
	}
	return result
}

// Any is a convenience aggregate for boolean searches ("does any node
// satisfy...").
func Any(prev, next bool) bool { return prev || next }

// Collect runs a predicate over every node in the tree and returns the
// matches in pre-order.
func Collect(e expression.Expr, predicate func(expression.Expr) bool) []expression.Expr {
	var out []expression.Expr
	Visit(e, func(n expression.Expr) ([]expression.Expr, bool) {
		if predicate(n) {
			out = append(out, n)
		}
		return nil, false
	}, func(prev, next []expression.Expr) []expression.Expr { return prev }, nil)
	return out
}

// RewriteFunc produces a replacement for a node, or (nil, false, nil) to
// leave it (and let Rewrite descend into its children instead).
type RewriteFunc func(expression.Expr) (replacement expression.Expr, replaced bool, err error)

// Rewriter applies a RewriteFunc bottom-up across a tree, memoizing by
// pointer identity so that a node shared by multiple parents in a DAG is
// rewritten exactly once.
type Rewriter struct {
	fn    RewriteFunc
	memo  map[expression.Expr]expression.Expr
}

func NewRewriter(fn RewriteFunc) *Rewriter {
	return &Rewriter{fn: fn, memo: make(map[expression.Expr]expression.Expr)}
}

// Rewrite transforms e, rewriting children first (bottom-up) and then
// offering the (possibly already-rewritten) node to fn.
func (r *Rewriter) Rewrite(e expression.Expr) (expression.Expr, error) {
	if cached, ok := r.memo[e]; ok {
		return cached, nil
	}

	children := e.Children()
	var newChildren []expression.Expr
	changed := false
	if len(children) > 0 {
		newChildren = make([]expression.Expr, len(children))
		for i, c := range children {
			nc, err := r.Rewrite(c)
			if err != nil {
				return nil, err
			}
			newChildren[i] = nc
			if nc != c {
				changed = true
			}
		}
	}

	current := e
	if changed {
		var err error
		current, err = e.WithChildren(newChildren...)
		if err != nil {
			return nil, err
		}
	}

	replacement, replaced, err := r.fn(current)
	if err != nil {
		return nil, err
	}
	if replaced {
		current = replacement
	}

	r.memo[e] = current
	return current, nil
}
