// Package transform implements the DAG rewrite pipeline of: ten
// passes applied once, in order, each preserving the set of columns
// observable at the root and the typed, DAG-consistent ColumnRef invariant.
package transform

import "github.com/heavyql/qkernel/sql/plan"

// NodeRewriteFunc produces a replacement for a node, or (nil, false, nil)
// to leave it as-is.
type NodeRewriteFunc func(plan.Node) (replacement plan.Node, replaced bool, err error)

// nodeRewriter applies a NodeRewriteFunc bottom-up across a DAG, memoizing
// by pointer identity so a node shared by multiple parents is visited once,
// mirroring sql/visit.Rewriter's treatment of shared expression subtrees.
type nodeRewriter struct {
	fn   NodeRewriteFunc
	memo map[plan.Node]plan.Node
}

func newNodeRewriter(fn NodeRewriteFunc) *nodeRewriter {
	return &nodeRewriter{fn: fn, memo: make(map[plan.Node]plan.Node)}
}

func (r *nodeRewriter) rewrite(n plan.Node) (plan.Node, error) {
	if cached, ok := r.memo[n]; ok {
		return cached, nil
	}

	children := n.Children()
	var newChildren []plan.Node
	changed := false
	if len(children) > 0 {
		newChildren = make([]plan.Node, len(children))
		for i, c := range children {
			nc, err := r.rewrite(c)
			if err != nil {
				return nil, err
			}
			newChildren[i] = nc
			if nc != c {
				changed = true
			}
		}
	}

	current := n
	if changed {
		var err error
		current, err = n.WithChildren(newChildren...)
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

	r.memo[n] = current
	return current, nil
}

// Rewrite applies fn bottom-up over root's DAG once.
func Rewrite(root plan.Node, fn NodeRewriteFunc) (plan.Node, error) {
	return newNodeRewriter(fn).rewrite(root)
}

// walk invokes visit on every node in root's DAG exactly once (pre-order,
// by pointer identity), for passes that need to observe the whole graph
// before deciding what to rewrite (e.g. liveness analysis).
func walk(root plan.Node, visit func(plan.Node)) {
	seen := make(map[plan.Node]bool)
	var rec func(plan.Node)
	rec = func(n plan.Node) {
		if seen[n] {
			return
		}
		seen[n] = true
		visit(n)
		for _, c := range n.Children() {
			rec(c)
		}
	}
	rec(root)
}

// Pipeline runs the ten-pass rewrite pipeline over root once, in order.
func Pipeline(root plan.Node) (plan.Node, error) {
	passes := []func(plan.Node) (plan.Node, error){
		MarkNops,
		SimplifySorts,
		SinkProjectThroughJoin,
		EliminateIdentityProjects,
		InsertJoinProjections,
		FoldFilters,
		HoistCrossJoinFilters,
		EliminateDeadColumns,
		EliminateDeadSubqueries,
		SeparateWindowFunctions,
	}
	current := root
	for _, pass := range passes {
		next, err := pass(current)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}
