package transform

import (
	"github.com/heavyql/qkernel/sql/expression"
	"github.com/heavyql/qkernel/sql/plan"
)

// EliminateDeadColumns is rewrite pass 8: it computes, for
// every node in the DAG, the highest column index anything above it ever
// reads, then trims any Project or Aggregate's trailing output columns
// beyond that point. This is a conservative trailing-suffix trim rather
// than a full liveness/compaction pass: shrinking from the end never
// requires renumbering a surviving ColumnRef, so no second DAG pass is
// needed to fix up indices elsewhere. A node nothing above it reads at all
// is left alone rather than eliminated, since a gap-introducing removal
// would require that renumbering.
//
// The root's own output columns are always fully required, since they are
// exactly what the query produces; the root itself is therefore never
// trimmed by this pass.
func EliminateDeadColumns(root plan.Node) (plan.Node, error) {
	required := map[int]int{} // node id -> 1 + highest column index referenced
	walk(root, func(n plan.Node) {
		for _, e := range nodeExprs(n) {
			for _, ref := range columnRefs(e) {
				if w := ref.Index + 1; w > required[ref.ProducingNodeID] {
					required[ref.ProducingNodeID] = w
				}
			}
		}
	})
	rootID := root.ID()
	if w := len(root.Schema()); w > required[rootID] {
		required[rootID] = w
	}

	return Rewrite(root, func(n plan.Node) (plan.Node, bool, error) {
		if n.ID() == rootID {
			return nil, false, nil
		}
		width, ok := required[n.ID()]
		if !ok {
			return nil, false, nil
		}

		switch node := n.(type) {
		case *plan.Project:
			if width >= len(node.Exprs) {
				return nil, false, nil
			}
			return node.WithExprs(node.Exprs[:width], node.FieldNames[:width]), true, nil
		case *plan.Aggregate:
			fullWidth := node.GroupByCount + len(node.Aggs)
			if width >= fullWidth || width < node.GroupByCount {
				return nil, false, nil
			}
			keep := width - node.GroupByCount
			return node.WithAggs(node.Aggs[:keep], node.FieldNames[:node.GroupByCount+keep]), true, nil
		default:
			return nil, false, nil
		}
	})
}

// nodeExprs returns every expression a node directly carries (not
// including its children's), for liveness analysis.
func nodeExprs(n plan.Node) []expression.Expr {
	switch node := n.(type) {
	case *plan.Project:
		return node.Exprs
	case *plan.Filter:
		return []expression.Expr{node.Condition}
	case *plan.Join:
		if node.Condition == nil {
			return nil
		}
		return []expression.Expr{node.Condition}
	case *plan.Sort:
		out := make([]expression.Expr, len(node.Collations))
		for i, c := range node.Collations {
			out[i] = c.Expr
		}
		return out
	case *plan.Aggregate:
		var out []expression.Expr
		for _, agg := range node.Aggs {
			if agg.Arg != nil {
				out = append(out, agg.Arg)
			}
			if agg.Arg1 != nil {
				out = append(out, agg.Arg1)
			}
		}
		return out
	default:
		return nil
	}
}
