package transform

import (
	"github.com/heavyql/qkernel/sql/expression"
	"github.com/heavyql/qkernel/sql/plan"
	"github.com/heavyql/qkernel/sql/visit"
)

// maxNodeID returns the largest Node.ID() anywhere in root's DAG, used to
// allocate fresh ids for synthesized nodes.
func maxNodeID(root plan.Node) int {
	max := root.ID()
	walk(root, func(n plan.Node) {
		if n.ID() > max {
			max = n.ID()
		}
	})
	return max
}

// splitConjuncts decomposes a boolean expression into its top-level AND
// operands.
func splitConjuncts(e expression.Expr) []expression.Expr {
	if bo, ok := e.(*expression.BinOper); ok && bo.Op == expression.OpAnd {
		return append(splitConjuncts(bo.LHS), splitConjuncts(bo.RHS)...)
	}
	return []expression.Expr{e}
}

// joinConjuncts rebuilds a single boolean expression ANDing conjuncts
// together, left-associatively.
func joinConjuncts(conjuncts []expression.Expr) expression.Expr {
	if len(conjuncts) == 0 {
		return nil
	}
	result := conjuncts[0]
	for _, c := range conjuncts[1:] {
		result = expression.NewBinOper(result.Type(), expression.OpAnd, expression.QualOne, result, c)
	}
	return result
}

// columnRefs collects every ColumnRef node reachable within e.
func columnRefs(e expression.Expr) []*expression.ColumnRef {
	found := visit.Collect(e, func(n expression.Expr) bool {
		_, ok := n.(*expression.ColumnRef)
		return ok
	})
	out := make([]*expression.ColumnRef, len(found))
	for i, f := range found {
		out[i] = f.(*expression.ColumnRef)
	}
	return out
}

// exprsEqualAsColumnCopy reports whether exprs is exactly a 1:1, in-order
// ColumnRef copy of every column produced by input, i.e. the Project that
// carries it does nothing but rename.
func exprsEqualAsColumnCopy(exprs []expression.Expr, input plan.Node) bool {
	schema := input.Schema()
	if len(exprs) != len(schema) {
		return false
	}
	for i, e := range exprs {
		ref, ok := e.(*expression.ColumnRef)
		if !ok {
			return false
		}
		if ref.ProducingNodeID != input.ID() || ref.Index != i {
			return false
		}
	}
	return true
}

// remapColumnRefs rewrites every ColumnRef(oldID, idx) in e to
// ColumnRef(remap[oldID], idx), leaving everything else untouched. Used
// whenever a pass eliminates a node in favor of a schema-compatible
// survivor (same columns, same order) so expressions that still mention
// the eliminated node's id keep resolving correctly.
func remapColumnRefs(e expression.Expr, remap map[int]int) (expression.Expr, error) {
	if e == nil {
		return nil, nil
	}
	return visit.NewRewriter(func(n expression.Expr) (expression.Expr, bool, error) {
		ref, ok := n.(*expression.ColumnRef)
		if !ok {
			return nil, false, nil
		}
		newID, ok := remap[ref.ProducingNodeID]
		if !ok {
			return nil, false, nil
		}
		return expression.NewColumnRef(ref.Type(), newID, ref.Index), true, nil
	}).Rewrite(e)
}

// remapNodeExprs rewrites the expressions a node directly carries (its
// Project targetlist, Filter/Join condition, Sort collations, or Aggregate
// argument expressions) via remapColumnRefs, returning a new node only if
// something actually changed.
func remapNodeExprs(n plan.Node, remap map[int]int) (plan.Node, bool, error) {
	if len(remap) == 0 {
		return n, false, nil
	}
	switch node := n.(type) {
	case *plan.Project:
		newExprs := make([]expression.Expr, len(node.Exprs))
		changed := false
		for i, e := range node.Exprs {
			re, err := remapColumnRefs(e, remap)
			if err != nil {
				return nil, false, err
			}
			newExprs[i] = re
			if re != e {
				changed = true
			}
		}
		if !changed {
			return n, false, nil
		}
		return node.WithExprs(newExprs, node.FieldNames), true, nil
	case *plan.Filter:
		re, err := remapColumnRefs(node.Condition, remap)
		if err != nil {
			return nil, false, err
		}
		if re == node.Condition {
			return n, false, nil
		}
		return node.WithCondition(re), true, nil
	case *plan.Join:
		if node.Condition == nil {
			return n, false, nil
		}
		re, err := remapColumnRefs(node.Condition, remap)
		if err != nil {
			return nil, false, err
		}
		if re == node.Condition {
			return n, false, nil
		}
		return node.WithCondition(re), true, nil
	case *plan.Sort:
		changed := false
		newCollations := make([]plan.Collation, len(node.Collations))
		for i, c := range node.Collations {
			re, err := remapColumnRefs(c.Expr, remap)
			if err != nil {
				return nil, false, err
			}
			newCollations[i] = plan.Collation{Expr: re, Ascending: c.Ascending, NullsLast: c.NullsLast}
			if re != c.Expr {
				changed = true
			}
		}
		if !changed {
			return n, false, nil
		}
		return plan.NewSort(node.ID(), newCollations, node.Limit, node.Offset, node.Input()), true, nil
	case *plan.Aggregate:
		changed := false
		newAggs := make([]*expression.AggExpr, len(node.Aggs))
		for i, agg := range node.Aggs {
			arg, err := remapColumnRefs(agg.Arg, remap)
			if err != nil {
				return nil, false, err
			}
			arg1, err := remapColumnRefs(agg.Arg1, remap)
			if err != nil {
				return nil, false, err
			}
			if arg != agg.Arg || arg1 != agg.Arg1 {
				changed = true
				newAggs[i] = expression.NewAggExpr(agg.Type(), agg.Kind, arg, agg.IsDistinct, arg1, agg.Interpolation)
			} else {
				newAggs[i] = agg
			}
		}
		if !changed {
			return n, false, nil
		}
		return node.WithAggs(newAggs, node.FieldNames), true, nil
	default:
		return n, false, nil
	}
}
