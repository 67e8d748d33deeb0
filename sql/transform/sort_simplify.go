package transform

import "github.com/heavyql/qkernel/sql/plan"

// SimplifySorts is rewrite pass 2: a Sort directly atop
// another Sort is collapsed into one node. The outer Sort's collation wins
// (it is the order actually observed by anything above), and the effective
// limit is the tighter of the two: the inner Sort's limit only matters if
// the outer one doesn't further restrict the row count. A chain whose inner
// Sort has a non-zero offset is left unmerged.
func SimplifySorts(root plan.Node) (plan.Node, error) {
	return Rewrite(root, func(n plan.Node) (plan.Node, bool, error) {
		outer, ok := n.(*plan.Sort)
		if !ok {
			return nil, false, nil
		}
		inner, ok := outer.Input().(*plan.Sort)
		if !ok || inner.Offset > 0 {
			return nil, false, nil
		}

		limit := outer.Limit
		if limit < 0 {
			limit = inner.Limit
		} else if inner.Limit >= 0 {
			innerRemaining := inner.Limit - outer.Offset
			if innerRemaining < 0 {
				innerRemaining = 0
			}
			if innerRemaining < limit {
				limit = innerRemaining
			}
		}

		collations := outer.Collations
		if len(collations) == 0 {
			collations = inner.Collations
		} else {
			// outer.Collations' ColumnRefs were scoped against inner (its
			// immediate input before the merge); inner is being dropped, so
			// they now target inner's own input at the same column index.
			remap := map[int]int{inner.ID(): inner.Input().ID()}
			remapped := make([]plan.Collation, len(collations))
			for i, c := range collations {
				e, err := remapColumnRefs(c.Expr, remap)
				if err != nil {
					return nil, false, err
				}
				remapped[i] = plan.Collation{Expr: e, Ascending: c.Ascending, NullsLast: c.NullsLast}
			}
			collations = remapped
		}

		merged := plan.NewSort(outer.ID(), collations, limit, outer.Offset, inner.Input())
		return merged, true, nil
	})
}
