package transform

import "github.com/heavyql/qkernel/sql/plan"

// FoldFilters is rewrite pass 6: a chain of Filter nodes is
// folded into a single Filter ANDing their conditions together, so the code
// generator emits one predicate evaluation per row instead of one per
// Filter in the original chain.
func FoldFilters(root plan.Node) (plan.Node, error) {
	return Rewrite(root, func(n plan.Node) (plan.Node, bool, error) {
		outer, ok := n.(*plan.Filter)
		if !ok {
			return nil, false, nil
		}
		inner, ok := outer.Input().(*plan.Filter)
		if !ok {
			return nil, false, nil
		}
		// outer.Condition was scoped against inner (its immediate input
		// before the merge); inner is being dropped, so those ColumnRefs
		// now target inner's own input at the same column index.
		remap := map[int]int{inner.ID(): inner.Input().ID()}
		outerCond, err := remapColumnRefs(outer.Condition, remap)
		if err != nil {
			return nil, false, err
		}

		merged := joinConjuncts(append(splitConjuncts(inner.Condition), splitConjuncts(outerCond)...))
		replacement := plan.NewFilter(outer.ID(), merged, inner.Input())
		return replacement, true, nil
	})
}
