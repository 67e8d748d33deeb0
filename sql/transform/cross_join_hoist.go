package transform

import (
	"github.com/heavyql/qkernel/sql/expression"
	"github.com/heavyql/qkernel/sql/plan"
)

// HoistCrossJoinFilters is rewrite pass 7: a Filter sitting
// directly atop an inner Join — or atop the identity Project that join
// projection insertion (pass 5) wraps every bare Join in — is split into
// conjuncts; any conjunct that reads columns from both sides of the join
// is migrated into the Join's own Condition (ANDed with whatever
// condition it already carries), since evaluating it during the join's
// build/probe step prunes rows earlier than a Filter stacked above ever
// could. Conjuncts touching only one side, or constants, are left in the
// Filter. Only Inner joins qualify: hoisting a conjunct into a
// Left/Semi/Anti join's condition would change which rows it treats as
// unmatched.
func HoistCrossJoinFilters(root plan.Node) (plan.Node, error) {
	return Rewrite(root, func(n plan.Node) (plan.Node, bool, error) {
		filter, ok := n.(*plan.Filter)
		if !ok {
			return nil, false, nil
		}
		j, wrap, ok := joinBeneath(filter.Input())
		if !ok || j.Kind != plan.JoinInner {
			return nil, false, nil
		}
		leftWidth := len(j.Left().Schema())

		conjuncts := splitConjuncts(filter.Condition)
		keep := make([]bool, len(conjuncts))
		anyMigrate := false
		for i, c := range conjuncts {
			touchesLeft, touchesRight := false, false
			for _, ref := range columnRefs(c) {
				if ref.ProducingNodeID != j.ID() {
					continue
				}
				if ref.Index < leftWidth {
					touchesLeft = true
				} else {
					touchesRight = true
				}
			}
			if touchesLeft && touchesRight {
				anyMigrate = true
			} else {
				keep[i] = true
			}
		}
		if !anyMigrate {
			return nil, false, nil
		}

		keptExprs := splitByMask(conjuncts, keep)
		migratedExprs := splitByMask(conjuncts, invertMask(keep))

		var newCondition expression.Expr
		if j.Condition == nil {
			newCondition = joinConjuncts(migratedExprs)
		} else {
			newCondition = joinConjuncts(append(splitConjuncts(j.Condition), migratedExprs...))
		}
		newJoin := j.WithCondition(newCondition)

		var newInput plan.Node = newJoin
		if wrap != nil {
			rewrapped, err := wrap.WithChildren(newJoin)
			if err != nil {
				return nil, false, err
			}
			newInput = rewrapped
		}

		if len(keptExprs) == 0 {
			return newInput, true, nil
		}
		newFilter := plan.NewFilter(filter.ID(), joinConjuncts(keptExprs), newInput)
		return newFilter, true, nil
	})
}

// joinBeneath returns the Join directly at n, or one step below n through
// an identity-copy Project (the shape join projection insertion leaves
// behind), along with that Project (nil if n was the Join itself).
func joinBeneath(n plan.Node) (*plan.Join, *plan.Project, bool) {
	if j, ok := n.(*plan.Join); ok {
		return j, nil, true
	}
	proj, ok := n.(*plan.Project)
	if !ok {
		return nil, nil, false
	}
	j, ok := proj.Input().(*plan.Join)
	if !ok || !exprsEqualAsColumnCopy(proj.Exprs, proj.Input()) {
		return nil, nil, false
	}
	return j, proj, true
}

func splitByMask(exprs []expression.Expr, mask []bool) []expression.Expr {
	var out []expression.Expr
	for i, e := range exprs {
		if mask[i] {
			out = append(out, e)
		}
	}
	return out
}

func invertMask(mask []bool) []bool {
	out := make([]bool, len(mask))
	for i, m := range mask {
		out[i] = !m
	}
	return out
}
