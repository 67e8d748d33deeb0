package transform

import (
	"github.com/heavyql/qkernel/sql/expression"
	"github.com/heavyql/qkernel/sql/plan"
	"github.com/heavyql/qkernel/sql/types"
	"github.com/heavyql/qkernel/sql/visit"
)

// SinkProjectThroughJoin is rewrite pass 3: a boolean
// expression in a Project sitting directly atop an inner/left Join, if it
// reads only the Join's left input, is evaluated once per left row instead
// of once per joined output row by sinking its computation into a new
// Project wrapping the Join's left side. Only the first such column (in
// target-list order) is sunk per rewrite; a Project with no such column
// above an inner/left Join is left untouched.
func SinkProjectThroughJoin(root plan.Node) (plan.Node, error) {
	nextID := maxNodeID(root) + 1

	return Rewrite(root, func(n plan.Node) (plan.Node, bool, error) {
		proj, ok := n.(*plan.Project)
		if !ok {
			return nil, false, nil
		}
		j, ok := proj.Input().(*plan.Join)
		if !ok || (j.Kind != plan.JoinInner && j.Kind != plan.JoinLeft) {
			return nil, false, nil
		}
		leftWidth := len(j.Left().Schema())

		sinkIdx := -1
		for i, e := range proj.Exprs {
			if e.Type().Kind() != types.KindBoolean {
				continue
			}
			if _, isRef := e.(*expression.ColumnRef); isRef {
				continue // nothing to sink, already a plain column read
			}
			if allRefsWithinLeft(e, j.ID(), leftWidth) {
				sinkIdx = i
				break
			}
		}
		if sinkIdx == -1 {
			return nil, false, nil
		}

		sunk, err := reparentToLeft(proj.Exprs[sinkIdx], j.ID(), j.Left().ID())
		if err != nil {
			return nil, false, err
		}

		leftSchema := j.Left().Schema()
		leftExprs := make([]expression.Expr, 0, leftWidth+1)
		leftNames := make([]string, 0, leftWidth+1)
		for i, f := range leftSchema {
			leftExprs = append(leftExprs, expression.NewColumnRef(f.Type, j.Left().ID(), i))
			leftNames = append(leftNames, f.Name)
		}
		leftExprs = append(leftExprs, sunk)
		leftNames = append(leftNames, "$sink")
		newLeft := plan.NewProject(nextID, leftExprs, leftNames, j.Left())
		nextID++

		shiftedCondition, err := shiftRightColumns(j.Condition, j.ID(), leftWidth)
		if err != nil {
			return nil, false, err
		}
		newJoin := plan.NewJoin(j.ID(), newLeft, j.Right(), shiftedCondition, j.Kind)

		newExprs := make([]expression.Expr, len(proj.Exprs))
		for i, e := range proj.Exprs {
			if i == sinkIdx {
				newExprs[i] = expression.NewColumnRef(e.Type(), j.ID(), leftWidth)
				continue
			}
			shifted, err := shiftRightColumns(e, j.ID(), leftWidth)
			if err != nil {
				return nil, false, err
			}
			newExprs[i] = shifted
		}

		newProj := proj.WithExprs(newExprs, proj.FieldNames)
		wired, err := newProj.WithChildren(newJoin)
		if err != nil {
			return nil, false, err
		}
		return wired, true, nil
	})
}

func allRefsWithinLeft(e expression.Expr, joinID, leftWidth int) bool {
	for _, ref := range columnRefs(e) {
		if ref.ProducingNodeID == joinID && ref.Index >= leftWidth {
			return false
		}
	}
	return true
}

// reparentToLeft rewrites every ColumnRef(joinID, idx) in e to
// ColumnRef(leftID, idx); e is assumed (by allRefsWithinLeft) to reference
// only left-side columns of joinID.
func reparentToLeft(e expression.Expr, joinID, leftID int) (expression.Expr, error) {
	return visit.NewRewriter(func(n expression.Expr) (expression.Expr, bool, error) {
		ref, ok := n.(*expression.ColumnRef)
		if !ok || ref.ProducingNodeID != joinID {
			return nil, false, nil
		}
		return expression.NewColumnRef(ref.Type(), leftID, ref.Index), true, nil
	}).Rewrite(e)
}

// shiftRightColumns adds 1 to the Index of every ColumnRef(joinID, idx)
// with idx >= leftWidth, accounting for the extra sunk column inserted at
// the end of the join's left side.
func shiftRightColumns(e expression.Expr, joinID, leftWidth int) (expression.Expr, error) {
	if e == nil {
		return nil, nil
	}
	return visit.NewRewriter(func(n expression.Expr) (expression.Expr, bool, error) {
		ref, ok := n.(*expression.ColumnRef)
		if !ok || ref.ProducingNodeID != joinID || ref.Index < leftWidth {
			return nil, false, nil
		}
		return expression.NewColumnRef(ref.Type(), joinID, ref.Index+1), true, nil
	}).Rewrite(e)
}
