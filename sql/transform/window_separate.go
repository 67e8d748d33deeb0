package transform

import (
	"fmt"

	"github.com/heavyql/qkernel/sql/expression"
	"github.com/heavyql/qkernel/sql/plan"
)

// SeparateWindowFunctions is rewrite pass 10: the code
// generator only emits a window-function state machine for an expression
// that is itself one whole Project output column, not one
// buried inside a larger expression such as `rank() over (...) + 1`. When
// a Project's targetlist contains a window function nested that way, the
// Project is split in two: a lower Project computes every such nested
// window function (plus passes through all of the original input's
// columns), and the upper Project recomputes the original expressions
// with each hoisted window function replaced by a ColumnRef into the
// lower Project. A window function already sitting at the top of an
// expression by itself is left where it is; only genuinely nested ones
// trigger a split, and a Project with none is untouched.
func SeparateWindowFunctions(root plan.Node) (plan.Node, error) {
	nextID := maxNodeID(root) + 1

	return Rewrite(root, func(n plan.Node) (plan.Node, bool, error) {
		proj, ok := n.(*plan.Project)
		if !ok {
			return nil, false, nil
		}

		var nestedOrder []expression.Expr
		nestedSet := map[expression.Expr]bool{}
		for _, e := range proj.Exprs {
			for _, wf := range nestedWindowFuncs(e) {
				if !nestedSet[wf] {
					nestedSet[wf] = true
					nestedOrder = append(nestedOrder, wf)
				}
			}
		}
		if len(nestedOrder) == 0 {
			return nil, false, nil
		}

		input := proj.Input()
		inSchema := input.Schema()
		lowerExprs := make([]expression.Expr, 0, len(inSchema)+len(nestedOrder))
		lowerNames := make([]string, 0, len(inSchema)+len(nestedOrder))
		for i, f := range inSchema {
			lowerExprs = append(lowerExprs, expression.NewColumnRef(f.Type, input.ID(), i))
			lowerNames = append(lowerNames, f.Name)
		}

		slot := map[expression.Expr]int{}
		for i, wf := range nestedOrder {
			idx := len(inSchema) + i
			slot[wf] = idx
			lowerExprs = append(lowerExprs, wf)
			lowerNames = append(lowerNames, fmt.Sprintf("$win%d", i))
		}

		lowerID := nextID
		nextID++
		lower := plan.NewProject(lowerID, lowerExprs, lowerNames, input)

		upperExprs := make([]expression.Expr, len(proj.Exprs))
		for i, e := range proj.Exprs {
			rewritten, err := rewriteAboveLowerWindow(e, input.ID(), lowerID, slot)
			if err != nil {
				return nil, false, err
			}
			upperExprs[i] = rewritten
		}

		upper := proj.WithExprs(upperExprs, proj.FieldNames)
		wired, err := upper.WithChildren(lower)
		if err != nil {
			return nil, false, err
		}
		return wired, true, nil
	})
}

// nestedWindowFuncs returns every WindowFunction appearing strictly inside
// e: if e is itself a WindowFunction, its own args/keys are searched (so a
// window function can never hoist itself), otherwise all of e is searched.
func nestedWindowFuncs(e expression.Expr) []expression.Expr {
	var out []expression.Expr
	if wf, ok := e.(*expression.WindowFunction); ok {
		for _, c := range wf.Children() {
			collectWindowFuncs(c, &out)
		}
		return out
	}
	collectWindowFuncs(e, &out)
	return out
}

func collectWindowFuncs(e expression.Expr, out *[]expression.Expr) {
	if _, ok := e.(*expression.WindowFunction); ok {
		*out = append(*out, e)
	}
	for _, c := range e.Children() {
		collectWindowFuncs(c, out)
	}
}

// rewriteAboveLowerWindow rebuilds e for use in the upper Project: any
// window function hoisted into the lower Project is replaced by a
// ColumnRef to its slot, and any plain reference to the original input is
// reparented to the lower Project (which now sits between the upper
// Project and that input).
func rewriteAboveLowerWindow(e expression.Expr, inputID, lowerID int, slot map[expression.Expr]int) (expression.Expr, error) {
	if e == nil {
		return nil, nil
	}
	if idx, ok := slot[e]; ok {
		return expression.NewColumnRef(e.Type(), lowerID, idx), nil
	}
	if ref, ok := e.(*expression.ColumnRef); ok {
		if ref.ProducingNodeID == inputID {
			return expression.NewColumnRef(ref.Type(), lowerID, ref.Index), nil
		}
		return ref, nil
	}
	children := e.Children()
	if len(children) == 0 {
		return e, nil
	}
	newChildren := make([]expression.Expr, len(children))
	for i, c := range children {
		nc, err := rewriteAboveLowerWindow(c, inputID, lowerID, slot)
		if err != nil {
			return nil, err
		}
		newChildren[i] = nc
	}
	return e.WithChildren(newChildren...)
}
