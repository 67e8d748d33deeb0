package transform

import (
	"github.com/heavyql/qkernel/sql/expression"
	"github.com/heavyql/qkernel/sql/plan"
)

// EliminateDeadSubqueries is rewrite pass 9. A
// ScalarSubquery/InSubquery's Result root is not itself a plan.Node child
// of anything (it floats, referenced only from inside the expression that
// embeds it), so it cannot be dropped by a structural rewrite over
// plan.Node the way the other nine passes operate. This pass is therefore
// the identity transform over the main DAG; the actual liveness check
// belongs to PruneSubqueries, which a caller runs against the Builder's
// registered subquery list once the final DAG is known (e.g. after dead
// column elimination has dropped the one Project column that embedded a
// now-unused ScalarSubquery).
func EliminateDeadSubqueries(root plan.Node) (plan.Node, error) {
	return root, nil
}

// PruneSubqueries filters subqueries down to the roots still referenced by
// a ScalarSubquery or InSubquery expression reachable from root.
func PruneSubqueries(root plan.Node, subqueries []plan.Node) []plan.Node {
	live := map[int]bool{}
	walk(root, func(n plan.Node) {
		for _, e := range nodeExprs(n) {
			markLiveSubqueries(e, live)
		}
	})

	out := make([]plan.Node, 0, len(subqueries))
	for _, sq := range subqueries {
		if live[sq.ID()] {
			out = append(out, sq)
		}
	}
	return out
}

func markLiveSubqueries(e expression.Expr, live map[int]bool) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *expression.ScalarSubquery:
		live[n.Result.ID()] = true
	case *expression.InSubquery:
		live[n.Result.ID()] = true
		markLiveSubqueries(n.Arg, live)
	default:
		for _, c := range e.Children() {
			markLiveSubqueries(c, live)
		}
	}
}
