package transform

import "github.com/heavyql/qkernel/sql/plan"

// MarkNops is rewrite pass 1: an Aggregate whose input is
// itself an Aggregate, groups by every column that input already produces,
// and adds no new aggregate computations is redundant re-aggregation over
// an already-unique result, so it is flagged Nop for the code generator to
// skip rather than lowered to a second hash-aggregation pass.
func MarkNops(root plan.Node) (plan.Node, error) {
	return Rewrite(root, func(n plan.Node) (plan.Node, bool, error) {
		agg, ok := n.(*plan.Aggregate)
		if !ok || agg.Nop || len(agg.Aggs) != 0 {
			return nil, false, nil
		}
		inner, ok := agg.Input().(*plan.Aggregate)
		if !ok {
			return nil, false, nil
		}
		if agg.GroupByCount != len(inner.Schema()) {
			return nil, false, nil
		}
		cp := *agg
		cp.Nop = true
		return &cp, true, nil
	})
}
