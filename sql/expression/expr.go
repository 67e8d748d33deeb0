// Package expression implements the typed, immutable expression IR:
// scalar, aggregate, and window expression nodes,
// shared via Go's ordinary garbage collection rather than explicit
// reference counts (see DESIGN.md for why), and transformed only through
// sql/visit's rewriter.
package expression

import (
	"github.com/heavyql/qkernel/sql/types"
)

// Expr is the common contract for every expression node. Nodes are
// immutable after construction: WithChildren returns a new node rather than
// mutating the receiver, so a DAG in which a node is referenced from
// multiple parents is always safe to share.
type Expr interface {
	// Type is the expression's result type.
	Type() types.Type
	// ContainsAgg reports whether this expression or any descendant is an
	// AggExpr; plan nodes use this to decide where a given expression may
	// legally appear (e.g. only in Aggregate's target list).
	ContainsAgg() bool
	// Children returns the expression's operands in a stable, deterministic
	// order.
	Children() []Expr
	// WithChildren returns a copy of the expression with its operands
	// replaced; len(children) must equal len(Children()).
	WithChildren(children ...Expr) (Expr, error)
	// DeepCopy returns a fully independent copy of the expression tree.
	DeepCopy() Expr
	String() string
}

// base is embedded by every leaf-ish concrete node to provide the
// ContainsAgg bookkeeping without repeating it; non-leaf nodes compute
// ContainsAgg from their children in their own type's method instead of
// embedding base's always-false version.
type base struct{}

func (base) ContainsAgg() bool { return false }

// ChildrenContainAgg is a small helper most composite nodes use to compute
// their own ContainsAgg from their children, since AggExpr is itself the
// only node that reports true intrinsically.
func ChildrenContainAgg(children []Expr) bool {
	for _, c := range children {
		if c.ContainsAgg() {
			return true
		}
	}
	return false
}
