// Package plan implements the relational-algebra DAG: node kinds built
// from a JSON plan, and the node-level contracts the DAG rewrite passes
// and code generator share.
package plan

import "github.com/heavyql/qkernel/sql/types"

// Field is one output column of a Node: a name (for display/binding) and a
// type.
type Field struct {
	Name string
	Type types.Type
}

// Schema is a Node's output row-type.
type Schema []Field

// Node is the common contract for every relational-algebra node. Like
// expression.Expr, nodes are immutable after construction.
type Node interface {
	// ID is the node's stable position in the DAG (its 0-based index in the
	// JSON plan's rels array,).
	ID() int
	Schema() Schema
	Children() []Node
	WithChildren(children ...Node) (Node, error)
	String() string
}

// outputType is the shared implementation backing every concrete node's
// OutputType method, which lets a plan.Node be referenced as an
// expression.SubqueryNode (a ScalarSubquery/InSubquery root) without
// sql/expression importing sql/plan.
func outputType(n Node, col int) types.Type {
	return n.Schema()[col].Type
}

// base holds the fields every concrete node needs: its DAG id and input
// list. Concrete node types embed it.
type base struct {
	id     int
	inputs []Node
}

func (b *base) ID() int          { return b.id }
func (b *base) Children() []Node { return b.inputs }
