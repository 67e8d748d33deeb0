package plan

import (
	"fmt"

	"github.com/heavyql/qkernel/sql/types"
)

// LogicalUnion is an N-in/1-out RA node. When All is false, duplicate rows
// across inputs are removed; that dedup is a runtime concern of
// the executor, not modeled here.
type LogicalUnion struct {
	base
	All bool
}

func NewLogicalUnion(id int, inputs []Node, all bool) *LogicalUnion {
	return &LogicalUnion{base: base{id: id, inputs: inputs}, All: all}
}

func (u *LogicalUnion) Schema() Schema { return u.inputs[0].Schema() }

func (u *LogicalUnion) OutputType(col int) types.Type { return outputType(u, col) }

func (u *LogicalUnion) WithChildren(children ...Node) (Node, error) {
	if len(children) == 0 {
		return nil, errArity("LogicalUnion", 1, 0)
	}
	return &LogicalUnion{base: base{id: u.id, inputs: children}, All: u.All}, nil
}

func (u *LogicalUnion) String() string { return fmt.Sprintf("LogicalUnion(all=%t)", u.All) }
