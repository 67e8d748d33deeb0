package plan

import (
	"fmt"

	"github.com/heavyql/qkernel/sql/expression"
	"github.com/heavyql/qkernel/sql/types"
)

// Collation is one ORDER BY entry.
type Collation struct {
	Expr      expression.Expr
	Ascending bool
	NullsLast bool
}

// Sort is a 1-in/1-out RA node applying an ORDER BY / LIMIT / OFFSET. Limit < 0 means unbounded.
type Sort struct {
	base
	Collations []Collation
	Limit      int64
	Offset     int64
}

func NewSort(id int, collations []Collation, limit, offset int64, input Node) *Sort {
	return &Sort{base: base{id: id, inputs: []Node{input}}, Collations: collations, Limit: limit, Offset: offset}
}

func (s *Sort) Input() Node    { return s.inputs[0] }
func (s *Sort) Schema() Schema { return s.Input().Schema() }

func (s *Sort) OutputType(col int) types.Type { return outputType(s, col) }

func (s *Sort) WithChildren(children ...Node) (Node, error) {
	if len(children) != 1 {
		return nil, errArity("Sort", 1, len(children))
	}
	return &Sort{base: base{id: s.id, inputs: children}, Collations: s.Collations, Limit: s.Limit, Offset: s.Offset}, nil
}

func (s *Sort) String() string {
	return fmt.Sprintf("Sort(%d keys, limit=%d, offset=%d)", len(s.Collations), s.Limit, s.Offset)
}
