package plan

import (
	"fmt"

	"github.com/heavyql/qkernel/sql/types"
)

// LogicalValues is a leaf RA node holding inlined literal rows,
// e.g. the RA form of a VALUES clause or a constant-folded single-row
// projection source.
type LogicalValues struct {
	base
	RowType Schema
	Rows    [][]any
}

func NewLogicalValues(id int, rowType Schema, rows [][]any) *LogicalValues {
	return &LogicalValues{base: base{id: id}, RowType: rowType, Rows: rows}
}

func (v *LogicalValues) Schema() Schema { return v.RowType }

func (v *LogicalValues) OutputType(col int) types.Type { return outputType(v, col) }

func (v *LogicalValues) WithChildren(children ...Node) (Node, error) {
	if len(children) != 0 {
		return nil, errArity("LogicalValues", 0, len(children))
	}
	return v, nil
}

func (v *LogicalValues) String() string { return fmt.Sprintf("LogicalValues(%d rows)", len(v.Rows)) }
