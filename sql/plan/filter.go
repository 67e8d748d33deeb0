package plan

import (
	"fmt"

	"github.com/heavyql/qkernel/sql/expression"
	"github.com/heavyql/qkernel/sql/types"
)

// Filter is a 1-in/1-out RA node applying a boolean Condition.
type Filter struct {
	base
	Condition expression.Expr
}

func NewFilter(id int, condition expression.Expr, input Node) *Filter {
	return &Filter{base: base{id: id, inputs: []Node{input}}, Condition: condition}
}

func (f *Filter) Input() Node     { return f.inputs[0] }
func (f *Filter) Schema() Schema  { return f.Input().Schema() }

func (f *Filter) OutputType(col int) types.Type { return outputType(f, col) }

func (f *Filter) WithChildren(children ...Node) (Node, error) {
	if len(children) != 1 {
		return nil, errArity("Filter", 1, len(children))
	}
	return &Filter{base: base{id: f.id, inputs: children}, Condition: f.Condition}, nil
}

// WithCondition returns a copy of f with Condition replaced, for the filter
// folding and cross-join hoisting passes.
func (f *Filter) WithCondition(condition expression.Expr) *Filter {
	return &Filter{base: base{id: f.id, inputs: f.inputs}, Condition: condition}
}

func (f *Filter) String() string { return fmt.Sprintf("Filter(%s)", f.Condition) }
