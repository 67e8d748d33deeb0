package plan

import (
	"fmt"
	"strings"

	"github.com/heavyql/qkernel/sql/expression"
	"github.com/heavyql/qkernel/sql/types"
)

// Aggregate is a 1-in/1-out RA node: its first GroupByCount output columns
// are pass-through group keys, followed by one output per entry in Aggs.
type Aggregate struct {
	base
	GroupByCount int
	Aggs         []*expression.AggExpr
	FieldNames   []string
	// Nop marks an aggregate, discovered by the "mark nops" rewrite pass,
	// that wraps an equivalent aggregate input without doing new work.
	Nop bool
}

func NewAggregate(id int, groupByCount int, aggs []*expression.AggExpr, fieldNames []string, input Node) *Aggregate {
	return &Aggregate{base: base{id: id, inputs: []Node{input}}, GroupByCount: groupByCount, Aggs: aggs, FieldNames: fieldNames}
}

func (a *Aggregate) Input() Node { return a.inputs[0] }

func (a *Aggregate) Schema() Schema {
	inSchema := a.Input().Schema()
	schema := make(Schema, 0, a.GroupByCount+len(a.Aggs))
	for i := 0; i < a.GroupByCount; i++ {
		schema = append(schema, inSchema[i])
	}
	for i, agg := range a.Aggs {
		schema = append(schema, Field{Name: a.FieldNames[a.GroupByCount+i], Type: agg.Type()})
	}
	return schema
}

func (a *Aggregate) OutputType(col int) types.Type { return outputType(a, col) }

func (a *Aggregate) WithChildren(children ...Node) (Node, error) {
	if len(children) != 1 {
		return nil, errArity("Aggregate", 1, len(children))
	}
	cp := *a
	cp.inputs = children
	return &cp, nil
}

// WithAggs returns a copy of a with its aggregate list narrowed, for
// dead-column elimination.
func (a *Aggregate) WithAggs(aggs []*expression.AggExpr, fieldNames []string) *Aggregate {
	cp := *a
	cp.Aggs = aggs
	cp.FieldNames = fieldNames
	return &cp
}

func (a *Aggregate) String() string {
	return fmt.Sprintf("Aggregate(group=%d, [%s])", a.GroupByCount, strings.Join(a.FieldNames, ", "))
}
