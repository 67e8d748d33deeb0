package plan

import (
	"fmt"
	"strings"

	"github.com/heavyql/qkernel/sql/expression"
	"github.com/heavyql/qkernel/sql/types"
)

// Project is a 1-in/1-out RA node computing Exprs against its input .
type Project struct {
	base
	Exprs      []expression.Expr
	FieldNames []string
}

func NewProject(id int, exprs []expression.Expr, fieldNames []string, input Node) *Project {
	return &Project{base: base{id: id, inputs: []Node{input}}, Exprs: exprs, FieldNames: fieldNames}
}

func (p *Project) Input() Node { return p.inputs[0] }

func (p *Project) Schema() Schema {
	schema := make(Schema, len(p.Exprs))
	for i, e := range p.Exprs {
		schema[i] = Field{Name: p.FieldNames[i], Type: e.Type()}
	}
	return schema
}

func (p *Project) OutputType(col int) types.Type { return outputType(p, col) }

func (p *Project) WithChildren(children ...Node) (Node, error) {
	if len(children) != 1 {
		return nil, errArity("Project", 1, len(children))
	}
	return &Project{base: base{id: p.id, inputs: children}, Exprs: p.Exprs, FieldNames: p.FieldNames}, nil
}

// WithExprs returns a copy of p with its targetlist replaced, for passes
// that narrow or reorder projected columns (dead-column elimination,
// window-function separation).
func (p *Project) WithExprs(exprs []expression.Expr, fieldNames []string) *Project {
	return &Project{base: base{id: p.id, inputs: p.inputs}, Exprs: exprs, FieldNames: fieldNames}
}

func (p *Project) String() string {
	return fmt.Sprintf("Project(%s)", strings.Join(p.FieldNames, ", "))
}
