package expression

import (
	"fmt"

	"github.com/heavyql/qkernel/sql/types"
)

// ColumnInfo is the minimal schema-provider-supplied metadata a base-table
// column reference needs; the real catalog lookup is an external
// collaborator, so this is just the shape the core consumes.
type ColumnInfo struct {
	TableID  int
	Name     string
	Type     types.Type
	ColIndex int
}

// ColumnVar is a base-table column reference.
type ColumnVar struct {
	base
	Info   ColumnInfo
	RteIdx int
}

func NewColumnVar(info ColumnInfo, rteIdx int) *ColumnVar {
	return &ColumnVar{Info: info, RteIdx: rteIdx}
}

func (c *ColumnVar) Type() types.Type { return c.Info.Type }
func (c *ColumnVar) Children() []Expr { return nil }
func (c *ColumnVar) DeepCopy() Expr {
	cp := *c
	return &cp
}
func (c *ColumnVar) WithChildren(children ...Expr) (Expr, error) {
	if len(children) != 0 {
		return nil, errArity("ColumnVar", 0, len(children))
	}
	return c, nil
}
func (c *ColumnVar) String() string {
	return fmt.Sprintf("rte%d.%s", c.RteIdx, c.Info.Name)
}

// ColumnRef is a reference to column Index of some RA node's output. ProducingNodeID is the plan.Node.ID() this ref targets; it is a
// plain int rather than an interface value to avoid an import cycle between
// sql/expression and sql/plan, since plan.Node embeds sql/expression.Expr.
type ColumnRef struct {
	base
	typ             types.Type
	ProducingNodeID int
	Index           int
}

func NewColumnRef(typ types.Type, producingNodeID, index int) *ColumnRef {
	return &ColumnRef{typ: typ, ProducingNodeID: producingNodeID, Index: index}
}

func (c *ColumnRef) Type() types.Type { return c.typ }
func (c *ColumnRef) Children() []Expr { return nil }
func (c *ColumnRef) DeepCopy() Expr {
	cp := *c
	return &cp
}
func (c *ColumnRef) WithChildren(children ...Expr) (Expr, error) {
	if len(children) != 0 {
		return nil, errArity("ColumnRef", 0, len(children))
	}
	return c, nil
}
func (c *ColumnRef) String() string {
	return fmt.Sprintf("$%d.%d", c.ProducingNodeID, c.Index)
}

// WhichRow discriminates the input Var refers to within a row-function's
// working set.
type WhichRow int

const (
	InputOuter WhichRow = iota
	InputInner
	Output
	GroupBy
)

// Var is a targetlist-entry reference.
type Var struct {
	base
	typ      types.Type
	Which    WhichRow
	VarNo    int
}

func NewVar(typ types.Type, which WhichRow, varNo int) *Var {
	return &Var{typ: typ, Which: which, VarNo: varNo}
}

func (v *Var) Type() types.Type { return v.typ }
func (v *Var) Children() []Expr { return nil }
func (v *Var) DeepCopy() Expr {
	cp := *v
	return &cp
}
func (v *Var) WithChildren(children ...Expr) (Expr, error) {
	if len(children) != 0 {
		return nil, errArity("Var", 0, len(children))
	}
	return v, nil
}
func (v *Var) String() string {
	return fmt.Sprintf("var(%d,%d)", v.Which, v.VarNo)
}
