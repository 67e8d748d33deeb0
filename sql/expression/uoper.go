package expression

import (
	"fmt"

	"github.com/heavyql/qkernel/sql/types"
)

// UOper is a unary operator node.
type UOper struct {
	typ     types.Type
	Op      UnaryOp
	Operand Expr
}

// NewUOper builds a UOper with an explicit result type; for Cast, typ is the
// cast's target type, otherwise it is normally Operand.Type() (IsNull
// always produces a non-nullable Boolean).
func NewUOper(typ types.Type, op UnaryOp, operand Expr) *UOper {
	return &UOper{typ: typ, Op: op, Operand: operand}
}

func (u *UOper) Type() types.Type    { return u.typ }
func (u *UOper) ContainsAgg() bool    { return u.Operand.ContainsAgg() }
func (u *UOper) Children() []Expr    { return []Expr{u.Operand} }
func (u *UOper) DeepCopy() Expr {
	return &UOper{typ: u.typ, Op: u.Op, Operand: u.Operand.DeepCopy()}
}
func (u *UOper) WithChildren(children ...Expr) (Expr, error) {
	if len(children) != 1 {
		return nil, errArity("UOper", 1, len(children))
	}
	cp := *u
	cp.Operand = children[0]
	return &cp, nil
}
func (u *UOper) String() string {
	if u.Op == OpCast {
		return fmt.Sprintf("CAST(%s AS %s)", u.Operand, u.typ)
	}
	return fmt.Sprintf("%s(%s)", u.Op, u.Operand)
}
