package expression

import (
	"fmt"

	"github.com/heavyql/qkernel/sql/types"
)

// BinOper is a binary operator node. ResultType is set
// explicitly rather than derived on the fly, since normalization (see
// normalize.go) computes it once from the (possibly cast) operand types.
type BinOper struct {
	ResultType types.Type
	Op         BinaryOp
	Qualifier  Qualifier
	LHS, RHS   Expr
}

func NewBinOper(resultType types.Type, op BinaryOp, qualifier Qualifier, lhs, rhs Expr) *BinOper {
	return &BinOper{ResultType: resultType, Op: op, Qualifier: qualifier, LHS: lhs, RHS: rhs}
}

func (b *BinOper) Type() types.Type { return b.ResultType }
func (b *BinOper) ContainsAgg() bool {
	return b.LHS.ContainsAgg() || b.RHS.ContainsAgg()
}
func (b *BinOper) Children() []Expr { return []Expr{b.LHS, b.RHS} }
func (b *BinOper) DeepCopy() Expr {
	return &BinOper{ResultType: b.ResultType, Op: b.Op, Qualifier: b.Qualifier, LHS: b.LHS.DeepCopy(), RHS: b.RHS.DeepCopy()}
}
func (b *BinOper) WithChildren(children ...Expr) (Expr, error) {
	if len(children) != 2 {
		return nil, errArity("BinOper", 2, len(children))
	}
	cp := *b
	cp.LHS, cp.RHS = children[0], children[1]
	return &cp, nil
}
func (b *BinOper) String() string {
	return fmt.Sprintf("(%s %s %s)", b.LHS, b.Op, b.RHS)
}
