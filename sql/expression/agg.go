package expression

import (
	"fmt"

	"github.com/heavyql/qkernel/sql/types"
)

// AggKind enumerates AggExpr kinds.
type AggKind int

const (
	AggCount AggKind = iota
	AggMin
	AggMax
	AggSum
	AggAvg
	AggSingleValue
	AggSample
	AggApproxCountDistinct
	AggApproxQuantile
	AggQuantile
	AggTopK
)

func (k AggKind) String() string {
	return [...]string{
		"COUNT", "MIN", "MAX", "SUM", "AVG", "SINGLE_VALUE", "SAMPLE",
		"APPROX_COUNT_DISTINCT", "APPROX_QUANTILE", "QUANTILE", "TOP_K",
	}[k]
}

// Interpolation selects the quantile interpolation method for
// APPROX_QUANTILE / QUANTILE.
type Interpolation int

const (
	InterpolationLinear Interpolation = iota
	InterpolationLower
	InterpolationHigher
	InterpolationNearest
)

// AggExpr is an aggregate expression. Arg may be nil only for
// AggCount's COUNT(*) form. Arg1 carries a second argument where the kind
// needs one (the HyperLogLog bit-width for ApproxCountDistinct, the
// quantile fraction for ApproxQuantile/Quantile, k for TopK).
type AggExpr struct {
	typ           types.Type
	Kind          AggKind
	Arg           Expr
	IsDistinct    bool
	Arg1          Expr
	Interpolation Interpolation
}

func NewAggExpr(typ types.Type, kind AggKind, arg Expr, isDistinct bool, arg1 Expr, interpolation Interpolation) *AggExpr {
	return &AggExpr{typ: typ, Kind: kind, Arg: arg, IsDistinct: isDistinct, Arg1: arg1, Interpolation: interpolation}
}

func (a *AggExpr) Type() types.Type  { return a.typ }
func (a *AggExpr) ContainsAgg() bool { return true }
func (a *AggExpr) Children() []Expr {
	var children []Expr
	if a.Arg != nil {
		children = append(children, a.Arg)
	}
	if a.Arg1 != nil {
		children = append(children, a.Arg1)
	}
	return children
}
func (a *AggExpr) DeepCopy() Expr {
	cp := *a
	if a.Arg != nil {
		cp.Arg = a.Arg.DeepCopy()
	}
	if a.Arg1 != nil {
		cp.Arg1 = a.Arg1.DeepCopy()
	}
	return &cp
}
func (a *AggExpr) WithChildren(children ...Expr) (Expr, error) {
	want := 0
	if a.Arg != nil {
		want++
	}
	if a.Arg1 != nil {
		want++
	}
	if len(children) != want {
		return nil, errArity("AggExpr", want, len(children))
	}
	cp := *a
	idx := 0
	if a.Arg != nil {
		cp.Arg = children[idx]
		idx++
	}
	if a.Arg1 != nil {
		cp.Arg1 = children[idx]
	}
	return &cp, nil
}
func (a *AggExpr) String() string {
	distinct := ""
	if a.IsDistinct {
		distinct = "DISTINCT "
	}
	if a.Arg == nil {
		return fmt.Sprintf("%s(%s*)", a.Kind, distinct)
	}
	return fmt.Sprintf("%s(%s%s)", a.Kind, distinct, a.Arg)
}
