package expression

import (
	"math"
	"strings"

	"github.com/heavyql/qkernel/sql"
	"github.com/heavyql/qkernel/sql/types"
)

// NormalizeBinOper implements "Normalization": given an operator
// and two operands, produce a well-typed BinOper whose operands have both
// been cast to their common type (types.Common), per testable property 2.
// Comparison operators still resolve to a Boolean result type; arithmetic
// operators resolve to the common type itself.
func NormalizeBinOper(op BinaryOp, qualifier Qualifier, lhs, rhs Expr) (*BinOper, error) {
	common, err := types.Common(lhs.Type(), rhs.Type())
	if err != nil {
		return nil, err
	}

	lhsCast := castTo(lhs, common)
	rhsCast := castTo(rhs, common)

	resultType := common
	if op.IsComparison() {
		resultType = types.NewBoolean(common.Nullable())
	}

	return NewBinOper(resultType, op, qualifier, lhsCast, rhsCast), nil
}

// castTo wraps e in a Cast UOper unless it is already of type t.
func castTo(e Expr, t types.Type) Expr {
	if e.Type() == t {
		return e
	}
	if sameKindAndWidth(e.Type(), t) {
		return e
	}
	return NewUOper(t, OpCast, e)
}

func sameKindAndWidth(a, b types.Type) bool {
	return a.Kind() == b.Kind() && a.Size() == b.Size() && a.Nullable() == b.Nullable()
}

// CaseBranch is one WHEN/THEN pair of a CaseExpr.
type CaseBranch struct {
	Cond  Expr
	Value Expr
}

// NormalizeCase implements "Case normalization": compute a common
// result type by walking THEN branches (and ELSE), then wrap each arm in a
// cast to that type. If elseExpr is nil, a synthesized NULL-of-common-type
// else branch is produced, matching CaseExpr invariant ("else
// is synthesized when absent"). An all-untyped-NULL set of arms is a
// TypeInferenceError (testable property 6).
func NormalizeCase(branches []CaseBranch, elseExpr Expr) (*CaseExpr, error) {
	if len(branches) == 0 {
		return nil, sql.ErrInvalidExpression.New("CASE requires at least one WHEN/THEN pair")
	}

	var common types.Type
	sawTyped := false
	for _, b := range branches {
		if _, isNull := b.Value.Type().(*types.NullType); isNull {
			continue
		}
		sawTyped = true
		if common == nil {
			common = b.Value.Type()
			continue
		}
		var err error
		common, err = types.Common(common, b.Value.Type())
		if err != nil {
			return nil, err
		}
	}
	if elseExpr != nil {
		if _, isNull := elseExpr.Type().(*types.NullType); !isNull {
			sawTyped = true
			if common == nil {
				common = elseExpr.Type()
			} else {
				var err error
				common, err = types.Common(common, elseExpr.Type())
				if err != nil {
					return nil, err
				}
			}
		}
	}

	if !sawTyped {
		return nil, sql.ErrTypeInference.New("CASE expression has no typed arm (all branches and ELSE are untyped NULL)")
	}
	// The result type is always made nullable, whether or not any arm can
	// produce NULL or an explicit ELSE is present.
	common = common.WithNullable(true)

	castBranches := make([]CaseBranch, len(branches))
	for i, b := range branches {
		castBranches[i] = CaseBranch{Cond: b.Cond, Value: castTo(b.Value, common)}
	}
	var castElse Expr
	if elseExpr != nil {
		castElse = castTo(elseExpr, common)
	} else {
		castElse = NewNullConstant(common)
	}

	return NewCase(castBranches, castElse, common), nil
}

// AnalyzeIntValue selects the smallest of {int16, int32, int64} that fits v,
//"Literal analysis".
func AnalyzeIntValue(v int64) *Constant {
	switch {
	case v >= math.MinInt16 && v <= math.MaxInt16:
		return NewConstant(types.NewInteger(2, false), int16(v))
	case v >= math.MinInt32 && v <= math.MaxInt32:
		return NewConstant(types.NewInteger(4, false), int32(v))
	default:
		return NewConstant(types.NewInteger(8, false), v)
	}
}

// AnalyzeFixedPtValue constructs a decimal constant with the given
// precision/scale, storing the unscaled integer representation as Datum
// (value * 10^scale)
func AnalyzeFixedPtValue(unscaled int64, precision, scale int) *Constant {
	return NewConstant(types.NewDecimal64(precision, scale, false), unscaled)
}

// AnalyzeStringValue produces a text constant
func AnalyzeStringValue(s string) *Constant {
	return NewConstant(types.NewText(false), s)
}

// AnalyzeLike validates the pattern literal (must be a Constant; callers
// pass the parsed pattern expression), detects the "simple contains" form
// (`%...%` with no other metacharacters), and constructs a LikeExpr. The
// NOT prefix, if present, is folded into a wrapping UOper(Not, ...) by the
// caller
func AnalyzeLike(arg Expr, pattern Expr, escape Expr) (*LikeExpr, error) {
	patConst, ok := pattern.(*Constant)
	if !ok || patConst.IsNull {
		return nil, sql.ErrNotSupported.New("LIKE pattern must be a constant string")
	}
	patStr, ok := patConst.Datum.(string)
	if !ok {
		return nil, sql.ErrInvalidExpression.New("LIKE pattern must be a string constant")
	}
	return &LikeExpr{Arg: arg, Pattern: patStr, Escape: escape, Simple: isSimpleContains(patStr)}, nil
}

// isSimpleContains detects the `%foo%` shape with no other LIKE
// metacharacters (`%`, `_`) inside foo, which lets the code generator emit
// a plain substring search instead of a general pattern matcher .
func isSimpleContains(pattern string) bool {
	if len(pattern) < 2 || pattern[0] != '%' || pattern[len(pattern)-1] != '%' {
		return false
	}
	inner := pattern[1 : len(pattern)-1]
	return !strings.ContainsAny(inner, "%_")
}

// AnalyzeRegexp validates the pattern literal and constructs a RegexpExpr,
//
func AnalyzeRegexp(arg Expr, pattern Expr) (*RegexpExpr, error) {
	patConst, ok := pattern.(*Constant)
	if !ok || patConst.IsNull {
		return nil, sql.ErrNotSupported.New("REGEXP pattern must be a constant string")
	}
	patStr, ok := patConst.Datum.(string)
	if !ok {
		return nil, sql.ErrInvalidExpression.New("REGEXP pattern must be a string constant")
	}
	return &RegexpExpr{Arg: arg, Pattern: patStr}, nil
}
