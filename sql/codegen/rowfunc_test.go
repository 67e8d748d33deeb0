package codegen

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heavyql/qkernel/sql"
	"github.com/heavyql/qkernel/sql/errcode"
	"github.com/heavyql/qkernel/sql/expression"
	"github.com/heavyql/qkernel/sql/types"
)

func colVar(idx int, typ types.Type) *expression.ColumnVar {
	return expression.NewColumnVar(expression.ColumnInfo{Name: "c", Type: typ, ColIndex: idx}, idx)
}

func TestArithmeticOverflowReportsCode(t *testing.T) {
	_, code := AddInt(1, math.MaxInt8, 1)
	require.Equal(t, errcode.ErrOverflowOrUnderflow, code)

	v, code := AddInt(8, 2, 3)
	require.Equal(t, errcode.OK, code)
	require.Equal(t, int64(5), v)
}

func TestDivIntHonorsNullDivByZeroPolicy(t *testing.T) {
	opts := sql.DefaultCompilationOptions()
	opts.NullDivByZero = true
	ctx := sql.NewContext(context.Background(), opts, sql.CPU)

	v, isNull, code := DivInt(ctx, 10, 0)
	require.Equal(t, errcode.OK, code)
	require.True(t, isNull)
	require.Equal(t, int64(0), v)
}

func TestDivIntDefaultPolicyErrors(t *testing.T) {
	ctx := sql.NewEmptyContext()
	_, _, code := DivInt(ctx, 10, 0)
	require.Equal(t, errcode.ErrDivByZero, code)
}

func TestDivFloatInfPolicy(t *testing.T) {
	opts := sql.DefaultCompilationOptions()
	opts.InfDivByZero = true
	ctx := sql.NewContext(context.Background(), opts, sql.CPU)

	v, isNull, code := DivFloat(ctx, 1, 0)
	require.Equal(t, errcode.OK, code)
	require.False(t, isNull)
	require.True(t, math.IsInf(v, 1))
}

func TestBitwiseEqualTreatsTwoNullsAsEqual(t *testing.T) {
	require.True(t, BitwiseEqual(0, 0, true, true))
	require.False(t, BitwiseEqual(0, 0, true, false))
	require.True(t, BitwiseEqual(5, 5, false, false))
}

func TestArrayQuantifierCompareAnyAll(t *testing.T) {
	elems := []float64{1, 2, 3}
	nulls := []bool{false, false, false}
	require.True(t, ArrayQuantifierCompare(QuantifierAny, PredEQ, 2, elems, nulls))
	require.False(t, ArrayQuantifierCompare(QuantifierAll, PredEQ, 2, elems, nulls))
	require.True(t, ArrayQuantifierCompare(QuantifierAll, PredGT, 0, elems, nulls))
}

func TestCastIntIntOverflowsOnNarrow(t *testing.T) {
	_, code := CastIntInt(8, 1, 1000)
	require.Equal(t, errcode.ErrOverflowOrUnderflow, code)

	v, code := CastIntInt(8, 1, 100)
	require.Equal(t, errcode.OK, code)
	require.Equal(t, int64(100), v)
}

func TestCastDecimalRoundTrips(t *testing.T) {
	v, code := CastDecimal(2, 4, 12345)
	require.Equal(t, errcode.OK, code)
	require.Equal(t, int64(1234500), v)

	v, code = CastDecimal(4, 2, 1234500)
	require.Equal(t, errcode.OK, code)
	require.Equal(t, int64(12345), v)
}

func TestBuildInBitmapAndProbe(t *testing.T) {
	bm := BuildInBitmap(sql.NewEmptyContext(), []int64{1, 5, 10})
	require.True(t, bm.BitIsSet(5))
	require.False(t, bm.BitIsSet(6))
	require.False(t, bm.BitIsSet(0))
}

func TestUnnestStopsPastLimit(t *testing.T) {
	src := UnnestSource{Elements: []UnnestElement{{Value: int64(1)}, {Value: int64(2)}}}
	code := Unnest(src, 1, func(UnnestElement) errcode.Code { return errcode.OK })
	require.Equal(t, errcode.ErrUnnestTooManyElements, code)
}

func TestEvalRankWindowHandlesTies(t *testing.T) {
	ranks := EvalRankWindow([]float64{1, 1, 2, 3, 3})
	require.Equal(t, []int64{1, 1, 3, 4, 4}, ranks)
}

func TestEvalDenseRankWindowHasNoGaps(t *testing.T) {
	ranks := EvalDenseRankWindow([]float64{1, 1, 2, 3, 3})
	require.Equal(t, []int64{1, 1, 2, 3, 3}, ranks)
}

func TestEvalLagWindowUsesDefaultPastStart(t *testing.T) {
	vals, nulls := EvalLagWindow([]any{int64(1), int64(2), int64(3)}, []bool{false, false, false}, 1, int64(-1), false)
	require.Equal(t, []any{int64(-1), int64(1), int64(2)}, vals)
	require.Equal(t, []bool{false, false, false}, nulls)
}

func TestProbeRowIDShortcutForwardsFlag(t *testing.T) {
	_, matched, code := ProbeRowIDShortcut(false, 7, false)
	require.Equal(t, errcode.OK, code)
	require.False(t, matched)

	rowID, matched, code := ProbeRowIDShortcut(true, 7, false)
	require.Equal(t, errcode.OK, code)
	require.True(t, matched)
	require.Equal(t, int64(7), rowID)
}

func TestCompilerCompilesArithmeticExpression(t *testing.T) {
	ctx := sql.NewEmptyContext()
	c := NewCompiler(ctx, NewOptions())

	lhs := colVar(0, types.Int64)
	rhs := expression.NewConstant(types.Int64, int64(10))
	expr := expression.NewBinOper(types.Int64, expression.OpAdd, expression.QualOne, lhs, rhs)

	fn, err := c.Compile(expr)
	require.NoError(t, err)

	v, isNull, code := fn(sql.Row{int64(5)}, 0)
	require.Equal(t, errcode.OK, code)
	require.False(t, isNull)
	require.Equal(t, int64(15), v)
}

func TestCompilerCompilesComparisonExpression(t *testing.T) {
	ctx := sql.NewEmptyContext()
	c := NewCompiler(ctx, NewOptions())

	lhs := colVar(0, types.Int64)
	rhs := expression.NewConstant(types.Int64, int64(10))
	expr := expression.NewBinOper(types.Boolean, expression.OpGt, expression.QualOne, lhs, rhs)

	fn, err := c.Compile(expr)
	require.NoError(t, err)

	v, isNull, code := fn(sql.Row{int64(20)}, 0)
	require.Equal(t, errcode.OK, code)
	require.False(t, isNull)
	require.Equal(t, true, v)
}

func TestCompilerCompilesCaseExpression(t *testing.T) {
	ctx := sql.NewEmptyContext()
	c := NewCompiler(ctx, NewOptions())

	cond := expression.NewBinOper(types.Boolean, expression.OpGt, expression.QualOne,
		colVar(0, types.Int64), expression.NewConstant(types.Int64, int64(0)))
	caseExpr := expression.NewCase(
		[]expression.CaseBranch{{Cond: cond, Value: expression.NewConstant(types.Text, "positive")}},
		expression.NewConstant(types.Text, "non-positive"),
		types.Text,
	)

	fn, err := c.Compile(caseExpr)
	require.NoError(t, err)

	v, _, code := fn(sql.Row{int64(5)}, 0)
	require.Equal(t, errcode.OK, code)
	require.Equal(t, "positive", v)

	v, _, code = fn(sql.Row{int64(-1)}, 0)
	require.Equal(t, errcode.OK, code)
	require.Equal(t, "non-positive", v)
}

func TestCompilerCompilesCastIntToFloat(t *testing.T) {
	ctx := sql.NewEmptyContext()
	c := NewCompiler(ctx, NewOptions())

	cast := expression.NewUOper(types.Float64, expression.OpCast, colVar(0, types.Int64))
	fn, err := c.Compile(cast)
	require.NoError(t, err)

	v, _, code := fn(sql.Row{int64(7)}, 0)
	require.Equal(t, errcode.OK, code)
	require.Equal(t, float64(7), v)
}

func TestCompilerCompilesIsNullAlwaysNonNullable(t *testing.T) {
	ctx := sql.NewEmptyContext()
	c := NewCompiler(ctx, NewOptions())

	isNullExpr := expression.NewUOper(types.NewBoolean(false), expression.OpIsNull, colVar(0, types.Int64))
	fn, err := c.Compile(isNullExpr)
	require.NoError(t, err)

	v, isNull, code := fn(sql.Row{nil}, 0)
	require.Equal(t, errcode.OK, code)
	require.False(t, isNull)
	require.Equal(t, true, v)
}

func TestCompilerCompilesUnaryMinusOverflow(t *testing.T) {
	ctx := sql.NewEmptyContext()
	c := NewCompiler(ctx, NewOptions())

	uminus := expression.NewUOper(types.Int8, expression.OpUMinus, expression.NewConstant(types.Int8, int64(math.MinInt8)))
	fn, err := c.Compile(uminus)
	require.NoError(t, err)

	_, _, code := fn(nil, 0)
	require.Equal(t, errcode.ErrOverflowOrUnderflow, code)
}

func TestCompilerRangeHintSkipsOverflowCheck(t *testing.T) {
	ctx := sql.NewEmptyContext()
	lhs := colVar(0, types.Int8)
	rhs := expression.NewConstant(types.Int8, int64(1))
	expr := expression.NewBinOper(types.Int8, expression.OpAdd, expression.QualOne, lhs, rhs)

	hints := map[expression.Expr]ValueRange{
		lhs: {Min: 0, Max: 10},
		rhs: {Min: 1, Max: 1},
	}
	opts := WithRangeHints(NewOptions(), hints)
	c := NewCompiler(ctx, opts)

	fn, err := c.Compile(expr)
	require.NoError(t, err)

	v, _, code := fn(sql.Row{int64(5)}, 0)
	require.Equal(t, errcode.OK, code)
	require.Equal(t, int64(6), v)
}
