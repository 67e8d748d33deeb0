package aggregation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heavyql/qkernel/sql/errcode"
	"github.com/heavyql/qkernel/sql/expression"
	"github.com/heavyql/qkernel/sql/types"
)

func TestCountAccumulatorNonDistinct(t *testing.T) {
	c := newCountAccumulator(false, false)
	require.Equal(t, errcode.OK, c.Update(int64(1), false))
	require.Equal(t, errcode.OK, c.Update(int64(2), false))
	require.Equal(t, errcode.OK, c.Update(nil, true))
	v, isNull := c.Eval()
	require.False(t, isNull)
	require.Equal(t, int32(2), v)
}

func TestCountAccumulatorDistinctDedupes(t *testing.T) {
	c := newCountAccumulator(true, true)
	require.Equal(t, errcode.OK, c.Update(int64(5), false))
	require.Equal(t, errcode.OK, c.Update(int64(5), false))
	require.Equal(t, errcode.OK, c.Update(int64(6), false))
	v, isNull := c.Eval()
	require.False(t, isNull)
	require.Equal(t, int64(2), v)
}

func TestCountAccumulatorMergeDistinct(t *testing.T) {
	a := newCountAccumulator(true, true)
	b := newCountAccumulator(true, true)
	a.Update(int64(1), false)
	a.Update(int64(2), false)
	b.Update(int64(2), false)
	b.Update(int64(3), false)
	require.Equal(t, errcode.OK, a.Merge(b))
	v, _ := a.Eval()
	require.Equal(t, int64(3), v)
}

func TestMinMaxAccumulatorTracksExtreme(t *testing.T) {
	m := newMinMaxAccumulator(true)
	m.Update(int64(3), false)
	m.Update(int64(9), false)
	m.Update(int64(1), false)
	v, isNull := m.Eval()
	require.False(t, isNull)
	require.Equal(t, int64(9), v)
}

func TestMinMaxAccumulatorEmptyIsNull(t *testing.T) {
	m := newMinMaxAccumulator(false)
	_, isNull := m.Eval()
	require.True(t, isNull)
}

func TestSumAccumulatorKeepsIntegerResult(t *testing.T) {
	s := newSumAccumulator()
	s.Update(int64(3), false)
	s.Update(int64(4), false)
	v, isNull := s.Eval()
	require.False(t, isNull)
	require.Equal(t, int64(7), v)
}

func TestSumAccumulatorPromotesToFloatOnAnyFloatInput(t *testing.T) {
	s := newSumAccumulator()
	s.Update(int64(3), false)
	s.Update(2.5, false)
	v, isNull := s.Eval()
	require.False(t, isNull)
	require.Equal(t, 5.5, v)
}

func TestAvgAccumulatorDividesSumByCount(t *testing.T) {
	a := newAvgAccumulator()
	a.Update(int64(2), false)
	a.Update(int64(4), false)
	v, isNull := a.Eval()
	require.False(t, isNull)
	require.Equal(t, 3.0, v)
}

func TestAvgAccumulatorZeroCountIsNull(t *testing.T) {
	a := newAvgAccumulator()
	_, isNull := a.Eval()
	require.True(t, isNull)
}

func TestSingleValueAccumulatorAcceptsOneRepeatedValue(t *testing.T) {
	s := newSingleValueAccumulator()
	require.Equal(t, errcode.OK, s.Update(int64(7), false))
	require.Equal(t, errcode.OK, s.Update(int64(7), false))
	v, isNull := s.Eval()
	require.False(t, isNull)
	require.Equal(t, int64(7), v)
}

func TestSingleValueAccumulatorErrorsOnSecondDistinctValue(t *testing.T) {
	s := newSingleValueAccumulator()
	require.Equal(t, errcode.OK, s.Update(int64(7), false))
	require.Equal(t, errcode.ErrSingleValueFoundMultipleValues, s.Update(int64(8), false))
}

func TestSampleAccumulatorKeepsFirstNonNull(t *testing.T) {
	s := newSampleAccumulator()
	s.Update(nil, true)
	s.Update(int64(42), false)
	s.Update(int64(99), false)
	v, isNull := s.Eval()
	require.False(t, isNull)
	require.Equal(t, int64(42), v)
}

func TestApproxCountDistinctAccumulatorEstimatesCardinality(t *testing.T) {
	a := newApproxCountDistinctAccumulator(0)
	for i := int64(0); i < 500; i++ {
		a.Update(i, false)
	}
	v, isNull := a.Eval()
	require.False(t, isNull)
	estimate := v.(int64)
	require.InDelta(t, 500, estimate, 50)
}

func TestQuantileAccumulatorMedian(t *testing.T) {
	q := newQuantileAccumulator(0.5)
	for i := int64(1); i <= 100; i++ {
		q.Update(i, false)
	}
	v, isNull := q.Eval()
	require.False(t, isNull)
	require.InDelta(t, 50, v.(float64), 5)
}

func TestTopKAccumulatorKeepsKLargest(t *testing.T) {
	tk := newTopKAccumulator(3)
	for _, v := range []int64{5, 1, 9, 3, 7, 2} {
		tk.Update(v, false)
	}
	v, isNull := tk.Eval()
	require.False(t, isNull)
	require.Equal(t, []float64{9, 7, 5}, v)
}

func TestTopKAccumulatorMerge(t *testing.T) {
	a := newTopKAccumulator(2)
	b := newTopKAccumulator(2)
	a.Update(int64(1), false)
	a.Update(int64(9), false)
	b.Update(int64(5), false)
	b.Update(int64(2), false)
	require.Equal(t, errcode.OK, a.Merge(b))
	v, _ := a.Eval()
	require.Equal(t, []float64{9, 5}, v)
}

func TestUnsupportedAccumulatorEvaluatesNull(t *testing.T) {
	u := newUnsupportedAccumulator(expression.AggKind(99))
	require.Equal(t, errcode.OK, u.Update(int64(1), false))
	_, isNull := u.Eval()
	require.True(t, isNull)
}

func TestNewAccumulatorDispatchesByKind(t *testing.T) {
	bigint := types.NewInteger(8, false)

	countExpr := expression.NewAggExpr(bigint, expression.AggCount, nil, false, nil, expression.InterpolationLinear)
	require.IsType(t, &countAccumulator{}, NewAccumulator(countExpr, Options{}))

	sumExpr := expression.NewAggExpr(bigint, expression.AggSum, nil, false, nil, expression.InterpolationLinear)
	require.IsType(t, &sumAccumulator{}, NewAccumulator(sumExpr, Options{}))

	quantileExpr := expression.NewAggExpr(
		types.NewFloatingPoint(types.Fp64, false),
		expression.AggQuantile,
		nil,
		false,
		expression.NewConstant(types.NewFloatingPoint(types.Fp64, false), 0.9),
		expression.InterpolationLinear,
	)
	q := NewAccumulator(quantileExpr, Options{})
	qa, ok := q.(*quantileAccumulator)
	require.True(t, ok)
	require.Equal(t, 0.9, qa.fraction)
}

func TestRuntimeNameComposesSkipValAndWidth(t *testing.T) {
	sumExpr := expression.NewAggExpr(nil, expression.AggSum, nil, false, nil, expression.InterpolationLinear)
	require.Equal(t, "agg_sum_skip_val_int64", RuntimeName(sumExpr, true, types.NewInteger(8, true)))
	require.Equal(t, "agg_sum", RuntimeName(sumExpr, false, nil))
}

func TestSlotWidthWidensForLazyFetch(t *testing.T) {
	require.Equal(t, 8, SlotWidth(types.NewInteger(2, false), true))
	require.Equal(t, 2, SlotWidth(types.NewInteger(2, false), false))
}

func TestSlotCountIsTwoForAvg(t *testing.T) {
	require.Equal(t, 2, SlotCount(expression.AggAvg))
	require.Equal(t, 1, SlotCount(expression.AggSum))
}
