package codegen

import (
	"github.com/heavyql/qkernel/sql/aggregation"
	"github.com/heavyql/qkernel/sql/expression"
)

// WindowPartition is one PARTITION BY group, already sorted by its
// ORDER BY keys — the precomputed "partition-start bitset" and row
// ordering describes are implicit in this slice's order
// rather than a separate auxiliary bitset buffer, since this module
// evaluates a window function over an already-materialized partition
// instead of a columnar row stream.
type WindowPartition struct {
	// Args holds, for each row in partition order, the window function's
	// evaluated argument values (nil for RowNumber/Rank, which take none).
	Args []any
	// ArgNulls parallels Args.
	ArgNulls []bool
}

// EvalRowNumberWindow implements the `row_number_window_func` runtime
//: a 1-based ordinal position within the partition.
func EvalRowNumberWindow(n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = int64(i + 1)
	}
	return out
}

// EvalRankWindow implements RANK: ties share the lowest rank of the tied
// group, and the next distinct value's rank skips ahead by the tied
// group's size.
func EvalRankWindow(orderVals []float64) []int64 {
	out := make([]int64, len(orderVals))
	for i := range out {
		if i == 0 || orderVals[i] != orderVals[i-1] {
			out[i] = int64(i + 1)
		} else {
			out[i] = out[i-1]
		}
	}
	return out
}

// EvalDenseRankWindow implements DENSE_RANK: ties share a rank, and the
// next distinct value's rank is exactly one more, with no gaps.
func EvalDenseRankWindow(orderVals []float64) []int64 {
	out := make([]int64, len(orderVals))
	rank := int64(0)
	for i := range out {
		if i == 0 || orderVals[i] != orderVals[i-1] {
			rank++
		}
		out[i] = rank
	}
	return out
}

// EvalNTileWindow implements NTILE(buckets): partition rows as evenly as
// possible across buckets 1..buckets, with any remainder distributed to
// the earliest buckets first (the conventional NTILE tie-breaking rule).
func EvalNTileWindow(n, buckets int) []int64 {
	out := make([]int64, n)
	if buckets <= 0 {
		return out
	}
	base := n / buckets
	remainder := n % buckets
	row := 0
	for bucket := 1; bucket <= buckets && row < n; bucket++ {
		size := base
		if bucket <= remainder {
			size++
		}
		for i := 0; i < size && row < n; i++ {
			out[row] = int64(bucket)
			row++
		}
	}
	return out
}

// EvalPercentRankWindow implements the `percent_window_func` runtime for
// PERCENT_RANK: (rank - 1) / (n - 1), or 0 when n == 1.
func EvalPercentRankWindow(ranks []int64) []float64 {
	n := len(ranks)
	out := make([]float64, n)
	if n <= 1 {
		return out
	}
	for i, r := range ranks {
		out[i] = float64(r-1) / float64(n-1)
	}
	return out
}

// EvalCumeDistWindow implements CUME_DIST via the `percent_window_func`
// runtime: the fraction of the partition whose order key is <= the
// current row's, counting every tied row at once.
func EvalCumeDistWindow(orderVals []float64) []float64 {
	n := len(orderVals)
	out := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j < n && orderVals[j] == orderVals[i] {
			j++
		}
		dist := float64(j) / float64(n)
		for k := i; k < j; k++ {
			out[k] = dist
		}
		i = j
	}
	return out
}

// EvalLagWindow implements LAG: each row reads the value offset rows
// before it, or defaultVal (with defaultIsNull) past the partition start.
func EvalLagWindow(values []any, nulls []bool, offset int, defaultVal any, defaultIsNull bool) ([]any, []bool) {
	n := len(values)
	outVals := make([]any, n)
	outNulls := make([]bool, n)
	for i := 0; i < n; i++ {
		src := i - offset
		if src < 0 {
			outVals[i], outNulls[i] = defaultVal, defaultIsNull
			continue
		}
		outVals[i], outNulls[i] = values[src], nulls[src]
	}
	return outVals, outNulls
}

// EvalLeadWindow implements LEAD, symmetric to EvalLagWindow.
func EvalLeadWindow(values []any, nulls []bool, offset int, defaultVal any, defaultIsNull bool) ([]any, []bool) {
	n := len(values)
	outVals := make([]any, n)
	outNulls := make([]bool, n)
	for i := 0; i < n; i++ {
		src := i + offset
		if src >= n {
			outVals[i], outNulls[i] = defaultVal, defaultIsNull
			continue
		}
		outVals[i], outNulls[i] = values[src], nulls[src]
	}
	return outVals, outNulls
}

// EvalFirstValueWindow implements FIRST_VALUE: every row in the partition
// reads the first row's value.
func EvalFirstValueWindow(values []any, nulls []bool) ([]any, []bool) {
	n := len(values)
	outVals := make([]any, n)
	outNulls := make([]bool, n)
	for i := 0; i < n; i++ {
		if n == 0 {
			continue
		}
		outVals[i], outNulls[i] = values[0], nulls[0]
	}
	return outVals, outNulls
}

// EvalLastValueWindow implements LAST_VALUE: every row reads the last
// row's value, matching this package's UNBOUNDED PRECEDING/FOLLOWING
// frame treatment for value functions (no explicit frame support beyond
// the whole partition).
func EvalLastValueWindow(values []any, nulls []bool) ([]any, []bool) {
	n := len(values)
	outVals := make([]any, n)
	outNulls := make([]bool, n)
	if n == 0 {
		return outVals, outNulls
	}
	last, lastNull := values[n-1], nulls[n-1]
	for i := 0; i < n; i++ {
		outVals[i], outNulls[i] = last, lastNull
	}
	return outVals, outNulls
}

// EvalAggregateWindow implements the aggregate window functions
// (Avg/Min/Max/Sum/Count): a one-slot accumulator reset at the partition
// boundary, re-evaluated cumulatively through the current row — the
// default RANGE UNBOUNDED PRECEDING TO CURRENT ROW frame — reusing
// sql/aggregation's Accumulator rather than duplicating its per-kind
// update logic here.
func EvalAggregateWindow(kind expression.WindowKind, values []any, nulls []bool, opts aggregation.Options) []any {
	out := make([]any, len(values))
	acc := newWindowAccumulator(kind, opts)
	for i := range values {
		acc.Update(values[i], nulls[i])
		v, isNull := acc.Eval()
		if isNull {
			out[i] = nil
		} else {
			out[i] = v
		}
	}
	return out
}

func newWindowAccumulator(kind expression.WindowKind, opts aggregation.Options) aggregation.Accumulator {
	var aggKind expression.AggKind
	switch kind {
	case expression.WinAvg:
		aggKind = expression.AggAvg
	case expression.WinMin:
		aggKind = expression.AggMin
	case expression.WinMax:
		aggKind = expression.AggMax
	case expression.WinSum, expression.WinSumInternal:
		aggKind = expression.AggSum
	default:
		aggKind = expression.AggCount
	}
	return aggregation.NewAccumulator(expression.NewAggExpr(nil, aggKind, nil, false, nil, expression.InterpolationLinear), opts)
}
