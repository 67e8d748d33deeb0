// Package aggregation implements a per-aggregate-kind accumulator updated
// once per input row and materialized once per output group. An
// aggregate expression pairs with a stateful buffer offering
// NewBuffer/Update/Merge/Eval, generalized to typed, Kind-dispatched
// accumulators instead of dynamic interface{} row values.
package aggregation

import (
	"github.com/heavyql/qkernel/sql/errcode"
	"github.com/heavyql/qkernel/sql/expression"
)

// Accumulator is the Go-level stand-in for one of "slot
// update helpers": Update is called once per input row feeding this
// aggregate, Merge combines two partial accumulators (a parallel build
// across fragments), and Eval materializes the final value. Update/Merge
// return an errcode.Code rather than an error("slot
// update helpers return either the new accumulator value or an error
// code... error codes are negative and propagate up to the row
// function's return").
type Accumulator interface {
	Update(value any, isNull bool) errcode.Code
	Merge(other Accumulator) errcode.Code
	Eval() (value any, isNull bool)
	Reset()
}

// NewAccumulator builds the Accumulator lowering table names for
// agg.Kind. Each aggregate kind would otherwise get its own NewXxx
// constructor (NewCount, NewMin, and so on) — collapsed here into one
// dispatch since every kind shares the same Accumulator contract instead
// of each being its own sql.Expression.
func NewAccumulator(agg *expression.AggExpr, opts Options) Accumulator {
	switch agg.Kind {
	case expression.AggCount:
		return newCountAccumulator(agg.IsDistinct, opts.BigintCount)
	case expression.AggMin:
		return newMinMaxAccumulator(false)
	case expression.AggMax:
		return newMinMaxAccumulator(true)
	case expression.AggSum:
		return newSumAccumulator()
	case expression.AggAvg:
		return newAvgAccumulator()
	case expression.AggSingleValue:
		return newSingleValueAccumulator()
	case expression.AggSample:
		return newSampleAccumulator()
	case expression.AggApproxCountDistinct:
		return newApproxCountDistinctAccumulator(opts.ApproxCountDistinctBits)
	case expression.AggApproxQuantile, expression.AggQuantile:
		return newQuantileAccumulator(constantFraction(agg.Arg1, 0.5))
	case expression.AggTopK:
		return newTopKAccumulator(constantInt(agg.Arg1, opts.TopKLimit))
	default:
		return newUnsupportedAccumulator(agg.Kind)
	}
}

// constantFraction reads a literal quantile fraction out of Arg1, which
// carries the quantile fraction for ApproxQuantile/Quantile, falling back
// to fallback when Arg1 isn't a folded Constant — the compile-time
// literal-folding pass is expected to have already reduced it to one by
// the time an accumulator is built.
func constantFraction(arg1 expression.Expr, fallback float64) float64 {
	c, ok := arg1.(*expression.Constant)
	if !ok || c.IsNull {
		return fallback
	}
	if f, ok := toFloat64(c.Datum); ok {
		return f
	}
	return fallback
}

// constantInt reads a literal k out of Arg1 (TopK's size bound), falling
// back to fallback when Arg1 isn't a folded Constant.
func constantInt(arg1 expression.Expr, fallback int) int {
	c, ok := arg1.(*expression.Constant)
	if !ok || c.IsNull {
		return fallback
	}
	if f, ok := toFloat64(c.Datum); ok {
		return int(f)
	}
	return fallback
}

// Options bundles the compilation knobs ties to a specific
// aggregate kind (bigint_count for Count, the HyperLogLog bit width for
// ApproxCountDistinct) plus TopKLimit, this module's own addition for
// AggTopK (not named in table but present in the expression
// IR, see DESIGN.md).
type Options struct {
	BigintCount             bool
	ApproxCountDistinctBits int
	TopKLimit               int
}
