package codegen

import "github.com/heavyql/qkernel/sql/expression"

// ValueRange is a per-expression range-inference hint: when both operands
// of an arithmetic op have a known range and the combination provably
// cannot overflow, the overflow check is skipped entirely.
type ValueRange struct {
	Min, Max int64
	HasNulls bool
}

// canOverflowWith reports whether combining r and other with op might
// overflow int64, given both operand ranges are known not to contain the
// null sentinel.
func (r ValueRange) canOverflowWith(op rangeOp, other ValueRange) bool {
	switch op {
	case rangeAdd:
		return overflowsAdd(r.Max, other.Max) || underflowsAdd(r.Min, other.Min)
	case rangeSub:
		return overflowsAdd(r.Max, -other.Min) || underflowsAdd(r.Min, -other.Max)
	case rangeMul:
		// Conservative: only skip the check for the common case of two
		// small non-negative ranges, matching the original's narrow
		// fast-path rather than reimplementing its full sign-split logic
		// here (this is a hint, not a correctness requirement — a false
		// "might overflow" just means Compiler still emits the check).
		return r.Min < 0 || other.Min < 0 || r.Max > (1<<31) || other.Max > (1<<31)
	default:
		return true
	}
}

type rangeOp int

const (
	rangeAdd rangeOp = iota
	rangeSub
	rangeMul
)

func overflowsAdd(a, b int64) bool {
	sum := a + b
	return a > 0 && b > 0 && sum < a
}

func underflowsAdd(a, b int64) bool {
	sum := a + b
	return a < 0 && b < 0 && sum > a
}

// Options configures a Compiler. Construct via NewOptions and the With*
// functional setters.
type Options struct {
	ranges map[expression.Expr]ValueRange
}

// NewOptions returns a zero-value Options with no range hints registered.
func NewOptions() Options {
	return Options{}
}

// WithRangeHints attaches range-inference hints keyed by the exact operand
// expression pointer identity, as normalize.go-produced DAGs never alias
// operand subtrees across targets.
func WithRangeHints(opts Options, hints map[expression.Expr]ValueRange) Options {
	opts.ranges = hints
	return opts
}

func (o Options) rangeOf(e expression.Expr) (ValueRange, bool) {
	if o.ranges == nil {
		return ValueRange{}, false
	}
	r, ok := o.ranges[e]
	return r, ok
}
