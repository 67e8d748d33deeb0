package aggregation

import (
	"fmt"

	"github.com/axiomhq/hyperloglog"
	"github.com/heavyql/qkernel/sql/errcode"
)

const defaultApproxCountDistinctPrecision = 14

// approxCountDistinctAccumulator backs AggApproxCountDistinct, lowered to
// `agg_approximate_count_distinct`: a HyperLogLog sketch trades exact
// cardinality for a small fixed-size register array instead of a hash
// set. Bits sets the sketch precision (registers = 2^bits);
// ApproxCountDistinctBits of 0, or a value the sketch rejects, picks the
// default.
type approxCountDistinctAccumulator struct {
	sketch    *hyperloglog.Sketch
	precision uint8
}

func newApproxCountDistinctAccumulator(bits int) *approxCountDistinctAccumulator {
	precision := uint8(bits)
	if precision == 0 {
		precision = defaultApproxCountDistinctPrecision
	}
	sketch, err := hyperloglog.NewSketch(precision, true)
	if err != nil {
		precision = defaultApproxCountDistinctPrecision
		sketch, _ = hyperloglog.NewSketch(precision, true)
	}
	return &approxCountDistinctAccumulator{sketch: sketch, precision: precision}
}

func (a *approxCountDistinctAccumulator) Update(value any, isNull bool) errcode.Code {
	if isNull {
		return errcode.OK
	}
	a.sketch.Insert([]byte(fmt.Sprint(value)))
	return errcode.OK
}

func (a *approxCountDistinctAccumulator) Merge(other Accumulator) errcode.Code {
	o, ok := other.(*approxCountDistinctAccumulator)
	if !ok {
		return errcode.ErrOutOfSlots
	}
	if err := a.sketch.Merge(o.sketch); err != nil {
		return errcode.ErrOutOfSlots
	}
	return errcode.OK
}

func (a *approxCountDistinctAccumulator) Eval() (any, bool) {
	return int64(a.sketch.Estimate()), false
}

func (a *approxCountDistinctAccumulator) Reset() {
	a.sketch, _ = hyperloglog.NewSketch(a.precision, true)
}
