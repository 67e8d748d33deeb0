package aggregation

import (
	"github.com/heavyql/qkernel/sql/errcode"
	"github.com/heavyql/qkernel/sql/expression"
)

// unsupportedAccumulator is NewAccumulator's fallback for an AggKind with
// no registered constructor. It accepts every Update call (so a fragment
// pipeline built against a future AggKind doesn't panic mid-execution) but
// always evaluates to NULL, making the gap visible in query output rather
// than in a crash.
type unsupportedAccumulator struct {
	kind expression.AggKind
}

func newUnsupportedAccumulator(kind expression.AggKind) *unsupportedAccumulator {
	return &unsupportedAccumulator{kind: kind}
}

func (u *unsupportedAccumulator) Update(value any, isNull bool) errcode.Code { return errcode.OK }

func (u *unsupportedAccumulator) Merge(other Accumulator) errcode.Code { return errcode.OK }

func (u *unsupportedAccumulator) Eval() (any, bool) { return nil, true }

func (u *unsupportedAccumulator) Reset() {}
