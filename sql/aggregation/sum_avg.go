package aggregation

import "github.com/heavyql/qkernel/sql/errcode"

// sumAccumulator backs AggSum, lowered to
// `agg_sum[_skip_val][_int{8,16,32,64}|_float|_double]`. Keeps
// whether every contributing row was an integer type so Eval returns an
// int64 total instead of silently promoting every SUM to float64.
type sumAccumulator struct {
	allInt bool
	hasAny bool
	total  float64
}

func newSumAccumulator() *sumAccumulator {
	return &sumAccumulator{allInt: true}
}

func (s *sumAccumulator) Update(value any, isNull bool) errcode.Code {
	if isNull {
		return errcode.OK
	}
	f, ok := toFloat64(value)
	if !ok {
		return errcode.ErrOutOfSlots
	}
	s.hasAny = true
	s.total += f
	if !isIntegerValue(value) {
		s.allInt = false
	}
	return errcode.OK
}

func (s *sumAccumulator) Merge(other Accumulator) errcode.Code {
	o, ok := other.(*sumAccumulator)
	if !ok {
		return errcode.ErrOutOfSlots
	}
	if !o.hasAny {
		return errcode.OK
	}
	s.hasAny = true
	s.total += o.total
	s.allInt = s.allInt && o.allInt
	return errcode.OK
}

func (s *sumAccumulator) Eval() (any, bool) {
	if !s.hasAny {
		return nil, true
	}
	if s.allInt {
		return int64(s.total), false
	}
	return s.total, false
}

func (s *sumAccumulator) Reset() {
	s.allInt = true
	s.hasAny = false
	s.total = 0
}

// avgAccumulator backs AggAvg, lowered to an `agg_sum` slot plus a
// parallel `agg_count` slot: materialization divides sum by
// count, and a null count (no non-null rows seen) returns NULL rather than
// dividing by zero.
type avgAccumulator struct {
	sum   float64
	count int64
}

func newAvgAccumulator() *avgAccumulator {
	return &avgAccumulator{}
}

func (a *avgAccumulator) Update(value any, isNull bool) errcode.Code {
	if isNull {
		return errcode.OK
	}
	f, ok := toFloat64(value)
	if !ok {
		return errcode.ErrOutOfSlots
	}
	a.sum += f
	a.count++
	return errcode.OK
}

func (a *avgAccumulator) Merge(other Accumulator) errcode.Code {
	o, ok := other.(*avgAccumulator)
	if !ok {
		return errcode.ErrOutOfSlots
	}
	a.sum += o.sum
	a.count += o.count
	return errcode.OK
}

func (a *avgAccumulator) Eval() (any, bool) {
	if a.count == 0 {
		return nil, true
	}
	return a.sum / float64(a.count), false
}

func (a *avgAccumulator) Reset() {
	a.sum = 0
	a.count = 0
}
