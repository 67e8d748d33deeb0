package aggregation

import "github.com/heavyql/qkernel/sql/errcode"

// sampleAccumulator backs AggSample, lowered to
// `agg_id`: SAMPLE() (and the
// non-aggregated column of a GROUP BY projection under some dialects) just
// wants one representative value per group, so this keeps the first
// non-null value seen and ignores the rest.
type sampleAccumulator struct {
	hasValue bool
	value    any
}

func newSampleAccumulator() *sampleAccumulator {
	return &sampleAccumulator{}
}

func (s *sampleAccumulator) Update(value any, isNull bool) errcode.Code {
	if isNull || s.hasValue {
		return errcode.OK
	}
	s.hasValue = true
	s.value = value
	return errcode.OK
}

func (s *sampleAccumulator) Merge(other Accumulator) errcode.Code {
	o, ok := other.(*sampleAccumulator)
	if !ok {
		return errcode.ErrOutOfSlots
	}
	if !o.hasValue {
		return errcode.OK
	}
	return s.Update(o.value, false)
}

func (s *sampleAccumulator) Eval() (any, bool) {
	if !s.hasValue {
		return nil, true
	}
	return s.value, false
}

func (s *sampleAccumulator) Reset() {
	s.hasValue = false
	s.value = nil
}
