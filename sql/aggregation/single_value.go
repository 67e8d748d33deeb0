package aggregation

import "github.com/heavyql/qkernel/sql/errcode"

// singleValueAccumulator backs AggSingleValue, lowered to
// `checked_single_agg_id[_int{8,16,32,64}|_float|_double]`: a
// correlated subquery is expected to produce exactly one row, so the first
// non-null value is kept and any later value that differs is an error
// rather than a silent overwrite.
type singleValueAccumulator struct {
	hasValue bool
	value    any
	errored  bool
}

func newSingleValueAccumulator() *singleValueAccumulator {
	return &singleValueAccumulator{}
}

func (s *singleValueAccumulator) Update(value any, isNull bool) errcode.Code {
	if isNull {
		return errcode.OK
	}
	if !s.hasValue {
		s.hasValue = true
		s.value = value
		return errcode.OK
	}
	if value != s.value {
		s.errored = true
		return errcode.ErrSingleValueFoundMultipleValues
	}
	return errcode.OK
}

func (s *singleValueAccumulator) Merge(other Accumulator) errcode.Code {
	o, ok := other.(*singleValueAccumulator)
	if !ok {
		return errcode.ErrOutOfSlots
	}
	if o.errored {
		s.errored = true
		return errcode.ErrSingleValueFoundMultipleValues
	}
	if !o.hasValue {
		return errcode.OK
	}
	return s.Update(o.value, false)
}

func (s *singleValueAccumulator) Eval() (any, bool) {
	if !s.hasValue {
		return nil, true
	}
	return s.value, false
}

func (s *singleValueAccumulator) Reset() {
	s.hasValue = false
	s.value = nil
	s.errored = false
}
