package aggregation

import "github.com/heavyql/qkernel/sql/errcode"

// minMaxAccumulator backs AggMin/AggMax, lowered to
// `agg_min`/`agg_max[_skip_val][_int{8,16,32,64}|_float|_double]`: the
// skip_val variant is simply "ignore a null input", which is how Update
// always behaves here since the type-specific suffix only picks which
// runtime symbol a real code generator calls, not a behavior difference
// this Go-level accumulator needs to model twice.
type minMaxAccumulator struct {
	isMax    bool
	hasValue bool
	extreme  float64
	rawExtrm any
}

func newMinMaxAccumulator(isMax bool) *minMaxAccumulator {
	return &minMaxAccumulator{isMax: isMax}
}

func (m *minMaxAccumulator) Update(value any, isNull bool) errcode.Code {
	if isNull {
		return errcode.OK
	}
	f, ok := toFloat64(value)
	if !ok {
		return errcode.ErrOutOfSlots
	}
	if !m.hasValue {
		m.hasValue = true
		m.extreme = f
		m.rawExtrm = value
		return errcode.OK
	}
	cmp := compareNumeric(f, m.extreme)
	if (m.isMax && cmp > 0) || (!m.isMax && cmp < 0) {
		m.extreme = f
		m.rawExtrm = value
	}
	return errcode.OK
}

func (m *minMaxAccumulator) Merge(other Accumulator) errcode.Code {
	o, ok := other.(*minMaxAccumulator)
	if !ok {
		return errcode.ErrOutOfSlots
	}
	if !o.hasValue {
		return errcode.OK
	}
	return m.Update(o.rawExtrm, false)
}

func (m *minMaxAccumulator) Eval() (any, bool) {
	if !m.hasValue {
		return nil, true
	}
	return m.rawExtrm, false
}

func (m *minMaxAccumulator) Reset() {
	m.hasValue = false
	m.extreme = 0
	m.rawExtrm = nil
}
