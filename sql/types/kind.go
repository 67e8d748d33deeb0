package types

// Kind discriminates the concrete shape of a Type. Every Type implementation
// reports one from Kind(); switches over Kind are how the code generator and
// aggregator dispatch per-type behavior.
type Kind int

const (
	KindInteger Kind = iota
	KindFloatingPoint
	KindDecimal64
	KindBoolean
	KindDate
	KindTime
	KindTimestamp
	KindInterval
	KindText
	KindExtDictionary
	KindFixedLenArray
	KindVarLenArray
	KindColumn
	KindColumnList
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "Integer"
	case KindFloatingPoint:
		return "FloatingPoint"
	case KindDecimal64:
		return "Decimal64"
	case KindBoolean:
		return "Boolean"
	case KindDate:
		return "Date"
	case KindTime:
		return "Time"
	case KindTimestamp:
		return "Timestamp"
	case KindInterval:
		return "Interval"
	case KindText:
		return "Text"
	case KindExtDictionary:
		return "ExtDictionary"
	case KindFixedLenArray:
		return "FixedLenArray"
	case KindVarLenArray:
		return "VarLenArray"
	case KindColumn:
		return "Column"
	case KindColumnList:
		return "ColumnList"
	case KindNull:
		return "Null"
	default:
		return "Unknown"
	}
}

// TimeUnit is the resolution carried by Date/Time/Timestamp/Interval types.
type TimeUnit int

const (
	UnitDay TimeUnit = iota
	UnitSecond
	UnitMilli
	UnitMicro
	UnitNano
	UnitMonth
)

func (u TimeUnit) String() string {
	switch u {
	case UnitDay:
		return "day"
	case UnitSecond:
		return "second"
	case UnitMilli:
		return "millisecond"
	case UnitMicro:
		return "microsecond"
	case UnitNano:
		return "nanosecond"
	case UnitMonth:
		return "month"
	default:
		return "unknown"
	}
}

// scalePerSecond reports how many units of u elapse per second, used for
// timestamp unit-ratio rescaling. UnitDay and UnitMonth are
// not second-denominated and return 0; callers must special-case them.
func (u TimeUnit) scalePerSecond() int64 {
	switch u {
	case UnitSecond:
		return 1
	case UnitMilli:
		return 1e3
	case UnitMicro:
		return 1e6
	case UnitNano:
		return 1e9
	default:
		return 0
	}
}

// PerDay reports how many units of u elapse in one day, used by the
// hash-join builder to bucketize a sub-day-resolution Date column: the
// bucketized variant divides by this value. Returns 0 for UnitDay itself
// and UnitMonth, which have no fixed per-day count.
func (u TimeUnit) PerDay() int64 {
	per := u.scalePerSecond()
	if per == 0 {
		return 0
	}
	return per * 86400
}

// UnitsPerSecond exports scalePerSecond for sql/codegen's timestamp
// unit-ratio cast scaling.
func (u TimeUnit) UnitsPerSecond() int64 {
	return u.scalePerSecond()
}
