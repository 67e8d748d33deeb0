package udtf

import (
	"math"

	"github.com/heavyql/qkernel/sql/codegen"
	"github.com/heavyql/qkernel/sql/types"
)

// ArgKind discriminates the three input shapes a UDTF parameter may take:
// scalar literals, Column(T), or ColumnList(T).
type ArgKind int

const (
	ArgScalar ArgKind = iota
	ArgColumn
	ArgColumnList
)

// Argument is one bound UDTF parameter, already resolved from the raw
// buffers the generated wrapper receives: a local Column/ColumnList
// struct (pointer + length) allocated from the raw buffers. In this
// module the "pointer + length" pair is a codegen.ColumnBuffer plus its
// RowCount, rather than a real device pointer, consistent with
// sql/codegen's own columnar abstraction.
type Argument struct {
	Kind ArgKind
	Type types.Type

	// Scalar holds ArgScalar's 64-bit-padded local.
	Scalar int64
	ScalarIsNull bool

	// Column holds ArgColumn's single bound buffer.
	Column   codegen.ColumnBuffer
	RowCount int

	// ColumnList holds ArgColumnList's bound buffers, one per list element.
	ColumnList []codegen.ColumnBuffer
}

// PadScalar widens v into the 64-bit-padded local used for scalar
// literal arguments, mirroring sql/aggregation.SlotWidth's lazy-fetch
// widening rule for the same reason: every argument slot in the
// wrapper's locals array is uniformly sized.
func PadScalar(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int16:
		return int64(n)
	case int8:
		return int64(n)
	case int:
		return int64(n)
	case float64:
		return int64(math.Float64bits(n))
	case float32:
		return int64(math.Float64bits(float64(n)))
	case bool:
		if n {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// UnpadFloat reverses PadScalar's bit-pattern encoding for a floating-point
// scalar argument.
func UnpadFloat(padded int64) float64 {
	return math.Float64frombits(uint64(padded))
}
