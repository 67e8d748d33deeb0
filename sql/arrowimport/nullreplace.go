package arrowimport

import (
	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"

	"github.com/heavyql/qkernel/sql/types"
)

// ReplaceNullValues reads src into a dense []any the rest of this
// module can treat as a codegen.ColumnBuffer's backing store, replacing
// every Arrow-null slot with target's NullSentinel. Boolean arrays are
// expanded from Arrow's bit-packed validity/value representation into one
// dense 8-bit entry per row, matching types.BooleanType's in-band
// encoding. Values are decoded only for Boolean, Int8/16/32/64,
// Float32/64, String, Date32 and Timestamp arrays; for any other Arrow
// array type only the null slots are filled and the non-null slots are
// left nil.
func ReplaceNullValues(src arrow.Array, target types.Type) []any {
	n := src.Len()
	out := make([]any, n)
	sentinel := target.NullSentinel()

	switch a := src.(type) {
	case *array.Boolean:
		for i := 0; i < n; i++ {
			if a.IsNull(i) {
				out[i] = sentinel
				continue
			}
			if a.Value(i) {
				out[i] = int8(1)
			} else {
				out[i] = int8(0)
			}
		}
	case *array.Int8:
		for i := 0; i < n; i++ {
			out[i] = nullOr(a.IsNull(i), sentinel, func() any { return int64(a.Value(i)) })
		}
	case *array.Int16:
		for i := 0; i < n; i++ {
			out[i] = nullOr(a.IsNull(i), sentinel, func() any { return int64(a.Value(i)) })
		}
	case *array.Int32:
		for i := 0; i < n; i++ {
			out[i] = nullOr(a.IsNull(i), sentinel, func() any { return int64(a.Value(i)) })
		}
	case *array.Int64:
		for i := 0; i < n; i++ {
			out[i] = nullOr(a.IsNull(i), sentinel, func() any { return a.Value(i) })
		}
	case *array.Float32:
		for i := 0; i < n; i++ {
			out[i] = nullOr(a.IsNull(i), sentinel, func() any { return float64(a.Value(i)) })
		}
	case *array.Float64:
		for i := 0; i < n; i++ {
			out[i] = nullOr(a.IsNull(i), sentinel, func() any { return a.Value(i) })
		}
	case *array.String:
		for i := 0; i < n; i++ {
			out[i] = nullOr(a.IsNull(i), sentinel, func() any { return a.Value(i) })
		}
	case *array.Date32:
		for i := 0; i < n; i++ {
			out[i] = nullOr(a.IsNull(i), sentinel, func() any { return int64(a.Value(i)) })
		}
	case *array.Timestamp:
		for i := 0; i < n; i++ {
			out[i] = nullOr(a.IsNull(i), sentinel, func() any { return int64(a.Value(i)) })
		}
	default:
		for i := 0; i < n; i++ {
			if src.IsNull(i) {
				out[i] = sentinel
			}
		}
	}
	return out
}

func nullOr(isNull bool, sentinel any, value func() any) any {
	if isNull {
		return sentinel
	}
	return value()
}
