package arrowimport

import (
	"testing"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/memory"
	"github.com/stretchr/testify/require"

	"github.com/heavyql/qkernel/sql/types"
)

func TestReplaceNullValuesFillsIntegerSentinel(t *testing.T) {
	mem := memory.NewGoAllocator()
	b := array.NewInt64Builder(mem)
	defer b.Release()
	b.Append(10)
	b.AppendNull()
	b.Append(30)
	arr := b.NewInt64Array()
	defer arr.Release()

	out := ReplaceNullValues(arr, types.Int64)
	require.Equal(t, []any{int64(10), types.Int64.NullSentinel(), int64(30)}, out)
}

func TestReplaceNullValuesPacksBooleansDense(t *testing.T) {
	mem := memory.NewGoAllocator()
	b := array.NewBooleanBuilder(mem)
	defer b.Release()
	b.Append(true)
	b.AppendNull()
	b.Append(false)
	arr := b.NewBooleanArray()
	defer arr.Release()

	out := ReplaceNullValues(arr, types.Boolean)
	require.Equal(t, []any{int8(1), types.Boolean.NullSentinel(), int8(0)}, out)
}

func TestReplaceNullValuesChunkedPreservesPerChunkOrder(t *testing.T) {
	mem := memory.NewGoAllocator()
	b1 := array.NewInt64Builder(mem)
	b1.Append(1)
	b1.Append(2)
	arr1 := b1.NewInt64Array()
	b1.Release()
	defer arr1.Release()

	b2 := array.NewInt64Builder(mem)
	b2.AppendNull()
	b2.Append(4)
	arr2 := b2.NewInt64Array()
	b2.Release()
	defer arr2.Release()

	out := ReplaceNullValuesChunked([]arrow.Array{arr1, arr2}, types.Int64)
	require.Len(t, out, 2)
	require.Equal(t, []any{int64(1), int64(2)}, out[0])
	require.Equal(t, []any{types.Int64.NullSentinel(), int64(4)}, out[1])
}

func TestNarrowDictionaryIndicesFitsInt16(t *testing.T) {
	out, code := NarrowDictionaryIndices([]int32{0, 100, 32000}, 2)
	require.Equal(t, int32(0), int32(code))
	require.Equal(t, []int64{0, 100, 32000}, out)
}

func TestNarrowDictionaryIndicesOverflowsInt8(t *testing.T) {
	_, code := NarrowDictionaryIndices([]int32{0, 1000}, 1)
	require.NotEqual(t, int32(0), int32(code))
}

func TestPadOrTruncateFixedLenPadsShortRows(t *testing.T) {
	out := PadOrTruncateFixedLen([]any{int64(1), int64(2)}, int64(-1), 4)
	require.Equal(t, []any{int64(1), int64(2), int64(-1), int64(-1)}, out)
}

func TestPadOrTruncateFixedLenTruncatesLongRows(t *testing.T) {
	out := PadOrTruncateFixedLen([]any{int64(1), int64(2), int64(3)}, int64(-1), 2)
	require.Equal(t, []any{int64(1), int64(2)}, out)
}

func TestEncodeDecodeArrayOffsetRoundTrips(t *testing.T) {
	for _, tc := range []struct {
		offset int32
		isNull bool
	}{
		{0, false}, {5, false}, {0, true}, {1, true}, {1000, true},
	} {
		encoded := EncodeArrayOffset(tc.offset, tc.isNull)
		offset, isNull := DecodeArrayOffset(encoded)
		require.Equal(t, tc.offset, offset)
		require.Equal(t, tc.isNull, isNull)
	}
}
