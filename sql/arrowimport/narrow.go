package arrowimport

import (
	"github.com/heavyql/qkernel/sql/codegen"
	"github.com/heavyql/qkernel/sql/errcode"
)

// NarrowDictionaryIndices narrows a dictionary-encoded column's int32
// indices down to toWidth bytes (2 or 1), returning
// ERR_OVERFLOW_OR_UNDERFLOW as soon as one index does not fit. The original
// picks an AVX-512 vectorized path on capable hardware and falls back to
// a scalar loop elsewhere; no vectorization intrinsics library is wired
// here (see DESIGN.md), so this is the scalar path unconditionally,
// reusing codegen.CastIntInt's overflow check rather than duplicating
// the narrowing-cast bounds logic.
func NarrowDictionaryIndices(indices []int32, toWidth int) ([]int64, errcode.Code) {
	out := make([]int64, len(indices))
	for i, idx := range indices {
		narrowed, code := codegen.CastIntInt(4, toWidth, int64(idx))
		if code != errcode.OK {
			return nil, code
		}
		out[i] = narrowed
	}
	return out, errcode.OK
}
