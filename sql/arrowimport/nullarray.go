package arrowimport

// EncodeArrayOffset packs a variable-length array element's offset and its
// nullability into a single signed offset. offset must be
// non-negative; the sign bit is free to carry the null flag.
func EncodeArrayOffset(offset int32, isNull bool) int32 {
	if isNull {
		return -offset - 1
	}
	return offset
}

// DecodeArrayOffset reverses EncodeArrayOffset. The -1 bias keeps offset 0
// distinguishable from a null encoding of offset 0 (both would otherwise
// collide at -0).
func DecodeArrayOffset(encoded int32) (offset int32, isNull bool) {
	if encoded < 0 {
		return -encoded - 1, true
	}
	return encoded, false
}
