package codegen

import "github.com/heavyql/qkernel/sql"

// ColumnBuffer is the external collaborator a compiled column-fetch reads
// from. Fixed-width columns gather a scalar at row index
// i; At must not be called for a row index beyond Len.
type ColumnBuffer interface {
	Len() int
	At(i int) (value any, isNull bool)
}

// DevicePointers is the GPU-mode column source: one
// ColumnBuffer per device, selected by Context.Device.
type DevicePointers []ColumnBuffer

// CodegenColVar implements `codegenColVar`: fetches column
// col's value for row index i. lazy defers the materialized value and
// returns a row-id instead, to be re-fetched only if the projection
// survives to the result set — this module models that deferral as
// returning the row index itself rather than the value, leaving the real
// re-fetch to the output encoder.
func CodegenColVar(ctx *sql.Context, col ColumnBuffer, i int, lazy bool) (value any, isNull bool, isRowID bool) {
	if lazy {
		return int64(i), false, true
	}
	v, null := col.At(i)
	return v, null, false
}

// SelectDeviceColumn picks the column buffer for ctx's target device out
// of a GPU-mode DevicePointers set.
func SelectDeviceColumn(ctx *sql.Context, cols DevicePointers) ColumnBuffer {
	if ctx.Device < 0 || ctx.Device >= len(cols) {
		return nil
	}
	return cols[ctx.Device]
}

// VarLenText is the {packed_ptr_len, ptr, len} tuple returns
// for a variable-length string column fetch.
type VarLenText struct {
	Ptr string
	Len int
}

// CodegenVarLenColVar fetches a variable-length text column's value as a
// VarLenText tuple.
func CodegenVarLenColVar(col ColumnBuffer, i int) (VarLenText, bool) {
	v, isNull := col.At(i)
	if isNull {
		return VarLenText{}, true
	}
	s, _ := v.(string)
	return VarLenText{Ptr: s, Len: len(s)}, false
}
