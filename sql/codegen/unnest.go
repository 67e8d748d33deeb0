package codegen

import "github.com/heavyql/qkernel/sql/errcode"

// UnnestElement pairs one array element's value with its null flag,
// mirroring the {value, isNull} pair row_func threads through every other
// operand.
type UnnestElement struct {
	Value  any
	IsNull bool
}

// UnnestSource is the array value Unnest iterates: says a
// real query_func drives the loop off the array's offsets buffer; here the
// elements are already a materialized Go slice (see compare.go's
// ArrayQuantifierCompare doc comment for why).
type UnnestSource struct {
	Elements []UnnestElement
}

// Unnest drives the per-element loop emit describes, calling
// emit once per element in order and stopping (with
// ERR_UNNEST_TOO_MANY_ELEMENTS) if the source exceeds maxElements — the
// Go-level stand-in for the configured unnest element limit.
func Unnest(src UnnestSource, maxElements int, emit func(UnnestElement) errcode.Code) errcode.Code {
	if len(src.Elements) > maxElements {
		return errcode.ErrUnnestTooManyElements
	}
	for _, elem := range src.Elements {
		if code := emit(elem); code != errcode.OK {
			return code
		}
	}
	return errcode.OK
}
