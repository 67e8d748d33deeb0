package udtf

import (
	"github.com/heavyql/qkernel/sql/codegen"
	"github.com/heavyql/qkernel/sql/errcode"
)

// UDTFunc is the user-provided table function the wrapper calls by its
// mangled name. It returns the output row count, or a
// negative errcode.Code on failure — the same "negative value is an
// error" convention row_func uses, so the wrapper can propagate it
// without a separate error type.
type UDTFunc func(mgr *Manager, args []Argument) int64

// Wrapper is the generated entry point for a user-defined table function:
// `(mgr*, col_buffers**, row_counts*, output_buffers*, output_row_count*)
// -> i32`. Rather than threading four separate raw-buffer parameters, this
// Go rendition takes the already-bound []Argument (built by BindArguments
// from the raw col_buffers/row_counts pair) and returns the row count
// alongside the status code, since Go has no out-parameter convention to
// mimic `output_row_count*` faithfully.
type Wrapper func(mgr *Manager, args []Argument) (outputRowCount int64, code errcode.Code)

// BuildWrapper compiles meta into a Wrapper around fn. Allocating local
// Column/ColumnList structs from the raw buffers and packing scalar
// literals into a 64-bit-padded local are the caller's job via
// BindArguments, since those steps operate on the raw buffer pair this
// module never receives directly; BuildWrapper itself runs fn against the
// bound arguments and reports its row count and status.
func BuildWrapper(meta Metadata, fn UDTFunc) Wrapper {
	return func(mgr *Manager, args []Argument) (int64, errcode.Code) {
		bound := args
		if meta.PassColumnArgumentsByValue {
			bound = copyColumnArguments(args)
		}

		if meta.PreSized && meta.OutputRowSize != nil {
			mgr.SetOutputRowSize(meta.OutputRowSize(bound))
		}

		result := fn(mgr, bound)
		if result < 0 {
			return 0, errcode.Code(result)
		}
		return result, errcode.OK
	}
}

// copyColumnArguments implements the "pass_column_arguments_by_value"
// metadata flag: Column/ColumnList arguments are copied into
// fresh backing buffers rather than left bound to the caller's, so the
// user function cannot observe (or mutate) the original buffer identity.
func copyColumnArguments(args []Argument) []Argument {
	out := make([]Argument, len(args))
	for i, a := range args {
		switch a.Kind {
		case ArgColumn:
			a.Column = copyColumnBuffer(a.Column)
		case ArgColumnList:
			cp := make([]codegen.ColumnBuffer, len(a.ColumnList))
			for j, col := range a.ColumnList {
				cp[j] = copyColumnBuffer(col)
			}
			a.ColumnList = cp
		}
		out[i] = a
	}
	return out
}
