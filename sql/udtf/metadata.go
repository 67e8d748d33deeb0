package udtf

import "github.com/heavyql/qkernel/sql/types"

// ArgSpec describes one declared UDTF parameter's static shape.
type ArgSpec struct {
	Kind ArgKind
	Type types.Type
}

// Metadata is a UDTF's compile-time descriptor: its mangled
// entry-point name, parameter shapes, output column types, and the two
// flags the wrapper generator consults.
type Metadata struct {
	MangledName string
	Args        []ArgSpec
	OutputTypes []types.Type

	// PreSized marks a UDTF whose output row count is known before the
	// call, requiring TableFunctionManager_set_output_row_size to run
	// first.
	PreSized bool

	// PassColumnArgumentsByValue mirrors the UDTF compile-time metadata
	// flag of the same name: when set, Column/ColumnList
	// arguments are copied into the wrapper's locals rather than bound by
	// reference to the caller's buffers.
	PassColumnArgumentsByValue bool

	// OutputRowSize computes the pre-sized output row count from the
	// bound arguments; only consulted when PreSized is true.
	OutputRowSize func(args []Argument) int64
}
