// Package udtf implements the table-valued function ABI: the wrapper the
// core generates around a user-provided table function, binding
// heterogeneous columnar/scalar arguments and collecting the function's
// output row count. As with sql/codegen, no native code is emitted;
// BuildWrapper returns a Go closure with the same four-step contract the
// generated `(mgr*, col_buffers**, row_counts*, output_buffers*,
// output_row_count*) -> i32` entry point would carry, grounded on
// sql/codegen's RowFunc closure-compiler approach and on the pattern of
// registering a Go function under a stable name and dispatching to it at
// call time (sql/expression/function's registry).
package udtf
