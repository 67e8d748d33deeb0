package udtf

import (
	"github.com/heavyql/qkernel/sql/codegen"
	"github.com/heavyql/qkernel/sql/types"
)

// BindArguments implements steps 1-2: it walks meta.Args in
// order, consuming from colBuffers/rowCounts for Column and ColumnList
// parameters and from scalars for scalar-literal parameters, producing
// the []Argument BuildWrapper's Wrapper expects. scalars holds each
// scalar argument's already-evaluated Go value (the row_func that
// produced it has already run); PadScalar encodes it into the
// 64-bit-padded local names.
func BindArguments(meta Metadata, colBuffers []codegen.ColumnBuffer, rowCounts []int, scalars []any) []Argument {
	args := make([]Argument, len(meta.Args))
	colIdx, scalarIdx := 0, 0
	for i, spec := range meta.Args {
		switch spec.Kind {
		case ArgScalar:
			v := scalars[scalarIdx]
			scalarIdx++
			args[i] = Argument{Kind: ArgScalar, Type: spec.Type, Scalar: PadScalar(v), ScalarIsNull: v == nil}
		case ArgColumn:
			args[i] = Argument{Kind: ArgColumn, Type: spec.Type, Column: colBuffers[colIdx], RowCount: rowCounts[colIdx]}
			colIdx++
		case ArgColumnList:
			length := 0
			if lt, ok := spec.Type.(*types.ColumnListType); ok {
				length = lt.Length
			}
			cols := make([]codegen.ColumnBuffer, length)
			for j := 0; j < length; j++ {
				cols[j] = colBuffers[colIdx]
				colIdx++
			}
			rc := 0
			if length > 0 {
				rc = rowCounts[colIdx-length]
			}
			args[i] = Argument{Kind: ArgColumnList, Type: spec.Type, ColumnList: cols, RowCount: rc}
		}
	}
	return args
}
