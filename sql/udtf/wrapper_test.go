package udtf

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heavyql/qkernel/sql/codegen"
	"github.com/heavyql/qkernel/sql/errcode"
	"github.com/heavyql/qkernel/sql/types"
)

type fixedColumn struct {
	values []any
}

func (f *fixedColumn) Len() int { return len(f.values) }
func (f *fixedColumn) At(i int) (any, bool) {
	return f.values[i], f.values[i] == nil
}

func TestBuildWrapperNoOpCopiesInputRowCount(t *testing.T) {
	col := &fixedColumn{values: []any{int64(1), int64(2), int64(3)}}
	meta := Metadata{
		MangledName: "noop",
		Args:        []ArgSpec{{Kind: ArgColumn, Type: types.Int64}},
		OutputTypes: []types.Type{types.Int64},
	}
	noop := func(mgr *Manager, args []Argument) int64 {
		return int64(args[0].RowCount)
	}
	wrapper := BuildWrapper(meta, noop)

	args := BindArguments(meta, []codegen.ColumnBuffer{col}, []int{col.Len()}, nil)
	rowCount, code := wrapper(NewManager(), args)
	require.Equal(t, errcode.OK, code)
	require.Equal(t, int64(3), rowCount)
}

func TestBuildWrapperPropagatesNegativeReturnAsErrorCode(t *testing.T) {
	meta := Metadata{Args: []ArgSpec{{Kind: ArgScalar, Type: types.Int64}}}
	failing := func(mgr *Manager, args []Argument) int64 {
		return int64(errcode.ErrOutOfSlots)
	}
	wrapper := BuildWrapper(meta, failing)

	args := BindArguments(meta, nil, nil, []any{int64(5)})
	_, code := wrapper(NewManager(), args)
	require.Equal(t, errcode.ErrOutOfSlots, code)
}

func TestBuildWrapperCallsSetOutputRowSizeWhenPreSized(t *testing.T) {
	col := &fixedColumn{values: []any{int64(1), int64(2)}}
	var sawRowSize int64
	meta := Metadata{
		Args:     []ArgSpec{{Kind: ArgColumn, Type: types.Int64}},
		PreSized: true,
		OutputRowSize: func(args []Argument) int64 {
			return int64(args[0].RowCount * 2)
		},
	}
	fn := func(mgr *Manager, args []Argument) int64 {
		sawRowSize, _ = mgr.OutputRowSize()
		return sawRowSize
	}
	wrapper := BuildWrapper(meta, fn)

	args := BindArguments(meta, []codegen.ColumnBuffer{col}, []int{col.Len()}, nil)
	rowCount, code := wrapper(NewManager(), args)
	require.Equal(t, errcode.OK, code)
	require.Equal(t, int64(4), rowCount)
	require.Equal(t, int64(4), sawRowSize)
}

func TestBuildWrapperPassByValueCopiesColumnBuffer(t *testing.T) {
	col := &fixedColumn{values: []any{int64(1), int64(2)}}
	meta := Metadata{
		Args:                       []ArgSpec{{Kind: ArgColumn, Type: types.Int64}},
		PassColumnArgumentsByValue: true,
	}
	var boundCol codegen.ColumnBuffer
	fn := func(mgr *Manager, args []Argument) int64 {
		boundCol = args[0].Column
		return 0
	}
	wrapper := BuildWrapper(meta, fn)

	args := BindArguments(meta, []codegen.ColumnBuffer{col}, []int{col.Len()}, nil)
	_, code := wrapper(NewManager(), args)
	require.Equal(t, errcode.OK, code)
	require.NotSame(t, col, boundCol)
	v, isNull := boundCol.At(0)
	require.False(t, isNull)
	require.Equal(t, int64(1), v)
}

func TestBindArgumentsResolvesColumnList(t *testing.T) {
	col1 := &fixedColumn{values: []any{int64(1)}}
	col2 := &fixedColumn{values: []any{int64(2)}}
	listType := types.NewColumnList(types.Int64, 2)
	meta := Metadata{Args: []ArgSpec{{Kind: ArgColumnList, Type: listType}}}

	args := BindArguments(meta, []codegen.ColumnBuffer{col1, col2}, []int{1, 1}, nil)
	require.Len(t, args, 1)
	require.Len(t, args[0].ColumnList, 2)
}

func TestBuildGPUWrapperCopiesRowCountBack(t *testing.T) {
	inner := Wrapper(func(mgr *Manager, args []Argument) (int64, errcode.Code) {
		return 99, errcode.OK
	})
	provider := &fakeDeviceProvider{}
	gpuWrapper := BuildGPUWrapper(provider, inner)

	rowCount, code := gpuWrapper(NewManager(), nil)
	require.Equal(t, errcode.OK, code)
	require.Equal(t, int64(99), rowCount)
	require.True(t, provider.copiedToDevice)
}

type fakeDeviceProvider struct {
	copiedToDevice bool
}

func (f *fakeDeviceProvider) AllocateDevice(args []Argument) []Argument { return args }
func (f *fakeDeviceProvider) CopyToDevice(args []Argument)              { f.copiedToDevice = true }
func (f *fakeDeviceProvider) CopyRowCountFromDevice() int64             { return 99 }
