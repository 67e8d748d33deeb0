package expression

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heavyql/qkernel/sql/types"
)

func TestNormalizeBinOperCastsBothSidesToCommon(t *testing.T) {
	lhs := NewConstant(types.NewInteger(4, true), int32(1))
	rhs := NewConstant(types.NewInteger(8, true), int64(2))

	b, err := NormalizeBinOper(OpAdd, QualOne, lhs, rhs)
	require.NoError(t, err)

	common, err := types.Common(lhs.Type(), rhs.Type())
	require.NoError(t, err)
	require.Equal(t, common.String(), b.LHS.Type().String())
	require.Equal(t, common.String(), b.RHS.Type().String())
	require.Equal(t, common.String(), b.Type().String())
}

func TestNormalizeBinOperComparisonResultIsBoolean(t *testing.T) {
	lhs := NewConstant(types.NewInteger(4, true), int32(1))
	rhs := NewConstant(types.NewInteger(4, true), int32(2))

	b, err := NormalizeBinOper(OpLt, QualOne, lhs, rhs)
	require.NoError(t, err)
	require.Equal(t, types.KindBoolean, b.Type().Kind())
}

func TestNormalizeCaseAllNullArmsFails(t *testing.T) {
	branches := []CaseBranch{
		{Cond: NewConstant(types.NewBoolean(false), true), Value: NewNullConstant(types.Null)},
	}
	_, err := NormalizeCase(branches, NewNullConstant(types.Null))
	require.Error(t, err)
}

func TestNormalizeCaseMixedNullAndTypedYieldsNullableTyped(t *testing.T) {
	branches := []CaseBranch{
		{Cond: NewConstant(types.NewBoolean(false), true), Value: NewNullConstant(types.Null)},
		{Cond: NewConstant(types.NewBoolean(false), true), Value: NewConstant(types.NewInteger(4, false), int32(5))},
	}
	c, err := NormalizeCase(branches, nil)
	require.NoError(t, err)
	require.Equal(t, types.KindInteger, c.Type().Kind())
	require.True(t, c.Type().Nullable())
	// Synthesized else branch.
	require.IsType(t, &Constant{}, c.Else)
	require.True(t, c.Else.(*Constant).IsNull)
}

func TestAnalyzeIntValuePicksSmallestWidth(t *testing.T) {
	require.Equal(t, 2, AnalyzeIntValue(100).Type().Size())
	require.Equal(t, 4, AnalyzeIntValue(100000).Type().Size())
	require.Equal(t, 8, AnalyzeIntValue(1<<40).Type().Size())
}

func TestAnalyzeLikeDetectsSimpleContains(t *testing.T) {
	arg := NewConstant(types.NewText(true), "hello")
	l, err := AnalyzeLike(arg, NewConstant(types.NewText(false), "%foo%"), nil)
	require.NoError(t, err)
	require.True(t, l.Simple)

	l2, err := AnalyzeLike(arg, NewConstant(types.NewText(false), "%fo_o%"), nil)
	require.NoError(t, err)
	require.False(t, l2.Simple)

	l3, err := AnalyzeLike(arg, NewConstant(types.NewText(false), "foo%"), nil)
	require.NoError(t, err)
	require.False(t, l3.Simple)
}

func TestAnalyzeLikeRejectsNonConstantPattern(t *testing.T) {
	arg := NewConstant(types.NewText(true), "hello")
	_, err := AnalyzeLike(arg, NewColumnVar(ColumnInfo{Name: "p", Type: types.NewText(true)}, 0), nil)
	require.Error(t, err)
}
