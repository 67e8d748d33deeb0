package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommonCommutativeAndIdempotent(t *testing.T) {
	pairs := []Type{
		NewInteger(4, true),
		NewInteger(8, false),
		NewFloatingPoint(Fp64, true),
		NewDecimal64(10, 2, true),
		NewText(true),
	}

	for _, a := range pairs {
		for _, b := range pairs {
			ab, errAB := Common(a, b)
			ba, errBA := Common(b, a)
			require.NoError(t, errAB)
			require.NoError(t, errBA)
			require.Equal(t, ab.String(), ba.String(), "Common(%s,%s) should equal Common(%s,%s)", a, b, b, a)
		}
		aa, err := Common(a, a)
		require.NoError(t, err)
		require.Equal(t, a.WithNullable(a.Nullable()).String(), aa.String())
	}
}

func TestCommonIntegerWidening(t *testing.T) {
	c, err := Common(NewInteger(4, false), NewInteger(8, false))
	require.NoError(t, err)
	it := c.(*IntegerType)
	require.Equal(t, 8, it.Width)
}

func TestCommonIntegerDecimalWidensToDecimal(t *testing.T) {
	c, err := Common(NewInteger(4, true), NewDecimal64(10, 2, true))
	require.NoError(t, err)
	require.Equal(t, KindDecimal64, c.Kind())
}

func TestCommonAnyFloatWidensToFp64(t *testing.T) {
	c, err := Common(NewDecimal64(5, 1, true), NewFloatingPoint(Fp32, true))
	require.NoError(t, err)
	ft := c.(*FloatingPointType)
	require.Equal(t, Fp64, ft.Precision)
}

func TestCommonDictKeepsEncodingAgainstPlainText(t *testing.T) {
	dict := NewExtDictionary(NewText(true), 1, 4, true)
	c, err := Common(dict, NewText(true))
	require.NoError(t, err)
	require.Equal(t, KindExtDictionary, c.Kind())
}

func TestCommonDifferentDictsDecompress(t *testing.T) {
	d1 := NewExtDictionary(NewText(true), 1, 4, true)
	d2 := NewExtDictionary(NewText(true), 2, 4, true)
	c, err := Common(d1, d2)
	require.NoError(t, err)
	require.Equal(t, KindText, c.Kind())
}

func TestCommonNullableWidens(t *testing.T) {
	c, err := Common(NewInteger(4, false), NewInteger(4, true))
	require.NoError(t, err)
	require.True(t, c.Nullable())
}

func TestCommonRejectsIncompatible(t *testing.T) {
	_, err := Common(NewBoolean(true), NewText(true))
	require.Error(t, err)
}

func TestInterningPointerEquality(t *testing.T) {
	ctx := NewContext()
	a := ctx.Intern(NewInteger(4, true))
	b := ctx.Intern(NewInteger(4, true))
	require.Same(t, a, b)

	c := ctx.Intern(NewInteger(8, true))
	require.NotSame(t, a, c)
	require.Equal(t, 2, ctx.Len())
}

func TestNullSentinels(t *testing.T) {
	require.Equal(t, int8(-128), NewInteger(1, true).NullSentinel())
	require.Equal(t, int32(-1), NewExtDictionary(NewText(true), 1, 4, true).NullSentinel())
	require.Equal(t, int8(-1), NewBoolean(true).NullSentinel())
}

func TestCanonicalizeStripsDictionary(t *testing.T) {
	dict := NewExtDictionary(NewText(false), 7, 2, true)
	canon := dict.Canonicalize()
	require.Equal(t, KindText, canon.Kind())
	require.True(t, canon.Nullable())
}
