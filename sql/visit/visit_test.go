package visit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heavyql/qkernel/sql/expression"
	"github.com/heavyql/qkernel/sql/types"
)

func TestVisitCountsNodes(t *testing.T) {
	lhs := expression.NewConstant(types.NewInteger(4, true), int32(1))
	rhs := expression.NewConstant(types.NewInteger(4, true), int32(2))
	b, err := expression.NormalizeBinOper(expression.OpAdd, expression.QualOne, lhs, rhs)
	require.NoError(t, err)

	count := Visit(b, func(expression.Expr) (int, bool) {
		return 1, false
	}, func(prev, next int) int { return prev + next }, 0)

	require.Equal(t, 3, count) // BinOper + 2 constants
}

func TestVisitStopsEarly(t *testing.T) {
	lhs := expression.NewConstant(types.NewInteger(4, true), int32(1))
	rhs := expression.NewConstant(types.NewInteger(4, true), int32(2))
	b, err := expression.NormalizeBinOper(expression.OpAdd, expression.QualOne, lhs, rhs)
	require.NoError(t, err)

	count := Visit[int](b, func(expression.Expr) (int, bool) {
		return 42, true
	}, func(prev, next int) int { return prev + next }, 0)

	require.Equal(t, 42, count)
}

func TestCollectFindsConstants(t *testing.T) {
	lhs := expression.NewConstant(types.NewInteger(4, true), int32(1))
	rhs := expression.NewConstant(types.NewInteger(4, true), int32(2))
	b, err := expression.NormalizeBinOper(expression.OpAdd, expression.QualOne, lhs, rhs)
	require.NoError(t, err)

	consts := Collect(b, func(e expression.Expr) bool {
		_, ok := e.(*expression.Constant)
		return ok
	})
	require.Len(t, consts, 2)
}

func TestRewriterMemoizesSharedNodes(t *testing.T) {
	shared := expression.NewConstant(types.NewInteger(4, true), int32(7))
	b, err := expression.NormalizeBinOper(expression.OpAdd, expression.QualOne, shared, shared)
	require.NoError(t, err)

	visits := 0
	r := NewRewriter(func(e expression.Expr) (expression.Expr, bool, error) {
		if c, ok := e.(*expression.Constant); ok {
			visits++
			return expression.NewConstant(c.Type(), int32(99)), true, nil
		}
		return nil, false, nil
	})

	rewritten, err := r.Rewrite(b)
	require.NoError(t, err)
	require.Equal(t, 1, visits, "shared constant should only be rewritten once")

	bo := rewritten.(*expression.BinOper)
	require.Same(t, bo.LHS, bo.RHS)
}
