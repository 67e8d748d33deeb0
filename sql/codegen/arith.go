package codegen

import (
	"math"

	"github.com/heavyql/qkernel/sql"
	"github.com/heavyql/qkernel/sql/errcode"
)

// intBounds returns the [min, max] representable by a signed integer of
// width bytes (1, 2, 4, or 8)-width overflow check.
func intBounds(width int) (int64, int64) {
	switch width {
	case 1:
		return math.MinInt8, math.MaxInt8
	case 2:
		return math.MinInt16, math.MaxInt16
	case 4:
		return math.MinInt32, math.MaxInt32
	default:
		return math.MinInt64, math.MaxInt64
	}
}

// AddInt is the CPU path's `sadd.with.overflow.iN`: it
// always checks, since Go has no hardware carry-bit intrinsic to branch
// on; GPU's explicit add/sub range check collapses to the same min/max
// comparison shown in bullet list, so one implementation
// serves both targets here.
func AddInt(width int, lhs, rhs int64) (int64, errcode.Code) {
	min, max := intBounds(width)
	sum := lhs + rhs
	if lhs > 0 && rhs > max-lhs {
		return 0, errcode.ErrOverflowOrUnderflow
	}
	if lhs < 0 && rhs < min-lhs {
		return 0, errcode.ErrOverflowOrUnderflow
	}
	return sum, errcode.OK
}

// SubInt mirrors AddInt, symmetric
func SubInt(width int, lhs, rhs int64) (int64, errcode.Code) {
	min, max := intBounds(width)
	if rhs < 0 && lhs > max+rhs {
		return 0, errcode.ErrOverflowOrUnderflow
	}
	if rhs > 0 && lhs < min+rhs {
		return 0, errcode.ErrOverflowOrUnderflow
	}
	return lhs - rhs, errcode.OK
}

// MulInt multiplies two width-byte integers, reporting overflow when one
// side is -1 and the other is the width's minimum, when the int64 product
// does not divide back to lhs, or when the product falls outside the
// width's range.
func MulInt(width int, lhs, rhs int64) (int64, errcode.Code) {
	if lhs == 0 || rhs == 0 {
		return 0, errcode.OK
	}
	min, max := intBounds(width)
	product := lhs * rhs
	if lhs == -1 && rhs == min {
		return 0, errcode.ErrOverflowOrUnderflow
	}
	if rhs == -1 && lhs == min {
		return 0, errcode.ErrOverflowOrUnderflow
	}
	if product/rhs != lhs {
		return 0, errcode.ErrOverflowOrUnderflow
	}
	if product < min || product > max {
		return 0, errcode.ErrOverflowOrUnderflow
	}
	return product, errcode.OK
}

// UnaryMinusInt checks the one integer case that can overflow negation:
// negating the width's minimum value.
func UnaryMinusInt(width int, operand int64) (int64, errcode.Code) {
	min, _ := intBounds(width)
	if operand == min {
		return 0, errcode.ErrOverflowOrUnderflow
	}
	return -operand, errcode.OK
}

// DivInt applies divide-by-zero policy for integer
// division: null_div_by_zero returns (0, true, OK); otherwise
// ERR_DIV_BY_ZERO. inf_div_by_zero has no integer analogue (there is no
// integer infinity) and is therefore never consulted here — sql/config's
// Validate already rejects a config that sets both flags, so the
// ambiguity never arises.
func DivInt(ctx *sql.Context, lhs, rhs int64) (int64, bool, errcode.Code) {
	if rhs == 0 {
		if ctx.Options.NullDivByZero {
			return 0, true, errcode.OK
		}
		return 0, false, errcode.ErrDivByZero
	}
	if lhs == math.MinInt64 && rhs == -1 {
		return 0, false, errcode.ErrOverflowOrUnderflow
	}
	return lhs / rhs, false, errcode.OK
}

// ModInt applies the same divide-by-zero handling as DivInt.
func ModInt(ctx *sql.Context, lhs, rhs int64) (int64, bool, errcode.Code) {
	if rhs == 0 {
		if ctx.Options.NullDivByZero {
			return 0, true, errcode.OK
		}
		return 0, false, errcode.ErrDivByZero
	}
	return lhs % rhs, false, errcode.OK
}

// DivFloat applies floating-point divide-by-zero policy:
// inf_div_by_zero returns the IEEE-754 signed infinity Go's own float
// division already produces, so the only real branch is the plain
// ERR_DIV_BY_ZERO fallback.
func DivFloat(ctx *sql.Context, lhs, rhs float64) (float64, bool, errcode.Code) {
	if rhs == 0 {
		if ctx.Options.InfDivByZero {
			return lhs / rhs, false, errcode.OK
		}
		return 0, false, errcode.ErrDivByZero
	}
	return lhs / rhs, false, errcode.OK
}

// DecimalDivScale computes the scale DecimalDiv should compute at:
// upscaled by 10^scale unless rhsScaledInt is a scaled integer constant
// evenly divisible by 10^scale, in which case the division can run at the
// lower scale without risking overflow from the upscale multiply.
func DecimalDivScale(scale int, rhsScaledInt int64, rhsIsConstant bool) int {
	if !rhsIsConstant {
		return scale
	}
	pow := int64(1)
	for i := 0; i < scale; i++ {
		pow *= 10
	}
	if rhsScaledInt%pow == 0 {
		return 0
	}
	return scale
}
