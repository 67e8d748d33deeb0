package codegen

import (
	"github.com/heavyql/qkernel/sql"
	"github.com/heavyql/qkernel/sql/errcode"
	"github.com/heavyql/qkernel/sql/expression"
	"github.com/heavyql/qkernel/sql/types"
)

// compileBinOper lowers a BinOper node to a RowFunc, dispatching by
// operator family: arithmetic (arith.go), comparison (compare.go), or
// logical AND/OR with SQL three-valued-logic short-circuiting.
func (c *Compiler) compileBinOper(e *expression.BinOper) (RowFunc, error) {
	lhs, err := c.Compile(e.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := c.Compile(e.RHS)
	if err != nil {
		return nil, err
	}

	switch {
	case e.Op == expression.OpAnd || e.Op == expression.OpOr:
		return c.compileLogical(e.Op, lhs, rhs), nil
	case e.Op.IsArithmetic():
		return c.compileArith(e, lhs, rhs)
	case e.Op.IsComparison():
		return c.compileComparison(e, lhs, rhs)
	case e.Op == expression.OpArrayAt:
		return c.compileArrayAt(lhs, rhs), nil
	default:
		return nil, sql.ErrNotSupported.New(e.String())
	}
}

// compileLogical implements SQL's three-valued AND/OR: a null operand
// only forces a null result when the other operand doesn't already
// determine it (false for AND, true for OR).
func (c *Compiler) compileLogical(op expression.BinaryOp, lhs, rhs RowFunc) RowFunc {
	dominant := false // AND short-circuits on false
	if op == expression.OpOr {
		dominant = true
	}
	return func(row sql.Row, rowIndex int64) (any, bool, errcode.Code) {
		lv, lNull, code := lhs(row, rowIndex)
		if code != errcode.OK {
			return nil, false, code
		}
		if !lNull {
			if b, _ := lv.(bool); b == dominant {
				return dominant, false, errcode.OK
			}
		}
		rv, rNull, code := rhs(row, rowIndex)
		if code != errcode.OK {
			return nil, false, code
		}
		if !rNull {
			if b, _ := rv.(bool); b == dominant {
				return dominant, false, errcode.OK
			}
		}
		if lNull || rNull {
			return nil, true, errcode.OK
		}
		lb, _ := lv.(bool)
		rb, _ := rv.(bool)
		if op == expression.OpAnd {
			return lb && rb, false, errcode.OK
		}
		return lb || rb, false, errcode.OK
	}
}

func (c *Compiler) compileArrayAt(lhs, rhs RowFunc) RowFunc {
	return func(row sql.Row, rowIndex int64) (any, bool, errcode.Code) {
		av, aNull, code := lhs(row, rowIndex)
		if code != errcode.OK || aNull {
			return nil, aNull, code
		}
		iv, iNull, code := rhs(row, rowIndex)
		if code != errcode.OK || iNull {
			return nil, iNull, code
		}
		arr, ok := av.([]any)
		idx, idxOk := toInt64(iv)
		if !ok || !idxOk || idx < 1 || idx > int64(len(arr)) {
			return nil, true, errcode.OK
		}
		return arr[idx-1], arr[idx-1] == nil, errcode.OK
	}
}

// compileArith wires a +, -, *, /, % BinOper into arith.go's per-width
// checked operators, honoring any range-inference hint registered in
// c.opts for this exact operand pair: a hint that proves the operation
// cannot overflow skips straight to the unchecked Go operator instead of
// calling the checked helper.
func (c *Compiler) compileArith(e *expression.BinOper, lhs, rhs RowFunc) (RowFunc, error) {
	isFloat := e.ResultType != nil && e.ResultType.Kind() == types.KindFloatingPoint
	width := widthOf(e.ResultType)
	op := e.Op
	ctx := c.ctx
	skipCheck := c.canSkipOverflowCheck(e)

	return func(row sql.Row, rowIndex int64) (any, bool, errcode.Code) {
		lv, lNull, code := lhs(row, rowIndex)
		if code != errcode.OK {
			return nil, false, code
		}
		rv, rNull, code := rhs(row, rowIndex)
		if code != errcode.OK {
			return nil, false, code
		}
		if lNull || rNull {
			return nil, true, errcode.OK
		}

		if isFloat {
			lf, _ := toFloat64Arg(lv)
			rf, _ := toFloat64Arg(rv)
			switch op {
			case expression.OpAdd:
				return lf + rf, false, errcode.OK
			case expression.OpSub:
				return lf - rf, false, errcode.OK
			case expression.OpMul:
				return lf * rf, false, errcode.OK
			case expression.OpDiv:
				v, isNull, code := DivFloat(ctx, lf, rf)
				return v, isNull, code
			default: // OpMod
				if rf == 0 {
					if ctx.Options.InfDivByZero {
						return 0.0, false, errcode.OK
					}
					return nil, false, errcode.ErrDivByZero
				}
				return mathMod(lf, rf), false, errcode.OK
			}
		}

		li, _ := toInt64(lv)
		ri, _ := toInt64(rv)
		switch op {
		case expression.OpAdd:
			if skipCheck {
				return li + ri, false, errcode.OK
			}
			v, code := AddInt(width, li, ri)
			return v, false, code
		case expression.OpSub:
			if skipCheck {
				return li - ri, false, errcode.OK
			}
			v, code := SubInt(width, li, ri)
			return v, false, code
		case expression.OpMul:
			if skipCheck {
				return li * ri, false, errcode.OK
			}
			v, code := MulInt(width, li, ri)
			return v, false, code
		case expression.OpDiv:
			v, isNull, code := DivInt(ctx, li, ri)
			return v, isNull, code
		default: // OpMod
			v, isNull, code := ModInt(ctx, li, ri)
			return v, isNull, code
		}
	}, nil
}

// canSkipOverflowCheck consults the compiler's range hints for e's two
// operands and reports whether the registered ranges provably cannot
// overflow for e's operator.
func (c *Compiler) canSkipOverflowCheck(e *expression.BinOper) bool {
	var op rangeOp
	switch e.Op {
	case expression.OpAdd:
		op = rangeAdd
	case expression.OpSub:
		op = rangeSub
	case expression.OpMul:
		op = rangeMul
	default:
		return false
	}
	lr, lok := c.opts.rangeOf(e.LHS)
	rr, rok := c.opts.rangeOf(e.RHS)
	if !lok || !rok || lr.HasNulls || rr.HasNulls {
		return false
	}
	if lr.canOverflowWith(op, rr) {
		return false
	}
	// canOverflowWith only rules out int64 overflow; the result range must
	// also fit e's own integer width.
	min, max := intBounds(widthOf(e.ResultType))
	var lo, hi int64
	switch op {
	case rangeAdd:
		lo, hi = lr.Min+rr.Min, lr.Max+rr.Max
	case rangeSub:
		lo, hi = lr.Min-rr.Max, lr.Max-rr.Min
	default: // rangeMul: both ranges are non-negative here
		lo, hi = lr.Min*rr.Min, lr.Max*rr.Max
	}
	return lo >= min && hi <= max
}

// compileComparison wires the six comparison BinaryOps plus bitwise-equal
// into compare.go, dispatching to ArrayQuantifierCompare when e.Qualifier
// marks this node as a `= ANY`/`= ALL` array comparison.
func (c *Compiler) compileComparison(e *expression.BinOper, lhs, rhs RowFunc) (RowFunc, error) {
	pred := PredicateFor(e.Op)
	isBwEq := e.Op == expression.OpBwEq
	qualifier := e.Qualifier

	if qualifier != expression.QualOne {
		mode := QuantifierAny
		if qualifier == expression.QualAll {
			mode = QuantifierAll
		}
		return func(row sql.Row, rowIndex int64) (any, bool, errcode.Code) {
			lv, lNull, code := lhs(row, rowIndex)
			if code != errcode.OK {
				return nil, false, code
			}
			rv, rNull, code := rhs(row, rowIndex)
			if code != errcode.OK {
				return nil, false, code
			}
			if lNull || rNull {
				return nil, true, errcode.OK
			}
			target, _ := toFloat64Arg(lv)
			arr, _ := rv.([]any)
			elems := make([]float64, len(arr))
			elemNulls := make([]bool, len(arr))
			for i, el := range arr {
				if el == nil {
					elemNulls[i] = true
					continue
				}
				elems[i], _ = toFloat64Arg(el)
			}
			return ArrayQuantifierCompare(mode, pred, target, elems, elemNulls), false, errcode.OK
		}, nil
	}

	return func(row sql.Row, rowIndex int64) (any, bool, errcode.Code) {
		lv, lNull, code := lhs(row, rowIndex)
		if code != errcode.OK {
			return nil, false, code
		}
		rv, rNull, code := rhs(row, rowIndex)
		if code != errcode.OK {
			return nil, false, code
		}

		if s1, ok := lv.(string); ok {
			if s2, ok2 := rv.(string); ok2 && !lNull && !rNull {
				return StringCompare(pred, StringCompareBytes, s1, s2), false, errcode.OK
			}
		}

		lf, _ := toFloat64Arg(lv)
		rf, _ := toFloat64Arg(rv)
		if isBwEq {
			return BitwiseEqual(lf, rf, lNull, rNull), false, errcode.OK
		}
		if lNull || rNull {
			return nil, true, errcode.OK
		}
		return CompareNumeric(pred, lf, rf), false, errcode.OK
	}, nil
}

func toFloat64Arg(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case int16:
		return float64(n), true
	case int8:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int16:
		return int64(n), true
	case int8:
		return int64(n), true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}

func mathMod(a, b float64) float64 {
	for a >= b {
		a -= b
	}
	return a
}
