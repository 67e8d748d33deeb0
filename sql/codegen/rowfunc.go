package codegen

import (
	"strings"

	"github.com/heavyql/qkernel/sql"
	"github.com/heavyql/qkernel/sql/errcode"
	"github.com/heavyql/qkernel/sql/expression"
	"github.com/heavyql/qkernel/sql/types"
)

// RowFunc is the compiled form of one scalar expression.Expr: the
// generated row_func, invoked once per input row. rowIndex is the row's
// ordinal position within its fragment (used for fragment offsets and
// lazy-fetch row ids).
type RowFunc func(row sql.Row, rowIndex int64) (value any, isNull bool, code errcode.Code)

// Compiler compiles expression.Expr trees into RowFunc closures — the
// code generator's entry point. It walks an expression tree once at
// construction time and produces a closure invoked per row, returning
// an explicit (value, isNull, errcode.Code) triple instead of a bare
// interface{} and a panic-on-error Eval.
type Compiler struct {
	ctx  *sql.Context
	opts Options
}

// NewCompiler builds a Compiler bound to ctx's CompilationOptions (div-by-zero
// policy, etc.) and opts' range-inference hints.
func NewCompiler(ctx *sql.Context, opts Options) *Compiler {
	return &Compiler{ctx: ctx, opts: opts}
}

// Compile lowers expr into a RowFunc. Returns sql.ErrNotSupported for an
// AggExpr or WindowFunction: those are handled one level up, by
// sql/aggregation's Accumulator and sql/codegen's window.go respectively,
// never inside a plain scalar row_func.
func (c *Compiler) Compile(expr expression.Expr) (RowFunc, error) {
	switch e := expr.(type) {
	case *expression.Constant:
		return c.compileConstant(e), nil
	case *expression.ColumnVar:
		return c.compileSlot(e.RteIdx), nil
	case *expression.ColumnRef:
		return c.compileSlot(e.Index), nil
	case *expression.Var:
		return c.compileSlot(e.VarNo), nil
	case *expression.BinOper:
		return c.compileBinOper(e)
	case *expression.UOper:
		return c.compileUOper(e)
	case *expression.CaseExpr:
		return c.compileCase(e)
	case *expression.InValues:
		return c.compileInValues(e)
	case *expression.InIntegerSet:
		return c.compileInIntegerSet(e)
	case *expression.SampleRatioExpr:
		return c.Compile(e.Arg)
	case *expression.LikelihoodExpr:
		return c.Compile(e.Arg)
	case expression.OffsetInFragment:
		return func(row sql.Row, rowIndex int64) (any, bool, errcode.Code) {
			return rowIndex, false, errcode.OK
		}, nil
	case *expression.LowerExpr:
		return c.compileLower(e)
	case *expression.CharLengthExpr:
		return c.compileCharLength(e)
	default:
		return nil, sql.ErrNotSupported.New(expr.String())
	}
}

func (c *Compiler) compileConstant(e *expression.Constant) RowFunc {
	return func(row sql.Row, rowIndex int64) (any, bool, errcode.Code) {
		return e.Datum, e.IsNull, errcode.OK
	}
}

func (c *Compiler) compileSlot(idx int) RowFunc {
	return func(row sql.Row, rowIndex int64) (any, bool, errcode.Code) {
		if idx < 0 || idx >= len(row) {
			return nil, true, errcode.OK
		}
		v := row[idx]
		return v, v == nil, errcode.OK
	}
}

func (c *Compiler) compileLower(e *expression.LowerExpr) (RowFunc, error) {
	arg, err := c.Compile(e.Arg)
	if err != nil {
		return nil, err
	}
	return func(row sql.Row, rowIndex int64) (any, bool, errcode.Code) {
		v, isNull, code := arg(row, rowIndex)
		if isNull || code != errcode.OK {
			return nil, isNull, code
		}
		s, _ := v.(string)
		return strings.ToLower(s), false, errcode.OK
	}, nil
}

func (c *Compiler) compileCharLength(e *expression.CharLengthExpr) (RowFunc, error) {
	arg, err := c.Compile(e.Arg)
	if err != nil {
		return nil, err
	}
	return func(row sql.Row, rowIndex int64) (any, bool, errcode.Code) {
		v, isNull, code := arg(row, rowIndex)
		if isNull || code != errcode.OK {
			return nil, isNull, code
		}
		s, _ := v.(string)
		return int32(len(s)), false, errcode.OK
	}, nil
}

func (c *Compiler) compileCase(e *expression.CaseExpr) (RowFunc, error) {
	type branch struct {
		cond  RowFunc
		value RowFunc
	}
	branches := make([]branch, len(e.Branches))
	for i, b := range e.Branches {
		cond, err := c.Compile(b.Cond)
		if err != nil {
			return nil, err
		}
		value, err := c.Compile(b.Value)
		if err != nil {
			return nil, err
		}
		branches[i] = branch{cond: cond, value: value}
	}
	var elseFn RowFunc
	if e.Else != nil {
		var err error
		elseFn, err = c.Compile(e.Else)
		if err != nil {
			return nil, err
		}
	}
	return func(row sql.Row, rowIndex int64) (any, bool, errcode.Code) {
		for _, b := range branches {
			cv, cNull, code := b.cond(row, rowIndex)
			if code != errcode.OK {
				return nil, false, code
			}
			if cNull {
				continue
			}
			if truthy, ok := cv.(bool); ok && truthy {
				return b.value(row, rowIndex)
			}
		}
		if elseFn != nil {
			return elseFn(row, rowIndex)
		}
		return nil, true, errcode.OK
	}, nil
}

func (c *Compiler) compileInValues(e *expression.InValues) (RowFunc, error) {
	arg, err := c.Compile(e.Arg)
	if err != nil {
		return nil, err
	}
	values := make([]RowFunc, len(e.Values))
	for i, v := range e.Values {
		fn, err := c.Compile(v)
		if err != nil {
			return nil, err
		}
		values[i] = fn
	}
	return func(row sql.Row, rowIndex int64) (any, bool, errcode.Code) {
		av, aNull, code := arg(row, rowIndex)
		if code != errcode.OK {
			return nil, false, code
		}
		if aNull {
			return nil, true, errcode.OK
		}
		for _, vfn := range values {
			vv, vNull, code := vfn(row, rowIndex)
			if code != errcode.OK {
				return nil, false, code
			}
			if vNull {
				continue
			}
			if valuesEqual(av, vv) {
				return true, false, errcode.OK
			}
		}
		return false, false, errcode.OK
	}, nil
}

// valuesEqual compares two row-function results for InValues, widening
// numeric operands to float64 so e.g. an int32 literal matches an int64
// column, and falling back to a direct comparison for strings/bools.
func valuesEqual(a, b any) bool {
	if af, aok := toComparable(a); aok {
		if bf, bok := toComparable(b); bok {
			return af == bf
		}
	}
	return a == b
}

func (c *Compiler) compileInIntegerSet(e *expression.InIntegerSet) (RowFunc, error) {
	arg, err := c.Compile(e.Arg)
	if err != nil {
		return nil, err
	}
	bitmap := BuildInBitmap(c.ctx, e.Values)
	return func(row sql.Row, rowIndex int64) (any, bool, errcode.Code) {
		av, aNull, code := arg(row, rowIndex)
		if code != errcode.OK {
			return nil, false, code
		}
		if aNull {
			return nil, true, errcode.OK
		}
		key, ok := av.(int64)
		if !ok {
			return nil, false, errcode.ErrOutOfSlots
		}
		return bitmap.BitIsSet(key), false, errcode.OK
	}, nil
}

// toComparable widens an arithmetic-ish value to a float64 for value
// equality, falling back to a direct any comparison's operand for
// strings/bools so InValues also works over non-numeric literals.
func toComparable(v any) (float64, bool) {
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

func widthOf(typ types.Type) int {
	if it, ok := typ.(*types.IntegerType); ok {
		return it.Width
	}
	return 8
}
