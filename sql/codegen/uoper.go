package codegen

import (
	"github.com/heavyql/qkernel/sql"
	"github.com/heavyql/qkernel/sql/errcode"
	"github.com/heavyql/qkernel/sql/expression"
	"github.com/heavyql/qkernel/sql/types"
)

// compileUOper lowers a UOper node to a RowFunc, dispatching by operator:
// Cast into cast.go's matrix, Not/BwNot/UMinus into straight Go negation
// (plus arith.go's overflow-checked UnaryMinusInt for integers), IsNull
// into a non-nullable boolean reporting the operand's own null flag, and
// Unnest into unnest.go's element loop.
func (c *Compiler) compileUOper(e *expression.UOper) (RowFunc, error) {
	operand, err := c.Compile(e.Operand)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case expression.OpCast:
		return c.compileCast(e, operand)
	case expression.OpNot:
		return c.compileNot(operand), nil
	case expression.OpBwNot:
		return c.compileBwNot(operand), nil
	case expression.OpIsNull:
		return c.compileIsNull(operand), nil
	case expression.OpUMinus:
		return c.compileUMinus(e, operand)
	case expression.OpUnnest:
		return c.compileUnnest(e, operand)
	default:
		return nil, sql.ErrNotSupported.New(e.String())
	}
}

func (c *Compiler) compileNot(operand RowFunc) RowFunc {
	return func(row sql.Row, rowIndex int64) (any, bool, errcode.Code) {
		v, isNull, code := operand(row, rowIndex)
		if isNull || code != errcode.OK {
			return nil, isNull, code
		}
		b, _ := v.(bool)
		return !b, false, errcode.OK
	}
}

func (c *Compiler) compileBwNot(operand RowFunc) RowFunc {
	return func(row sql.Row, rowIndex int64) (any, bool, errcode.Code) {
		v, isNull, code := operand(row, rowIndex)
		if isNull || code != errcode.OK {
			return nil, isNull, code
		}
		i, _ := toInt64(v)
		return ^i, false, errcode.OK
	}
}

// compileIsNull always produces a non-nullable boolean, regardless of the operand's
// own nullability.
func (c *Compiler) compileIsNull(operand RowFunc) RowFunc {
	return func(row sql.Row, rowIndex int64) (any, bool, errcode.Code) {
		_, isNull, code := operand(row, rowIndex)
		if code != errcode.OK {
			return nil, false, code
		}
		return isNull, false, errcode.OK
	}
}

func (c *Compiler) compileUMinus(e *expression.UOper, operand RowFunc) (RowFunc, error) {
	if e.Type() != nil && e.Type().Kind() == types.KindFloatingPoint {
		return func(row sql.Row, rowIndex int64) (any, bool, errcode.Code) {
			v, isNull, code := operand(row, rowIndex)
			if isNull || code != errcode.OK {
				return nil, isNull, code
			}
			f, _ := toFloat64Arg(v)
			return -f, false, errcode.OK
		}, nil
	}
	width := widthOf(e.Type())
	return func(row sql.Row, rowIndex int64) (any, bool, errcode.Code) {
		v, isNull, code := operand(row, rowIndex)
		if isNull || code != errcode.OK {
			return nil, isNull, code
		}
		i, _ := toInt64(v)
		result, errc := UnaryMinusInt(width, i)
		if errc != errcode.OK {
			return nil, false, errc
		}
		return result, false, errcode.OK
	}, nil
}

// compileCast wires a Cast UOper to cast.go's per-pair matrix, dispatching
// on the (operand kind, target kind) pair.
func (c *Compiler) compileCast(e *expression.UOper, operand RowFunc) (RowFunc, error) {
	fromType := e.Operand.Type()
	toType := e.Type()
	if fromType == nil || toType == nil {
		return operand, nil
	}
	fromKind, toKind := fromType.Kind(), toType.Kind()

	switch {
	case fromKind == types.KindInteger && toKind == types.KindInteger:
		fromWidth, toWidth := widthOf(fromType), widthOf(toType)
		return func(row sql.Row, rowIndex int64) (any, bool, errcode.Code) {
			v, isNull, code := operand(row, rowIndex)
			if isNull || code != errcode.OK {
				return nil, isNull, code
			}
			i, _ := toInt64(v)
			result, errc := CastIntInt(fromWidth, toWidth, i)
			if errc != errcode.OK {
				return nil, false, errc
			}
			return result, false, errcode.OK
		}, nil

	case fromKind == types.KindInteger && toKind == types.KindFloatingPoint:
		return func(row sql.Row, rowIndex int64) (any, bool, errcode.Code) {
			v, isNull, code := operand(row, rowIndex)
			if isNull || code != errcode.OK {
				return nil, isNull, code
			}
			i, _ := toInt64(v)
			return CastIntToFloat(i), false, errcode.OK
		}, nil

	case fromKind == types.KindFloatingPoint && toKind == types.KindInteger:
		toWidth := widthOf(toType)
		return func(row sql.Row, rowIndex int64) (any, bool, errcode.Code) {
			v, isNull, code := operand(row, rowIndex)
			if isNull || code != errcode.OK {
				return nil, isNull, code
			}
			f, _ := toFloat64Arg(v)
			result, errc := CastFloatToInt(toWidth, f)
			if errc != errcode.OK {
				return nil, false, errc
			}
			return result, false, errcode.OK
		}, nil

	case fromKind == types.KindDecimal64 && toKind == types.KindDecimal64:
		fromDec := fromType.(*types.Decimal64Type)
		toDec := toType.(*types.Decimal64Type)
		return func(row sql.Row, rowIndex int64) (any, bool, errcode.Code) {
			v, isNull, code := operand(row, rowIndex)
			if isNull || code != errcode.OK {
				return nil, isNull, code
			}
			i, _ := toInt64(v)
			result, errc := CastDecimal(fromDec.Scale, toDec.Scale, i)
			if errc != errcode.OK {
				return nil, false, errc
			}
			return result, false, errcode.OK
		}, nil

	case fromKind == types.KindDate && toKind == types.KindTimestamp:
		toUnit := toType.(*types.TimestampType).Unit
		return func(row sql.Row, rowIndex int64) (any, bool, errcode.Code) {
			v, isNull, code := operand(row, rowIndex)
			if isNull || code != errcode.OK {
				return nil, isNull, code
			}
			i, _ := toInt64(v)
			result, errc := CastDateToTimestamp(toUnit, i)
			if errc != errcode.OK {
				return nil, false, errc
			}
			return result, false, errcode.OK
		}, nil

	case fromKind == types.KindTimestamp && toKind == types.KindDate:
		fromUnit := fromType.(*types.TimestampType).Unit
		return func(row sql.Row, rowIndex int64) (any, bool, errcode.Code) {
			v, isNull, code := operand(row, rowIndex)
			if isNull || code != errcode.OK {
				return nil, isNull, code
			}
			i, _ := toInt64(v)
			return CastTimestampToDate(fromUnit, i), false, errcode.OK
		}, nil

	case fromKind == types.KindTimestamp && toKind == types.KindTimestamp:
		fromUnit := fromType.(*types.TimestampType).Unit
		toUnit := toType.(*types.TimestampType).Unit
		return func(row sql.Row, rowIndex int64) (any, bool, errcode.Code) {
			v, isNull, code := operand(row, rowIndex)
			if isNull || code != errcode.OK {
				return nil, isNull, code
			}
			i, _ := toInt64(v)
			result, errc := CastTimestampToTimestamp(fromUnit, toUnit, i)
			if errc != errcode.OK {
				return nil, false, errc
			}
			return result, false, errcode.OK
		}, nil

	case fromKind == types.KindText && toKind == types.KindExtDictionary,
		fromKind == types.KindExtDictionary && toKind == types.KindText,
		fromKind == types.KindExtDictionary && toKind == types.KindExtDictionary:
		// The dictionary encode/decode step itself runs against a
		// DictionaryProxy (cast.go's CastStringToDict) owned by the
		// column-store layer outside this module's scope; at the row_func
		// level the value already arrives pre-resolved to its canonical
		// representation, so this cast is a type-level pass-through.
		return operand, nil

	default:
		// Same-kind or otherwise no-op casts (e.g. nullability-only
		// changes, Boolean↔Boolean) pass the value through unchanged.
		return operand, nil
	}
}

// compileUnnest lowers an Unnest UOper by materializing the operand array
// value into unnest.go's UnnestSource and emitting exactly one output row
// per element — modeled here as returning the element slice itself, with
// the actual per-element row fan-out performed by the caller that drives
// row_func repeatedly.
func (c *Compiler) compileUnnest(e *expression.UOper, operand RowFunc) (RowFunc, error) {
	maxElements := c.ctx.Options.MaxUnnestElements
	return func(row sql.Row, rowIndex int64) (any, bool, errcode.Code) {
		v, isNull, code := operand(row, rowIndex)
		if isNull || code != errcode.OK {
			return nil, isNull, code
		}
		arr, _ := v.([]any)
		src := UnnestSource{Elements: make([]UnnestElement, len(arr))}
		for i, el := range arr {
			src.Elements[i] = UnnestElement{Value: el, IsNull: el == nil}
		}
		var out []any
		errc := Unnest(src, maxElements, func(elem UnnestElement) errcode.Code {
			out = append(out, elem.Value)
			return errcode.OK
		})
		if errc != errcode.OK {
			return nil, false, errc
		}
		return out, false, errcode.OK
	}, nil
}
