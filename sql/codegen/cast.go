package codegen

import (
	"math"

	"github.com/heavyql/qkernel/sql/errcode"
	"github.com/heavyql/qkernel/sql/types"
)

// CastIntInt narrows or widens an integer value between widths, checking
// for overflow only when narrowing.
func CastIntInt(fromWidth, toWidth int, value int64) (int64, errcode.Code) {
	if toWidth >= fromWidth {
		return value, errcode.OK
	}
	min, max := intBounds(toWidth)
	if value < min || value > max {
		return 0, errcode.ErrOverflowOrUnderflow
	}
	return value, errcode.OK
}

// CastIntToFloat is the `sitofp` cast: integers always
// convert to float without an overflow check, since every representable
// int64 fits in a float64's range (losing precision, not magnitude).
func CastIntToFloat(value int64) float64 {
	return float64(value)
}

// CastFloatToInt is the `fptosi` cast. Values outside the target width's
// representable range are an overflow, matching the narrowing-int-cast
// treatment in matrix.
func CastFloatToInt(toWidth int, value float64) (int64, errcode.Code) {
	if math.IsNaN(value) {
		return 0, errcode.ErrOverflowOrUnderflow
	}
	min, max := intBounds(toWidth)
	truncated := math.Trunc(value)
	if truncated < float64(min) || truncated > float64(max) {
		return 0, errcode.ErrOverflowOrUnderflow
	}
	return int64(truncated), errcode.OK
}

// CastDecimal adjusts a Decimal64-encoded integer from one scale to
// another: upscaling multiplies by 10^(toScale-fromScale), downscaling
// divides and truncates rather than rounds.
func CastDecimal(fromScale, toScale int, value int64) (int64, errcode.Code) {
	if fromScale == toScale {
		return value, errcode.OK
	}
	if toScale > fromScale {
		pow := pow10(toScale - fromScale)
		result, code := MulInt(8, value, pow)
		return result, code
	}
	pow := pow10(fromScale - toScale)
	return value / pow, errcode.OK
}

func pow10(n int) int64 {
	p := int64(1)
	for i := 0; i < n; i++ {
		p *= 10
	}
	return p
}

// CastDateToTimestamp scales a day count into toUnit's resolution: a Date
// is always day-resolution, so this is a straight multiply by toUnit's
// per-day unit count.
func CastDateToTimestamp(toUnit types.TimeUnit, days int64) (int64, errcode.Code) {
	perDay := toUnit.PerDay()
	if perDay == 0 {
		return days, errcode.OK
	}
	return MulInt(8, days, perDay)
}

// CastTimestampToDate truncates a timestamp value down to whole days in
// its own unit, then rescales to a day count.
func CastTimestampToDate(fromUnit types.TimeUnit, value int64) int64 {
	perDay := fromUnit.PerDay()
	if perDay == 0 {
		return value
	}
	return value / perDay
}

// CastTimestampToTimestamp rescales value from fromUnit's resolution to
// toUnit's, guarding the upscale multiply against overflow.
func CastTimestampToTimestamp(fromUnit, toUnit types.TimeUnit, value int64) (int64, errcode.Code) {
	fromPerSec := fromUnit.UnitsPerSecond()
	toPerSec := toUnit.UnitsPerSecond()
	if fromPerSec == 0 || toPerSec == 0 || fromPerSec == toPerSec {
		return value, errcode.OK
	}
	if toPerSec > fromPerSec {
		ratio := toPerSec / fromPerSec
		return MulInt(8, value, ratio)
	}
	ratio := fromPerSec / toPerSec
	return value / ratio, errcode.OK
}

// DictionaryProxy is the external collaborator a string-to-ext-dictionary
// cast delegates to; the real dictionary-server implementation lives
// outside this module.
type DictionaryProxy interface {
	Lookup(s string) (id int32, ok bool)
	GetOrAdd(s string) int32
}

// CastStringToDict resolves s to a dictionary id, adding it to the
// dictionary if it is not already present.
func CastStringToDict(proxy DictionaryProxy, s string) int32 {
	if id, ok := proxy.Lookup(s); ok {
		return id
	}
	return proxy.GetOrAdd(s)
}
