// Package types implements the type system: an immutable, kind-tagged
// Type descriptor, interned process-wide so that equal types compare
// pointer-equal.
package types

import (
	"fmt"
	"math"
)

// Type is the immutable descriptor every expression and column carries.
// Implementations are value-like structs; callers obtain the canonical,
// interned instance via Context.Intern rather than constructing one
// directly, except in tests.
type Type interface {
	Kind() Kind
	// Size returns the in-memory width in bytes of one non-array element.
	// Not defined for KindNull; callers must cast before calling Size on a
	// value of that kind.
	Size() int
	Nullable() bool
	// WithNullable returns a type identical to this one except for the
	// nullable flag.
	WithNullable(nullable bool) Type
	// Canonicalize strips dictionary encoding, returning the underlying
	// text type for ExtDictionary and the receiver unchanged otherwise.
	Canonicalize() Type
	// NullSentinel returns the reserved in-band value representing NULL
	// for this type. Returns nil for KindNull,
	// KindColumn, KindColumnList, and array kinds, which have no scalar
	// sentinel of their own (arrays encode null per-element).
	NullSentinel() any
	String() string
}

// ---- Integer ----

type IntegerType struct {
	Width    int // 1, 2, 4, or 8 bytes
	nullable bool
}

func NewInteger(width int, nullable bool) *IntegerType {
	if width != 1 && width != 2 && width != 4 && width != 8 {
		panic(fmt.Sprintf("types: invalid integer width %d", width))
	}
	return &IntegerType{Width: width, nullable: nullable}
}

func (t *IntegerType) Kind() Kind        { return KindInteger }
func (t *IntegerType) Size() int         { return t.Width }
func (t *IntegerType) Nullable() bool    { return t.nullable }
func (t *IntegerType) Canonicalize() Type { return t }
func (t *IntegerType) WithNullable(n bool) Type {
	cp := *t
	cp.nullable = n
	return &cp
}
func (t *IntegerType) String() string {
	return fmt.Sprintf("INT%d%s", t.Width*8, nullSuffix(t.nullable))
}

// NullSentinel is the smallest representable negative integer of the type's
// width.
func (t *IntegerType) NullSentinel() any {
	switch t.Width {
	case 1:
		return int8(math.MinInt8)
	case 2:
		return int16(math.MinInt16)
	case 4:
		return int32(math.MinInt32)
	default:
		return int64(math.MinInt64)
	}
}

// ---- FloatingPoint ----

type FloatPrecision int

const (
	Fp32 FloatPrecision = iota
	Fp64
)

type FloatingPointType struct {
	Precision FloatPrecision
	nullable  bool
}

func NewFloatingPoint(p FloatPrecision, nullable bool) *FloatingPointType {
	return &FloatingPointType{Precision: p, nullable: nullable}
}

func (t *FloatingPointType) Kind() Kind         { return KindFloatingPoint }
func (t *FloatingPointType) Nullable() bool     { return t.nullable }
func (t *FloatingPointType) Canonicalize() Type { return t }
func (t *FloatingPointType) WithNullable(n bool) Type {
	cp := *t
	cp.nullable = n
	return &cp
}
func (t *FloatingPointType) Size() int {
	if t.Precision == Fp32 {
		return 4
	}
	return 8
}
func (t *FloatingPointType) String() string {
	if t.Precision == Fp32 {
		return "FLOAT" + nullSuffix(t.nullable)
	}
	return "DOUBLE" + nullSuffix(t.nullable)
}

// NullSentinel is NaN.
func (t *FloatingPointType) NullSentinel() any {
	if t.Precision == Fp32 {
		return float32(math.NaN())
	}
	return math.NaN()
}

// ---- Decimal64 ----

type Decimal64Type struct {
	Precision int // <= 19
	Scale     int // <= Precision
	nullable  bool
}

func NewDecimal64(precision, scale int, nullable bool) *Decimal64Type {
	t, err := NewDecimal64Checked(precision, scale, nullable)
	if err != nil {
		panic(err)
	}
	return t
}

// NewDecimal64Checked is NewDecimal64 with its invariants ("precision ≤
// 19, scale ≤ precision") reported as an error instead of a panic, for
// callers building a type from externally supplied input such as a plan
// document's field-type name.
func NewDecimal64Checked(precision, scale int, nullable bool) (*Decimal64Type, error) {
	if precision > 19 || precision < 0 {
		return nil, fmt.Errorf("types: decimal precision must be in [0, 19], got %d", precision)
	}
	if scale > precision || scale < 0 {
		return nil, fmt.Errorf("types: decimal scale must be in [0, precision], got %d", scale)
	}
	return &Decimal64Type{Precision: precision, Scale: scale, nullable: nullable}, nil
}

func (t *Decimal64Type) Kind() Kind         { return KindDecimal64 }
func (t *Decimal64Type) Size() int          { return 8 }
func (t *Decimal64Type) Nullable() bool     { return t.nullable }
func (t *Decimal64Type) Canonicalize() Type { return t }
func (t *Decimal64Type) WithNullable(n bool) Type {
	cp := *t
	cp.nullable = n
	return &cp
}
func (t *Decimal64Type) String() string {
	return fmt.Sprintf("DECIMAL(%d,%d)%s", t.Precision, t.Scale, nullSuffix(t.nullable))
}
func (t *Decimal64Type) NullSentinel() any { return int64(math.MinInt64) }

// ---- Boolean ----

type BooleanType struct {
	nullable bool
}

func NewBoolean(nullable bool) *BooleanType { return &BooleanType{nullable: nullable} }

func (t *BooleanType) Kind() Kind         { return KindBoolean }
func (t *BooleanType) Size() int          { return 1 }
func (t *BooleanType) Nullable() bool     { return t.nullable }
func (t *BooleanType) Canonicalize() Type { return t }
func (t *BooleanType) WithNullable(n bool) Type {
	cp := *t
	cp.nullable = n
	return &cp
}
func (t *BooleanType) String() string { return "BOOLEAN" + nullSuffix(t.nullable) }

// NullSentinel is the 8-bit value -1, distinguishing NULL from the 0/1
// boolean domain.
func (t *BooleanType) NullSentinel() any { return int8(-1) }

// ---- Date / Time / Timestamp / Interval ----

type DateType struct {
	Unit     TimeUnit
	nullable bool
}

func NewDate(unit TimeUnit, nullable bool) *DateType { return &DateType{Unit: unit, nullable: nullable} }
func (t *DateType) Kind() Kind                       { return KindDate }
func (t *DateType) Size() int                        { return 8 }
func (t *DateType) Nullable() bool                   { return t.nullable }
func (t *DateType) Canonicalize() Type               { return t }
func (t *DateType) WithNullable(n bool) Type {
	cp := *t
	cp.nullable = n
	return &cp
}
func (t *DateType) String() string      { return fmt.Sprintf("DATE(%s)%s", t.Unit, nullSuffix(t.nullable)) }
func (t *DateType) NullSentinel() any   { return int64(math.MinInt64) }

type TimeType struct {
	Unit     TimeUnit
	nullable bool
}

func NewTime(unit TimeUnit, nullable bool) *TimeType { return &TimeType{Unit: unit, nullable: nullable} }
func (t *TimeType) Kind() Kind                       { return KindTime }
func (t *TimeType) Size() int                        { return 8 }
func (t *TimeType) Nullable() bool                   { return t.nullable }
func (t *TimeType) Canonicalize() Type               { return t }
func (t *TimeType) WithNullable(n bool) Type {
	cp := *t
	cp.nullable = n
	return &cp
}
func (t *TimeType) String() string    { return fmt.Sprintf("TIME(%s)%s", t.Unit, nullSuffix(t.nullable)) }
func (t *TimeType) NullSentinel() any { return int64(math.MinInt64) }

type TimestampType struct {
	Unit     TimeUnit
	nullable bool
}

func NewTimestamp(unit TimeUnit, nullable bool) *TimestampType {
	return &TimestampType{Unit: unit, nullable: nullable}
}
func (t *TimestampType) Kind() Kind         { return KindTimestamp }
func (t *TimestampType) Size() int          { return 8 }
func (t *TimestampType) Nullable() bool     { return t.nullable }
func (t *TimestampType) Canonicalize() Type { return t }
func (t *TimestampType) WithNullable(n bool) Type {
	cp := *t
	cp.nullable = n
	return &cp
}
func (t *TimestampType) String() string {
	return fmt.Sprintf("TIMESTAMP(%s)%s", t.Unit, nullSuffix(t.nullable))
}
func (t *TimestampType) NullSentinel() any { return int64(math.MinInt64) }

type IntervalType struct {
	Unit     TimeUnit
	nullable bool
}

func NewInterval(unit TimeUnit, nullable bool) *IntervalType {
	return &IntervalType{Unit: unit, nullable: nullable}
}
func (t *IntervalType) Kind() Kind         { return KindInterval }
func (t *IntervalType) Size() int          { return 8 }
func (t *IntervalType) Nullable() bool     { return t.nullable }
func (t *IntervalType) Canonicalize() Type { return t }
func (t *IntervalType) WithNullable(n bool) Type {
	cp := *t
	cp.nullable = n
	return &cp
}
func (t *IntervalType) String() string {
	return fmt.Sprintf("INTERVAL(%s)%s", t.Unit, nullSuffix(t.nullable))
}
func (t *IntervalType) NullSentinel() any { return int64(math.MinInt64) }

// ---- Text ----

type TextType struct {
	nullable bool
}

func NewText(nullable bool) *TextType { return &TextType{nullable: nullable} }
func (t *TextType) Kind() Kind         { return KindText }
func (t *TextType) Size() int          { return 16 } // {ptr, len} tuple,
func (t *TextType) Nullable() bool     { return t.nullable }
func (t *TextType) Canonicalize() Type { return t }
func (t *TextType) WithNullable(n bool) Type {
	cp := *t
	cp.nullable = n
	return &cp
}
func (t *TextType) String() string    { return "TEXT" + nullSuffix(t.nullable) }
func (t *TextType) NullSentinel() any { return nil } // represented by a null ptr/len pair, not an in-band value

// ---- ExtDictionary ----

// InvalidDictID is the reserved sentinel for an ext-dictionary encoded
// value
const InvalidDictID int32 = -1

type ExtDictionaryType struct {
	Underlying   *TextType
	DictionaryID int
	EncodedWidth int // 1, 2, or 4 bytes
	nullable     bool
}

func NewExtDictionary(underlying *TextType, dictionaryID, encodedWidth int, nullable bool) *ExtDictionaryType {
	if encodedWidth != 1 && encodedWidth != 2 && encodedWidth != 4 {
		panic("types: ext dictionary encoded width must be 1, 2, or 4")
	}
	return &ExtDictionaryType{Underlying: underlying, DictionaryID: dictionaryID, EncodedWidth: encodedWidth, nullable: nullable}
}

func (t *ExtDictionaryType) Kind() Kind     { return KindExtDictionary }
func (t *ExtDictionaryType) Size() int      { return t.EncodedWidth }
func (t *ExtDictionaryType) Nullable() bool { return t.nullable }

// Canonicalize strips dictionary encoding, returning the underlying text
// type
func (t *ExtDictionaryType) Canonicalize() Type { return t.Underlying.WithNullable(t.nullable) }
func (t *ExtDictionaryType) WithNullable(n bool) Type {
	cp := *t
	cp.nullable = n
	return &cp
}
func (t *ExtDictionaryType) String() string {
	return fmt.Sprintf("TEXT DICT(id=%d,w=%d)%s", t.DictionaryID, t.EncodedWidth, nullSuffix(t.nullable))
}

// NullSentinel is the reserved invalid id -1
func (t *ExtDictionaryType) NullSentinel() any { return InvalidDictID }

// ---- Arrays ----

type FixedLenArrayType struct {
	Elem     Type
	Len      int
	nullable bool
}

func NewFixedLenArray(elem Type, length int, nullable bool) *FixedLenArrayType {
	return &FixedLenArrayType{Elem: elem, Len: length, nullable: nullable}
}
func (t *FixedLenArrayType) Kind() Kind         { return KindFixedLenArray }
func (t *FixedLenArrayType) Size() int          { return t.Elem.Size() * t.Len }
func (t *FixedLenArrayType) Nullable() bool     { return t.nullable }
func (t *FixedLenArrayType) Canonicalize() Type { return t }
func (t *FixedLenArrayType) WithNullable(n bool) Type {
	cp := *t
	cp.nullable = n
	return &cp
}
func (t *FixedLenArrayType) String() string {
	return fmt.Sprintf("%s[%d]%s", t.Elem, t.Len, nullSuffix(t.nullable))
}
func (t *FixedLenArrayType) NullSentinel() any { return nil }

type VarLenArrayType struct {
	Elem     Type
	nullable bool
}

func NewVarLenArray(elem Type, nullable bool) *VarLenArrayType {
	return &VarLenArrayType{Elem: elem, nullable: nullable}
}
func (t *VarLenArrayType) Kind() Kind         { return KindVarLenArray }
func (t *VarLenArrayType) Size() int          { return 16 } // {ptr, len} of element buffer
func (t *VarLenArrayType) Nullable() bool     { return t.nullable }
func (t *VarLenArrayType) Canonicalize() Type { return t }
func (t *VarLenArrayType) WithNullable(n bool) Type {
	cp := *t
	cp.nullable = n
	return &cp
}
func (t *VarLenArrayType) String() string    { return fmt.Sprintf("%s[]%s", t.Elem, nullSuffix(t.nullable)) }
func (t *VarLenArrayType) NullSentinel() any { return nil }

// ---- Column / ColumnList (UDTF parameters only) ----

type ColumnType struct {
	Elem Type
}

func NewColumn(elem Type) *ColumnType          { return &ColumnType{Elem: elem} }
func (t *ColumnType) Kind() Kind               { return KindColumn }
func (t *ColumnType) Size() int                { return 16 }
func (t *ColumnType) Nullable() bool           { return false }
func (t *ColumnType) Canonicalize() Type       { return t }
func (t *ColumnType) WithNullable(bool) Type   { return t }
func (t *ColumnType) String() string           { return fmt.Sprintf("Column<%s>", t.Elem) }
func (t *ColumnType) NullSentinel() any        { return nil }

type ColumnListType struct {
	Elem   Type
	Length int
}

func NewColumnList(elem Type, length int) *ColumnListType {
	return &ColumnListType{Elem: elem, Length: length}
}
func (t *ColumnListType) Kind() Kind             { return KindColumnList }
func (t *ColumnListType) Size() int              { return 24 }
func (t *ColumnListType) Nullable() bool         { return false }
func (t *ColumnListType) Canonicalize() Type     { return t }
func (t *ColumnListType) WithNullable(bool) Type { return t }
func (t *ColumnListType) String() string {
	return fmt.Sprintf("ColumnList<%s>[%d]", t.Elem, t.Length)
}
func (t *ColumnListType) NullSentinel() any { return nil }

// ---- Null ----

// NullType represents an untyped NULL literal; must be cast before use.
type NullType struct{}

var Null = &NullType{}

func (t *NullType) Kind() Kind       { return KindNull }
func (t *NullType) Size() int {
	panic("types: Size is undefined for the Null type; cast before use")
}
func (t *NullType) Nullable() bool         { return true }
func (t *NullType) Canonicalize() Type     { return t }
func (t *NullType) WithNullable(bool) Type { return t }
func (t *NullType) String() string         { return "NULL" }
func (t *NullType) NullSentinel() any      { return nil }

func nullSuffix(nullable bool) string {
	if nullable {
		return ""
	}
	return " NOT NULL"
}

// Common convenience instances for callers that just need a default-nullable
// scalar type without building one by hand.
var (
	Int8    = NewInteger(1, true)
	Int16   = NewInteger(2, true)
	Int32   = NewInteger(4, true)
	Int64   = NewInteger(8, true)
	Float32 = NewFloatingPoint(Fp32, true)
	Float64 = NewFloatingPoint(Fp64, true)
	Boolean = NewBoolean(true)
	Text    = NewText(true)
)
