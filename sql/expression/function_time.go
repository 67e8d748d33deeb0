package expression

import (
	"fmt"

	"github.com/heavyql/qkernel/sql/types"
)

// ExtractField enumerates the fields ExtractExpr can pull from a
// date/time/timestamp value.
type ExtractField int

const (
	ExtractYear ExtractField = iota
	ExtractMonth
	ExtractDay
	ExtractHour
	ExtractMinute
	ExtractSecond
	ExtractDow
	ExtractDoy
	ExtractEpoch
	ExtractQuarter
)

// ExtractExpr implements EXTRACT(field FROM arg).
type ExtractExpr struct {
	Field ExtractField
	Arg   Expr
}

func NewExtractExpr(field ExtractField, arg Expr) *ExtractExpr {
	return &ExtractExpr{Field: field, Arg: arg}
}
func (e *ExtractExpr) Type() types.Type  { return types.NewInteger(8, e.Arg.Type().Nullable()) }
func (e *ExtractExpr) ContainsAgg() bool { return e.Arg.ContainsAgg() }
func (e *ExtractExpr) Children() []Expr  { return []Expr{e.Arg} }
func (e *ExtractExpr) DeepCopy() Expr    { return &ExtractExpr{e.Field, e.Arg.DeepCopy()} }
func (e *ExtractExpr) WithChildren(children ...Expr) (Expr, error) {
	if len(children) != 1 {
		return nil, errArity("ExtractExpr", 1, len(children))
	}
	return &ExtractExpr{e.Field, children[0]}, nil
}
func (e *ExtractExpr) String() string { return fmt.Sprintf("EXTRACT(%d FROM %s)", e.Field, e.Arg) }

// DateAddExpr adds Amount units of Unit to Arg.
type DateAddExpr struct {
	Unit   types.TimeUnit
	Amount Expr
	Arg    Expr
}

func NewDateAddExpr(unit types.TimeUnit, amount, arg Expr) *DateAddExpr {
	return &DateAddExpr{Unit: unit, Amount: amount, Arg: arg}
}
func (d *DateAddExpr) Type() types.Type  { return d.Arg.Type() }
func (d *DateAddExpr) ContainsAgg() bool { return d.Amount.ContainsAgg() || d.Arg.ContainsAgg() }
func (d *DateAddExpr) Children() []Expr  { return []Expr{d.Amount, d.Arg} }
func (d *DateAddExpr) DeepCopy() Expr {
	return &DateAddExpr{d.Unit, d.Amount.DeepCopy(), d.Arg.DeepCopy()}
}
func (d *DateAddExpr) WithChildren(children ...Expr) (Expr, error) {
	if len(children) != 2 {
		return nil, errArity("DateAddExpr", 2, len(children))
	}
	return &DateAddExpr{d.Unit, children[0], children[1]}, nil
}
func (d *DateAddExpr) String() string { return fmt.Sprintf("DATEADD(%s, %s, %s)", d.Unit, d.Amount, d.Arg) }

// DateDiffExpr computes the difference between Start and End in Unit.
type DateDiffExpr struct {
	Unit       types.TimeUnit
	Start, End Expr
}

func NewDateDiffExpr(unit types.TimeUnit, start, end Expr) *DateDiffExpr {
	return &DateDiffExpr{Unit: unit, Start: start, End: end}
}
func (d *DateDiffExpr) Type() types.Type { return types.NewInteger(8, d.Start.Type().Nullable() || d.End.Type().Nullable()) }
func (d *DateDiffExpr) ContainsAgg() bool { return d.Start.ContainsAgg() || d.End.ContainsAgg() }
func (d *DateDiffExpr) Children() []Expr  { return []Expr{d.Start, d.End} }
func (d *DateDiffExpr) DeepCopy() Expr {
	return &DateDiffExpr{d.Unit, d.Start.DeepCopy(), d.End.DeepCopy()}
}
func (d *DateDiffExpr) WithChildren(children ...Expr) (Expr, error) {
	if len(children) != 2 {
		return nil, errArity("DateDiffExpr", 2, len(children))
	}
	return &DateDiffExpr{d.Unit, children[0], children[1]}, nil
}
func (d *DateDiffExpr) String() string { return fmt.Sprintf("DATEDIFF(%s, %s, %s)", d.Unit, d.Start, d.End) }

// DateTruncExpr truncates Arg to the given Unit.
type DateTruncExpr struct {
	Unit types.TimeUnit
	Arg  Expr
}

func NewDateTruncExpr(unit types.TimeUnit, arg Expr) *DateTruncExpr {
	return &DateTruncExpr{Unit: unit, Arg: arg}
}
func (d *DateTruncExpr) Type() types.Type  { return d.Arg.Type() }
func (d *DateTruncExpr) ContainsAgg() bool { return d.Arg.ContainsAgg() }
func (d *DateTruncExpr) Children() []Expr  { return []Expr{d.Arg} }
func (d *DateTruncExpr) DeepCopy() Expr    { return &DateTruncExpr{d.Unit, d.Arg.DeepCopy()} }
func (d *DateTruncExpr) WithChildren(children ...Expr) (Expr, error) {
	if len(children) != 1 {
		return nil, errArity("DateTruncExpr", 1, len(children))
	}
	return &DateTruncExpr{d.Unit, children[0]}, nil
}
func (d *DateTruncExpr) String() string { return fmt.Sprintf("DATE_TRUNC(%s, %s)", d.Unit, d.Arg) }
