package expression

import (
	"fmt"

	"github.com/heavyql/qkernel/sql/types"
)

// Constant is a tagged scalar literal.
type Constant struct {
	base
	typ    types.Type
	IsNull bool
	Datum  any
}

// NewConstant builds a typed, non-null constant.
func NewConstant(typ types.Type, datum any) *Constant {
	return &Constant{typ: typ, Datum: datum}
}

// NewNullConstant builds a typed NULL constant of typ (typ must be
// nullable).
func NewNullConstant(typ types.Type) *Constant {
	return &Constant{typ: typ, IsNull: true}
}

func (c *Constant) Type() types.Type    { return c.typ }
func (c *Constant) Children() []Expr    { return nil }
func (c *Constant) DeepCopy() Expr {
	cp := *c
	return &cp
}
func (c *Constant) WithChildren(children ...Expr) (Expr, error) {
	if len(children) != 0 {
		return nil, errArity("Constant", 0, len(children))
	}
	return c, nil
}
func (c *Constant) String() string {
	if c.IsNull {
		return "NULL"
	}
	return fmt.Sprintf("%v", c.Datum)
}
