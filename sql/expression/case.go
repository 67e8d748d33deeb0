package expression

import (
	"fmt"
	"strings"

	"github.com/heavyql/qkernel/sql/types"
)

// CaseExpr is a normalized CASE expression: every branch's Value and the
// Else arm share a common, cast-to type. Construct via
// NormalizeCase rather than directly, except in tests.
type CaseExpr struct {
	Branches []CaseBranch
	Else     Expr
	typ      types.Type
}

// NewCase builds a CaseExpr without re-running normalization; used by
// NormalizeCase and by tests that want to bypass it.
func NewCase(branches []CaseBranch, elseExpr Expr, typ types.Type) *CaseExpr {
	return &CaseExpr{Branches: branches, Else: elseExpr, typ: typ}
}

func (c *CaseExpr) Type() types.Type { return c.typ }
func (c *CaseExpr) ContainsAgg() bool {
	for _, b := range c.Branches {
		if b.Cond.ContainsAgg() || b.Value.ContainsAgg() {
			return true
		}
	}
	return c.Else != nil && c.Else.ContainsAgg()
}
func (c *CaseExpr) Children() []Expr {
	children := make([]Expr, 0, len(c.Branches)*2+1)
	for _, b := range c.Branches {
		children = append(children, b.Cond, b.Value)
	}
	if c.Else != nil {
		children = append(children, c.Else)
	}
	return children
}
func (c *CaseExpr) DeepCopy() Expr {
	branches := make([]CaseBranch, len(c.Branches))
	for i, b := range c.Branches {
		branches[i] = CaseBranch{Cond: b.Cond.DeepCopy(), Value: b.Value.DeepCopy()}
	}
	var elseExpr Expr
	if c.Else != nil {
		elseExpr = c.Else.DeepCopy()
	}
	return &CaseExpr{Branches: branches, Else: elseExpr, typ: c.typ}
}
func (c *CaseExpr) WithChildren(children ...Expr) (Expr, error) {
	want := len(c.Branches)*2 + 1
	if c.Else == nil {
		want--
	}
	if len(children) != want {
		return nil, errArity("CaseExpr", want, len(children))
	}
	branches := make([]CaseBranch, len(c.Branches))
	for i := range branches {
		branches[i] = CaseBranch{Cond: children[i*2], Value: children[i*2+1]}
	}
	cp := &CaseExpr{Branches: branches, typ: c.typ}
	if c.Else != nil {
		cp.Else = children[len(children)-1]
	}
	return cp, nil
}
func (c *CaseExpr) String() string {
	var sb strings.Builder
	sb.WriteString("CASE")
	for _, b := range c.Branches {
		fmt.Fprintf(&sb, " WHEN %s THEN %s", b.Cond, b.Value)
	}
	if c.Else != nil {
		fmt.Fprintf(&sb, " ELSE %s", c.Else)
	}
	sb.WriteString(" END")
	return sb.String()
}
