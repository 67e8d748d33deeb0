package expression

import (
	"fmt"

	"github.com/heavyql/qkernel/sql/types"
)

// SubqueryNode is the minimal shape of a relational-algebra node an
// expression needs to reference as a subquery root. It is satisfied by
// sql/plan.Node; the interface lives here (rather than importing sql/plan)
// because sql/plan imports sql/expression, not the other way around.
type SubqueryNode interface {
	ID() int
	OutputType(col int) types.Type
}

// ScalarSubquery evaluates Result to a single row/column and substitutes
// its value. Not representable in every context; see
// sql/plan/builder.go's NotSupported cases.
type ScalarSubquery struct {
	Result SubqueryNode
}

func NewScalarSubquery(result SubqueryNode) *ScalarSubquery {
	return &ScalarSubquery{Result: result}
}

func (s *ScalarSubquery) Type() types.Type  { return s.Result.OutputType(0) }
func (s *ScalarSubquery) ContainsAgg() bool { return false }
func (s *ScalarSubquery) Children() []Expr  { return nil }
func (s *ScalarSubquery) DeepCopy() Expr {
	cp := *s
	return &cp
}
func (s *ScalarSubquery) WithChildren(children ...Expr) (Expr, error) {
	if len(children) != 0 {
		return nil, errArity("ScalarSubquery", 0, len(children))
	}
	return s, nil
}
func (s *ScalarSubquery) String() string { return fmt.Sprintf("(SUBQUERY #%d)", s.Result.ID()) }

// InSubquery is `arg IN (subquery)`.
type InSubquery struct {
	Arg    Expr
	Result SubqueryNode
}

func NewInSubquery(arg Expr, result SubqueryNode) *InSubquery {
	return &InSubquery{Arg: arg, Result: result}
}

func (s *InSubquery) Type() types.Type  { return types.NewBoolean(true) }
func (s *InSubquery) ContainsAgg() bool { return s.Arg.ContainsAgg() }
func (s *InSubquery) Children() []Expr  { return []Expr{s.Arg} }
func (s *InSubquery) DeepCopy() Expr {
	return &InSubquery{Arg: s.Arg.DeepCopy(), Result: s.Result}
}
func (s *InSubquery) WithChildren(children ...Expr) (Expr, error) {
	if len(children) != 1 {
		return nil, errArity("InSubquery", 1, len(children))
	}
	return &InSubquery{Arg: children[0], Result: s.Result}, nil
}
func (s *InSubquery) String() string {
	return fmt.Sprintf("%s IN (SUBQUERY #%d)", s.Arg, s.Result.ID())
}
