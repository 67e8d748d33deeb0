package plan

import (
	"fmt"

	"github.com/heavyql/qkernel/sql/expression"
	"github.com/heavyql/qkernel/sql/types"
)

// JoinKind enumerates the supported join kinds.
type JoinKind int

const (
	JoinInner JoinKind = iota
	JoinLeft
	JoinSemi
	JoinAnti
)

func (k JoinKind) String() string {
	switch k {
	case JoinInner:
		return "inner"
	case JoinLeft:
		return "left"
	case JoinSemi:
		return "semi"
	case JoinAnti:
		return "anti"
	default:
		return fmt.Sprintf("JoinKind(%d)", int(k))
	}
}

// Join is a 2-in/1-out RA node. Its output schema is Left's
// columns followed by Right's, except for Semi/Anti joins which project
// only Left's columns (the right side is a probe-only existence check).
type Join struct {
	base
	Condition expression.Expr
	Kind      JoinKind
}

func NewJoin(id int, left, right Node, condition expression.Expr, kind JoinKind) *Join {
	return &Join{base: base{id: id, inputs: []Node{left, right}}, Condition: condition, Kind: kind}
}

func (j *Join) Left() Node  { return j.inputs[0] }
func (j *Join) Right() Node { return j.inputs[1] }

func (j *Join) Schema() Schema {
	left := j.Left().Schema()
	if j.Kind == JoinSemi || j.Kind == JoinAnti {
		out := make(Schema, len(left))
		copy(out, left)
		return out
	}
	right := j.Right().Schema()
	out := make(Schema, 0, len(left)+len(right))
	out = append(out, left...)
	out = append(out, right...)
	return out
}

func (j *Join) OutputType(col int) types.Type { return outputType(j, col) }

func (j *Join) WithChildren(children ...Node) (Node, error) {
	if len(children) != 2 {
		return nil, errArity("Join", 2, len(children))
	}
	return &Join{base: base{id: j.id, inputs: children}, Condition: j.Condition, Kind: j.Kind}, nil
}

// WithCondition returns a copy of j with Condition replaced, for filter
// hoisting into the join predicate.
func (j *Join) WithCondition(condition expression.Expr) *Join {
	return &Join{base: base{id: j.id, inputs: j.inputs}, Condition: condition, Kind: j.Kind}
}

func (j *Join) String() string { return fmt.Sprintf("Join(%s, %s)", j.Kind, j.Condition) }
