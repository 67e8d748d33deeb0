package expression

import (
	"fmt"
	"strings"

	"github.com/heavyql/qkernel/sql/types"
)

// InValues is the pre-lowering IN-list form: `arg IN
// (value_list...)`.
type InValues struct {
	Arg    Expr
	Values []Expr
}

func NewInValues(arg Expr, values []Expr) *InValues {
	return &InValues{Arg: arg, Values: values}
}

func (i *InValues) Type() types.Type { return types.NewBoolean(true) }
func (i *InValues) ContainsAgg() bool {
	if i.Arg.ContainsAgg() {
		return true
	}
	return ChildrenContainAgg(i.Values)
}
func (i *InValues) Children() []Expr {
	return append([]Expr{i.Arg}, i.Values...)
}
func (i *InValues) DeepCopy() Expr {
	values := make([]Expr, len(i.Values))
	for j, v := range i.Values {
		values[j] = v.DeepCopy()
	}
	return &InValues{Arg: i.Arg.DeepCopy(), Values: values}
}
func (i *InValues) WithChildren(children ...Expr) (Expr, error) {
	if len(children) != len(i.Values)+1 {
		return nil, errArity("InValues", len(i.Values)+1, len(children))
	}
	return &InValues{Arg: children[0], Values: children[1:]}, nil
}
func (i *InValues) String() string {
	parts := make([]string, len(i.Values))
	for j, v := range i.Values {
		parts[j] = v.String()
	}
	return fmt.Sprintf("%s IN (%s)", i.Arg, strings.Join(parts, ", "))
}

// InIntegerSet is the post-lowering form of InValues used once the code
// generator decides the list is large enough to warrant a bitmap probe
// instead of chained ORs. Values must be sorted
// ascending; Min/Max cache the range for the bitmap allocation.
type InIntegerSet struct {
	Arg    Expr
	Values []int64
	Min    int64
	Max    int64
}

// NewInIntegerSet builds an InIntegerSet from an already-deduplicated,
// sorted value slice.
func NewInIntegerSet(arg Expr, sortedValues []int64) *InIntegerSet {
	s := &InIntegerSet{Arg: arg, Values: sortedValues}
	if len(sortedValues) > 0 {
		s.Min, s.Max = sortedValues[0], sortedValues[len(sortedValues)-1]
	}
	return s
}

func (i *InIntegerSet) Type() types.Type     { return types.NewBoolean(true) }
func (i *InIntegerSet) ContainsAgg() bool    { return i.Arg.ContainsAgg() }
func (i *InIntegerSet) Children() []Expr     { return []Expr{i.Arg} }
func (i *InIntegerSet) DeepCopy() Expr {
	values := make([]int64, len(i.Values))
	copy(values, i.Values)
	return &InIntegerSet{Arg: i.Arg.DeepCopy(), Values: values, Min: i.Min, Max: i.Max}
}
func (i *InIntegerSet) WithChildren(children ...Expr) (Expr, error) {
	if len(children) != 1 {
		return nil, errArity("InIntegerSet", 1, len(children))
	}
	cp := *i
	cp.Arg = children[0]
	return &cp, nil
}
func (i *InIntegerSet) String() string {
	return fmt.Sprintf("%s IN <bitmap of %d values>", i.Arg, len(i.Values))
}
