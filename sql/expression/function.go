package expression

import (
	"fmt"
	"strings"

	"github.com/heavyql/qkernel/sql/types"
)

// FunctionOper is a generic named scalar function call whose type-checking
// is data-driven.
type FunctionOper struct {
	typ  types.Type
	Name string
	Args []Expr
}

func NewFunctionOper(typ types.Type, name string, args []Expr) *FunctionOper {
	return &FunctionOper{typ: typ, Name: name, Args: args}
}

func (f *FunctionOper) Type() types.Type  { return f.typ }
func (f *FunctionOper) ContainsAgg() bool { return ChildrenContainAgg(f.Args) }
func (f *FunctionOper) Children() []Expr  { return f.Args }
func (f *FunctionOper) DeepCopy() Expr {
	return &FunctionOper{typ: f.typ, Name: f.Name, Args: deepCopyAll(f.Args)}
}
func (f *FunctionOper) WithChildren(children ...Expr) (Expr, error) {
	if len(children) != len(f.Args) {
		return nil, errArity("FunctionOper:"+f.Name, len(f.Args), len(children))
	}
	return &FunctionOper{typ: f.typ, Name: f.Name, Args: children}, nil
}
func (f *FunctionOper) String() string {
	parts := make([]string, len(f.Args))
	for i, a := range f.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", f.Name, strings.Join(parts, ", "))
}

// FunctionOperWithCustomTypeHandling is a named function whose result type
// is computed by a caller-supplied rule (e.g. width-dependent, like
// TRUNCATE or ROUND) rather than by a fixed signature table.
type FunctionOperWithCustomTypeHandling struct {
	FunctionOper
	TypeRule func(args []Expr) types.Type
}

func NewFunctionOperWithCustomTypeHandling(name string, args []Expr, rule func(args []Expr) types.Type) *FunctionOperWithCustomTypeHandling {
	return &FunctionOperWithCustomTypeHandling{
		FunctionOper: FunctionOper{typ: rule(args), Name: name, Args: args},
		TypeRule:     rule,
	}
}

func (f *FunctionOperWithCustomTypeHandling) WithChildren(children ...Expr) (Expr, error) {
	if len(children) != len(f.Args) {
		return nil, errArity("FunctionOperWithCustomTypeHandling:"+f.Name, len(f.Args), len(children))
	}
	return &FunctionOperWithCustomTypeHandling{
		FunctionOper: FunctionOper{typ: f.TypeRule(children), Name: f.Name, Args: children},
		TypeRule:     f.TypeRule,
	}, nil
}

// LikeExpr is a validated LIKE pattern match. Simple is true for the `%foo%` contains-shape that the code
// generator can lower to a plain substring search.
type LikeExpr struct {
	Arg     Expr
	Pattern string
	Escape  Expr
	Simple  bool
}

func (l *LikeExpr) Type() types.Type  { return types.NewBoolean(l.Arg.Type().Nullable()) }
func (l *LikeExpr) ContainsAgg() bool { return l.Arg.ContainsAgg() }
func (l *LikeExpr) Children() []Expr  { return []Expr{l.Arg} }
func (l *LikeExpr) DeepCopy() Expr {
	cp := *l
	cp.Arg = l.Arg.DeepCopy()
	return &cp
}
func (l *LikeExpr) WithChildren(children ...Expr) (Expr, error) {
	if len(children) != 1 {
		return nil, errArity("LikeExpr", 1, len(children))
	}
	cp := *l
	cp.Arg = children[0]
	return &cp, nil
}
func (l *LikeExpr) String() string { return fmt.Sprintf("%s LIKE %q", l.Arg, l.Pattern) }

// RegexpExpr is a validated regular-expression match. EngineName names
// the pluggable regex engine that should execute the match; resolving
// that name to a concrete matcher is a code generator concern, not this
// node's.
type RegexpExpr struct {
	Arg        Expr
	Pattern    string
	EngineName string
}

func (r *RegexpExpr) Type() types.Type  { return types.NewBoolean(r.Arg.Type().Nullable()) }
func (r *RegexpExpr) ContainsAgg() bool { return r.Arg.ContainsAgg() }
func (r *RegexpExpr) Children() []Expr  { return []Expr{r.Arg} }
func (r *RegexpExpr) DeepCopy() Expr {
	cp := *r
	cp.Arg = r.Arg.DeepCopy()
	return &cp
}
func (r *RegexpExpr) WithChildren(children ...Expr) (Expr, error) {
	if len(children) != 1 {
		return nil, errArity("RegexpExpr", 1, len(children))
	}
	cp := *r
	cp.Arg = children[0]
	return &cp, nil
}
func (r *RegexpExpr) String() string { return fmt.Sprintf("%s REGEXP %q", r.Arg, r.Pattern) }

// simpleUnary is the common shape of the single-argument text/array
// functions below; each gets its own named type (rather than one generic
// struct) so the code generator can type-switch on it.
type simpleUnary struct {
	typ types.Type
	Arg Expr
}

func (s *simpleUnary) Type() types.Type  { return s.typ }
func (s *simpleUnary) ContainsAgg() bool { return s.Arg.ContainsAgg() }
func (s *simpleUnary) Children() []Expr  { return []Expr{s.Arg} }

// CharLengthExpr returns the character length of a text argument.
type CharLengthExpr struct{ simpleUnary }

func NewCharLengthExpr(arg Expr) *CharLengthExpr {
	return &CharLengthExpr{simpleUnary{typ: types.NewInteger(4, arg.Type().Nullable()), Arg: arg}}
}
func (c *CharLengthExpr) DeepCopy() Expr { return &CharLengthExpr{simpleUnary{c.typ, c.Arg.DeepCopy()}} }
func (c *CharLengthExpr) WithChildren(children ...Expr) (Expr, error) {
	if len(children) != 1 {
		return nil, errArity("CharLengthExpr", 1, len(children))
	}
	return &CharLengthExpr{simpleUnary{c.typ, children[0]}}, nil
}
func (c *CharLengthExpr) String() string { return fmt.Sprintf("CHAR_LENGTH(%s)", c.Arg) }

// KeyForStringExpr resolves a string literal to its dictionary-encoded id
// ahead of time, used to turn `dict_col = 'literal'` into an integer
// comparison.
type KeyForStringExpr struct{ simpleUnary }

func NewKeyForStringExpr(arg Expr, dictType types.Type) *KeyForStringExpr {
	return &KeyForStringExpr{simpleUnary{typ: dictType, Arg: arg}}
}
func (k *KeyForStringExpr) DeepCopy() Expr { return &KeyForStringExpr{simpleUnary{k.typ, k.Arg.DeepCopy()}} }
func (k *KeyForStringExpr) WithChildren(children ...Expr) (Expr, error) {
	if len(children) != 1 {
		return nil, errArity("KeyForStringExpr", 1, len(children))
	}
	return &KeyForStringExpr{simpleUnary{k.typ, children[0]}}, nil
}
func (k *KeyForStringExpr) String() string { return fmt.Sprintf("KEY_FOR_STRING(%s)", k.Arg) }

// LowerExpr lower-cases a text argument.
type LowerExpr struct{ simpleUnary }

func NewLowerExpr(arg Expr) *LowerExpr {
	return &LowerExpr{simpleUnary{typ: arg.Type(), Arg: arg}}
}
func (l *LowerExpr) DeepCopy() Expr { return &LowerExpr{simpleUnary{l.typ, l.Arg.DeepCopy()}} }
func (l *LowerExpr) WithChildren(children ...Expr) (Expr, error) {
	if len(children) != 1 {
		return nil, errArity("LowerExpr", 1, len(children))
	}
	return &LowerExpr{simpleUnary{l.typ, children[0]}}, nil
}
func (l *LowerExpr) String() string { return fmt.Sprintf("LOWER(%s)", l.Arg) }

// CardinalityExpr returns the element count of an array argument.
type CardinalityExpr struct{ simpleUnary }

func NewCardinalityExpr(arg Expr) *CardinalityExpr {
	return &CardinalityExpr{simpleUnary{typ: types.NewInteger(4, true), Arg: arg}}
}
func (c *CardinalityExpr) DeepCopy() Expr { return &CardinalityExpr{simpleUnary{c.typ, c.Arg.DeepCopy()}} }
func (c *CardinalityExpr) WithChildren(children ...Expr) (Expr, error) {
	if len(children) != 1 {
		return nil, errArity("CardinalityExpr", 1, len(children))
	}
	return &CardinalityExpr{simpleUnary{c.typ, children[0]}}, nil
}
func (c *CardinalityExpr) String() string { return fmt.Sprintf("CARDINALITY(%s)", c.Arg) }

// WidthBucketExpr computes the bucket index of Target within
// [Lower, Upper] split into PartitionCount equal-width buckets.
type WidthBucketExpr struct {
	Target         Expr
	Lower, Upper   Expr
	PartitionCount Expr
}

func NewWidthBucketExpr(target, lower, upper, partitionCount Expr) *WidthBucketExpr {
	return &WidthBucketExpr{Target: target, Lower: lower, Upper: upper, PartitionCount: partitionCount}
}
func (w *WidthBucketExpr) Type() types.Type { return types.NewInteger(4, true) }
func (w *WidthBucketExpr) ContainsAgg() bool {
	return ChildrenContainAgg(w.Children())
}
func (w *WidthBucketExpr) Children() []Expr {
	return []Expr{w.Target, w.Lower, w.Upper, w.PartitionCount}
}
func (w *WidthBucketExpr) DeepCopy() Expr {
	return &WidthBucketExpr{w.Target.DeepCopy(), w.Lower.DeepCopy(), w.Upper.DeepCopy(), w.PartitionCount.DeepCopy()}
}
func (w *WidthBucketExpr) WithChildren(children ...Expr) (Expr, error) {
	if len(children) != 4 {
		return nil, errArity("WidthBucketExpr", 4, len(children))
	}
	return &WidthBucketExpr{children[0], children[1], children[2], children[3]}, nil
}
func (w *WidthBucketExpr) String() string {
	return fmt.Sprintf("WIDTH_BUCKET(%s, %s, %s, %s)", w.Target, w.Lower, w.Upper, w.PartitionCount)
}

// ArrayExpr constructs an array literal from its element expressions.
type ArrayExpr struct {
	typ      types.Type
	Elements []Expr
}

func NewArrayExpr(typ types.Type, elements []Expr) *ArrayExpr {
	return &ArrayExpr{typ: typ, Elements: elements}
}
func (a *ArrayExpr) Type() types.Type  { return a.typ }
func (a *ArrayExpr) ContainsAgg() bool { return ChildrenContainAgg(a.Elements) }
func (a *ArrayExpr) Children() []Expr  { return a.Elements }
func (a *ArrayExpr) DeepCopy() Expr    { return &ArrayExpr{typ: a.typ, Elements: deepCopyAll(a.Elements)} }
func (a *ArrayExpr) WithChildren(children ...Expr) (Expr, error) {
	if len(children) != len(a.Elements) {
		return nil, errArity("ArrayExpr", len(a.Elements), len(children))
	}
	return &ArrayExpr{typ: a.typ, Elements: children}, nil
}
func (a *ArrayExpr) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.String()
	}
	return fmt.Sprintf("ARRAY[%s]", strings.Join(parts, ", "))
}

// SampleRatioExpr and LikelihoodExpr are planner hints: they carry a
// probability used by the optimizer/sampler but evaluate as a pure
// passthrough of Arg at execution time.
type SampleRatioExpr struct {
	simpleUnary
	Ratio float64
}

func NewSampleRatioExpr(arg Expr, ratio float64) *SampleRatioExpr {
	return &SampleRatioExpr{simpleUnary{typ: arg.Type(), Arg: arg}, ratio}
}
func (s *SampleRatioExpr) DeepCopy() Expr {
	return &SampleRatioExpr{simpleUnary{s.typ, s.Arg.DeepCopy()}, s.Ratio}
}
func (s *SampleRatioExpr) WithChildren(children ...Expr) (Expr, error) {
	if len(children) != 1 {
		return nil, errArity("SampleRatioExpr", 1, len(children))
	}
	return &SampleRatioExpr{simpleUnary{s.typ, children[0]}, s.Ratio}, nil
}
func (s *SampleRatioExpr) String() string { return fmt.Sprintf("SAMPLE_RATIO(%s, %v)", s.Arg, s.Ratio) }

type LikelihoodExpr struct {
	simpleUnary
	Probability float64
}

func NewLikelihoodExpr(arg Expr, probability float64) *LikelihoodExpr {
	return &LikelihoodExpr{simpleUnary{typ: arg.Type(), Arg: arg}, probability}
}
func (l *LikelihoodExpr) DeepCopy() Expr {
	return &LikelihoodExpr{simpleUnary{l.typ, l.Arg.DeepCopy()}, l.Probability}
}
func (l *LikelihoodExpr) WithChildren(children ...Expr) (Expr, error) {
	if len(children) != 1 {
		return nil, errArity("LikelihoodExpr", 1, len(children))
	}
	return &LikelihoodExpr{simpleUnary{l.typ, children[0]}, l.Probability}, nil
}
func (l *LikelihoodExpr) String() string { return fmt.Sprintf("LIKELIHOOD(%s, %v)", l.Arg, l.Probability) }

// OffsetInFragment returns the current row's ordinal position within its
// fragment; a pure row-id read with no operands.
type OffsetInFragment struct{}

func (OffsetInFragment) Type() types.Type          { return types.NewInteger(8, false) }
func (OffsetInFragment) ContainsAgg() bool         { return false }
func (OffsetInFragment) Children() []Expr          { return nil }
func (o OffsetInFragment) DeepCopy() Expr          { return o }
func (o OffsetInFragment) WithChildren(c ...Expr) (Expr, error) {
	if len(c) != 0 {
		return nil, errArity("OffsetInFragment", 0, len(c))
	}
	return o, nil
}
func (OffsetInFragment) String() string { return "OFFSET_IN_FRAGMENT()" }
